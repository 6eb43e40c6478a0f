package swapnetwork

import (
	"bytes"
	"flag"
	"fmt"
	"iter"
	"log"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/fumin/qfermion/circuit"
)

func TestPairs(t *testing.T) {
	t.Parallel()
	for n := 1; n <= 9; n++ {
		for _, offset := range []bool{false, true} {
			t.Run(fmt.Sprintf("%d_%t", n, offset), func(t *testing.T) {
				t.Parallel()
				order := make([]int, n)
				for i := range order {
					order[i] = i
				}
				visited := make(map[[2]int]bool)
				for _, pair := range Pairs(n, offset) {
					if order[pair.Position] != pair.P || order[pair.Position+1] != pair.Q {
						t.Fatalf("%#v, order %v", pair, order)
					}
					key := [2]int{min(pair.P, pair.Q), max(pair.P, pair.Q)}
					if visited[key] {
						t.Fatalf("%v visited twice", key)
					}
					visited[key] = true
					order[pair.Position], order[pair.Position+1] = order[pair.Position+1], order[pair.Position]
				}
				if len(visited) != n*(n-1)/2 {
					t.Fatalf("%d, expected %d", len(visited), n*(n-1)/2)
				}

				reversed := slices.Clone(order)
				slices.Sort(reversed)
				slices.Reverse(reversed)
				if !slices.Equal(order, reversed) {
					t.Fatalf("%v, expected reversed", order)
				}
			})
		}
	}
}

func TestSwapNetwork(t *testing.T) {
	t.Parallel()
	qubits := []circuit.Qubit{10, 11, 12, 13, 14}
	interaction := func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op] {
		return circuit.Ops(circuit.Rot11(float64(10*p+q)).On(a, b))
	}
	for _, fermionic := range []bool{false, true} {
		t.Run(fmt.Sprintf("%t", fermionic), func(t *testing.T) {
			t.Parallel()
			ops := circuit.Collect(SwapNetwork(qubits, interaction, NewOptions().Fermionic(fermionic).Offset(true)))
			pairs := Pairs(len(qubits), true)
			if len(ops) != 2*len(pairs) {
				t.Fatalf("%d, expected %d", len(ops), 2*len(pairs))
			}

			swap := circuit.GateSwap
			if fermionic {
				swap = circuit.GateFSwap
			}
			for k, pair := range pairs {
				a, b := qubits[pair.Position], qubits[pair.Position+1]
				op := ops[2*k]
				if op.Gate != circuit.GateRot11 || op.Angle != float64(10*pair.P+pair.Q) || !slices.Equal(op.Qubits, []circuit.Qubit{a, b}) {
					t.Fatalf("%d %v, expected interaction of %#v", k, op, pair)
				}
				op = ops[2*k+1]
				if op.Gate != swap || !slices.Equal(op.Qubits, []circuit.Qubit{a, b}) {
					t.Fatalf("%d %v, expected %s", k, op, swap)
				}
				if b-a != 1 {
					t.Fatalf("%s %s not adjacent", a, b)
				}
			}
		})
	}
}

func TestSwapNetworkGolden(t *testing.T) {
	t.Parallel()
	interaction := func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op] {
		return circuit.Ops(circuit.Rot11(float64(10*p+q)).On(a, b))
	}
	tests := []struct {
		name        string
		n           int
		interaction Interaction
		opt         Options
	}{
		{name: "fswap_3", n: 3, opt: NewOptions().Fermionic(true)},
		{name: "interaction_3", n: 3, interaction: interaction, opt: NewOptions().Fermionic(true)},
		{name: "swap_offset_4", n: 4, opt: NewOptions().Offset(true)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			qubits := circuit.LineQubits(test.n)
			var b bytes.Buffer
			if err := circuit.WriteQASM(&b, qubits, SwapNetwork(qubits, test.interaction, test.opt)); err != nil {
				t.Fatalf("%+v", err)
			}

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, test.name, b.Bytes())
		})
	}
}

func TestSwapNetworkStop(t *testing.T) {
	t.Parallel()
	seq := SwapNetwork(circuit.LineQubits(6), nil)
	var count int
	for range seq {
		count++
		if count == 4 {
			break
		}
	}
	if count != 4 {
		t.Fatalf("%d", count)
	}
	if stats := circuit.GetStatistics(seq); stats.Counts[circuit.GateSwap] != 15 || stats.Depth != 6 {
		t.Fatalf("%#v", stats)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
