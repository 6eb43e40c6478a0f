package trotter_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/pkg/errors"

	"github.com/fumin/qfermion"
	"github.com/fumin/qfermion/circuit"
	"github.com/fumin/qfermion/trotter"
)

func TestSimulate(t *testing.T) {
	t.Parallel()
	const n = 4
	const time = 1.3
	const control = circuit.Qubit(50)
	// Number of operations of one step on n qubits.
	pairs := n * (n - 1) / 2
	asymmetric := 4*pairs + n
	symmetric := 2*4*pairs + n
	tests := []struct {
		opt     trotter.SimulateOptions
		numOps  int
		reverse bool
	}{
		{opt: trotter.NewSimulateOptions(), numOps: asymmetric + pairs},
		{opt: trotter.NewSimulateOptions().Steps(2), numOps: 2 * asymmetric},
		{opt: trotter.NewSimulateOptions().Steps(3), numOps: 3*asymmetric + pairs},
		{opt: trotter.NewSimulateOptions().Steps(3).OmitFinalSwaps(true), numOps: 3 * asymmetric, reverse: true},
		{opt: trotter.NewSimulateOptions().Steps(2).Order(1), numOps: 2 * symmetric},
		{opt: trotter.NewSimulateOptions().Order(2), numOps: 5 * symmetric},
		{opt: trotter.NewSimulateOptions().Steps(2).Order(3), numOps: 2 * 25 * symmetric},
		{opt: trotter.NewSimulateOptions().Control(control), numOps: asymmetric + 1 + pairs},
		{opt: trotter.NewSimulateOptions().Steps(3).Order(2).Control(control), numOps: 3 * 5 * (symmetric + 1)},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			h, err := qfermion.RandomDiagonalCoulomb(n, rand.New(rand.NewPCG(5, 6)), false)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			qubits := circuit.LineQubits(n)
			seq, err := trotter.Simulate(qubits, h, time, test.opt)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			ops := circuit.Collect(seq)
			if len(ops) != test.numOps {
				t.Fatalf("%d, expected %d", len(ops), test.numOps)
			}

			// The potential angles of all steps add up to the full time.
			var potential, constant float64
			var trace float64
			for p := range n {
				trace += real(h.OneBody(p, p))
			}
			mode := make(map[circuit.Qubit]int)
			for i, q := range qubits {
				mode[q] = i
			}
			for _, op := range ops {
				switch op.Gate {
				case circuit.GateRz:
					if op.Qubits[0] == control {
						constant += op.Angle
						continue
					}
					potential += op.Angle
				case circuit.GateCZPhase:
					potential += op.Angle
				case circuit.GateFSwap:
					a, b := op.Qubits[0], op.Qubits[1]
					mode[a], mode[b] = mode[b], mode[a]
				}
			}
			if math.Abs(potential+trace*time) > 1e-9 {
				t.Fatalf("%f, expected %f", potential, -trace*time)
			}
			if math.Abs(constant+h.Constant()*time) > 1e-9 && constant != 0 {
				t.Fatalf("%f, expected %f", constant, -h.Constant()*time)
			}

			expected := qubits
			if test.reverse {
				expected = circuit.Reversed(qubits)
			}
			for i, q := range expected {
				if mode[q] != i {
					t.Fatalf("%v, expected mode %d at %s", mode, i, q)
				}
			}
		})
	}
}

func TestSimulateErrors(t *testing.T) {
	t.Parallel()
	h, err := qfermion.HubbardChain(2, 1, 4, 0, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	tests := []struct {
		qubits int
		opt    trotter.SimulateOptions
		err    error
	}{
		{qubits: 4, opt: trotter.NewSimulateOptions().Steps(0), err: trotter.ErrInvalidOptions},
		{qubits: 4, opt: trotter.NewSimulateOptions().Order(-1), err: trotter.ErrInvalidOptions},
		{qubits: 4, opt: trotter.NewSimulateOptions().Algorithm(nil), err: trotter.ErrInvalidOptions},
		{qubits: 3, opt: trotter.NewSimulateOptions().Order(2), err: trotter.ErrNumQubits},
		{qubits: 4, opt: trotter.NewSimulateOptions().Algorithm(uncontrolled{}), err: trotter.ErrMissingControl},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			_, err := trotter.Simulate(circuit.LineQubits(test.qubits), h, 1, test.opt)
			if !errors.Is(err, test.err) {
				t.Fatalf("%+v, expected %v", err, test.err)
			}
		})
	}
}

// uncontrolled builds controlled steps even when no control is given.
type uncontrolled struct {
	trotter.LinearSwapNetwork
}

func (uncontrolled) Asymmetric(h trotter.Hamiltonian) trotter.Step {
	return trotter.ControlledAsymmetric{Hamiltonian: h}
}

func TestSimulateLazy(t *testing.T) {
	t.Parallel()
	h, err := qfermion.HubbardChain(3, 1, 4, 0.5, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	seq, err := trotter.Simulate(circuit.LineQubits(6), h, 1, trotter.NewSimulateOptions().Steps(100).Order(1))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	first := make([]circuit.Op, 0)
	for op := range seq {
		first = append(first, op)
		if len(first) == 3 {
			break
		}
	}
	again := circuit.Collect(seq)
	for i, op := range first {
		if op.Gate != again[i].Gate || !slices.Equal(op.Qubits, again[i].Qubits) {
			t.Fatalf("%d %v, expected %v", i, op, again[i])
		}
	}
}

func ExampleSimulate() {
	h, err := qfermion.HubbardChain(1, 1, 4, 0.5, false)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	seq, err := trotter.Simulate(circuit.LineQubits(2), h, 1)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	for op := range seq {
		fmt.Println(op)
	}
	// Output:
	// rxxyy(0) q[0],q[1]
	// ryxxy(0) q[0],q[1]
	// rot11(-4) q[0],q[1]
	// fswap q[0],q[1]
	// rz(0.5) q[1]
	// rz(0.5) q[0]
	// fswap q[1],q[0]
}
