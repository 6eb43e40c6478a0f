// Package swapnetwork implements the linear swap network, which brings every pair of modes on a line of qubits next to each other once.
//
// Reference: Quantum Simulation of Electronic Structure with Linear Depth and Connectivity, Kivlichan et al., Phys. Rev. Lett. 120, 110501 (2018)
package swapnetwork

import (
	"iter"
	"slices"

	"github.com/fumin/qfermion/circuit"
)

// Interaction returns the operations applied to the logical modes p and q while they sit on the adjacent qubits a and b.
type Interaction func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op]

// Options are options of the swap network.
type Options struct {
	fermionic bool
	offset    bool
}

// NewOptions returns the default options, a network of plain swaps starting from the first pair.
func NewOptions() Options {
	return Options{}
}

// Fermionic sets whether the swaps are fermionic swaps.
func (opt Options) Fermionic(b bool) Options {
	opt.fermionic = b
	return opt
}

// Offset sets whether the first layer starts from the second pair.
func (opt Options) Offset(b bool) Options {
	opt.offset = b
	return opt
}

// Pair is a swap of the logical modes P and Q, sitting at positions Position and Position+1.
type Pair struct {
	P, Q     int
	Position int
}

// Pairs returns the swaps of a network on n qubits in order.
func Pairs(n int, offset bool) []Pair {
	return slices.Collect(pairs(n, offset))
}

func pairs(n int, offset bool) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}

		start := 0
		if offset {
			start = 1
		}
		for layer := range n {
			for i := (layer + start) % 2; i < n-1; i += 2 {
				if !yield(Pair{P: order[i], Q: order[i+1], Position: i}) {
					return
				}
				order[i], order[i+1] = order[i+1], order[i]
			}
		}
	}
}

// SwapNetwork returns the operations of n layers of swaps on the line of qubits.
// In every layer, adjacent pairs of alternating parity are swapped, and before each swap the interaction of the two modes is applied.
// Every pair of modes is swapped exactly once, after which the order of the modes is reversed.
// interaction may be nil.
func SwapNetwork(qubits []circuit.Qubit, interaction Interaction, options ...Options) iter.Seq[circuit.Op] {
	opt := NewOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	swap := circuit.SWAP
	if opt.fermionic {
		swap = circuit.FSWAP
	}

	return func(yield func(circuit.Op) bool) {
		for pair := range pairs(len(qubits), opt.offset) {
			a, b := qubits[pair.Position], qubits[pair.Position+1]
			if interaction != nil {
				for op := range interaction(pair.P, pair.Q, a, b) {
					if !yield(op) {
						return
					}
				}
			}
			if !yield(swap.On(a, b)) {
				return
			}
		}
	}
}
