package circuit

import (
	"iter"
	"math"
	"math/cmplx"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

var (
	ErrNotOneBody = errors.New("operation does not conserve particle number as a one-body rotation")
)

// OneBody returns the single-particle matrix implemented by a number conserving sequence of operations.
// Mode i is the mode stored in qubits[i], and entry (i, j) is the amplitude of mode i in the image of mode j.
// Only ZPhase, Ryxxy, Rxxyy, FSwap and Swap are one-body rotations; any other gate is an ErrNotOneBody error.
func OneBody(qubits []Qubit, seq iter.Seq[Op]) (*tensor.Dense, error) {
	n := len(qubits)
	index := make(map[Qubit]int, n)
	for i, q := range qubits {
		index[q] = i
	}

	m := identity(tensor.Zeros(n, n), n)
	buf := tensor.Zeros(1)
	for op := range seq {
		g, err := embed(index, n, op)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		// m = g @ m.
		tensor.Contract(buf, g, m, [][2]int{{1, 0}})
		m, buf = buf, m
	}
	return m, nil
}

// embed returns the n by n single-particle matrix of op.
func embed(index map[Qubit]int, n int, op Op) (*tensor.Dense, error) {
	modes := make([]int, 0, len(op.Qubits))
	for _, q := range op.Qubits {
		i, ok := index[q]
		if !ok {
			return nil, errors.Errorf("%s: qubit %s not in %d qubits", op, q, n)
		}
		modes = append(modes, i)
	}

	g := identity(tensor.Zeros(n, n), n)
	switch op.Gate {
	case GateZPhase:
		p := modes[0]
		g.SetAt([]int{p, p}, complex64(cmplx.Exp(complex(0, op.Angle))))
		return g, nil
	}

	var block [2][2]complex128
	c, s := math.Cos(op.Angle), math.Sin(op.Angle)
	switch op.Gate {
	case GateRyxxy:
		// Mode j rotates into mode i.
		block = [2][2]complex128{{complex(c, 0), complex(s, 0)}, {complex(-s, 0), complex(c, 0)}}
	case GateRxxyy:
		block = [2][2]complex128{{complex(c, 0), complex(0, -s)}, {complex(0, -s), complex(c, 0)}}
	case GateFSwap, GateSwap:
		block = [2][2]complex128{{0, 1}, {1, 0}}
	default:
		return nil, errors.Wrap(ErrNotOneBody, op.String())
	}
	i, j := modes[0], modes[1]
	g.SetAt([]int{i, i}, complex64(block[0][0]))
	g.SetAt([]int{i, j}, complex64(block[0][1]))
	g.SetAt([]int{j, i}, complex64(block[1][0]))
	g.SetAt([]int{j, j}, complex64(block[1][1]))
	return g, nil
}

func identity(t *tensor.Dense, n int) *tensor.Dense {
	for i := range n {
		t.SetAt([]int{i, i}, 1)
	}
	return t
}
