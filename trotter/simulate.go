package trotter

import (
	"iter"
	"math"

	"github.com/pkg/errors"

	"github.com/fumin/qfermion/circuit"
)

// SimulateOptions are options of Simulate.
type SimulateOptions struct {
	steps          int
	order          int
	control        circuit.Qubit
	omitFinalSwaps bool
	algorithm      Algorithm
}

// NewSimulateOptions returns the default options, a single first order step of the linear swap network without control.
func NewSimulateOptions() SimulateOptions {
	opt := SimulateOptions{}
	opt.steps = 1
	opt.order = 0
	opt.control = circuit.NoQubit
	opt.algorithm = LinearSwapNetwork{}
	return opt
}

// Steps sets the number of Trotter steps.
func (opt SimulateOptions) Steps(n int) SimulateOptions {
	opt.steps = n
	return opt
}

// Order sets the order of the Trotter-Suzuki formula.
// Order 0 uses asymmetric steps, and higher orders use symmetric ones.
func (opt SimulateOptions) Order(k int) SimulateOptions {
	opt.order = k
	return opt
}

// Control sets the qubit on which the whole evolution is controlled.
func (opt SimulateOptions) Control(q circuit.Qubit) SimulateOptions {
	opt.control = q
	return opt
}

// OmitFinalSwaps sets whether to leave the qubits in the order after the last step.
func (opt SimulateOptions) OmitFinalSwaps(b bool) SimulateOptions {
	opt.omitFinalSwaps = b
	return opt
}

// Algorithm sets the algorithm that builds the steps.
func (opt SimulateOptions) Algorithm(a Algorithm) SimulateOptions {
	opt.algorithm = a
	return opt
}

// Simulate returns the operations approximating exp(-i h time) on qubits, in which mode i is stored in qubits[i].
// The evolution is split into equal steps, and a step of order k >= 2 is built recursively from five steps of order k-1
// following Suzuki, General theory of fractal path integrals with applications to many-body theories and statistical physics,
// J. Math. Phys. 32, 400 (1991).
func Simulate(qubits []circuit.Qubit, h Hamiltonian, time float64, options ...SimulateOptions) (iter.Seq[circuit.Op], error) {
	opt := NewSimulateOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	if opt.steps < 1 {
		return nil, errors.Wrapf(ErrInvalidOptions, "%d steps", opt.steps)
	}
	if opt.order < 0 {
		return nil, errors.Wrapf(ErrInvalidOptions, "order %d", opt.order)
	}
	if opt.algorithm == nil {
		return nil, errors.Wrapf(ErrInvalidOptions, "no algorithm")
	}

	s := &simulation{step: selectStep(opt, h)}
	stepTime := time / float64(opt.steps)
	control := opt.control
	for range opt.steps {
		var err error
		qubits, control, err = s.perform(qubits, stepTime, opt.order, control)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
	}
	s.seqs = append(s.seqs, s.step.Finish(qubits, opt.steps, control, opt.omitFinalSwaps))

	return circuit.Concat(s.seqs...), nil
}

func selectStep(opt SimulateOptions, h Hamiltonian) Step {
	controlled := opt.control != circuit.NoQubit
	switch {
	case opt.order == 0 && controlled:
		return opt.algorithm.ControlledAsymmetric(h)
	case opt.order == 0:
		return opt.algorithm.Asymmetric(h)
	case controlled:
		return opt.algorithm.ControlledSymmetric(h)
	default:
		return opt.algorithm.Symmetric(h)
	}
}

type simulation struct {
	step Step
	seqs []iter.Seq[circuit.Op]
}

// perform appends a step of the given order, and returns where the modes and the control are afterwards.
func (s *simulation) perform(qubits []circuit.Qubit, time float64, order int, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit, error) {
	if order <= 1 {
		seq, err := s.step.Step(qubits, time, control)
		if err != nil {
			return nil, circuit.NoQubit, errors.Wrap(err, "")
		}
		s.seqs = append(s.seqs, seq)
		qubits, control = s.step.QubitPermutation(qubits, control)
		return qubits, control, nil
	}

	split := time / (4 - math.Pow(4, 1/float64(2*order-1)))
	for _, t := range [...]float64{split, split, time - 4*split, split, split} {
		var err error
		qubits, control, err = s.perform(qubits, t, order-1, control)
		if err != nil {
			return nil, circuit.NoQubit, errors.Wrap(err, "")
		}
	}
	return qubits, control, nil
}
