package trotter

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/fumin/qfermion/circuit"
	"github.com/fumin/qfermion/swapnetwork"
)

// LinearSwapNetwork simulates the one and two body terms together in layers of fermionic swap networks.
// It needs only linear connectivity, and a step on N qubits has depth O(N).
type LinearSwapNetwork struct{}

func (LinearSwapNetwork) Symmetric(h Hamiltonian) Step { return Symmetric{Hamiltonian: h} }

func (LinearSwapNetwork) Asymmetric(h Hamiltonian) Step { return Asymmetric{Hamiltonian: h} }

func (LinearSwapNetwork) ControlledSymmetric(h Hamiltonian) Step {
	return ControlledSymmetric{Hamiltonian: h}
}

func (LinearSwapNetwork) ControlledAsymmetric(h Hamiltonian) Step {
	return ControlledAsymmetric{Hamiltonian: h}
}

// Symmetric is a second order step made of two half-time swap networks, the second being the mirror image of the first.
// The second network undoes the reversal of the first, so the qubit order is unchanged by a step.
type Symmetric struct {
	Hamiltonian Hamiltonian
}

func (s Symmetric) Step(qubits []circuit.Qubit, time float64, control circuit.Qubit) (iter.Seq[circuit.Op], error) {
	if err := checkQubits(s.Hamiltonian, qubits); err != nil {
		return nil, errors.Wrap(err, "")
	}
	forward, backward := halfTimeInteractions(s.Hamiltonian, time, circuit.NoQubit)
	return symmetricStep(s.Hamiltonian, qubits, time, circuit.NoQubit, forward, backward), nil
}

func (s Symmetric) QubitPermutation(qubits []circuit.Qubit, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit) {
	return qubits, control
}

func (s Symmetric) Finish(qubits []circuit.Qubit, nSteps int, control circuit.Qubit, omitFinalSwaps bool) iter.Seq[circuit.Op] {
	return circuit.Empty()
}

// ControlledSymmetric is Symmetric with every rotation controlled on a qubit.
// It also applies the phase of the constant term to the control.
type ControlledSymmetric struct {
	Hamiltonian Hamiltonian
}

func (s ControlledSymmetric) Step(qubits []circuit.Qubit, time float64, control circuit.Qubit) (iter.Seq[circuit.Op], error) {
	if control == circuit.NoQubit {
		return nil, errors.Wrap(ErrMissingControl, "")
	}
	if err := checkQubits(s.Hamiltonian, qubits); err != nil {
		return nil, errors.Wrap(err, "")
	}
	forward, backward := halfTimeInteractions(s.Hamiltonian, time, control)
	seq := circuit.Concat(
		symmetricStep(s.Hamiltonian, qubits, time, control, forward, backward),
		constantPhase(s.Hamiltonian, time, control),
	)
	return seq, nil
}

func (s ControlledSymmetric) QubitPermutation(qubits []circuit.Qubit, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit) {
	return qubits, control
}

func (s ControlledSymmetric) Finish(qubits []circuit.Qubit, nSteps int, control circuit.Qubit, omitFinalSwaps bool) iter.Seq[circuit.Op] {
	return circuit.Empty()
}

// Asymmetric is a first order step made of one full-time swap network.
// It reverses the qubit order.
type Asymmetric struct {
	Hamiltonian Hamiltonian
}

func (s Asymmetric) Step(qubits []circuit.Qubit, time float64, control circuit.Qubit) (iter.Seq[circuit.Op], error) {
	if err := checkQubits(s.Hamiltonian, qubits); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return asymmetricStep(s.Hamiltonian, qubits, time, circuit.NoQubit), nil
}

// QubitPermutation reverses qubits.
// The control is not carried, and circuit.NoQubit is returned in its place.
func (s Asymmetric) QubitPermutation(qubits []circuit.Qubit, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit) {
	return circuit.Reversed(qubits), circuit.NoQubit
}

// Finish returns a swap network if the qubits are reversed after an odd number of steps, unless omitFinalSwaps is set.
func (s Asymmetric) Finish(qubits []circuit.Qubit, nSteps int, control circuit.Qubit, omitFinalSwaps bool) iter.Seq[circuit.Op] {
	return finishReversal(qubits, nSteps, omitFinalSwaps)
}

// ControlledAsymmetric is Asymmetric with every rotation controlled on a qubit.
// It also applies the phase of the constant term to the control.
type ControlledAsymmetric struct {
	Hamiltonian Hamiltonian
}

func (s ControlledAsymmetric) Step(qubits []circuit.Qubit, time float64, control circuit.Qubit) (iter.Seq[circuit.Op], error) {
	if control == circuit.NoQubit {
		return nil, errors.Wrap(ErrMissingControl, "")
	}
	if err := checkQubits(s.Hamiltonian, qubits); err != nil {
		return nil, errors.Wrap(err, "")
	}
	seq := circuit.Concat(
		asymmetricStep(s.Hamiltonian, qubits, time, control),
		constantPhase(s.Hamiltonian, time, control),
	)
	return seq, nil
}

// QubitPermutation reverses qubits and keeps the control.
func (s ControlledAsymmetric) QubitPermutation(qubits []circuit.Qubit, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit) {
	return circuit.Reversed(qubits), control
}

func (s ControlledAsymmetric) Finish(qubits []circuit.Qubit, nSteps int, control circuit.Qubit, omitFinalSwaps bool) iter.Seq[circuit.Op] {
	return finishReversal(qubits, nSteps, omitFinalSwaps)
}

// halfTimeInteractions returns the pair interactions of the two networks of a symmetric step.
// The backward interaction applies the rotations of the forward one in reverse.
func halfTimeInteractions(h Hamiltonian, time float64, control circuit.Qubit) (forward, backward swapnetwork.Interaction) {
	rotations := func(p, q int) [3]circuit.Rotation {
		v := h.OneBody(p, q)
		return [3]circuit.Rotation{
			xxyy(0.5*real(v)*time, control),
			yxxy(0.5*imag(v)*time, control),
			numberNumber(-h.TwoBody(p, q)*time, control),
		}
	}
	forward = func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op] {
		r := rotations(p, q)
		return circuit.Ops(on(r[0], control, a, b), on(r[1], control, a, b), on(r[2], control, a, b))
	}
	backward = func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op] {
		r := rotations(p, q)
		return circuit.Ops(on(r[2], control, a, b), on(r[1], control, a, b), on(r[0], control, a, b))
	}
	return forward, backward
}

func symmetricStep(h Hamiltonian, qubits []circuit.Qubit, time float64, control circuit.Qubit, forward, backward swapnetwork.Interaction) iter.Seq[circuit.Op] {
	reversed := circuit.Reversed(qubits)
	return circuit.Concat(
		swapnetwork.SwapNetwork(qubits, forward, swapnetwork.NewOptions().Fermionic(true)),
		potential(h, reversed, time, control),
		swapnetwork.SwapNetwork(reversed, backward, swapnetwork.NewOptions().Fermionic(true).Offset(true)),
	)
}

func asymmetricStep(h Hamiltonian, qubits []circuit.Qubit, time float64, control circuit.Qubit) iter.Seq[circuit.Op] {
	interaction := func(p, q int, a, b circuit.Qubit) iter.Seq[circuit.Op] {
		v := h.OneBody(p, q)
		return circuit.Ops(
			on(xxyy(real(v)*time, control), control, a, b),
			on(yxxy(imag(v)*time, control), control, a, b),
			on(numberNumber(-2*h.TwoBody(p, q)*time, control), control, a, b),
		)
	}
	return circuit.Concat(
		swapnetwork.SwapNetwork(qubits, interaction, swapnetwork.NewOptions().Fermionic(true)),
		potential(h, circuit.Reversed(qubits), time, control),
	)
}

// potential applies the one-body diagonal, in which mode i is stored in qubits[i].
func potential(h Hamiltonian, qubits []circuit.Qubit, time float64, control circuit.Qubit) iter.Seq[circuit.Op] {
	return func(yield func(circuit.Op) bool) {
		for i, q := range qubits {
			rads := -real(h.OneBody(i, i)) * time
			var op circuit.Op
			if control == circuit.NoQubit {
				op = circuit.Rz(rads).On(q)
			} else {
				op = circuit.CZPhase(rads).On(control, q)
			}
			if !yield(op) {
				return
			}
		}
	}
}

func constantPhase(h Hamiltonian, time float64, control circuit.Qubit) iter.Seq[circuit.Op] {
	return circuit.Ops(circuit.Rz(-h.Constant() * time).On(control))
}

func finishReversal(qubits []circuit.Qubit, nSteps int, omitFinalSwaps bool) iter.Seq[circuit.Op] {
	if nSteps%2 == 0 || omitFinalSwaps {
		return circuit.Empty()
	}
	return swapnetwork.SwapNetwork(qubits, nil, swapnetwork.NewOptions().Fermionic(true))
}

func xxyy(rads float64, control circuit.Qubit) circuit.Rotation {
	if control == circuit.NoQubit {
		return circuit.Rxxyy(rads)
	}
	return circuit.CRxxyy(rads)
}

func yxxy(rads float64, control circuit.Qubit) circuit.Rotation {
	if control == circuit.NoQubit {
		return circuit.Ryxxy(rads)
	}
	return circuit.CRyxxy(rads)
}

func numberNumber(rads float64, control circuit.Qubit) circuit.Rotation {
	if control == circuit.NoQubit {
		return circuit.Rot11(rads)
	}
	return circuit.Rot111(rads)
}

func on(r circuit.Rotation, control, a, b circuit.Qubit) circuit.Op {
	if control == circuit.NoQubit {
		return r.On(a, b)
	}
	return r.On(control, a, b)
}
