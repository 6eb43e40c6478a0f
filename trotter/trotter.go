// Package trotter emits Trotter steps that simulate the time evolution of a diagonal Coulomb Hamiltonian on a line of qubits.
//
// Reference: Quantum Simulation of Electronic Structure with Linear Depth and Connectivity, Kivlichan et al., Phys. Rev. Lett. 120, 110501 (2018)
package trotter

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/fumin/qfermion/circuit"
)

var (
	ErrMissingControl = errors.New("control qubit must be specified")
	ErrInvalidOptions = errors.New("invalid options")
	ErrNumQubits      = errors.New("number of qubits does not match the Hamiltonian")
)

// Hamiltonian is the diagonal Coulomb Hamiltonian
//
//	H = sum_{p,q} OneBody(p, q) a^_p a_q + sum_{p,q} TwoBody(p, q) n_p n_q + Constant()
//
// OneBody is Hermitian and TwoBody is real symmetric.
type Hamiltonian interface {
	NumQubits() int
	OneBody(p, q int) complex128
	TwoBody(p, q int) float64
	Constant() float64
}

// Step emits the operations of a single Trotter step.
type Step interface {
	// Step returns the operations approximating exp(-i H time).
	// Mode i of the Hamiltonian is stored in qubits[i].
	// control is circuit.NoQubit unless the step is controlled.
	Step(qubits []circuit.Qubit, time float64, control circuit.Qubit) (iter.Seq[circuit.Op], error)

	// QubitPermutation returns where the modes of qubits, and the control, are after one step.
	QubitPermutation(qubits []circuit.Qubit, control circuit.Qubit) ([]circuit.Qubit, circuit.Qubit)

	// Finish returns the operations that restore the original qubit order after nSteps steps,
	// in which qubits is the order after the last step.
	Finish(qubits []circuit.Qubit, nSteps int, control circuit.Qubit, omitFinalSwaps bool) iter.Seq[circuit.Op]
}

// Algorithm constructs the Trotter steps of a Hamiltonian.
type Algorithm interface {
	Symmetric(h Hamiltonian) Step
	Asymmetric(h Hamiltonian) Step
	ControlledSymmetric(h Hamiltonian) Step
	ControlledAsymmetric(h Hamiltonian) Step
}

func checkQubits(h Hamiltonian, qubits []circuit.Qubit) error {
	if len(qubits) != h.NumQubits() {
		return errors.Wrapf(ErrNumQubits, "%d qubits, Hamiltonian on %d", len(qubits), h.NumQubits())
	}
	return nil
}
