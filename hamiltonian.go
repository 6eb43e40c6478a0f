// Package qfermion builds diagonal Coulomb Hamiltonians and basis rotations for fermionic simulation circuits.
package qfermion

import (
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	hermitianTol = 1e-8
)

var (
	ErrShape        = errors.New("wrong shape")
	ErrNotHermitian = errors.New("one-body matrix is not Hermitian")
)

// DiagonalCoulombHamiltonian is the Hamiltonian
//
//	H = sum_{p,q} T_{pq} a^_p a_q + sum_{p,q} V_{pq} n_p n_q + constant
//
// where T is Hermitian and V is real symmetric with a zero diagonal.
type DiagonalCoulombHamiltonian struct {
	oneBody  *mat.CDense
	twoBody  *mat.SymDense
	constant float64
}

// NewDiagonalCoulombHamiltonian creates a Hamiltonian from the one-body matrix T, the two-body matrix V and a constant.
// Since n_p n_p = n_p, the diagonal of V is moved into the diagonal of T.
// The inputs are copied.
func NewDiagonalCoulombHamiltonian(oneBody *mat.CDense, twoBody *mat.SymDense, constant float64) (*DiagonalCoulombHamiltonian, error) {
	rows, cols := oneBody.Dims()
	if rows != cols {
		return nil, errors.Wrapf(ErrShape, "one-body %dx%d", rows, cols)
	}
	if n, _ := twoBody.Dims(); n != rows {
		return nil, errors.Wrapf(ErrShape, "one-body %dx%d two-body %dx%d", rows, cols, n, n)
	}
	for p := range rows {
		for q := p; q < rows; q++ {
			if cmplx.Abs(oneBody.At(p, q)-cmplx.Conj(oneBody.At(q, p))) > hermitianTol {
				return nil, errors.Wrapf(ErrNotHermitian, "%d %d %v %v", p, q, oneBody.At(p, q), oneBody.At(q, p))
			}
		}
	}

	h := &DiagonalCoulombHamiltonian{
		oneBody:  mat.NewCDense(rows, rows, nil),
		twoBody:  mat.NewSymDense(rows, nil),
		constant: constant,
	}
	for p := range rows {
		for q := range rows {
			h.oneBody.Set(p, q, oneBody.At(p, q))
		}
		for q := p + 1; q < rows; q++ {
			h.twoBody.SetSym(p, q, twoBody.At(p, q))
		}
		h.oneBody.Set(p, p, oneBody.At(p, p)+complex(twoBody.At(p, p), 0))
	}
	return h, nil
}

func (h *DiagonalCoulombHamiltonian) NumQubits() int {
	n, _ := h.oneBody.Dims()
	return n
}

// OneBody returns T_{pq}.
func (h *DiagonalCoulombHamiltonian) OneBody(p, q int) complex128 { return h.oneBody.At(p, q) }

// TwoBody returns V_{pq}.
func (h *DiagonalCoulombHamiltonian) TwoBody(p, q int) float64 { return h.twoBody.At(p, q) }

func (h *DiagonalCoulombHamiltonian) Constant() float64 { return h.constant }

// HubbardChain returns the Fermi-Hubbard model on a chain of sites with spin.
// Mode 2i is the spin up orbital of site i, and mode 2i+1 the spin down one.
//
//	H = -tunneling sum_{<i,j>,s} (a^_{is} a_{js} + h.c.) + interaction sum_i n_{i,up} n_{i,down} - chemicalPotential sum_{i,s} n_{is}
//
// If periodic, the last site couples to the first when there are more than two sites.
func HubbardChain(sites int, tunneling, interaction, chemicalPotential float64, periodic bool) (*DiagonalCoulombHamiltonian, error) {
	if sites < 1 {
		return nil, errors.Wrapf(ErrShape, "%d sites", sites)
	}
	n := 2 * sites
	oneBody := mat.NewCDense(n, n, nil)
	twoBody := mat.NewSymDense(n, nil)

	bonds := make([][2]int, 0, sites)
	for i := range sites - 1 {
		bonds = append(bonds, [2]int{i, i + 1})
	}
	if periodic && sites > 2 {
		bonds = append(bonds, [2]int{sites - 1, 0})
	}
	for _, b := range bonds {
		for spin := range 2 {
			p, q := 2*b[0]+spin, 2*b[1]+spin
			oneBody.Set(p, q, complex(-tunneling, 0))
			oneBody.Set(q, p, complex(-tunneling, 0))
		}
	}

	for i := range sites {
		up, down := 2*i, 2*i+1
		oneBody.Set(up, up, complex(-chemicalPotential, 0))
		oneBody.Set(down, down, complex(-chemicalPotential, 0))
		// The sum over ordered pairs counts the interaction twice.
		twoBody.SetSym(up, down, interaction/2)
	}

	h, err := NewDiagonalCoulombHamiltonian(oneBody, twoBody, 0)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return h, nil
}
