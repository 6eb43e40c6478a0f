// Package givens decomposes a one-body basis rotation into an optimal depth network of Givens rotations.
//
// References:
//   - Optimal design for universal multiport interferometers, Clements et al., Optica Vol. 3, Issue 12, pp. 1460-1465 (2016)
//   - Quantum Simulation of Electronic Structure with Linear Depth and Connectivity, Kivlichan et al., Phys. Rev. Lett. 120, 110501 (2018)
package givens

import (
	"iter"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/qfermion/circuit"
)

const (
	// eqTolerance is the magnitude below which a matrix element is treated as zero.
	eqTolerance = 1e-8

	// Tolerances of the internal consistency checks.
	absTol = 1e-8
	relTol = 1e-5
)

var (
	// ErrTransposition means moving the phases of a left rotation to its other side failed.
	// It indicates a numerical or algorithmic bug, not a caller error.
	ErrTransposition = errors.New("failed to shift the phase matrix from right to left")
	// ErrMatrixConvention means an emitted rotation does not have a real first column.
	// It indicates a numerical or algorithmic bug, not a caller error.
	ErrMatrixConvention = errors.New("givens matrix does not obey the convention that the first column is real")
	ErrShape            = errors.New("unitary must be square and match the number of qubits")
)

// Side selects which component of a two-vector a Givens rotation zeroes.
type Side int

const (
	// Left zeroes the first component.
	Left Side = iota
	// Right zeroes the second component.
	Right
)

// Axis selects whether Rotate mixes rows or columns.
type Axis int

const (
	Rows Axis = iota
	Cols
)

// Matrix is a 2 by 2 Givens rotation.
type Matrix [2][2]complex128

// T returns the transpose of g.
func (g Matrix) T() Matrix {
	return Matrix{{g[0][0], g[1][0]}, {g[0][1], g[1][1]}}
}

// Conj returns the elementwise conjugate of g.
func (g Matrix) Conj() Matrix {
	return Matrix{
		{cmplx.Conj(g[0][0]), cmplx.Conj(g[0][1])},
		{cmplx.Conj(g[1][0]), cmplx.Conj(g[1][1])},
	}
}

// H returns the conjugate transpose of g.
func (g Matrix) H() Matrix {
	return g.Conj().T()
}

// Mul returns g @ h.
func (g Matrix) Mul(h Matrix) Matrix {
	var p Matrix
	for i := range 2 {
		for j := range 2 {
			p[i][j] = g[i][0]*h[0][j] + g[i][1]*h[1][j]
		}
	}
	return p
}

// MatrixElements returns the Givens rotation G such that, for the two-vector v = (a, b),
// G @ v has a zero first component if which is Left, or a zero second component if which is Right.
// The first column of G is real.
// If a and b are both real, G is a real rotation.
func MatrixElements(a, b complex128, which Side) Matrix {
	var cosine, sine float64
	phase := complex(1, 0)
	switch {
	case cmplx.Abs(a) < eqTolerance:
		cosine, sine = 1, 0
	case cmplx.Abs(b) < eqTolerance:
		cosine, sine = 0, 1
	default:
		absA, absB := cmplx.Abs(a), cmplx.Abs(b)
		denominator := math.Hypot(absA, absB)
		cosine = absB / denominator
		sine = absA / denominator
		signA := a / complex(absA, 0)
		signB := b / complex(absB, 0)
		phase = signA * cmplx.Conj(signB)
	}

	c, s := complex(cosine, 0), complex(sine, 0)
	isReal := math.Abs(imag(a)) < eqTolerance && math.Abs(imag(b)) < eqTolerance
	switch which {
	case Left:
		if isReal {
			return Matrix{{c, -phase * s}, {phase * s, c}}
		}
		return Matrix{{c, -phase * s}, {s, phase * c}}
	default:
		if isReal {
			return Matrix{{s, phase * c}, {-phase * c, s}}
		}
		return Matrix{{s, phase * c}, {c, -phase * s}}
	}
}

// Rotate applies g to rows i and j of m, or to columns i and j.
// For Rows, the rows are replaced by g @ (row_i, row_j).
// For Cols, m is multiplied on the right by the conjugate transpose of g embedded at (i, j).
func Rotate(m *mat.CDense, g Matrix, i, j int, which Axis) {
	rows, cols := m.Dims()
	switch which {
	case Rows:
		for k := range cols {
			mi, mj := m.At(i, k), m.At(j, k)
			m.Set(i, k, g[0][0]*mi+g[0][1]*mj)
			m.Set(j, k, g[1][0]*mi+g[1][1]*mj)
		}
	default:
		h := g.Conj()
		for k := range rows {
			mi, mj := m.At(k, i), m.At(k, j)
			m.Set(k, i, h[0][0]*mi+h[0][1]*mj)
			m.Set(k, j, h[1][0]*mi+h[1][1]*mj)
		}
	}
}

// rotation is a Givens rotation acting on the adjacent modes i and j.
type rotation struct {
	g    Matrix
	i, j int
}

// Decompose returns the operations on qubits that implement the one-body basis rotation u.
// The single-particle matrix of the returned operations, in the mode order of qubits, equals u.
// The qubits must be in linear physical order.
//
// The rotations are computed before Decompose returns, and u is overwritten in the process.
// The operations themselves are emitted lazily.
// The circuit consists of len(qubits)*(len(qubits)-1)/2 Ryxxy rotations of depth at most len(qubits),
// interleaved with ZPhase rotations.
func Decompose(qubits []circuit.Qubit, u *mat.CDense) (iter.Seq[circuit.Op], error) {
	rows, cols := u.Dims()
	if rows != cols || rows != len(qubits) {
		return nil, errors.Wrapf(ErrShape, "%dx%d unitary on %d qubits", rows, cols, len(qubits))
	}

	ordered, phases, err := rotations(u)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	type emission struct {
		i, j       int
		theta, phi float64
	}
	emissions := make([]emission, 0, len(ordered))
	for _, r := range ordered {
		theta := math.Asin(real(r.g[1][0]))
		phi := cmplx.Phase(r.g[1][1])
		emissions = append(emissions, emission{i: r.i, j: r.j, theta: theta, phi: phi})
	}

	seq := func(yield func(circuit.Op) bool) {
		for k := len(emissions) - 1; k >= 0; k-- {
			e := emissions[k]
			if !scalar.EqualWithinAbs(e.phi, 0, absTol) {
				if !yield(circuit.ZPhase(e.phi).On(qubits[e.j])) {
					return
				}
			}
			if !yield(circuit.Ryxxy(-e.theta).On(qubits[e.i], qubits[e.j])) {
				return
			}
		}
		for k, phase := range phases {
			if !yield(circuit.ZPhase(phase).On(qubits[k])) {
				return
			}
		}
	}
	return seq, nil
}

// rotations reduces u to its diagonal phases, and returns the Givens rotations in merged order together with the phase angles.
func rotations(u *mat.CDense) ([]rotation, []float64, error) {
	left, right := eliminate(u)

	migrated, err := migratePhases(u, left)
	if err != nil {
		return nil, nil, errors.Wrap(err, "")
	}

	ordered := make([]rotation, 0, len(left)+len(right))
	for k := len(migrated) - 1; k >= 0; k-- {
		ordered = append(ordered, migrated[k])
	}
	for k := len(right) - 1; k >= 0; k-- {
		r := right[k]
		ordered = append(ordered, rotation{g: r.g.H(), i: r.i, j: r.j})
	}

	for _, r := range ordered {
		if !scalar.EqualWithinAbs(imag(r.g[0][0]), 0, absTol) || !scalar.EqualWithinAbs(imag(r.g[1][0]), 0, absTol) {
			return nil, nil, errors.Wrapf(ErrMatrixConvention, "%v on (%d, %d)", r.g, r.i, r.j)
		}
	}

	n, _ := u.Dims()
	phases := make([]float64, 0, n)
	for k := range n {
		phases = append(phases, cmplx.Phase(u.At(k, k)))
	}
	return ordered, phases, nil
}

// eliminate reduces u to a diagonal matrix of phases, alternating between column rotations on odd columns
// and row rotations on even columns.
// On return u = L_k ... L_1 @ u0 @ R_1 ... R_m, where L are the left rotations and R the right ones.
func eliminate(u *mat.CDense) (left, right []rotation) {
	n, _ := u.Dims()
	for i := 1; i < n; i++ {
		switch i % 2 {
		case 1:
			for j := 0; j < i; j++ {
				// Eliminate u[n-j-1, i-j-1] by mixing columns i-j-1 and i-j.
				row, col := n-j-1, i-j-1
				g := MatrixElements(u.At(row, col), u.At(row, col+1), Left)
				right = append(right, rotation{g: g.T(), i: col, j: col + 1})
				Rotate(u, g.Conj(), col, col+1, Cols)
			}
		default:
			for j := 1; j <= i; j++ {
				// Eliminate u[n+j-i-1, j-1] by mixing rows n+j-i-2 and n+j-i-1.
				row, col := n+j-i-1, j-1
				g := MatrixElements(u.At(row-1, col), u.At(row, col), Right)
				left = append(left, rotation{g: g, i: row - 1, j: row})
				Rotate(u, g, row-1, row, Rows)
			}
		}
	}
	return left, right
}

// migratePhases moves the diagonal phases of u from the right of every left rotation to its left,
// so that all rotations end up on one side of the phases.
// The rotations are processed in reverse, and the returned rotations are in that processing order.
func migratePhases(u *mat.CDense, left []rotation) ([]rotation, error) {
	migrated := make([]rotation, 0, len(left))
	for k := len(left) - 1; k >= 0; k-- {
		r := left[k]
		phase := Matrix{{u.At(r.i, r.i), 0}, {0, u.At(r.j, r.j)}}
		m := r.g.H().Mul(phase)
		g := MatrixElements(m[1][0], m[1][1], Left)
		newPhase := m.Mul(g.T())

		// Check that newPhase @ conj(g) recovers the decomposed matrix.
		if !allClose(newPhase.Mul(g.Conj()), m) {
			return nil, errors.Wrapf(ErrTransposition, "rotation %d on (%d, %d)", k, r.i, r.j)
		}

		u.Set(r.i, r.i, newPhase[0][0])
		u.Set(r.j, r.j, newPhase[1][1])
		migrated = append(migrated, rotation{g: g.Conj(), i: r.i, j: r.j})
	}
	return migrated, nil
}

func allClose(a, b Matrix) bool {
	for i := range 2 {
		for j := range 2 {
			if cmplx.Abs(a[i][j]-b[i][j]) > absTol+relTol*cmplx.Abs(b[i][j]) {
				return false
			}
		}
	}
	return true
}
