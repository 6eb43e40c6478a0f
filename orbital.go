package qfermion

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OrbitalRotation diagonalizes the one-body term of h.
// It returns the orbital energies in ascending order, and the unitary u whose columns are the corresponding orbitals,
// so that the one-body matrix equals u @ diag(energies) @ u^H.
func OrbitalRotation(h *DiagonalCoulombHamiltonian) ([]float64, *mat.CDense, error) {
	n := h.NumQubits()

	// The Hermitian A + iB has the same spectrum as the real symmetric [[A, -B], [B, A]], with every eigenvalue doubled.
	embed := mat.NewSymDense(2*n, nil)
	for p := range n {
		for q := p; q < n; q++ {
			v := h.OneBody(p, q)
			embed.SetSym(p, q, real(v))
			embed.SetSym(n+p, n+q, real(v))
			embed.SetSym(n+p, q, imag(v))
			embed.SetSym(n+q, p, -imag(v))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(embed, true); !ok {
		return nil, nil, errors.Errorf("eigen factorization failed")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// An eigenvector (x, y) of the embedding is the complex eigenvector x + iy.
	candidates := make([][]complex128, 0, 2*n)
	for k := range 2 * n {
		v := make([]complex128, n)
		for p := range n {
			v[p] = complex(vecs.At(p, k), vecs.At(n+p, k))
		}
		candidates = append(candidates, v)
	}
	orbitals, err := orthonormalize(candidates, n)
	if err != nil {
		return nil, nil, errors.Wrap(err, "")
	}

	type orbital struct {
		energy float64
		vec    []complex128
	}
	sorted := make([]orbital, 0, n)
	for _, v := range orbitals {
		sorted = append(sorted, orbital{energy: rayleigh(h, v), vec: v})
	}
	slices.SortStableFunc(sorted, func(a, b orbital) int { return cmp.Compare(a.energy, b.energy) })

	energies := make([]float64, 0, n)
	u := mat.NewCDense(n, n, nil)
	for k, o := range sorted {
		energies = append(energies, o.energy)
		for p, v := range o.vec {
			u.Set(p, k, v)
		}
	}
	return energies, u, nil
}

// orthonormalize picks n orthonormal vectors from the span of candidates.
// Each candidate is a pair partner of another, so at each round the candidate with the largest residual is taken.
func orthonormalize(candidates [][]complex128, n int) ([][]complex128, error) {
	residuals := make([][]complex128, 0, len(candidates))
	for _, c := range candidates {
		residuals = append(residuals, slices.Clone(c))
	}

	basis := make([][]complex128, 0, n)
	for range n {
		best, bestNorm := -1, 0.0
		for i, r := range residuals {
			if nrm := norm(r); nrm > bestNorm {
				best, bestNorm = i, nrm
			}
		}
		if bestNorm < 1e-6 {
			return nil, errors.Errorf("degenerate eigenvectors, found %d of %d", len(basis), n)
		}

		v := residuals[best]
		for p := range v {
			v[p] /= complex(bestNorm, 0)
		}
		basis = append(basis, v)
		residuals = slices.Delete(residuals, best, best+1)

		for _, r := range residuals {
			dot := inner(v, r)
			for p := range r {
				r[p] -= dot * v[p]
			}
		}
	}
	return basis, nil
}

func rayleigh(h *DiagonalCoulombHamiltonian, v []complex128) float64 {
	var e complex128
	for p := range v {
		for q := range v {
			e += cmplx.Conj(v[p]) * h.OneBody(p, q) * v[q]
		}
	}
	return real(e)
}

// inner returns a^H @ b.
func inner(a, b []complex128) complex128 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}
	return s
}

func norm(v []complex128) float64 {
	return math.Sqrt(real(inner(v, v)))
}
