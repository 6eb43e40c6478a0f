package qfermion

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RandomUnitary returns a random n by n unitary matrix.
// The columns are the Gram-Schmidt orthonormalization of complex Gaussian vectors, which is Haar distributed.
func RandomUnitary(n int, rng *rand.Rand) *mat.CDense {
	u := mat.NewCDense(n, n, nil)
	for i := range n {
		for j := range n {
			u.Set(i, j, complex(rng.NormFloat64(), rng.NormFloat64()))
		}
	}

	for j := range n {
		for k := range j {
			// Remove the component along column k.
			var dot complex128
			for i := range n {
				dot += cmplx.Conj(u.At(i, k)) * u.At(i, j)
			}
			for i := range n {
				u.Set(i, j, u.At(i, j)-dot*u.At(i, k))
			}
		}

		var norm float64
		for i := range n {
			v := u.At(i, j)
			norm += real(v)*real(v) + imag(v)*imag(v)
		}
		norm = math.Sqrt(norm)
		for i := range n {
			u.Set(i, j, u.At(i, j)/complex(norm, 0))
		}
	}
	return u
}

// RandomDiagonalCoulomb returns a Hamiltonian with Gaussian distributed coefficients.
// If real is true, the one-body matrix is real symmetric.
func RandomDiagonalCoulomb(n int, rng *rand.Rand, real bool) (*DiagonalCoulombHamiltonian, error) {
	oneBody := mat.NewCDense(n, n, nil)
	twoBody := mat.NewSymDense(n, nil)
	for p := range n {
		oneBody.Set(p, p, complex(rng.NormFloat64(), 0))
		for q := p + 1; q < n; q++ {
			v := complex(rng.NormFloat64(), 0)
			if !real {
				v += complex(0, rng.NormFloat64())
			}
			oneBody.Set(p, q, v)
			oneBody.Set(q, p, cmplx.Conj(v))
			twoBody.SetSym(p, q, rng.NormFloat64())
		}
	}

	h, err := NewDiagonalCoulombHamiltonian(oneBody, twoBody, rng.NormFloat64())
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return h, nil
}
