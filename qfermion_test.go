package qfermion

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestNewDiagonalCoulombHamiltonian(t *testing.T) {
	t.Parallel()
	oneBody := mat.NewCDense(2, 2, []complex128{
		1, 2 + 1i,
		2 - 1i, -3,
	})
	twoBody := mat.NewSymDense(2, []float64{
		0.5, 4,
		4, -0.25,
	})
	h, err := NewDiagonalCoulombHamiltonian(oneBody, twoBody, 7)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if h.NumQubits() != 2 || h.Constant() != 7 {
		t.Fatalf("%d %f", h.NumQubits(), h.Constant())
	}
	if v := h.OneBody(0, 0); v != 1.5 {
		t.Fatalf("%v, expected %v", v, 1.5)
	}
	if v := h.OneBody(1, 1); v != -3.25 {
		t.Fatalf("%v, expected %v", v, -3.25)
	}
	if v := h.OneBody(1, 0); v != 2-1i {
		t.Fatalf("%v, expected %v", v, 2-1i)
	}
	if v := h.TwoBody(0, 0); v != 0 {
		t.Fatalf("%v, expected 0", v)
	}
	if v := h.TwoBody(1, 0); v != 4 {
		t.Fatalf("%v, expected 4", v)
	}

	// The inputs are copied.
	oneBody.Set(0, 1, 0)
	if v := h.OneBody(0, 1); v != 2+1i {
		t.Fatalf("%v", v)
	}
}

func TestNewDiagonalCoulombHamiltonianErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		oneBody *mat.CDense
		twoBody *mat.SymDense
		err     error
	}{
		{
			oneBody: mat.NewCDense(2, 3, nil),
			twoBody: mat.NewSymDense(2, nil),
			err:     ErrShape,
		},
		{
			oneBody: mat.NewCDense(2, 2, nil),
			twoBody: mat.NewSymDense(3, nil),
			err:     ErrShape,
		},
		{
			oneBody: mat.NewCDense(2, 2, []complex128{0, 1i, 1i, 0}),
			twoBody: mat.NewSymDense(2, nil),
			err:     ErrNotHermitian,
		},
		{
			oneBody: mat.NewCDense(1, 1, []complex128{1i}),
			twoBody: mat.NewSymDense(1, nil),
			err:     ErrNotHermitian,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			_, err := NewDiagonalCoulombHamiltonian(test.oneBody, test.twoBody, 0)
			if !errors.Is(err, test.err) {
				t.Fatalf("%+v, expected %v", err, test.err)
			}
		})
	}
}

func TestHubbardChain(t *testing.T) {
	t.Parallel()
	tests := []struct {
		sites    int
		periodic bool
		bonds    [][2]int
	}{
		{sites: 1, periodic: true, bonds: nil},
		{sites: 2, periodic: true, bonds: [][2]int{{0, 1}}},
		{sites: 3, periodic: false, bonds: [][2]int{{0, 1}, {1, 2}}},
		{sites: 3, periodic: true, bonds: [][2]int{{0, 1}, {1, 2}, {0, 2}}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d_%t", test.sites, test.periodic), func(t *testing.T) {
			t.Parallel()
			const tunneling, interaction, mu = 1.5, 4, 0.5
			h, err := HubbardChain(test.sites, tunneling, interaction, mu, test.periodic)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			n := 2 * test.sites
			if h.NumQubits() != n {
				t.Fatalf("%d, expected %d", h.NumQubits(), n)
			}

			hopping := make(map[[2]int]bool)
			for _, b := range test.bonds {
				for spin := range 2 {
					p, q := 2*b[0]+spin, 2*b[1]+spin
					hopping[[2]int{p, q}] = true
					hopping[[2]int{q, p}] = true
				}
			}
			for p := range n {
				for q := range n {
					var expected complex128
					switch {
					case p == q:
						expected = -mu
					case hopping[[2]int{p, q}]:
						expected = -tunneling
					}
					if v := h.OneBody(p, q); v != expected {
						t.Fatalf("%d %d %v, expected %v", p, q, v, expected)
					}

					var expectedV float64
					if p/2 == q/2 && p != q {
						expectedV = interaction / 2
					}
					if v := h.TwoBody(p, q); v != expectedV {
						t.Fatalf("%d %d %v, expected %v", p, q, v, expectedV)
					}
				}
			}
		})
	}

	if _, err := HubbardChain(0, 1, 1, 1, false); !errors.Is(err, ErrShape) {
		t.Fatalf("%+v", err)
	}
}

func TestRandomUnitary(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(0, 0))
	for n := 1; n <= 6; n++ {
		u := RandomUnitary(n, rng)
		for i := range n {
			for j := range n {
				var dot complex128
				for k := range n {
					dot += cmplx.Conj(u.At(k, i)) * u.At(k, j)
				}
				var expected complex128
				if i == j {
					expected = 1
				}
				if cmplx.Abs(dot-expected) > 1e-10 {
					t.Fatalf("%d %d %d %v, expected %v", n, i, j, dot, expected)
				}
			}
		}
	}
}

func TestOrbitalRotation(t *testing.T) {
	t.Parallel()
	type testcase struct {
		name string
		h    *DiagonalCoulombHamiltonian
	}
	tests := make([]testcase, 0)
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= 5; n++ {
		for _, real := range []bool{true, false} {
			h, err := RandomDiagonalCoulomb(n, rng, real)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			tests = append(tests, testcase{name: fmt.Sprintf("random_%d_%t", n, real), h: h})
		}
	}
	// The Hubbard chain is highly degenerate.
	hubbard, err := HubbardChain(4, 1, 4, 0.5, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	tests = append(tests, testcase{name: "hubbard", h: hubbard})

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			energies, u, err := OrbitalRotation(test.h)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			n := test.h.NumQubits()
			if len(energies) != n {
				t.Fatalf("%v", energies)
			}
			for k := 1; k < n; k++ {
				if energies[k] < energies[k-1] {
					t.Fatalf("not sorted %v", energies)
				}
			}

			// u^H @ T @ u is diag(energies).
			for i := range n {
				for j := range n {
					var v complex128
					for p := range n {
						for q := range n {
							v += cmplx.Conj(u.At(p, i)) * test.h.OneBody(p, q) * u.At(q, j)
						}
					}
					var expected complex128
					if i == j {
						expected = complex(energies[i], 0)
					}
					if cmplx.Abs(v-expected) > 1e-8 {
						t.Fatalf("%d %d %v, expected %v", i, j, v, expected)
					}
				}
			}
		})
	}
}

func TestHubbardSpectrum(t *testing.T) {
	t.Parallel()
	// The single-particle energies of an open chain are -2t cos(k pi / (L+1)) - mu, once per spin.
	const sites, tunneling, mu = 4, 1.0, 0.3
	h, err := HubbardChain(sites, tunneling, 2, mu, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	energies, _, err := OrbitalRotation(h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i, e := range energies {
		k := 1 + i/2
		expected := -2*tunneling*math.Cos(float64(k)*math.Pi/(sites+1)) - mu
		if math.Abs(e-expected) > 1e-8 {
			t.Fatalf("%d %f, expected %f", i, e, expected)
		}
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
