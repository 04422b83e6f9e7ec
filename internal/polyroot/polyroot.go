// Package polyroot finds the complex roots of real polynomials.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned for polynomials without a usable
// leading coefficient or when the iteration fails to converge.
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

const (
	maxIter = 500
	tol     = 1e-13
)

// RootsAsc returns the roots of c[0] + c[1]·z + … + c[n]·zⁿ.
//
// The iteration runs on the reversed polynomial and inverts its roots, so
// c[0] must be non-zero while a vanishing c[n] only pushes a root towards
// infinity.
func RootsAsc(c []float64) ([]complex128, error) {
	if len(c) < 2 || c[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	// c read left to right is the reversed polynomial in descending order
	coeff := make([]complex128, len(c))
	for i, v := range c {
		coeff[i] = complex(v, 0)
	}

	inv, err := DurandKerner(coeff)
	if err != nil {
		return nil, err
	}

	roots := make([]complex128, len(inv))
	for i, z := range inv {
		if z == 0 {
			return nil, ErrDegeneratePolynomial
		}
		roots[i] = 1 / z
	}

	return roots, nil
}

// DurandKerner finds all roots of coeff[0]·zⁿ + coeff[1]·zⁿ⁻¹ + … + coeff[n]
// by simultaneous Weierstrass iteration.
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 || coeff[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}
	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	for range maxIter {
		maxDelta := 0.0
		for i := range n {
			den := complex(1, 0)
			for j := range n {
				if i != j {
					den *= roots[i] - roots[j]
				}
			}

			if den == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den
			roots[i] -= delta
			if d := cmplx.Abs(delta) / math.Max(1, cmplx.Abs(roots[i])); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	for _, r := range roots {
		if res := cmplx.Abs(PolyEval(norm, r)); res > 1e-6 || cmplx.IsNaN(r) {
			return nil, ErrDegeneratePolynomial
		}
	}

	return roots, nil
}

// PolyEval evaluates coeff[0]·xⁿ + … + coeff[n] with Horner's method.
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}
