package trial

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// quadTol is the relative agreement required between successive
// node-doubled Gauss-Legendre estimates before an integral is accepted.
const quadTol = 1e-10

// integrate1D computes the integral of f over [lo, hi] by Gauss-Legendre
// quadrature, doubling the node count until two successive estimates agree
// to quadTol. The likelihood is a polynomial of degree at most the sample
// size, so convergence is reached on the first doubling for every
// realistic N.
func integrate1D(f func(float64) float64, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 0
	}
	prev := quad.Fixed(f, lo, hi, 8, nil, 0)
	for n := 16; n <= 512; n *= 2 {
		cur := quad.Fixed(f, lo, hi, n, nil, 0)
		if math.Abs(cur-prev) <= quadTol*(1+math.Abs(cur)) {
			return cur
		}
		prev = cur
	}
	return prev
}

// integrateRect computes the double integral of f over the rectangle
// [pfLow, pfHigh] x [ptLow, ptHigh] as an outer integral over the futility
// axis of inner integrals over the toxicity axis.
func integrateRect(f func(pf, pt float64) float64, pfLow, pfHigh, ptLow, ptHigh float64) float64 {
	outer := func(pf float64) float64 {
		return integrate1D(func(pt float64) float64 { return f(pf, pt) }, ptLow, ptHigh)
	}
	return integrate1D(outer, pfLow, pfHigh)
}
