package trial

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"
)

// directTrinomial is the closed-form trinomial pmf used as the reference:
// n!/(f! e! t!) * pf^f * pe^e * pt^t with pe = 1-pf-pt.
func directTrinomial(f, x, n int, pf, pt float64) float64 {
	e := n - f - x
	coeff := float64(combin.Binomial(n, x)) * float64(combin.Binomial(n-x, f))
	return coeff * math.Pow(pf, float64(f)) * math.Pow(pt, float64(x)) * math.Pow(1-pf-pt, float64(e))
}

func TestTrinomialLikelihood_MatchesDirectTrinomialPMF(t *testing.T) {
	cases := []struct {
		f, x, n int
		pf, pt  float64
	}{
		{2, 1, 6, 0.3, 0.2},
		{0, 0, 9, 0.1, 0.1},
		{4, 4, 12, 0.35, 0.3},
		{1, 0, 3, 0.5, 0.25},
		{0, 5, 5, 0.0, 0.6},
	}
	for _, tc := range cases {
		lik, err := NewTrinomialLikelihood(tc.f, tc.x, tc.n)
		require.NoError(t, err)
		got, err := lik.Prob(tc.pf, tc.pt)
		require.NoError(t, err)
		want := directTrinomial(tc.f, tc.x, tc.n, tc.pf, tc.pt)
		assert.InDelta(t, want, got, 1e-12,
			"counts (f=%d, t=%d, n=%d) at (pf=%v, pt=%v)", tc.f, tc.x, tc.n, tc.pf, tc.pt)
	}
}

func TestTrinomialLikelihood_OutsideSimplex_IsZero(t *testing.T) {
	lik, err := NewTrinomialLikelihood(1, 1, 4)
	require.NoError(t, err)
	got, err := lik.Prob(0.7, 0.6)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestTrinomialLikelihood_NegativeProbability_ReturnsErrDomain(t *testing.T) {
	lik, err := NewTrinomialLikelihood(1, 1, 4)
	require.NoError(t, err)

	_, err = lik.Prob(-0.1, 0.2)
	assert.True(t, errors.Is(err, ErrDomain))
	_, err = lik.Prob(0.2, -0.1)
	assert.True(t, errors.Is(err, ErrDomain))
	_, err = lik.Prob(0.2, 1.5)
	assert.True(t, errors.Is(err, ErrDomain))
}

func TestNewTrinomialLikelihood_InvalidCounts_ReturnsErrConfiguration(t *testing.T) {
	_, err := NewTrinomialLikelihood(3, 3, 4)
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = NewTrinomialLikelihood(-1, 0, 4)
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = NewTrinomialLikelihood(0, 0, 0)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestIntegrate1D_PolynomialExact(t *testing.T) {
	// integral of x^3 over [0,1] is 1/4
	got := integrate1D(func(x float64) float64 { return x * x * x }, 0, 1)
	assert.InDelta(t, 0.25, got, 1e-12)
}

func TestIntegrateRect_SeparableProduct(t *testing.T) {
	// integral of x*y over [0,1]^2 is 1/4
	got := integrateRect(func(x, y float64) float64 { return x * y }, 0, 1, 0, 1)
	assert.InDelta(t, 0.25, got, 1e-10)
}

func TestIntegrate1D_EmptyInterval_IsZero(t *testing.T) {
	got := integrate1D(func(x float64) float64 { return 1 }, 0.5, 0.5)
	assert.Zero(t, got)
}
