package trial

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPiecewiseLoss_Endpoints(t *testing.T) {
	assert.Equal(t, 0.0, PiecewiseLoss(0.15, 0.2, 0.05))
	assert.Equal(t, 1.0, PiecewiseLoss(0.25, 0.2, 0.05))
	assert.Equal(t, 0.0, PiecewiseLoss(0.0, 0.2, 0.05))
	assert.Equal(t, 1.0, PiecewiseLoss(1.0, 0.2, 0.05))
	assert.InDelta(t, 0.5, PiecewiseLoss(0.2, 0.2, 0.05), 1e-12)
}

func TestPiecewiseLoss_NonDecreasingAcrossEquivalenceInterval(t *testing.T) {
	prev := -1.0
	for x := 0.10; x <= 0.30; x += 0.001 {
		loss := PiecewiseLoss(x, 0.2, 0.05)
		assert.GreaterOrEqual(t, loss, prev, "loss must be non-decreasing at x=%v", x)
		assert.GreaterOrEqual(t, loss, 0.0)
		assert.LessOrEqual(t, loss, 1.0)
		prev = loss
	}
}

func utilitySource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed+1)
}

func TestUtilityEstimator_BoundedInMinusOneOne(t *testing.T) {
	est := NewUtilityEstimator(testDesign(), utilitySource(7))
	cases := [][3]int{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {0, 0, 10}, {4, 4, 4}}
	for _, c := range cases {
		u, err := est.Estimate(c[0], c[1], c[2], 2000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, u, -1.0)
		assert.LessOrEqual(t, u, 1.0)
	}
}

func TestUtilityEstimator_MoreEfficacyDoesNotDecreaseUtility(t *testing.T) {
	// Fixed seed per estimate so the comparison is over the estimator's
	// sampling distribution, not shared noise.
	low, err := NewUtilityEstimator(testDesign(), utilitySource(11)).Estimate(3, 2, 3, 20000)
	require.NoError(t, err)
	high, err := NewUtilityEstimator(testDesign(), utilitySource(11)).Estimate(3, 20, 3, 20000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, high, low,
		"more efficacy with fixed futility/toxicity counts must not lower utility")
}

func TestUtilityEstimator_Reproducible(t *testing.T) {
	a, err := NewUtilityEstimator(testDesign(), utilitySource(3)).Estimate(2, 5, 1, 5000)
	require.NoError(t, err)
	b, err := NewUtilityEstimator(testDesign(), utilitySource(3)).Estimate(2, 5, 1, 5000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUtilityEstimator_TooFewSamples_ReturnsErrConfiguration(t *testing.T) {
	est := NewUtilityEstimator(testDesign(), utilitySource(1))
	_, err := est.Estimate(1, 1, 1, 999)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestUtilityEstimator_NegativeCounts_ReturnsErrConfiguration(t *testing.T) {
	est := NewUtilityEstimator(testDesign(), utilitySource(1))
	_, err := est.Estimate(-1, 1, 1, 2000)
	assert.True(t, errors.Is(err, ErrConfiguration))
}
