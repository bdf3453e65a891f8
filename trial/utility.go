package trial

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
)

const (
	// minUtilitySamples is the smallest Monte-Carlo sample count accepted;
	// fewer samples destabilize the estimate.
	minUtilitySamples = 1000

	// DefaultUtilitySamples is the sample count used when none is given.
	DefaultUtilitySamples = 10000
)

// PiecewiseLoss is the loss assigned to one sampled probability x against
// an equivalence interval: 0 below target-tolerance, rising linearly to 1
// across [target-tolerance, target+tolerance), and 1 at or above
// target+tolerance.
func PiecewiseLoss(x, target, tolerance float64) float64 {
	lo := target - tolerance
	hi := target + tolerance
	switch {
	case x < lo:
		return 0
	case x >= hi:
		return 1
	default:
		return (x - lo) / (hi - lo)
	}
}

// UtilityEstimator ranks doses for the final recommendation by a
// Monte-Carlo estimate of expected utility under the flat-prior Dirichlet
// posterior of the outcome probabilities.
type UtilityEstimator struct {
	params DesignParams
	src    rand.Source
}

// NewUtilityEstimator creates an estimator with the design's equivalence
// intervals as loss targets. src seeds the Dirichlet sampler; pass a
// deterministic source for reproducible estimates.
func NewUtilityEstimator(params DesignParams, src rand.Source) *UtilityEstimator {
	return &UtilityEstimator{params: params, src: src}
}

// Estimate draws `samples` outcome-probability triples from
// Dirichlet(futility+1, efficacy+1, toxicity+1) and returns
//
//	1 - mean(futility losses) - mean(toxicity losses)
//
// which lies in [-1, 1]. At least minUtilitySamples draws are required.
func (u *UtilityEstimator) Estimate(futility, efficacy, toxicity, samples int) (float64, error) {
	if samples < minUtilitySamples {
		return 0, fmt.Errorf("%w: %d Monte-Carlo samples below minimum %d", ErrConfiguration, samples, minUtilitySamples)
	}
	if futility < 0 || efficacy < 0 || toxicity < 0 {
		return 0, fmt.Errorf("%w: negative outcome count", ErrConfiguration)
	}

	dir := distmv.NewDirichlet([]float64{
		float64(futility) + 1,
		float64(efficacy) + 1,
		float64(toxicity) + 1,
	}, u.src)

	var futilityLoss, toxicityLoss float64
	sample := make([]float64, 3)
	for i := 0; i < samples; i++ {
		dir.Rand(sample)
		futilityLoss += PiecewiseLoss(sample[0], u.params.FutilityTarget, u.params.FutilityTolerance)
		toxicityLoss += PiecewiseLoss(sample[2], u.params.ToxicityTarget, u.params.ToxicityTolerance)
	}
	m := float64(samples)
	return 1 - futilityLoss/m - toxicityLoss/m, nil
}
