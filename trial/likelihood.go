package trial

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// binomialPMF returns the probability of k successes in n draws with
// success probability p. The p==0 and p==1 edges are handled explicitly
// so integration nodes at the simplex boundary stay finite.
func binomialPMF(k, n int, p float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	switch {
	case p <= 0:
		if k == 0 {
			return 1
		}
		return 0
	case p >= 1:
		if k == n {
			return 1
		}
		return 0
	}
	b := distuv.Binomial{N: float64(n), P: p}
	return b.Prob(float64(k))
}

// TrinomialLikelihood is the probability mass of one dose's observed
// outcome counts as a function of the underlying futility and toxicity
// probabilities. It is decomposed as
//
//	Binomial(toxicity; n, pt) * Binomial(futility; n-toxicity, pf/(1-pt))
//
// which equals the trinomial density on the simplex pf+pt <= 1.
type TrinomialLikelihood struct {
	Futility int
	Toxicity int
	N        int
}

// NewTrinomialLikelihood validates the observed counts. The efficacy count
// is implicit: n - futility - toxicity.
func NewTrinomialLikelihood(futility, toxicity, n int) (*TrinomialLikelihood, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample size %d must be positive", ErrConfiguration, n)
	}
	if futility < 0 || toxicity < 0 || futility+toxicity > n {
		return nil, fmt.Errorf("%w: counts (futility=%d, toxicity=%d) incompatible with n=%d", ErrConfiguration, futility, toxicity, n)
	}
	return &TrinomialLikelihood{Futility: futility, Toxicity: toxicity, N: n}, nil
}

// Prob evaluates the likelihood at (pf, pt). Probabilities outside [0,1]
// are a domain error; points with pf+pt > 1 lie outside the simplex and
// evaluate to 0.
func (l *TrinomialLikelihood) Prob(pf, pt float64) (float64, error) {
	if pf < 0 || pf > 1 {
		return 0, fmt.Errorf("%w: futility probability %v", ErrDomain, pf)
	}
	if pt < 0 || pt > 1 {
		return 0, fmt.Errorf("%w: toxicity probability %v", ErrDomain, pt)
	}
	return l.at(pf, pt), nil
}

// at is the unchecked evaluation used inside quadrature, where the
// rectangle bounds already guarantee pf, pt in [0,1].
func (l *TrinomialLikelihood) at(pf, pt float64) float64 {
	if pf+pt > 1 {
		return 0
	}
	tox := binomialPMF(l.Toxicity, l.N, pt)
	if tox == 0 {
		return 0
	}
	rest := 1 - pt
	var cond float64
	if rest <= 0 {
		// pt==1 leaves no probability mass for futility draws.
		if l.Futility == 0 {
			cond = 1
		}
	} else {
		cond = binomialPMF(l.Futility, l.N-l.Toxicity, min(pf/rest, 1))
	}
	return tox * cond
}
