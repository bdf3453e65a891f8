package trial

import "fmt"

// DesignParams groups the six probability-interval parameters of the
// design: a target rate, an equivalence half-width and a hard rule bound
// for each of the futility and toxicity axes.
type DesignParams struct {
	FutilityTarget    float64 // PF: acceptable futility rate
	FutilityTolerance float64 // half-width of the futility equivalence interval
	FutilityBound     float64 // eta: futility rate above which EU fires
	ToxicityTarget    float64 // PT: acceptable toxicity rate
	ToxicityTolerance float64 // half-width of the toxicity equivalence interval
	ToxicityBound     float64 // zeta: toxicity rate above which DU fires
}

// Validate checks the parameter relationships required for table building:
// targets non-negative, bounds at most 1, and each bound at or above its
// target plus tolerance so the hard rule never fires inside the
// equivalence interval.
func (p DesignParams) Validate() error {
	if p.FutilityTarget < 0 || p.ToxicityTarget < 0 {
		return fmt.Errorf("%w: targets must be non-negative (futility=%v, toxicity=%v)", ErrConfiguration, p.FutilityTarget, p.ToxicityTarget)
	}
	if p.FutilityTolerance < 0 || p.ToxicityTolerance < 0 {
		return fmt.Errorf("%w: tolerances must be non-negative", ErrConfiguration)
	}
	if p.FutilityBound > 1 || p.ToxicityBound > 1 {
		return fmt.Errorf("%w: bounds must be at most 1 (eta=%v, zeta=%v)", ErrConfiguration, p.FutilityBound, p.ToxicityBound)
	}
	if p.FutilityBound < p.FutilityTarget+p.FutilityTolerance {
		return fmt.Errorf("%w: futility bound %v below target+tolerance %v", ErrConfiguration, p.FutilityBound, p.FutilityTarget+p.FutilityTolerance)
	}
	if p.ToxicityBound < p.ToxicityTarget+p.ToxicityTolerance {
		return fmt.Errorf("%w: toxicity bound %v below target+tolerance %v", ErrConfiguration, p.ToxicityBound, p.ToxicityTarget+p.ToxicityTolerance)
	}
	return nil
}

// Partitions builds the futility and toxicity interval partitions for the
// design. Both partitions are read-only once built and are shared across
// every cell of a decision-table build.
func (p DesignParams) Partitions() (futility, toxicity *IntervalPartition, err error) {
	futility, err = NewIntervalPartition(p.FutilityTarget, p.FutilityTolerance, p.FutilityBound)
	if err != nil {
		return nil, nil, fmt.Errorf("futility axis: %w", err)
	}
	toxicity, err = NewIntervalPartition(p.ToxicityTarget, p.ToxicityTolerance, p.ToxicityBound)
	if err != nil {
		return nil, nil, fmt.Errorf("toxicity axis: %w", err)
	}
	return futility, toxicity, nil
}
