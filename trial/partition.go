package trial

import "fmt"

// minTolerance is the stability floor for equivalence half-widths. Below
// this the tiling degenerates into thousands of near-zero-width intervals.
const minTolerance = 1e-5

// boundaryFuzz absorbs float drift when comparing interval boundaries.
const boundaryFuzz = 1e-9

// Interval is one half-open [Start, End) sub-interval of a partition. The
// last interval of a partition is closed at 1.
type Interval struct {
	Start float64
	End   float64
}

// IntervalPartition is an ordered, contiguous tiling of [0,1] for one
// probability axis, anchored on a central equivalence interval of width
// twice the tolerance. EquivalenceIdx is the index of the interval whose
// start is target-tolerance (clamped at 0).
type IntervalPartition struct {
	Target    float64
	Tolerance float64
	Bound     float64

	Intervals      []Interval
	EquivalenceIdx int
}

// NewIntervalPartition tiles [0,1] with intervals of width 2*tolerance
// anchored on the equivalence interval [target-tolerance, target+tolerance).
// The tiling is clamped at 0 below, and above the equivalence interval the
// boundary nearest bound is snapped exactly onto bound, so the rule
// threshold is always an exact interval edge. The residual from bound to 1
// becomes the final interval.
func NewIntervalPartition(target, tolerance, bound float64) (*IntervalPartition, error) {
	if target < 0 {
		return nil, fmt.Errorf("%w: target %v is negative", ErrConfiguration, target)
	}
	if tolerance < minTolerance {
		return nil, fmt.Errorf("%w: tolerance %v below stability floor %v", ErrConfiguration, tolerance, minTolerance)
	}
	if bound > 1 {
		return nil, fmt.Errorf("%w: bound %v exceeds 1", ErrConfiguration, bound)
	}
	if bound < target {
		return nil, fmt.Errorf("%w: bound %v below target %v", ErrConfiguration, bound, target)
	}

	width := 2 * tolerance
	eqLow := target - tolerance
	if eqLow < 0 {
		eqLow = 0
	}
	eqHigh := target + tolerance

	// Boundaries below the equivalence interval, tiled down to 0.
	var lows []float64
	for b := eqLow; b > boundaryFuzz; b -= width {
		lows = append(lows, b)
	}
	lows = append(lows, 0)

	boundaries := make([]float64, 0, len(lows)+8)
	for i := len(lows) - 1; i >= 0; i-- {
		boundaries = append(boundaries, lows[i])
	}

	// Boundaries above the equivalence interval, tiled up toward the bound.
	// The generated boundary nearest the bound is snapped exactly onto it.
	if eqHigh < bound-boundaryFuzz {
		boundaries = append(boundaries, eqHigh)
		last := eqHigh
		for last+width < bound-boundaryFuzz {
			last += width
			boundaries = append(boundaries, last)
		}
		if bound-last <= last+width-bound {
			// The already-emitted boundary is nearest: snap it onto bound.
			boundaries[len(boundaries)-1] = bound
		} else {
			boundaries = append(boundaries, bound)
		}
	} else if eqHigh < 1-boundaryFuzz {
		boundaries = append(boundaries, eqHigh)
	}
	if boundaries[len(boundaries)-1] < 1-boundaryFuzz {
		boundaries = append(boundaries, 1)
	} else {
		boundaries[len(boundaries)-1] = 1
	}

	p := &IntervalPartition{
		Target:         target,
		Tolerance:      tolerance,
		Bound:          bound,
		Intervals:      make([]Interval, 0, len(boundaries)-1),
		EquivalenceIdx: -1,
	}
	for i := 0; i+1 < len(boundaries); i++ {
		p.Intervals = append(p.Intervals, Interval{Start: boundaries[i], End: boundaries[i+1]})
		if p.EquivalenceIdx < 0 && boundaries[i] > eqLow-boundaryFuzz && boundaries[i] < eqLow+boundaryFuzz {
			p.EquivalenceIdx = len(p.Intervals) - 1
		}
	}
	if p.EquivalenceIdx < 0 {
		return nil, fmt.Errorf("%w: partition lost its equivalence interval (target=%v tolerance=%v bound=%v)", ErrConfiguration, target, tolerance, bound)
	}
	return p, nil
}

// Len returns the number of intervals in the partition.
func (p *IntervalPartition) Len() int { return len(p.Intervals) }
