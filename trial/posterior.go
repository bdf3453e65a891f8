package trial

import "fmt"

// ModelSelection is the outcome of one posterior model-selection pass: the
// arg-max rectangle plus the full weight grid for diagnostics. Weights is
// indexed [futility interval][toxicity interval] and holds zero for
// rectangles outside the simplex and for the excluded boundary intervals.
type ModelSelection struct {
	FutilityIdx int
	ToxicityIdx int
	Weights     [][]float64
}

// SelectModel computes an unnormalized posterior weight for every candidate
// rectangle of the two partitions and returns the heaviest one.
//
// The weight of rectangle (i,j) is the average of the trinomial likelihood
// over the rectangle: the nested double integral divided by the rectangle
// area. Under the implicit uniform prior on the simplex, that average is
// proportional to the posterior probability of the underlying (pf, pt)
// lying in the rectangle, up to the shared normalizing constant, which
// cancels in the arg-max.
//
// Only interior intervals are candidates: the first and last interval on
// each axis are the open-ended tails of the tiling and are never evaluated.
// Rectangles with pfHigh+ptHigh > 1 cannot hold a valid probability pair
// and get weight zero. Ties keep the first rectangle in row-major
// (futility-then-toxicity) order.
func SelectModel(futilityCount, toxicityCount, n int, fp, tp *IntervalPartition) (*ModelSelection, error) {
	lik, err := NewTrinomialLikelihood(futilityCount, toxicityCount, n)
	if err != nil {
		return nil, err
	}
	if fp.Len() < 3 || tp.Len() < 3 {
		return nil, fmt.Errorf("%w: partition has no interior intervals", ErrConfiguration)
	}

	sel := &ModelSelection{FutilityIdx: -1, ToxicityIdx: -1}
	sel.Weights = make([][]float64, fp.Len())
	for i := range sel.Weights {
		sel.Weights[i] = make([]float64, tp.Len())
	}

	best := 0.0
	for i := 1; i < fp.Len()-1; i++ {
		fi := fp.Intervals[i]
		for j := 1; j < tp.Len()-1; j++ {
			tj := tp.Intervals[j]
			if fi.End+tj.End > 1+boundaryFuzz {
				continue
			}
			area := (fi.End - fi.Start) * (tj.End - tj.Start)
			if area <= 0 {
				continue
			}
			w := integrateRect(lik.at, fi.Start, fi.End, tj.Start, tj.End) / area
			sel.Weights[i][j] = w
			if w > best {
				best = w
				sel.FutilityIdx = i
				sel.ToxicityIdx = j
			}
		}
	}
	if sel.FutilityIdx < 0 {
		return nil, fmt.Errorf("%w: no rectangle inside the simplex carries posterior weight (n=%d)", ErrConfiguration, n)
	}
	return sel, nil
}
