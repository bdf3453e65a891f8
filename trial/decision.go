package trial

import "fmt"

// Decision is one of the five dose-movement labels a decision table can
// hold. DU and EU are the mandatory overrides fired by the hard safety and
// futility thresholds; D, S and E come from ordinary model selection.
type Decision string

const (
	// DecisionMandatoryDeescalate (DU) fires when the observed toxicity
	// rate exceeds the hard safety threshold, bypassing model selection.
	DecisionMandatoryDeescalate Decision = "DU"
	// DecisionDeescalate (D) is the ordinary model-based de-escalation.
	DecisionDeescalate Decision = "D"
	// DecisionStay (S) holds the current dose.
	DecisionStay Decision = "S"
	// DecisionEscalate (E) is the ordinary model-based escalation.
	DecisionEscalate Decision = "E"
	// DecisionMandatoryEscalate (EU) fires when the observed futility rate
	// exceeds the hard futility threshold while toxicity is not concerning.
	DecisionMandatoryEscalate Decision = "EU"
)

// Valid reports whether d is one of the five decision labels.
func (d Decision) Valid() bool {
	switch d {
	case DecisionMandatoryDeescalate, DecisionDeescalate, DecisionStay, DecisionEscalate, DecisionMandatoryEscalate:
		return true
	}
	return false
}

// Decide maps a selected rectangle to a dose-movement decision, safety
// first: a winning toxicity interval strictly above the toxicity
// equivalence interval dominates everything and de-escalates. Absent excess
// toxicity, a winning futility interval strictly above the futility
// equivalence interval signals insufficient effect and escalates.
// Otherwise the dose holds.
func Decide(sel *ModelSelection, fp, tp *IntervalPartition) (Decision, error) {
	if sel == nil {
		return "", fmt.Errorf("%w: nil model selection", ErrConfiguration)
	}
	switch {
	case sel.ToxicityIdx > tp.EquivalenceIdx:
		return DecisionDeescalate, nil
	case sel.FutilityIdx > fp.EquivalenceIdx:
		return DecisionEscalate, nil
	default:
		return DecisionStay, nil
	}
}
