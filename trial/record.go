package trial

import "fmt"

// DoseRecord tracks the observed outcomes at one dose level. Records are
// created empty at trial start and mutated additively as cohorts accrue.
// Availability only ever flips from true to false; a closed dose is never
// reopened and never deleted.
type DoseRecord struct {
	DoseLevel float64
	Available bool

	N             int
	FutilityCount int
	EfficacyCount int
	ToxicityCount int

	// Derived rates, recomputed on every count mutation. All zero while N==0.
	PFutility float64
	PEfficacy float64
	PToxicity float64
}

// refreshRates recomputes the derived outcome rates from the counts.
func (r *DoseRecord) refreshRates() {
	if r.N == 0 {
		r.PFutility, r.PEfficacy, r.PToxicity = 0, 0, 0
		return
	}
	n := float64(r.N)
	r.PFutility = float64(r.FutilityCount) / n
	r.PEfficacy = float64(r.EfficacyCount) / n
	r.PToxicity = float64(r.ToxicityCount) / n
}

// DoseRecords is the ordered (ascending by dose level) sequence of records
// for one trial.
type DoseRecords []DoseRecord

// NewDoseRecords creates one empty, available record per dose level.
// Dose levels must be strictly ascending.
func NewDoseRecords(doses []float64) (DoseRecords, error) {
	if len(doses) == 0 {
		return nil, fmt.Errorf("%w: no dose levels", ErrConfiguration)
	}
	records := make(DoseRecords, len(doses))
	for i, d := range doses {
		if i > 0 && d <= doses[i-1] {
			return nil, fmt.Errorf("%w: dose levels must be strictly ascending, got %v after %v", ErrConfiguration, d, doses[i-1])
		}
		records[i] = DoseRecord{DoseLevel: d, Available: true}
	}
	return records, nil
}

// IndexOf returns the rank of the given dose level, or -1 if absent.
func (rs DoseRecords) IndexOf(dose float64) int {
	for i := range rs {
		if rs[i].DoseLevel == dose {
			return i
		}
	}
	return -1
}

// Add accumulates one cohort's outcome counts into the record for dose.
func (rs DoseRecords) Add(dose float64, futility, efficacy, toxicity int) error {
	i := rs.IndexOf(dose)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDose, dose)
	}
	if futility < 0 || efficacy < 0 || toxicity < 0 {
		return fmt.Errorf("%w: negative outcome count", ErrConfiguration)
	}
	rs[i].FutilityCount += futility
	rs[i].EfficacyCount += efficacy
	rs[i].ToxicityCount += toxicity
	rs[i].N = rs[i].FutilityCount + rs[i].EfficacyCount + rs[i].ToxicityCount
	rs[i].refreshRates()
	return nil
}

// Set replaces the outcome counts of the record for dose. At least one count
// must be positive, since rates cannot be derived from a zero total.
func (rs DoseRecords) Set(dose float64, futility, efficacy, toxicity int) error {
	i := rs.IndexOf(dose)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDose, dose)
	}
	if futility < 0 || efficacy < 0 || toxicity < 0 {
		return fmt.Errorf("%w: negative outcome count", ErrConfiguration)
	}
	if futility+efficacy+toxicity == 0 {
		return fmt.Errorf("%w: all outcome counts are zero for dose %v", ErrDivisionByZero, dose)
	}
	rs[i].FutilityCount = futility
	rs[i].EfficacyCount = efficacy
	rs[i].ToxicityCount = toxicity
	rs[i].N = futility + efficacy + toxicity
	rs[i].refreshRates()
	return nil
}

// Clone returns an independent copy of the record sequence. The simulation
// engine gives every trial its own copy so trials can run in parallel.
func (rs DoseRecords) Clone() DoseRecords {
	out := make(DoseRecords, len(rs))
	copy(out, rs)
	return out
}
