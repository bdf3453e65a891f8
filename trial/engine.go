package trial

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrialState is the lifecycle state of one simulated trial.
type TrialState string

const (
	// TrialRunning means the trial is still enrolling cohorts.
	TrialRunning TrialState = "running"
	// TrialStoppedEarly means a stopping rule halted the trial before the
	// maximum sample size was reached.
	TrialStoppedEarly TrialState = "stopped_early"
	// TrialCompletedFull means the trial enrolled its full sample size.
	TrialCompletedFull TrialState = "completed_full"
)

// closureMinSamples is the per-dose sample size below which a safety or
// futility rule firing forces a Stay instead of an irreversible closure,
// so a dose gets more exploration before being shut permanently.
const closureMinSamples = 6

// NoSelection is the sentinel dose index meaning no dose was recommended.
const NoSelection = -1

// TrialOutcome is the record one simulated trial hands back for
// aggregation. Trials are fully independent; outcomes are only combined
// after every trial has finished.
type TrialOutcome struct {
	State           TrialState
	SelectedDose    int // index into the dose sequence, NoSelection if none
	TotalPatients   int
	PatientsPerDose []int
}

// trialState carries the mutable state of one running trial: the current
// dose rank, cumulative enrollment, the record sequence, and the most
// recent decision and neighbor-dose computation.
type trialState struct {
	records       DoseRecords
	currentIdx    int
	totalN        int
	state         TrialState
	lastDecision  Decision
	closestLower  float64 // dose level, -Inf when no lower dose is available
	closestHigher float64 // dose level, +Inf when no higher dose is available
}

// closeFromCurrent marks the current dose and every dose in the given
// direction permanently unavailable. dir=+1 closes upward (safety), dir=-1
// closes downward (futility). Closure never reverts.
func (ts *trialState) closeFromCurrent(dir int) {
	for i := ts.currentIdx; i >= 0 && i < len(ts.records); i += dir {
		ts.records[i].Available = false
	}
}

// closestAvailable returns the rank of the nearest available dose strictly
// in the given direction from the current dose, or -1 if none remains.
func (ts *trialState) closestAvailable(dir int) int {
	for i := ts.currentIdx + dir; i >= 0 && i < len(ts.records); i += dir {
		if ts.records[i].Available {
			return i
		}
	}
	return -1
}

// anyAvailable reports whether any dose remains available.
func (ts *trialState) anyAvailable() bool {
	for i := range ts.records {
		if ts.records[i].Available {
			return true
		}
	}
	return false
}

// drawCohort draws one cohort's outcome counts from the dose's ground-truth
// outcome distribution, one categorical draw per patient.
func drawCohort(sampler *distuv.Categorical, size int) (futility, efficacy, toxicity int) {
	for i := 0; i < size; i++ {
		switch int(sampler.Rand()) {
		case 0:
			futility++
		case 1:
			efficacy++
		default:
			toxicity++
		}
	}
	return futility, efficacy, toxicity
}

// runTrial simulates one complete trial: repeated cohort draws at the
// current dose, record updates, closure rules, decision-table lookups,
// dose movement and stopping rules, then final dose selection for trials
// that reached the full sample size. The decision-table registry is
// injected; a missing table or unpopulated cell halts the trial with an
// error rather than proceeding with an undefined decision.
func runTrial(cfg *SimulationConfig, registry *TableRegistry, rng *TrialRNG) (TrialOutcome, error) {
	records, err := NewDoseRecords(cfg.DoseLevels)
	if err != nil {
		return TrialOutcome{}, err
	}
	ts := &trialState{
		records:       records,
		currentIdx:    records.IndexOf(cfg.StartDose),
		state:         TrialRunning,
		closestLower:  math.Inf(-1),
		closestHigher: math.Inf(1),
	}
	if ts.currentIdx < 0 {
		return TrialOutcome{}, fmt.Errorf("%w: starting dose %v", ErrInvalidDose, cfg.StartDose)
	}

	cohortSrc := rng.ForSubsystem(SubsystemCohort)
	samplers := make([]distuv.Categorical, len(records))
	for i := range records {
		samplers[i] = distuv.NewCategorical(cfg.TrueProbabilities[i][:], cohortSrc)
	}
	estimator := NewUtilityEstimator(cfg.Design, rng.ForSubsystem(SubsystemUtility))

	for ts.state == TrialRunning {
		f, e, x := drawCohort(&samplers[ts.currentIdx], cfg.CohortSize)
		rec := &ts.records[ts.currentIdx]
		if err := ts.records.Add(rec.DoseLevel, f, e, x); err != nil {
			return TrialOutcome{}, err
		}
		ts.totalN += cfg.CohortSize

		safety := rec.PToxicity > cfg.Design.ToxicityBound
		futility := rec.PFutility > cfg.Design.FutilityBound
		forcedStay := false
		if safety || futility {
			if rec.N >= closureMinSamples {
				if safety {
					ts.closeFromCurrent(+1)
					logrus.Debugf("safety rule closed dose %v and above (toxicity rate %.3f)", rec.DoseLevel, rec.PToxicity)
				}
				if futility {
					ts.closeFromCurrent(-1)
					logrus.Debugf("futility rule closed dose %v and below (futility rate %.3f)", rec.DoseLevel, rec.PFutility)
				}
			} else {
				forcedStay = true
			}
		}

		if ts.totalN >= cfg.MaxSampleSize {
			ts.state = TrialCompletedFull
			break
		}

		decision := DecisionStay
		if !forcedStay {
			table, err := registry.Lookup(rec.N)
			if err != nil {
				return TrialOutcome{}, err
			}
			decision, err = table.Decision(rec.FutilityCount, rec.ToxicityCount)
			if err != nil {
				return TrialOutcome{}, err
			}
		}
		ts.lastDecision = decision

		lower := ts.closestAvailable(-1)
		higher := ts.closestAvailable(+1)
		ts.closestLower = math.Inf(-1)
		if lower >= 0 {
			ts.closestLower = ts.records[lower].DoseLevel
		}
		ts.closestHigher = math.Inf(1)
		if higher >= 0 {
			ts.closestHigher = ts.records[higher].DoseLevel
		}

		switch decision {
		case DecisionDeescalate, DecisionMandatoryDeescalate:
			if lower >= 0 {
				ts.currentIdx = lower
			}
		case DecisionEscalate, DecisionMandatoryEscalate:
			if higher >= 0 {
				ts.currentIdx = higher
			}
		}

		switch {
		case !ts.anyAvailable():
			ts.state = TrialStoppedEarly
		case decision == DecisionMandatoryDeescalate && lower < 0:
			ts.state = TrialStoppedEarly
		case decision == DecisionMandatoryEscalate && higher < 0:
			ts.state = TrialStoppedEarly
		}
	}

	selected := NoSelection
	if ts.state == TrialCompletedFull {
		selected, err = selectFinalDose(ts.records, cfg, estimator)
		if err != nil {
			return TrialOutcome{}, err
		}
	}

	out := TrialOutcome{
		State:           ts.state,
		SelectedDose:    selected,
		TotalPatients:   ts.totalN,
		PatientsPerDose: make([]int, len(ts.records)),
	}
	for i := range ts.records {
		out.PatientsPerDose[i] = ts.records[i].N
	}
	return out, nil
}

// selectFinalDose picks the recommended dose for a completed trial: among
// available doses with at least one patient and a combined
// futility+toxicity rate at or below the selection filter, the dose with
// maximal estimated utility wins; ties keep the lowest dose. Returns
// NoSelection when no dose qualifies.
func selectFinalDose(records DoseRecords, cfg *SimulationConfig, estimator *UtilityEstimator) (int, error) {
	best := NoSelection
	bestUtility := math.Inf(-1)
	for i := range records {
		rec := &records[i]
		if !rec.Available || rec.N == 0 {
			continue
		}
		if float64(rec.FutilityCount+rec.ToxicityCount)/float64(rec.N) > cfg.SelectionFilter {
			continue
		}
		u, err := estimator.Estimate(rec.FutilityCount, rec.EfficacyCount, rec.ToxicityCount, cfg.UtilitySamples)
		if err != nil {
			return NoSelection, err
		}
		if u > bestUtility {
			bestUtility = u
			best = i
		}
	}
	return best, nil
}
