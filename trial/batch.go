package trial

import (
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Simulation defaults, overridable per SimulationConfig field.
const (
	DefaultCohortSize      = 3
	DefaultMaxSampleSize   = 24
	DefaultNumTrials       = 1000
	DefaultSelectionFilter = 0.5
	DefaultSeed            = 111
)

// SimulationConfig parameterizes one batch of independent simulated
// trials. Zero-valued knobs take the package defaults.
type SimulationConfig struct {
	DoseLevels        []float64
	TrueProbabilities [][3]float64 // per dose: futility, efficacy, toxicity
	StartDose         float64
	Design            DesignParams

	CohortSize      int
	MaxSampleSize   int
	NumTrials       int
	SelectionFilter float64
	UtilitySamples  int
	Seed            int64
}

// withDefaults fills unset knobs with the package defaults.
func (c SimulationConfig) withDefaults() SimulationConfig {
	if c.CohortSize == 0 {
		c.CohortSize = DefaultCohortSize
	}
	if c.MaxSampleSize == 0 {
		c.MaxSampleSize = DefaultMaxSampleSize
	}
	if c.NumTrials == 0 {
		c.NumTrials = DefaultNumTrials
	}
	if c.SelectionFilter == 0 {
		c.SelectionFilter = DefaultSelectionFilter
	}
	if c.UtilitySamples == 0 {
		c.UtilitySamples = DefaultUtilitySamples
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Validate checks the batch configuration after defaults are applied.
func (c SimulationConfig) Validate() error {
	if len(c.DoseLevels) == 0 {
		return fmt.Errorf("%w: no dose levels", ErrConfiguration)
	}
	if len(c.TrueProbabilities) != len(c.DoseLevels) {
		return fmt.Errorf("%w: %d probability triples for %d doses", ErrConfiguration, len(c.TrueProbabilities), len(c.DoseLevels))
	}
	for i, p := range c.TrueProbabilities {
		sum := p[0] + p[1] + p[2]
		if p[0] < 0 || p[1] < 0 || p[2] < 0 || math.Abs(sum-1) > 1e-6 {
			return fmt.Errorf("%w: dose %v outcome probabilities %v must be non-negative and sum to 1", ErrConfiguration, c.DoseLevels[i], p)
		}
	}
	found := false
	for _, d := range c.DoseLevels {
		if d == c.StartDose {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: starting dose %v", ErrInvalidDose, c.StartDose)
	}
	if c.CohortSize <= 0 || c.MaxSampleSize <= 0 || c.NumTrials <= 0 {
		return fmt.Errorf("%w: cohort size, max sample size and trial count must be positive", ErrConfiguration)
	}
	if c.SelectionFilter < 0 || c.SelectionFilter > 1 {
		return fmt.Errorf("%w: selection filter %v outside [0,1]", ErrConfiguration, c.SelectionFilter)
	}
	return c.Design.Validate()
}

// SimulationResult aggregates a batch of independent trial outcomes.
type SimulationResult struct {
	NumTrials int

	// SelectionProportions[i] is the fraction of trials recommending dose
	// i; NoSelectionProportion is the fraction recommending none.
	SelectionProportions  []float64
	NoSelectionProportion float64

	// EarlyStops counts trials halted before the maximum sample size.
	EarlyStops int

	// Per-dose share of each trial's enrolled patients, reduced across
	// trials.
	PatientShareMean []float64
	PatientShareMin  []float64
	PatientShareMax  []float64
}

// RunSimulation precomputes decision tables for every reachable per-dose
// sample size, then runs the configured number of independent trials and
// reduces their outcomes. See RunSimulationWithRegistry for the table
// resolution contract.
func RunSimulation(cfg SimulationConfig) (*SimulationResult, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := NewTableRegistry()
	for n := cfg.CohortSize; n <= cfg.MaxSampleSize; n += cfg.CohortSize {
		table, err := BuildDecisionTable(n, cfg.Design)
		if err != nil {
			return nil, fmt.Errorf("building decision table for n=%d: %w", n, err)
		}
		registry.Register(table)
	}
	return RunSimulationWithRegistry(cfg, registry)
}

// RunSimulationWithRegistry runs a simulation batch against an injected
// decision-table registry. Trials are embarrassingly parallel: each gets
// its own record sequence and a seed-derived RNG, and outcomes are reduced
// only after every trial has finished. A registry miss during a trial is
// surfaced as ErrTableNotFound, never substituted.
func RunSimulationWithRegistry(cfg SimulationConfig, registry *TableRegistry) (*SimulationResult, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Infof("running %d trials: %d doses, cohort=%d, max n=%d, seed=%d",
		cfg.NumTrials, len(cfg.DoseLevels), cfg.CohortSize, cfg.MaxSampleSize, cfg.Seed)

	outcomes := make([]TrialOutcome, cfg.NumTrials)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < cfg.NumTrials; i++ {
		g.Go(func() error {
			out, err := runTrial(&cfg, registry, NewTrialRNG(cfg.Seed, i))
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reduceOutcomes(cfg, outcomes), nil
}

// reduceOutcomes is the pure reduction from per-trial outcomes to the
// batch-level result.
func reduceOutcomes(cfg SimulationConfig, outcomes []TrialOutcome) *SimulationResult {
	numDoses := len(cfg.DoseLevels)
	res := &SimulationResult{
		NumTrials:            len(outcomes),
		SelectionProportions: make([]float64, numDoses),
		PatientShareMean:     make([]float64, numDoses),
		PatientShareMin:      make([]float64, numDoses),
		PatientShareMax:      make([]float64, numDoses),
	}
	for i := range res.PatientShareMin {
		res.PatientShareMin[i] = math.Inf(1)
		res.PatientShareMax[i] = math.Inf(-1)
	}

	noSelection := 0
	for _, out := range outcomes {
		if out.State == TrialStoppedEarly {
			res.EarlyStops++
		}
		if out.SelectedDose == NoSelection {
			noSelection++
		} else {
			res.SelectionProportions[out.SelectedDose]++
		}
		for i, n := range out.PatientsPerDose {
			share := float64(n) / float64(out.TotalPatients)
			res.PatientShareMean[i] += share
			res.PatientShareMin[i] = math.Min(res.PatientShareMin[i], share)
			res.PatientShareMax[i] = math.Max(res.PatientShareMax[i], share)
		}
	}

	total := float64(len(outcomes))
	res.NoSelectionProportion = float64(noSelection) / total
	for i := 0; i < numDoses; i++ {
		res.SelectionProportions[i] /= total
		res.PatientShareMean[i] /= total
	}
	return res
}

// Print displays the aggregated batch result.
func (r *SimulationResult) Print(doses []float64) {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Trials               : %d\n", r.NumTrials)
	fmt.Printf("Stopped early        : %d\n", r.EarlyStops)
	fmt.Printf("No dose selected     : %.1f%%\n", 100*r.NoSelectionProportion)
	for i, d := range doses {
		fmt.Printf("Dose %-6v selected : %5.1f%%  patients mean/min/max: %.2f / %.2f / %.2f\n",
			d, 100*r.SelectionProportions[i],
			r.PatientShareMean[i], r.PatientShareMin[i], r.PatientShareMax[i])
	}
}
