package trial

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioSpec is the YAML description of one simulation batch: the dose
// grid, per-dose ground-truth outcome probabilities, the design parameters
// and the simulation knobs. Loaded via LoadScenario(path).
type ScenarioSpec struct {
	Doses             []float64      `yaml:"doses"`
	StartDose         float64        `yaml:"start_dose"`
	TrueProbabilities []OutcomeProbs `yaml:"true_probabilities"`
	Design            DesignSpec     `yaml:"design"`

	CohortSize      int     `yaml:"cohort_size,omitempty"`
	MaxSampleSize   int     `yaml:"max_sample_size,omitempty"`
	NumTrials       int     `yaml:"num_trials,omitempty"`
	SelectionFilter float64 `yaml:"selection_filter,omitempty"`
	UtilitySamples  int     `yaml:"utility_samples,omitempty"`
	Seed            int64   `yaml:"seed,omitempty"`
}

// OutcomeProbs is one dose's ground-truth outcome distribution.
type OutcomeProbs struct {
	Futility float64 `yaml:"futility"`
	Efficacy float64 `yaml:"efficacy"`
	Toxicity float64 `yaml:"toxicity"`
}

// DesignSpec mirrors DesignParams for YAML loading.
type DesignSpec struct {
	FutilityTarget    float64 `yaml:"futility_target"`
	FutilityTolerance float64 `yaml:"futility_tolerance"`
	FutilityBound     float64 `yaml:"futility_bound"`
	ToxicityTarget    float64 `yaml:"toxicity_target"`
	ToxicityTolerance float64 `yaml:"toxicity_tolerance"`
	ToxicityBound     float64 `yaml:"toxicity_bound"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &spec, nil
}

// Validate delegates to the SimulationConfig validation so scenario files
// and programmatic configs enforce the same invariants.
func (s *ScenarioSpec) Validate() error {
	return s.Config().withDefaults().Validate()
}

// Config converts the scenario into a SimulationConfig.
func (s *ScenarioSpec) Config() SimulationConfig {
	probs := make([][3]float64, len(s.TrueProbabilities))
	for i, p := range s.TrueProbabilities {
		probs[i] = [3]float64{p.Futility, p.Efficacy, p.Toxicity}
	}
	return SimulationConfig{
		DoseLevels:        s.Doses,
		TrueProbabilities: probs,
		StartDose:         s.StartDose,
		Design: DesignParams{
			FutilityTarget:    s.Design.FutilityTarget,
			FutilityTolerance: s.Design.FutilityTolerance,
			FutilityBound:     s.Design.FutilityBound,
			ToxicityTarget:    s.Design.ToxicityTarget,
			ToxicityTolerance: s.Design.ToxicityTolerance,
			ToxicityBound:     s.Design.ToxicityBound,
		},
		CohortSize:      s.CohortSize,
		MaxSampleSize:   s.MaxSampleSize,
		NumTrials:       s.NumTrials,
		SelectionFilter: s.SelectionFilter,
		UtilitySamples:  s.UtilitySamples,
		Seed:            s.Seed,
	}
}
