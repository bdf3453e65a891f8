package trial

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `doses: [0.5, 1.0, 2.0]
start_dose: 1.0
true_probabilities:
  - {futility: 0.6, efficacy: 0.3, toxicity: 0.1}
  - {futility: 0.3, efficacy: 0.5, toxicity: 0.2}
  - {futility: 0.1, efficacy: 0.5, toxicity: 0.4}
design:
  futility_target: 0.2
  futility_tolerance: 0.05
  futility_bound: 0.8
  toxicity_target: 0.2
  toxicity_tolerance: 0.05
  toxicity_bound: 0.8
cohort_size: 3
max_sample_size: 24
num_trials: 500
seed: 7
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_RoundTrip(t *testing.T) {
	spec, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	cfg := spec.Config()
	assert.Equal(t, []float64{0.5, 1.0, 2.0}, cfg.DoseLevels)
	assert.Equal(t, 1.0, cfg.StartDose)
	assert.Equal(t, [3]float64{0.3, 0.5, 0.2}, cfg.TrueProbabilities[1])
	assert.Equal(t, 0.8, cfg.Design.ToxicityBound)
	assert.Equal(t, 500, cfg.NumTrials)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	assert.Error(t, err)
}

func TestLoadScenario_ProbabilitiesNotSummingToOne_Rejected(t *testing.T) {
	bad := `doses: [1.0]
start_dose: 1.0
true_probabilities:
  - {futility: 0.5, efficacy: 0.5, toxicity: 0.5}
design:
  futility_target: 0.2
  futility_tolerance: 0.05
  futility_bound: 0.8
  toxicity_target: 0.2
  toxicity_tolerance: 0.05
  toxicity_bound: 0.8
`
	_, err := LoadScenario(writeScenario(t, bad))
	assert.Error(t, err)
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "doses: ["))
	assert.Error(t, err)
}
