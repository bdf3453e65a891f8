package trial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func newTestTrialState(t *testing.T, doses []float64, current int) *trialState {
	t.Helper()
	records, err := NewDoseRecords(doses)
	require.NoError(t, err)
	return &trialState{records: records, currentIdx: current, state: TrialRunning}
}

func TestTrialState_CloseFromCurrent_Upward(t *testing.T) {
	ts := newTestTrialState(t, []float64{1, 2, 3, 4}, 2)
	ts.closeFromCurrent(+1)

	assert.True(t, ts.records[0].Available)
	assert.True(t, ts.records[1].Available)
	assert.False(t, ts.records[2].Available)
	assert.False(t, ts.records[3].Available)
}

func TestTrialState_CloseFromCurrent_Downward(t *testing.T) {
	ts := newTestTrialState(t, []float64{1, 2, 3, 4}, 1)
	ts.closeFromCurrent(-1)

	assert.False(t, ts.records[0].Available)
	assert.False(t, ts.records[1].Available)
	assert.True(t, ts.records[2].Available)
	assert.True(t, ts.records[3].Available)
}

func TestTrialState_ClosuresAreIrreversibleAndCumulative(t *testing.T) {
	ts := newTestTrialState(t, []float64{1, 2, 3}, 0)
	ts.closeFromCurrent(-1) // closes dose 1 only
	ts.currentIdx = 2
	ts.closeFromCurrent(+1) // closes dose 3

	assert.False(t, ts.records[0].Available)
	assert.True(t, ts.records[1].Available)
	assert.False(t, ts.records[2].Available)
	assert.True(t, ts.anyAvailable())
}

func TestTrialState_ClosestAvailable_SkipsClosedDoses(t *testing.T) {
	ts := newTestTrialState(t, []float64{1, 2, 3, 4}, 2)
	ts.records[1].Available = false

	assert.Equal(t, 0, ts.closestAvailable(-1), "closed dose 2 must be skipped")
	assert.Equal(t, 3, ts.closestAvailable(+1))

	ts.records[0].Available = false
	ts.records[3].Available = false
	assert.Equal(t, -1, ts.closestAvailable(-1))
	assert.Equal(t, -1, ts.closestAvailable(+1))
}

func TestDrawCohort_CountsSumToCohortSize(t *testing.T) {
	src := NewTrialRNG(1, 0).ForSubsystem(SubsystemCohort)
	sampler := distuv.NewCategorical([]float64{0.3, 0.5, 0.2}, src)
	for i := 0; i < 50; i++ {
		f, e, x := drawCohort(&sampler, 3)
		assert.Equal(t, 3, f+e+x)
		assert.GreaterOrEqual(t, f, 0)
		assert.GreaterOrEqual(t, e, 0)
		assert.GreaterOrEqual(t, x, 0)
	}
}

func TestDrawCohort_DegenerateDistribution(t *testing.T) {
	src := NewTrialRNG(1, 0).ForSubsystem(SubsystemCohort)
	sampler := distuv.NewCategorical([]float64{0, 0, 1}, src)
	f, e, x := drawCohort(&sampler, 5)
	assert.Zero(t, f)
	assert.Zero(t, e)
	assert.Equal(t, 5, x)
}

func TestRunTrial_MissingTable_ReturnsErrTableNotFound(t *testing.T) {
	cfg := SimulationConfig{
		DoseLevels:        []float64{1},
		TrueProbabilities: [][3]float64{{0, 1, 0}},
		StartDose:         1,
		Design:            testDesign(),
	}.withDefaults()
	require.NoError(t, cfg.Validate())

	// Empty registry: the first lookup (all-efficacy cohorts never trigger
	// a rule, so no forced Stay) must fail rather than substitute a table.
	_, err := runTrial(&cfg, NewTableRegistry(), NewTrialRNG(cfg.Seed, 0))
	assert.True(t, errors.Is(err, ErrTableNotFound))
}

func TestRunTrial_PureToxicitySingleDose_StopsEarlyWithoutSelection(t *testing.T) {
	cfg := SimulationConfig{
		DoseLevels:        []float64{1},
		TrueProbabilities: [][3]float64{{0, 0, 1}},
		StartDose:         1,
		Design:            testDesign(),
	}.withDefaults()
	require.NoError(t, cfg.Validate())

	registry := NewTableRegistry()
	for n := cfg.CohortSize; n <= cfg.MaxSampleSize; n += cfg.CohortSize {
		table, err := BuildDecisionTable(n, cfg.Design)
		require.NoError(t, err)
		registry.Register(table)
	}

	out, err := runTrial(&cfg, registry, NewTrialRNG(cfg.Seed, 0))
	require.NoError(t, err)
	assert.Equal(t, TrialStoppedEarly, out.State)
	assert.Equal(t, NoSelection, out.SelectedDose)
	assert.Less(t, out.TotalPatients, cfg.MaxSampleSize)
}

func TestRunTrial_AllEfficacy_CompletesFullAndSelects(t *testing.T) {
	cfg := SimulationConfig{
		DoseLevels:        []float64{1, 2},
		TrueProbabilities: [][3]float64{{0, 1, 0}, {0, 1, 0}},
		StartDose:         1,
		Design:            testDesign(),
		UtilitySamples:    1000,
	}.withDefaults()
	require.NoError(t, cfg.Validate())

	registry := NewTableRegistry()
	for n := cfg.CohortSize; n <= cfg.MaxSampleSize; n += cfg.CohortSize {
		table, err := BuildDecisionTable(n, cfg.Design)
		require.NoError(t, err)
		registry.Register(table)
	}

	out, err := runTrial(&cfg, registry, NewTrialRNG(cfg.Seed, 0))
	require.NoError(t, err)
	assert.Equal(t, TrialCompletedFull, out.State)
	assert.Equal(t, cfg.MaxSampleSize, out.TotalPatients)
	assert.NotEqual(t, NoSelection, out.SelectedDose, "a completed all-efficacy trial must recommend a dose")
}
