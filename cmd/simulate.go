package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	trial "github.com/mpi-sim/mpi-sim/trial"
)

var (
	scenarioPath string // YAML scenario file describing doses and true probabilities

	// Inline scenario flags, used when no scenario file is given.
	doseLevels      []float64 // Dose grid, ascending
	startDose       float64   // Dose at which the first cohort enrolls
	futilityProbs   []float64 // Ground-truth per-dose futility probabilities
	efficacyProbs   []float64 // Ground-truth per-dose efficacy probabilities
	toxicityProbs   []float64 // Ground-truth per-dose toxicity probabilities
	cohortSize      int       // Patients per cohort
	maxSampleSize   int       // Trial-wide enrollment cap
	numTrials       int       // Independent trials in the batch
	selectionFilter float64   // Max (futility+toxicity)/n rate for final selection
	utilitySamples  int       // Dirichlet draws per utility estimate
	seed            int64     // Batch seed for reproducible trials
)

// simulateConfig assembles a SimulationConfig from the scenario file or,
// absent one, from the inline flags.
func simulateConfig() (trial.SimulationConfig, error) {
	if scenarioPath != "" {
		spec, err := trial.LoadScenario(scenarioPath)
		if err != nil {
			return trial.SimulationConfig{}, err
		}
		return spec.Config(), nil
	}
	probs := make([][3]float64, len(doseLevels))
	for i := range doseLevels {
		if i < len(futilityProbs) && i < len(efficacyProbs) && i < len(toxicityProbs) {
			probs[i] = [3]float64{futilityProbs[i], efficacyProbs[i], toxicityProbs[i]}
		}
	}
	return trial.SimulationConfig{
		DoseLevels:        doseLevels,
		TrueProbabilities: probs,
		StartDose:         startDose,
		Design:            designParams(),
		CohortSize:        cohortSize,
		MaxSampleSize:     maxSampleSize,
		NumTrials:         numTrials,
		SelectionFilter:   selectionFilter,
		UtilitySamples:    utilitySamples,
		Seed:              seed,
	}, nil
}

// simulateCmd runs a full simulation batch and prints the aggregate report
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a batch of simulated trials against precomputed decision tables",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := simulateConfig()
		if err != nil {
			logrus.Fatalf("loading simulation config: %v", err)
		}
		result, err := trial.RunSimulation(cfg)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		result.Print(cfg.DoseLevels)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (overrides inline scenario flags)")
	simulateCmd.Flags().Float64SliceVar(&doseLevels, "doses", []float64{1, 2, 3}, "Comma-separated dose levels, ascending")
	simulateCmd.Flags().Float64Var(&startDose, "start-dose", 2, "Dose at which the first cohort enrolls")
	simulateCmd.Flags().Float64SliceVar(&futilityProbs, "p-futility", []float64{0.5, 0.3, 0.2}, "Per-dose true futility probabilities")
	simulateCmd.Flags().Float64SliceVar(&efficacyProbs, "p-efficacy", []float64{0.4, 0.5, 0.5}, "Per-dose true efficacy probabilities")
	simulateCmd.Flags().Float64SliceVar(&toxicityProbs, "p-toxicity", []float64{0.1, 0.2, 0.3}, "Per-dose true toxicity probabilities")
	simulateCmd.Flags().IntVar(&cohortSize, "cohort-size", trial.DefaultCohortSize, "Patients enrolled per cohort")
	simulateCmd.Flags().IntVar(&maxSampleSize, "max-sample-size", trial.DefaultMaxSampleSize, "Trial-wide enrollment cap")
	simulateCmd.Flags().IntVar(&numTrials, "num-trials", trial.DefaultNumTrials, "Number of independent simulated trials")
	simulateCmd.Flags().Float64Var(&selectionFilter, "selection-filter", trial.DefaultSelectionFilter, "Max combined futility+toxicity rate for final selection")
	simulateCmd.Flags().IntVar(&utilitySamples, "utility-samples", trial.DefaultUtilitySamples, "Monte-Carlo draws per utility estimate")
	simulateCmd.Flags().Int64Var(&seed, "seed", trial.DefaultSeed, "Batch seed for reproducible trials")
}
