package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	trial "github.com/mpi-sim/mpi-sim/trial"
)

var (
	utilityFutility int   // Observed futility count
	utilityEfficacy int   // Observed efficacy count
	utilityToxicity int   // Observed toxicity count
	utilityDraws    int   // Monte-Carlo sample count
	utilitySeed     int64 // Seed for the Dirichlet sampler
)

// utilityCmd estimates the expected utility of one observed count triple,
// for ad-hoc operator analysis outside a simulation run
var utilityCmd = &cobra.Command{
	Use:   "utility",
	Short: "Estimate the expected utility of one dose's observed outcome counts",
	Run: func(cmd *cobra.Command, args []string) {
		src := rand.NewPCG(uint64(utilitySeed), uint64(utilitySeed)+1)
		estimator := trial.NewUtilityEstimator(designParams(), src)
		u, err := estimator.Estimate(utilityFutility, utilityEfficacy, utilityToxicity, utilityDraws)
		if err != nil {
			logrus.Fatalf("estimating utility: %v", err)
		}
		fmt.Printf("utility(futility=%d, efficacy=%d, toxicity=%d) = %.4f\n",
			utilityFutility, utilityEfficacy, utilityToxicity, u)
	},
}

func init() {
	utilityCmd.Flags().IntVar(&utilityFutility, "futility", 0, "Observed futility count")
	utilityCmd.Flags().IntVar(&utilityEfficacy, "efficacy", 0, "Observed efficacy count")
	utilityCmd.Flags().IntVar(&utilityToxicity, "toxicity", 0, "Observed toxicity count")
	utilityCmd.Flags().IntVar(&utilityDraws, "samples", trial.DefaultUtilitySamples, "Monte-Carlo sample count (minimum 1000)")
	utilityCmd.Flags().Int64Var(&utilitySeed, "seed", 42, "Seed for the Dirichlet sampler")
}
