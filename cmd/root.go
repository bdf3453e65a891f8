package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for the six design parameters, shared by all subcommands.
	futilityTarget    float64 // PF: acceptable futility rate
	futilityTolerance float64 // Half-width of the futility equivalence interval
	futilityBound     float64 // eta: futility rate beyond which EU fires
	toxicityTarget    float64 // PT: acceptable toxicity rate
	toxicityTolerance float64 // Half-width of the toxicity equivalence interval
	toxicityBound     float64 // zeta: toxicity rate beyond which DU fires
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mpi-sim",
	Short: "Decision engine and simulator for modified probability interval dose-finding designs",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up the flags shared across subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{tableCmd, simulateCmd, utilityCmd} {
		c.Flags().Float64Var(&futilityTarget, "futility-target", 0.2, "Acceptable futility rate (PF)")
		c.Flags().Float64Var(&futilityTolerance, "futility-tolerance", 0.05, "Futility equivalence half-width")
		c.Flags().Float64Var(&futilityBound, "futility-bound", 0.8, "Futility rate beyond which mandatory escalation fires")
		c.Flags().Float64Var(&toxicityTarget, "toxicity-target", 0.2, "Acceptable toxicity rate (PT)")
		c.Flags().Float64Var(&toxicityTolerance, "toxicity-tolerance", 0.05, "Toxicity equivalence half-width")
		c.Flags().Float64Var(&toxicityBound, "toxicity-bound", 0.8, "Toxicity rate beyond which mandatory de-escalation fires")
	}

	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(utilityCmd)
}
