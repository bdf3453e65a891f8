package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	trial "github.com/mpi-sim/mpi-sim/trial"
)

var tableSampleSize int // Per-dose sample size the table is built for

// designParams collects the shared design flags.
func designParams() trial.DesignParams {
	return trial.DesignParams{
		FutilityTarget:    futilityTarget,
		FutilityTolerance: futilityTolerance,
		FutilityBound:     futilityBound,
		ToxicityTarget:    toxicityTarget,
		ToxicityTolerance: toxicityTolerance,
		ToxicityBound:     toxicityBound,
	}
}

// decisionColors maps each decision label to its terminal rendering.
var decisionColors = map[trial.Decision]*color.Color{
	trial.DecisionMandatoryDeescalate: color.New(color.FgRed, color.Bold),
	trial.DecisionDeescalate:          color.New(color.FgYellow),
	trial.DecisionStay:                color.New(color.FgWhite),
	trial.DecisionEscalate:            color.New(color.FgGreen),
	trial.DecisionMandatoryEscalate:   color.New(color.FgGreen, color.Bold),
}

// renderTable prints the decision table as a matrix with futility counts as
// rows and toxicity counts as columns.
func renderTable(t *trial.DecisionTable) {
	fmt.Printf("Decision table for n=%d (rows: futility count, columns: toxicity count)\n", t.N)
	fmt.Printf("%4s", "")
	for x := 0; x <= t.N; x++ {
		fmt.Printf("%4d", x)
	}
	fmt.Println()
	for f := 0; f <= t.N; f++ {
		fmt.Printf("%4d", f)
		for x := 0; x+f <= t.N; x++ {
			d, err := t.Decision(f, x)
			if err != nil {
				logrus.Fatalf("rendering cell (%d,%d): %v", f, x, err)
			}
			decisionColors[d].Printf("%4s", string(d))
		}
		fmt.Println()
	}
}

// tableCmd builds and prints one decision table from CLI flags
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build and print the decision table for a fixed sample size",
	Run: func(cmd *cobra.Command, args []string) {
		t, err := trial.BuildDecisionTable(tableSampleSize, designParams())
		if err != nil {
			logrus.Fatalf("building decision table: %v", err)
		}
		renderTable(t)
	},
}

func init() {
	tableCmd.Flags().IntVar(&tableSampleSize, "n", 9, "Per-dose sample size the table is indexed by")
}
