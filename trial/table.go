package trial

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DecisionTable is the precomputed decision for every reachable outcome
// pair at a fixed per-dose sample size N. Cells are indexed by
// (futility count, toxicity count) and populated exactly when their sum is
// at most N. Built once, then read-only apart from operator overrides.
type DecisionTable struct {
	N     int
	cells [][]Decision
}

// Decision returns the table cell for the given outcome counts. An
// out-of-range or unpopulated cell is a logic defect in the caller, never a
// recoverable condition.
func (t *DecisionTable) Decision(futilityCount, toxicityCount int) (Decision, error) {
	if futilityCount < 0 || toxicityCount < 0 || futilityCount+toxicityCount > t.N {
		return "", fmt.Errorf("counts (futility=%d, toxicity=%d) outside table for n=%d", futilityCount, toxicityCount, t.N)
	}
	d := t.cells[futilityCount][toxicityCount]
	if d == "" {
		return "", fmt.Errorf("unpopulated decision cell (futility=%d, toxicity=%d, n=%d)", futilityCount, toxicityCount, t.N)
	}
	return d, nil
}

// Override replaces the decision in every (futility, toxicity) index pair
// of the Cartesian product of the two index slices. Operator escape hatch
// for manual table edits after review.
func (t *DecisionTable) Override(futilityCounts, toxicityCounts []int, d Decision) error {
	if !d.Valid() {
		return fmt.Errorf("%w: unknown decision label %q", ErrConfiguration, d)
	}
	for _, f := range futilityCounts {
		for _, x := range toxicityCounts {
			if f < 0 || x < 0 || f+x > t.N {
				return fmt.Errorf("%w: cell (futility=%d, toxicity=%d) outside table for n=%d", ErrConfiguration, f, x, t.N)
			}
		}
	}
	for _, f := range futilityCounts {
		for _, x := range toxicityCounts {
			t.cells[f][x] = d
		}
	}
	return nil
}

// BuildDecisionTable enumerates every outcome pair (futility, toxicity)
// with futility+toxicity <= n and records the decision for each:
//
//  1. toxicity rate above the hard safety bound forces DU, bypassing model
//     selection entirely;
//  2. otherwise the posterior model selection and the safety-first decision
//     rule produce an ordinary D/S/E;
//  3. a futility rate above the hard futility bound upgrades the cell to EU,
//     but only while the toxicity rate stays below target+tolerance.
//
// The build is fully deterministic: identical parameters always yield an
// identical table.
func BuildDecisionTable(n int, params DesignParams) (*DecisionTable, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample size %d must be positive", ErrConfiguration, n)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	fp, tp, err := params.Partitions()
	if err != nil {
		return nil, err
	}

	table := &DecisionTable{N: n, cells: make([][]Decision, n+1)}
	for f := range table.cells {
		table.cells[f] = make([]Decision, n+1)
	}

	for f := 0; f <= n; f++ {
		for x := 0; x+f <= n; x++ {
			futilityRate := float64(f) / float64(n)
			toxicityRate := float64(x) / float64(n)

			if toxicityRate > params.ToxicityBound {
				table.cells[f][x] = DecisionMandatoryDeescalate
				continue
			}

			sel, err := SelectModel(f, x, n, fp, tp)
			if err != nil {
				return nil, fmt.Errorf("cell (futility=%d, toxicity=%d): %w", f, x, err)
			}
			d, err := Decide(sel, fp, tp)
			if err != nil {
				return nil, err
			}
			if futilityRate > params.FutilityBound && toxicityRate < params.ToxicityTarget+params.ToxicityTolerance {
				d = DecisionMandatoryEscalate
			}
			table.cells[f][x] = d
		}
	}
	logrus.Debugf("built decision table for n=%d (%d populated cells)", n, (n+1)*(n+2)/2)
	return table, nil
}

// TableRegistry is an explicit mapping from per-dose sample size to its
// precomputed decision table. The simulation engine resolves every lookup
// through a registry handed to it at construction; there is no ambient
// table state.
type TableRegistry struct {
	tables map[int]*DecisionTable
}

// NewTableRegistry returns an empty registry.
func NewTableRegistry() *TableRegistry {
	return &TableRegistry{tables: make(map[int]*DecisionTable)}
}

// Register stores a table under its sample size, replacing any previous
// table for the same size.
func (r *TableRegistry) Register(t *DecisionTable) {
	r.tables[t.N] = t
}

// Lookup returns the table for the given sample size.
func (r *TableRegistry) Lookup(n int) (*DecisionTable, error) {
	t, ok := r.tables[n]
	if !ok {
		return nil, fmt.Errorf("%w: n=%d", ErrTableNotFound, n)
	}
	return t, nil
}
