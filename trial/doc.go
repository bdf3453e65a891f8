// Package trial implements the decision engine for an adaptive phase-I
// dose-finding design based on modified probability intervals.
//
// # Reading Guide
//
// Start with these three files to understand the decision kernel:
//   - partition.go: tiling of [0,1] into equivalence-anchored probability intervals
//   - posterior.go: Bayesian model selection over rectangles of the unit square
//   - engine.go: the per-trial state machine (cohorts, closures, dose movement)
//
// # Architecture
//
// The decision pipeline is strictly layered. Two IntervalPartitions (one per
// probability axis) feed SelectModel, which integrates the trinomial
// likelihood over every candidate rectangle and picks the heaviest one.
// Decide maps the winning rectangle to an escalation decision, and
// BuildDecisionTable precomputes that mapping for every reachable outcome
// count at a fixed sample size. RunSimulation then replays many independent
// trials against the precomputed tables, while EstimateUtility ranks doses
// for the final recommendation.
//
// Decision tables are resolved through an explicit TableRegistry injected
// into the engine; nothing is looked up through ambient state.
package trial
