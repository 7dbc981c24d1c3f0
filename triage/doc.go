// Package triage provides the district stress-triage pipeline for Drishti.
//
// # Reading Guide
//
// The pipeline runs three stages over one in-memory batch, in order:
//   - generator.go: synthetic district records drawn from bounded uniform ranges
//   - score.go: success ratio and Update Stress Ratio (USR) per district
//   - cluster.go: min-max scaling, k-means, and relabeling into risk tiers
//
// pipeline.go wires the stages together behind Run; config.go holds the YAML
// configuration that drives them.
//
// # Batch semantics
//
// Every derived column is a function of the whole batch. Scaling bounds and the
// mean USR per cluster are computed over the current population, so the same
// USR value can land in different tiers in different batches. Stages mutate the
// batch in place by filling in columns; no stage removes or reorders records.
//
// # Determinism
//
// All randomness flows from a PartitionedRNG keyed by the configured seed. Two
// runs with the same seed and configuration produce identical tiers. Parity
// with other random number generators is not a goal.
//
// The presentation layer lives in sub-package report.
package triage
