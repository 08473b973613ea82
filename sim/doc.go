// Package sim provides the discrete-time gut microbiome / immune
// interaction engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - taxon.go: the tracked bacterial taxa and immune markers, and their
//     canonical iteration order
//   - state.go: the enum-indexed simulation state and its initializer
//   - engine.go: the per-step update loop (interventions, drift,
//     dysbiosis coupling, immune update, flare indices)
//
// # Architecture
//
// The sim package owns state and stepping; the learned regressor lives
// in the sim/ml sub-package behind the Predictor interface. Randomness
// flows through PartitionedRNG (rng.go) with a fixed per-step draw
// order so that runs are bit-reproducible for a fixed seed.
package sim
