// Package fitness scores Gorkov potentials against a set of trap targets.
//
// A phase vector is good when the field is loud overall but quiet at the
// targets:
//
//	fitness = Σ_targets (max(U) - U(target))
//
// Targets outside the sampled volume add OutOfBoundsPenalty instead, which
// steers the optimizer away without failing the evaluation.
package fitness
