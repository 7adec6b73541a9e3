// Package testutil provides testing utilities for levito.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for phase vectors and target points,
// small emitter arrays, and tolerance helpers for comparing fields.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	phases := rng.Phases(arr.Len())        // uniform [0, 2π)
//	batch := rng.PhaseBatch(24, arr.Len())  // one row per individual
//
// # Comparisons
//
//	err := testutil.RelativeError(want.Data, got.Data)
package testutil
