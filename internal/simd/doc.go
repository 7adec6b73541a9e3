// Package simd provides the phasor kernels behind wave superposition.
//
// # Operations
//
//   - Drive: exp(iφ) drive vector from a phase vector
//   - PhasorDot: Σ T[e]·drive[e] over one cached tensor row
//   - PhasorDotBatch: the same row against a whole population of drives
//   - SquaredMagnitude: |z|² over a complex slice
//
// # Kernel Selection
//
// There are two pure-Go kernel families: generic and unrolled. CPU features
// are read once at init through golang.org/x/sys/cpu and only decide between
// them. AVX2+FMA or ASIMD selects the four-accumulator unrolled kernels.
// Set LEVITO_SIMD=generic or LEVITO_SIMD=unrolled to pin a family.
package simd
