// Package field simulates the acoustic pressure field of a phased array and
// derives the Gorkov trapping potential from it.
//
// Two engines implement the same contract:
//
//   - CPU evaluates every emitter wavelet per cell on demand.
//   - Accelerator caches the grid coordinates and the per-cell/per-emitter
//     propagation tensor once, then scores whole GA populations per call
//     with PropagateBatch.
//
// Both are pure functions of (emitters or phases, volume, physics): they never
// write to the emitter array, so concurrent evaluation is safe.
//
// # Units
//
// Geometry is expressed in millimetres. Distances are converted to metres
// before the wavenumber is applied, and finite-difference gradients use the
// grid spacing in metres.
//
// # Boundary Convention
//
// Gradients are central differences in the interior and first-order one-sided
// differences on the volume faces. Axes with a single cell have zero gradient.
package field
