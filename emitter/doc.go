// Package emitter defines the static geometry of a phased ultrasonic array.
//
// # Types
//
//   - Point3D: a position in millimetres
//   - Emitter: a point source (position, carrier selector, amplitude, phase)
//   - Array: an ordered, fixed-length set of emitters
//
// # Builders
//
// The common hardware layout surrounds a cubic working volume with six planar
// faces of N x N transducers:
//
//	arr, _ := emitter.NewFaceArray(emitter.DefaultFaceConfig())
//	fmt.Println(arr.Len()) // 384
//
// The Phase field of each emitter holds the stored solution. Field engines
// read phases from explicit phase vectors and never write to the array.
package emitter
