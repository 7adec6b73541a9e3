package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/levito/emitter"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Phases returns n phases uniform in [0, 2π).
func (r *RNG) Phases(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.rand.Float64() * emitter.TwoPi
	}
	return out
}

// PhaseBatch returns pop phase vectors of length n.
// Uses a single backing array for efficiency.
func (r *RNG) PhaseBatch(pop, n int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, pop*n)
	batch := make([][]float64, pop)
	for p := range pop {
		row := data[p*n : (p+1)*n]
		for i := range row {
			row[i] = r.rand.Float64() * emitter.TwoPi
		}
		batch[p] = row
	}
	return batch
}

// UniformPoints returns n points uniform in the box [lo, hi).
func (r *RNG) UniformPoints(n int, lo, hi emitter.Point3D) []emitter.Point3D {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi.Sub(lo)
	out := make([]emitter.Point3D, n)
	for i := range out {
		out[i] = emitter.Point3D{
			X: lo.X + r.rand.Float64()*span.X,
			Y: lo.Y + r.rand.Float64()*span.Y,
			Z: lo.Z + r.rand.Float64()*span.Z,
		}
	}
	return out
}

// FaceArray builds a small face-mounted array around a cube of the given
// edge length at the origin.
func FaceArray(size float64, gridN int) (*emitter.Array, error) {
	cfg := emitter.DefaultFaceConfig()
	cfg.Size = size
	cfg.GridN = gridN
	return emitter.NewFaceArray(cfg)
}

// MaxAbsDiff returns the largest |a[i] - b[i]|.
func MaxAbsDiff(a, b []complex128) float64 {
	var worst float64
	for i := range min(len(a), len(b)) {
		d := a[i] - b[i]
		worst = math.Max(worst, math.Hypot(real(d), imag(d)))
	}
	return worst
}

// MaxAbs returns the largest |v[i]|.
func MaxAbs(v []float64) float64 {
	var worst float64
	for _, x := range v {
		worst = math.Max(worst, math.Abs(x))
	}
	return worst
}

// RelativeError returns max|a-b| scaled by max|a|. It returns the absolute
// error when a is all zero.
func RelativeError(a, b []float64) float64 {
	var diff float64
	for i := range min(len(a), len(b)) {
		diff = math.Max(diff, math.Abs(a[i]-b[i]))
	}
	scale := MaxAbs(a)
	if scale == 0 {
		return diff
	}
	return diff / scale
}
