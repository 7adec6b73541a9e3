package field

import (
	"fmt"
	"math"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/internal/resource"
)

// source is an emitter converted to SI units.
type source struct {
	x, y, z float64 // metres
	k       float64 // rad/m
	amp     float64
	phase   float64
}

func toSources(emitters []emitter.Emitter, m Medium) []source {
	out := make([]source, len(emitters))
	for i, e := range emitters {
		out[i] = source{
			x:     e.Position.X * 1e-3,
			y:     e.Position.Y * 1e-3,
			z:     e.Position.Z * 1e-3,
			k:     m.Wavenumber(e.FrequencySelect),
			amp:   e.Amplitude,
			phase: e.Phase,
		}
	}
	return out
}

// clampedDistance returns the source-to-point distance in metres.
func clampedDistance(s source, x, y, z float64) float64 {
	dx, dy, dz := x-s.x, y-s.y, z-s.z
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if d < MinDistance {
		d = MinDistance
	}
	return d
}

// superpose sums A·exp(i(kd+φ)) over all sources at one point (metres).
func superpose(src []source, x, y, z float64) complex128 {
	var re, im float64
	for _, s := range src {
		d := clampedDistance(s, x, y, z)
		sn, cs := math.Sincos(s.k*d + s.phase)
		re += s.amp * cs
		im += s.amp * sn
	}
	return complex(re, im)
}

// CPU evaluates every wavelet per cell on each call.
type CPU struct {
	arr     *emitter.Array
	vol     Volume
	physics Physics
	rc      *resource.Controller
	chunk   int
}

// NewCPU creates a CPU engine for arr sampled over vol.
func NewCPU(arr *emitter.Array, vol Volume, optFns ...func(o *Options)) (*CPU, error) {
	if arr == nil || arr.Len() == 0 {
		return nil, emitter.ErrEmptyArray
	}
	if err := vol.Validate(); err != nil {
		return nil, err
	}
	opts := applyOptions(optFns)
	if err := opts.Physics.Validate(); err != nil {
		return nil, err
	}
	return &CPU{
		arr:     arr,
		vol:     vol,
		physics: opts.Physics,
		rc:      opts.Resources,
		chunk:   1,
	}, nil
}

// Name implements Engine.
func (c *CPU) Name() string { return "cpu" }

// Array implements Engine.
func (c *CPU) Array() *emitter.Array { return c.arr }

// Volume implements Engine.
func (c *CPU) Volume() Volume { return c.vol }

// Physics returns the physical constants in use.
func (c *CPU) Physics() Physics { return c.physics }

// Propagate implements Engine.
func (c *CPU) Propagate(emitters []emitter.Emitter) (*Field, error) {
	if len(emitters) == 0 {
		return nil, emitter.ErrEmptyArray
	}
	m := c.physics.Medium
	src := toSources(emitters, m)
	f := newField(c.vol, m.AngularFrequency(emitter.MeanFrequencySelect(emitters)))
	d := f.Dims
	vol := c.vol

	// One x-slab per work item.
	err := parallelFor(c.rc, d.NX, c.chunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < d.NY; j++ {
				for k := 0; k < d.NZ; k++ {
					p := vol.CellCenter(i, j, k)
					f.Data[d.Index(i, j, k)] = superpose(src, p.X*1e-3, p.Y*1e-3, p.Z*1e-3)
				}
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("propagate: %w", err)
	}
	return f, nil
}

// PropagatePhases implements Engine.
func (c *CPU) PropagatePhases(phases []float64) (*Field, error) {
	em, err := c.arr.WithPhases(phases)
	if err != nil {
		return nil, err
	}
	return c.Propagate(em)
}

// GorkovPotential implements Engine.
func (c *CPU) GorkovPotential(f *Field) *Potential {
	return gorkovStencil(f, c.physics)
}
