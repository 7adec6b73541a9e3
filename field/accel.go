package field

import (
	"fmt"
	"math"
	"sync"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/internal/resource"
	"github.com/hupe1980/levito/internal/simd"
)

// Accelerator caches the propagation geometry once and evaluates phase
// vectors, or whole populations of them, against it.
//
// The cache holds the cell-centre coordinates and, per cell and emitter,
// T = A·exp(i·k·d). A field for phases φ is then Σ_e T[cell,e]·exp(iφ_e),
// which replaces one sincos per (cell, emitter) with a complex
// multiply-add. Geometry never changes, so the cache is never invalidated.
type Accelerator struct {
	arr     *emitter.Array
	vol     Volume
	dims    Dims
	physics Physics
	rc      *resource.Controller
	chunk   int
	omega   float64

	n      int
	coords []float64   // cells × 3, metres
	tensor []complex64 // cells × n

	bytes  int64
	mu     sync.RWMutex
	closed bool

	fallback *CPU
}

// NewAccelerator builds the cached tensors for arr sampled over vol. The
// tensor memory is reserved through Options.Resources and fails with
// resource.ErrMemoryLimitExceeded when the budget is too small.
func NewAccelerator(arr *emitter.Array, vol Volume, optFns ...func(o *Options)) (*Accelerator, error) {
	cpu, err := NewCPU(arr, vol, optFns...)
	if err != nil {
		return nil, err
	}
	opts := applyOptions(optFns)

	d := vol.Dims()
	n := arr.Len()
	cells := d.Len()
	bytes := int64(cells)*int64(n)*8 + int64(cells)*3*8
	if err := opts.Resources.AcquireMemory(bytes); err != nil {
		return nil, fmt.Errorf("accelerator tensor (%d bytes): %w", bytes, err)
	}

	a := &Accelerator{
		arr:      arr,
		vol:      vol,
		dims:     d,
		physics:  opts.Physics,
		rc:       opts.Resources,
		chunk:    opts.MinChunk,
		omega:    opts.Physics.Medium.AngularFrequency(arr.MeanFrequencySelect()),
		n:        n,
		coords:   make([]float64, cells*3),
		tensor:   make([]complex64, cells*n),
		bytes:    bytes,
		fallback: cpu,
	}

	for idx := 0; idx < cells; idx++ {
		i, j, k := d.Coords(idx)
		p := vol.CellCenter(i, j, k)
		a.coords[idx*3] = p.X * 1e-3
		a.coords[idx*3+1] = p.Y * 1e-3
		a.coords[idx*3+2] = p.Z * 1e-3
	}

	src := toSources(arr.Emitters(), opts.Physics.Medium)
	err = parallelFor(a.rc, cells, a.chunk, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			x, y, z := a.coords[idx*3], a.coords[idx*3+1], a.coords[idx*3+2]
			row := a.tensor[idx*n : (idx+1)*n]
			for e, s := range src {
				sn, cs := math.Sincos(s.k * clampedDistance(s, x, y, z))
				row[e] = complex64(complex(s.amp*cs, s.amp*sn))
			}
		}
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("accelerator tensor: %w", err)
	}
	return a, nil
}

// Close releases the tensor memory reservation. Propagation after Close
// fails with ErrClosed.
func (a *Accelerator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	a.rc.ReleaseMemory(a.bytes)
	a.tensor = nil
	a.coords = nil
	return nil
}

// Name implements Engine.
func (a *Accelerator) Name() string { return "accelerator" }

// Array implements Engine.
func (a *Accelerator) Array() *emitter.Array { return a.arr }

// Volume implements Engine.
func (a *Accelerator) Volume() Volume { return a.vol }

// Physics returns the physical constants in use.
func (a *Accelerator) Physics() Physics { return a.physics }

// CacheBytes returns the size of the cached tensors.
func (a *Accelerator) CacheBytes() int64 { return a.bytes }

// Propagate implements Engine. Emitters sharing the cached geometry use the
// tensor; anything else is evaluated directly.
func (a *Accelerator) Propagate(emitters []emitter.Emitter) (*Field, error) {
	if a.isClosed() {
		return nil, ErrClosed
	}
	if !a.arr.SameGeometry(emitters) {
		return a.fallback.Propagate(emitters)
	}
	phases := make([]float64, len(emitters))
	for i, e := range emitters {
		phases[i] = e.Phase
	}
	return a.PropagatePhases(phases)
}

// PropagatePhases implements Engine.
func (a *Accelerator) PropagatePhases(phases []float64) (*Field, error) {
	if err := a.arr.CheckPhases(phases); err != nil {
		return nil, err
	}
	drive := make([]complex128, a.n)
	simd.Drive(phases, drive)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	f := newField(a.vol, a.omega)
	n := a.n
	err := parallelFor(a.rc, a.dims.Len(), a.chunk, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			f.Data[idx] = simd.PhasorDot(a.tensor[idx*n:(idx+1)*n], drive)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("propagate: %w", err)
	}
	return f, nil
}

// PropagateBatch implements BatchEngine. Each cached row is read once per
// call and multiplied against every individual's drive vector.
func (a *Accelerator) PropagateBatch(batch [][]float64) ([]*Field, error) {
	pop := len(batch)
	if pop == 0 {
		return nil, nil
	}
	n := a.n
	drives := make([]complex128, pop*n)
	for p, phases := range batch {
		if err := a.arr.CheckPhases(phases); err != nil {
			return nil, fmt.Errorf("individual %d: %w", p, err)
		}
		simd.Drive(phases, drives[p*n:(p+1)*n])
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	fields := make([]*Field, pop)
	for p := range fields {
		fields[p] = newField(a.vol, a.omega)
	}

	err := parallelFor(a.rc, a.dims.Len(), a.chunk, func(lo, hi int) {
		out := make([]complex128, pop)
		for idx := lo; idx < hi; idx++ {
			simd.PhasorDotBatch(a.tensor[idx*n:(idx+1)*n], drives, n, out)
			for p, z := range out {
				fields[p].Data[idx] = z
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("propagate batch: %w", err)
	}
	return fields, nil
}

// GorkovPotential implements Engine.
func (a *Accelerator) GorkovPotential(f *Field) *Potential {
	return gorkovSweep(f, a.physics)
}

// GorkovPotentialBatch implements BatchEngine.
func (a *Accelerator) GorkovPotentialBatch(fields []*Field) ([]*Potential, error) {
	out := make([]*Potential, len(fields))
	// Fields are independent; each worker owns whole fields.
	err := parallelFor(a.rc, len(fields), 1, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = gorkovSweep(fields[i], a.physics)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("gorkov batch: %w", err)
	}
	return out, nil
}

func (a *Accelerator) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}
