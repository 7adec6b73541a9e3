package field

import (
	"context"
	"errors"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/internal/resource"
	"golang.org/x/sync/errgroup"
)

// Engine propagates an emitter configuration into a pressure field.
type Engine interface {
	// Name identifies the implementation ("cpu", "accelerator").
	Name() string
	// Array returns the array the engine was built for.
	Array() *emitter.Array
	// Volume returns the sampled volume.
	Volume() Volume
	// Propagate superposes the wavelets of the given emitters.
	Propagate(emitters []emitter.Emitter) (*Field, error)
	// PropagatePhases superposes the engine's array driven by phases.
	// The array's stored phases are not modified.
	PropagatePhases(phases []float64) (*Field, error)
	// GorkovPotential derives the trapping potential of a field.
	GorkovPotential(f *Field) *Potential
}

// BatchEngine scores whole populations per call.
type BatchEngine interface {
	Engine
	// PropagateBatch propagates one field per phase vector.
	PropagateBatch(batch [][]float64) ([]*Field, error)
	// GorkovPotentialBatch derives one potential per field.
	GorkovPotentialBatch(fields []*Field) ([]*Potential, error)
}

// ErrClosed is returned by an engine used after Close.
var ErrClosed = errors.New("field: engine is closed")

// Options configures an engine.
type Options struct {
	Physics Physics
	// Resources bounds memory and worker concurrency. May be nil.
	Resources *resource.Controller
	// MinChunk is the smallest number of work items handed to one worker.
	MinChunk int
}

// DefaultOptions contains the engine defaults.
var DefaultOptions = Options{
	Physics:  DefaultPhysics(),
	MinChunk: 256,
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.MinChunk <= 0 {
		opts.MinChunk = 1
	}
	return opts
}

// parallelFor splits [0, n) into chunks and runs fn on worker slots from rc.
// Each index is visited by exactly one call, so results do not depend on
// the worker count.
func parallelFor(rc *resource.Controller, n, minChunk int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	workers := rc.Workers()
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return nil
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	ctx := context.Background()
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
