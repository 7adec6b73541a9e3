package levito

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/uuid"
	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/fitness"
	"github.com/hupe1980/levito/internal/cache"
	"github.com/hupe1980/levito/internal/resource"
	"github.com/hupe1980/levito/solver"
)

// StabilityUnknown is returned by Stability for ids that are not registered.
const StabilityUnknown = -1.0

// ObjectID identifies a compiled object. IDs increase strictly and are never
// reused within one Operator.
type ObjectID uint64

// ObjectKind tells how an object's targets follow a move.
type ObjectKind uint8

const (
	// KindPrimitive objects regenerate their targets from the shape.
	KindPrimitive ObjectKind = iota
	// KindPointCloud objects translate their targets rigidly.
	KindPointCloud
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindPointCloud:
		return "point-cloud"
	default:
		return "unknown"
	}
}

// Object is a compiled set of traps.
type Object struct {
	ID       ObjectID          `json:"id"`
	Kind     ObjectKind        `json:"kind"`
	Shape    Shape             `json:"shape,omitempty"`
	Location emitter.Point3D   `json:"location"`
	Targets  []emitter.Point3D `json:"targets"`
	Phases   []float64         `json:"phases"`
	// Revision increases with every re-solve of the same id.
	Revision uint64  `json:"revision"`
	Fitness  float64 `json:"fitness"`
}

func (o *Object) clone() Object {
	cp := *o
	cp.Targets = slices.Clone(o.Targets)
	cp.Phases = slices.Clone(o.Phases)
	return cp
}

// Operator compiles objects into phase vectors for one emitter array.
type Operator struct {
	mu sync.Mutex

	array      *emitter.Array
	engine     field.Engine
	rc         *resource.Controller
	opts       options
	shapes     *ShapeRegistry
	logger     *Logger
	metrics    MetricsCollector
	objects    map[ObjectID]*Object
	live       *roaring64.Bitmap
	nextID     ObjectID
	potentials *cache.LRU[cache.PotentialKey, *field.Potential]
	closed     bool
}

// New creates an Operator that owns array. The caller must not modify array
// afterwards; read it through Emitters and Phases.
func New(array *emitter.Array, optFns ...Option) (*Operator, error) {
	if array == nil || array.Len() == 0 {
		return nil, emitter.ErrEmptyArray
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.solver.Validate(); err != nil {
		return nil, err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes: opts.memoryLimit,
		MaxWorkers:       opts.maxWorkers,
		SolvesPerSecond:  opts.solvesPerSecond,
		SolveBurst:       opts.solveBurst,
	})

	engineOpts := func(o *field.Options) {
		o.Physics = opts.physics
		o.Resources = rc
	}

	var (
		engine field.Engine
		err    error
	)
	switch opts.engine {
	case EngineCPU:
		engine, err = field.NewCPU(array, opts.volume, engineOpts)
	case EngineAccelerator:
		engine, err = field.NewAccelerator(array, opts.volume, engineOpts)
	default:
		return nil, fmt.Errorf("unknown engine kind %d", opts.engine)
	}
	if err != nil {
		return nil, translateError(err)
	}

	shapes := opts.shapes
	if shapes == nil {
		shapes = DefaultShapes()
	}

	return &Operator{
		array:      array,
		engine:     engine,
		rc:         rc,
		opts:       opts,
		shapes:     shapes,
		logger:     opts.logger,
		metrics:    opts.metricsCollector,
		objects:    make(map[ObjectID]*Object),
		live:       roaring64.New(),
		nextID:     1,
		potentials: cache.NewLRU[cache.PotentialKey, *field.Potential](opts.potentialCacheSize, rc),
	}, nil
}

// Engine returns the name of the active field engine.
func (o *Operator) Engine() string { return o.engine.Name() }

// Emitters returns a copy of the emitter array. Its phases hold the most
// recent solution.
func (o *Operator) Emitters() []emitter.Emitter {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.array.Emitters()
}

// Phases returns a copy of the most recently solved phase vector.
func (o *Operator) Phases() []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.array.Phases()
}

// NumEmitters returns the number of emitters.
func (o *Operator) NumEmitters() int { return o.array.Len() }

// Shapes returns the shape registry.
func (o *Operator) Shapes() *ShapeRegistry { return o.shapes }

// CreateObject generates targets for shape at location, solves for them and
// registers the result under a fresh id.
func (o *Operator) CreateObject(ctx context.Context, shape Shape, location emitter.Point3D) (ObjectID, error) {
	start := time.Now()

	gen, ok := o.shapes.Get(shape)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownShape, shape)
		o.metrics.RecordCreate(0, time.Since(start), err)
		o.logger.LogCreate(ctx, 0, shape, 0, err)
		return 0, err
	}
	targets := gen(location, o.opts.halfExtent)

	id, err := o.create(ctx, &Object{
		Kind:     KindPrimitive,
		Shape:    shape,
		Location: location,
		Targets:  targets,
	})
	o.metrics.RecordCreate(len(targets), time.Since(start), err)
	o.logger.LogCreate(ctx, id, shape, len(targets), err)
	return id, err
}

// CreateFromPointCloud registers an object whose targets are cloud. The
// object's location is the centroid of the cloud. It returns the id and the
// number of targets.
func (o *Operator) CreateFromPointCloud(ctx context.Context, cloud []emitter.Point3D) (ObjectID, int, error) {
	start := time.Now()

	if len(cloud) == 0 {
		o.metrics.RecordCreate(0, time.Since(start), ErrEmptyTargets)
		o.logger.LogCreate(ctx, 0, "", 0, ErrEmptyTargets)
		return 0, 0, ErrEmptyTargets
	}

	id, err := o.create(ctx, &Object{
		Kind:     KindPointCloud,
		Location: emitter.Centroid(cloud),
		Targets:  slices.Clone(cloud),
	})
	o.metrics.RecordCreate(len(cloud), time.Since(start), err)
	o.logger.LogCreate(ctx, id, "", len(cloud), err)
	if err != nil {
		return 0, 0, err
	}
	return id, len(cloud), nil
}

func (o *Operator) create(ctx context.Context, obj *Object) (ObjectID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, ErrClosed
	}

	res, err := o.solve(ctx, obj.Targets, nil)
	if err != nil {
		return 0, err
	}

	obj.ID = o.nextID
	o.nextID++
	obj.Phases = res.Phases
	obj.Fitness = res.Fitness
	obj.Revision = 1

	o.objects[obj.ID] = obj
	o.live.Add(uint64(obj.ID))
	return obj.ID, nil
}

// MoveObject relocates an object and re-solves it under the same id. It
// reports false when id is unknown.
func (o *Operator) MoveObject(ctx context.Context, id ObjectID, location emitter.Point3D) (bool, error) {
	start := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false, ErrClosed
	}

	obj, ok := o.objects[id]
	if !ok {
		return false, nil
	}

	var targets []emitter.Point3D
	switch obj.Kind {
	case KindPrimitive:
		gen, ok := o.shapes.Get(obj.Shape)
		if !ok {
			err := fmt.Errorf("%w: %q", ErrUnknownShape, obj.Shape)
			o.metrics.RecordMove(time.Since(start), err)
			o.logger.LogMove(ctx, id, obj.Revision, err)
			return true, err
		}
		targets = gen(location, o.opts.halfExtent)
	default:
		targets = emitter.Translate(obj.Targets, location.Sub(obj.Location))
	}

	var seed []float64
	if o.opts.seededMoves {
		seed = obj.Phases
	}

	res, err := o.solve(ctx, targets, seed)
	o.metrics.RecordMove(time.Since(start), err)
	if err != nil {
		o.logger.LogMove(ctx, id, obj.Revision, err)
		return true, err
	}

	o.invalidate(id)
	obj.Location = location
	obj.Targets = targets
	obj.Phases = res.Phases
	obj.Fitness = res.Fitness
	obj.Revision++

	o.logger.LogMove(ctx, id, obj.Revision, nil)
	return true, nil
}

// DeleteObject removes an object. It reports false when id is unknown.
func (o *Operator) DeleteObject(id ObjectID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, found := o.objects[id]
	if found {
		delete(o.objects, id)
		o.live.Remove(uint64(id))
		o.invalidate(id)
	}

	o.metrics.RecordDelete(found)
	o.logger.LogDelete(context.Background(), id, found)
	return found
}

// Stability re-propagates the stored phases of an object and returns the
// mean Gorkov potential at its in-bounds targets. More negative values mean
// deeper traps. It returns StabilityUnknown when id is not registered.
func (o *Operator) Stability(id ObjectID) float64 {
	start := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	obj, ok := o.objects[id]
	if !ok || o.closed {
		o.metrics.RecordStability(time.Since(start), false)
		return StabilityUnknown
	}

	pot, err := o.potential(obj)
	if err != nil {
		o.logger.WithID(id).Error("stability propagation failed", "error", err)
		o.metrics.RecordStability(time.Since(start), false)
		return StabilityUnknown
	}

	v := fitness.Resolve(o.engine.Volume(), obj.Targets).Mean(pot)
	o.metrics.RecordStability(time.Since(start), true)
	return v
}

// Diagnostics reports fitness, peak potential and target ratio of an object.
func (o *Operator) Diagnostics(id ObjectID) (fitness.Diagnostics, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	obj, ok := o.objects[id]
	if !ok || o.closed {
		return fitness.Diagnostics{}, false
	}

	pot, err := o.potential(obj)
	if err != nil {
		return fitness.Diagnostics{}, false
	}
	return fitness.Resolve(o.engine.Volume(), obj.Targets).Evaluate(pot), true
}

// Object returns a copy of a registered object.
func (o *Operator) Object(id ObjectID) (Object, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	obj, ok := o.objects[id]
	if !ok {
		return Object{}, false
	}
	return obj.clone(), true
}

// IDs returns the registered ids in ascending order.
func (o *Operator) IDs() []ObjectID {
	o.mu.Lock()
	defer o.mu.Unlock()

	raw := o.live.ToArray()
	ids := make([]ObjectID, len(raw))
	for i, v := range raw {
		ids[i] = ObjectID(v)
	}
	return ids
}

// Len returns the number of registered objects.
func (o *Operator) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}

// MemoryUsage returns the bytes held by the accelerator tensor and the
// potential cache.
func (o *Operator) MemoryUsage() int64 {
	return o.rc.MemoryUsage()
}

// Close releases cached tensors and potentials. Further creates and moves
// fail with ErrClosed.
func (o *Operator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	err := o.potentials.Close()
	if c, ok := o.engine.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// solve runs one solver pass. The caller must hold o.mu.
func (o *Operator) solve(ctx context.Context, targets []emitter.Point3D, seed []float64) (*solver.Result, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyTargets
	}
	if err := o.rc.WaitSolve(ctx); err != nil {
		return nil, err
	}

	run := uuid.New()
	log := o.logger.WithRun(run)

	eval, err := solver.NewEvaluator(o.engine, targets)
	if err != nil {
		return nil, err
	}

	cfg := o.opts.solver
	if seed != nil {
		cfg.Init = solver.InitPerturbedSeed
	}

	res, err := solver.Solve(ctx, cfg, eval, o.array.Len(), seed)
	if err != nil {
		err = translateError(err)
		o.metrics.RecordSolve(cfg.Generations, 0, 0, err)
		log.LogSolve(ctx, len(targets), nil, err)
		return nil, err
	}
	o.metrics.RecordSolve(cfg.Generations, res.Evaluations, res.Duration, nil)
	log.LogSolve(ctx, len(targets), res, nil)

	if err := o.array.ApplyPhases(res.Phases); err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

// potential returns the Gorkov potential of an object's stored phases.
// The caller must hold o.mu.
func (o *Operator) potential(obj *Object) (*field.Potential, error) {
	key := cache.PotentialKey{Object: uint64(obj.ID), Revision: obj.Revision}
	if pot, ok := o.potentials.Get(key); ok {
		return pot, nil
	}

	f, err := o.engine.PropagatePhases(obj.Phases)
	if err != nil {
		return nil, translateError(err)
	}
	pot := o.engine.GorkovPotential(f)
	o.potentials.Set(key, pot)
	return pot, nil
}

func (o *Operator) invalidate(id ObjectID) {
	o.potentials.Invalidate(func(k cache.PotentialKey) bool {
		return k.Object == uint64(id)
	})
}
