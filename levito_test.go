package levito_test

import (
	"context"
	"testing"

	"github.com/hupe1980/levito"
	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/solver"
	"github.com/hupe1980/levito/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var centre = emitter.Point3D{X: 10, Y: 10, Z: 10}

func quickSolver() solver.Config {
	cfg := solver.DefaultConfig()
	cfg.Generations = 3
	cfg.PopulationSize = 6
	return cfg
}

func newOperator(t *testing.T, optFns ...levito.Option) *levito.Operator {
	t.Helper()
	arr, err := testutil.FaceArray(20, 2)
	require.NoError(t, err)

	opts := append([]levito.Option{
		levito.WithVolume(field.CubeVolume(20, 2)),
		levito.WithSolverConfig(quickSolver()),
		levito.WithHalfExtent(4),
	}, optFns...)

	op, err := levito.New(arr, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = op.Close() })
	return op
}

func TestNew(t *testing.T) {
	t.Run("nil array", func(t *testing.T) {
		_, err := levito.New(nil)
		assert.ErrorIs(t, err, emitter.ErrEmptyArray)
	})

	t.Run("invalid solver config", func(t *testing.T) {
		arr, err := testutil.FaceArray(20, 2)
		require.NoError(t, err)
		cfg := quickSolver()
		cfg.PopulationSize = 1
		_, err = levito.New(arr, levito.WithSolverConfig(cfg))
		assert.ErrorIs(t, err, solver.ErrInvalidConfig)
	})

	t.Run("memory limit", func(t *testing.T) {
		arr, err := testutil.FaceArray(20, 2)
		require.NoError(t, err)
		_, err = levito.New(arr,
			levito.WithVolume(field.CubeVolume(20, 2)),
			levito.WithMemoryLimit(1024),
		)
		assert.ErrorIs(t, err, levito.ErrMemoryLimitExceeded)
	})

	t.Run("engines", func(t *testing.T) {
		assert.Equal(t, "accelerator", newOperator(t).Engine())
		assert.Equal(t, "cpu", newOperator(t, levito.WithEngine(levito.EngineCPU)).Engine())
		assert.Positive(t, newOperator(t).MemoryUsage())
	})
}

func TestObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)

	id1, err := op.CreateObject(ctx, levito.ShapeCube, centre)
	require.NoError(t, err)
	id2, err := op.CreateObject(ctx, levito.ShapePoint, centre)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
	assert.Equal(t, 2, op.Len())

	obj, ok := op.Object(id1)
	require.True(t, ok)
	assert.Len(t, obj.Targets, 8)
	assert.Len(t, obj.Phases, op.NumEmitters())
	assert.Equal(t, uint64(1), obj.Revision)
	assert.Equal(t, levito.KindPrimitive, obj.Kind)

	latest, ok := op.Object(id2)
	require.True(t, ok)
	assert.InDeltaSlice(t, latest.Phases, op.Phases(), 1e-12, "array carries the latest solution")

	// Accessors hand out copies.
	phases := op.Phases()
	phases[0] += 1
	emitters := op.Emitters()
	emitters[0].Phase += 1
	assert.InDelta(t, latest.Phases[0], op.Phases()[0], 1e-12)
	assert.InDelta(t, latest.Phases[0], op.Emitters()[0].Phase, 1e-12)

	assert.True(t, op.DeleteObject(id1))
	assert.False(t, op.DeleteObject(id1))
	assert.Equal(t, levito.StabilityUnknown, op.Stability(id1))
	_, ok = op.Object(id1)
	assert.False(t, ok)

	id3, err := op.CreateObject(ctx, levito.ShapeSquare, centre)
	require.NoError(t, err)
	assert.Greater(t, id3, id2, "ids are never reused")
	assert.Equal(t, []levito.ObjectID{id2, id3}, op.IDs())
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)

	t.Run("unknown shape", func(t *testing.T) {
		_, err := op.CreateObject(ctx, "torus", centre)
		assert.ErrorIs(t, err, levito.ErrUnknownShape)
		assert.Zero(t, op.Len())
	})

	t.Run("empty cloud", func(t *testing.T) {
		_, n, err := op.CreateFromPointCloud(ctx, nil)
		assert.ErrorIs(t, err, levito.ErrEmptyTargets)
		assert.Zero(t, n)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := op.CreateObject(cctx, levito.ShapePoint, centre)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("closed", func(t *testing.T) {
		closed := newOperator(t)
		require.NoError(t, closed.Close())
		require.NoError(t, closed.Close())
		_, err := closed.CreateObject(ctx, levito.ShapePoint, centre)
		assert.ErrorIs(t, err, levito.ErrClosed)
	})
}

func TestCreateFromPointCloud(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)

	cloud := []emitter.Point3D{
		{X: 6, Y: 10, Z: 10},
		{X: 14, Y: 10, Z: 10},
		{X: 10, Y: 6, Z: 10},
		{X: 10, Y: 14, Z: 10},
	}
	id, n, err := op.CreateFromPointCloud(ctx, cloud)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	obj, ok := op.Object(id)
	require.True(t, ok)
	assert.Equal(t, levito.KindPointCloud, obj.Kind)
	assert.InDelta(t, 10, obj.Location.X, 1e-12)
	assert.InDelta(t, 10, obj.Location.Y, 1e-12)

	moved, err := op.MoveObject(ctx, id, emitter.Point3D{X: 12, Y: 10, Z: 10})
	require.NoError(t, err)
	assert.True(t, moved)

	obj, _ = op.Object(id)
	assert.Equal(t, uint64(2), obj.Revision)
	assert.InDelta(t, 8, obj.Targets[0].X, 1e-12, "point clouds translate rigidly")
	assert.InDelta(t, 16, obj.Targets[1].X, 1e-12)
}

func TestMoveObject(t *testing.T) {
	ctx := context.Background()

	for _, seeded := range []bool{true, false} {
		t.Run(map[bool]string{true: "seeded", false: "unseeded"}[seeded], func(t *testing.T) {
			op := newOperator(t, levito.WithSeededMoves(seeded))

			moved, err := op.MoveObject(ctx, 42, centre)
			require.NoError(t, err)
			assert.False(t, moved)

			id, err := op.CreateObject(ctx, levito.ShapeCube, centre)
			require.NoError(t, err)
			before := op.Stability(id)

			to := emitter.Point3D{X: 12, Y: 8, Z: 10}
			moved, err = op.MoveObject(ctx, id, to)
			require.NoError(t, err)
			assert.True(t, moved)

			obj, ok := op.Object(id)
			require.True(t, ok)
			assert.Equal(t, to, obj.Location)
			assert.Equal(t, uint64(2), obj.Revision)
			assert.ElementsMatch(t, levito.CubeTargets(to, 4), obj.Targets)
			assert.Equal(t, []levito.ObjectID{id}, op.IDs())

			assert.NotEqual(t, levito.StabilityUnknown, op.Stability(id))
			assert.NotEqual(t, before, op.Stability(id), "cached potential is invalidated on move")
		})
	}
}

func TestStabilityMatchesDiagnostics(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t, levito.WithEngine(levito.EngineCPU))

	id, err := op.CreateObject(ctx, levito.ShapeCube, centre)
	require.NoError(t, err)

	s := op.Stability(id)
	assert.NotEqual(t, levito.StabilityUnknown, s)
	assert.Equal(t, s, op.Stability(id), "stability is deterministic")

	d, ok := op.Diagnostics(id)
	require.True(t, ok)
	assert.Equal(t, s, d.MeanTargetPotential)
	assert.Zero(t, d.OutOfBounds)

	obj, _ := op.Object(id)
	assert.InEpsilon(t, obj.Fitness, d.Fitness, 1e-9)

	_, ok = op.Diagnostics(id + 100)
	assert.False(t, ok)
}

func TestCachelessOperator(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t, levito.WithPotentialCacheSize(0))

	id, err := op.CreateObject(ctx, levito.ShapePoint, centre)
	require.NoError(t, err)
	assert.Equal(t, op.Stability(id), op.Stability(id))
}

func TestOperatorMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &levito.BasicMetricsCollector{}
	op := newOperator(t, levito.WithMetricsCollector(metrics))

	id, err := op.CreateObject(ctx, levito.ShapeCube, centre)
	require.NoError(t, err)
	_, err = op.CreateObject(ctx, "torus", centre)
	require.Error(t, err)
	_, err = op.MoveObject(ctx, id, centre)
	require.NoError(t, err)
	op.Stability(id)
	op.Stability(id + 1)
	op.DeleteObject(id)
	op.DeleteObject(id)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.CreateCount)
	assert.Equal(t, int64(1), stats.CreateErrors)
	assert.Equal(t, int64(8), stats.CreateTargets)
	assert.Equal(t, int64(1), stats.MoveCount)
	assert.Equal(t, int64(2), stats.StabilityCount)
	assert.Equal(t, int64(1), stats.StabilityMisses)
	assert.Equal(t, int64(2), stats.DeleteCount)
	assert.Equal(t, int64(1), stats.DeleteMisses)
	assert.Equal(t, int64(2), stats.SolveCount)

	cfg := quickSolver()
	perSolve := int64(cfg.PopulationSize + cfg.Generations*(cfg.PopulationSize-cfg.Elites()))
	assert.Equal(t, 2*perSolve, stats.SolveEvaluations)
}

// TestCubeEndToEnd compiles the reference cube on the full 6 x 8 x 8 array.
func TestCubeEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end solve in short mode")
	}

	arr, err := emitter.NewFaceArray(emitter.DefaultFaceConfig())
	require.NoError(t, err)

	cfg := solver.DefaultConfig()
	cfg.Generations = 20
	cfg.PopulationSize = 20

	op, err := levito.New(arr,
		levito.WithVolume(field.DefaultVolume()),
		levito.WithSolverConfig(cfg),
	)
	require.NoError(t, err)
	defer op.Close()

	id, err := op.CreateObject(context.Background(), levito.ShapeCube, emitter.Point3D{X: 50, Y: 50, Z: 50})
	require.NoError(t, err)

	d, ok := op.Diagnostics(id)
	require.True(t, ok)
	assert.Zero(t, d.OutOfBounds)
	assert.Less(t, d.TargetRatio, 0.2)
}
