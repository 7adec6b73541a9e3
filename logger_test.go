package levito

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/levito/solver"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.LogCreate(ctx, 7, ShapeCube, 8, nil)
	assert.Contains(t, buf.String(), `"msg":"object created"`)
	assert.Contains(t, buf.String(), `"shape":"cube"`)

	buf.Reset()
	run := uuid.New()
	l.WithRun(run).LogSolve(ctx, 8, &solver.Result{Fitness: 1.5, Evaluations: 10, Duration: time.Millisecond}, nil)
	assert.Contains(t, buf.String(), run.String())
	assert.Contains(t, buf.String(), `"evaluations":10`)

	buf.Reset()
	l.WithID(3).LogMove(ctx, 3, 2, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.LogSnapshot(ctx, "scene", 2, nil)
	l.LogRestore(ctx, "scene", 2, nil)
	l.LogDelete(ctx, 3, false)
	assert.Contains(t, buf.String(), "snapshot saved")
	assert.Contains(t, buf.String(), "snapshot restored")
	assert.Contains(t, buf.String(), `"found":false`)

	// Must not panic.
	NoopLogger().LogCreate(ctx, 1, ShapePoint, 1, nil)
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	assert.Zero(t, m.GetStats().SolveAvgNanos)

	m.RecordSolve(30, 100, 2*time.Millisecond, nil)
	m.RecordSolve(30, 0, 4*time.Millisecond, errors.New("x"))
	m.RecordCreate(8, time.Millisecond, nil)
	m.RecordCreate(0, time.Millisecond, ErrUnknownShape)

	s := m.GetStats()
	assert.Equal(t, int64(2), s.SolveCount)
	assert.Equal(t, int64(1), s.SolveErrors)
	assert.Equal(t, int64(100), s.SolveEvaluations)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), s.SolveAvgNanos)
	assert.Equal(t, int64(8), s.CreateTargets)
	assert.Equal(t, int64(1), s.CreateErrors)

	var _ MetricsCollector = NoopMetricsCollector{}
}
