package levito

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    solveHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSolve(generations, evaluations int, duration time.Duration, err error) {
//	    p.solveHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordCreate is called after each create operation.
	// targets is the number of target points of the object.
	RecordCreate(targets int, duration time.Duration, err error)

	// RecordMove is called after each move of an existing object.
	RecordMove(duration time.Duration, err error)

	// RecordDelete is called after each delete. found is false for unknown ids.
	RecordDelete(found bool)

	// RecordStability is called after each stability query.
	RecordStability(duration time.Duration, found bool)

	// RecordSolve is called after each solver run.
	RecordSolve(generations, evaluations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordMove(time.Duration, error)            {}
func (NoopMetricsCollector) RecordDelete(bool)                          {}
func (NoopMetricsCollector) RecordStability(time.Duration, bool)        {}
func (NoopMetricsCollector) RecordSolve(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount      atomic.Int64
	CreateErrors     atomic.Int64
	CreateTargets    atomic.Int64
	MoveCount        atomic.Int64
	MoveErrors       atomic.Int64
	DeleteCount      atomic.Int64
	DeleteMisses     atomic.Int64
	StabilityCount   atomic.Int64
	StabilityMisses  atomic.Int64
	SolveCount       atomic.Int64
	SolveErrors      atomic.Int64
	SolveEvaluations atomic.Int64
	SolveTotalNanos  atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(targets int, _ time.Duration, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
		return
	}
	b.CreateTargets.Add(int64(targets))
}

// RecordMove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMove(_ time.Duration, err error) {
	b.MoveCount.Add(1)
	if err != nil {
		b.MoveErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(found bool) {
	b.DeleteCount.Add(1)
	if !found {
		b.DeleteMisses.Add(1)
	}
}

// RecordStability implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStability(_ time.Duration, found bool) {
	b.StabilityCount.Add(1)
	if !found {
		b.StabilityMisses.Add(1)
	}
}

// RecordSolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSolve(_, evaluations int, duration time.Duration, err error) {
	b.SolveCount.Add(1)
	b.SolveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SolveErrors.Add(1)
		return
	}
	b.SolveEvaluations.Add(int64(evaluations))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:      b.CreateCount.Load(),
		CreateErrors:     b.CreateErrors.Load(),
		CreateTargets:    b.CreateTargets.Load(),
		MoveCount:        b.MoveCount.Load(),
		MoveErrors:       b.MoveErrors.Load(),
		DeleteCount:      b.DeleteCount.Load(),
		DeleteMisses:     b.DeleteMisses.Load(),
		StabilityCount:   b.StabilityCount.Load(),
		StabilityMisses:  b.StabilityMisses.Load(),
		SolveCount:       b.SolveCount.Load(),
		SolveErrors:      b.SolveErrors.Load(),
		SolveEvaluations: b.SolveEvaluations.Load(),
		SolveAvgNanos:    b.getAvgSolveNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgSolveNanos() int64 {
	count := b.SolveCount.Load()
	if count == 0 {
		return 0
	}
	return b.SolveTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount      int64
	CreateErrors     int64
	CreateTargets    int64
	MoveCount        int64
	MoveErrors       int64
	DeleteCount      int64
	DeleteMisses     int64
	StabilityCount   int64
	StabilityMisses  int64
	SolveCount       int64
	SolveErrors      int64
	SolveEvaluations int64
	SolveAvgNanos    int64
}
