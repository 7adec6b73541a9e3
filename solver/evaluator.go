package solver

import (
	"fmt"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/field"
	"github.com/hupe1980/levito/fitness"
)

// Evaluator scores a population. The returned slice holds one fitness per
// individual, higher is better.
type Evaluator interface {
	Evaluate(pop [][]float64) ([]float64, error)
}

// TargetCounter is implemented by evaluators that know their target set.
// Solve refuses to start when the count is zero.
type TargetCounter interface {
	NumTargets() int
}

// EngineEvaluator propagates one individual per call.
type EngineEvaluator struct {
	engine  field.Engine
	targets *fitness.Targets
}

// NewCPUEvaluator scores individuals one at a time with engine.
func NewCPUEvaluator(engine field.Engine, targets []emitter.Point3D) (*EngineEvaluator, error) {
	if len(targets) == 0 {
		return nil, fitness.ErrEmptyTargets
	}
	return &EngineEvaluator{
		engine:  engine,
		targets: fitness.Resolve(engine.Volume(), targets),
	}, nil
}

// Evaluate implements Evaluator.
func (e *EngineEvaluator) Evaluate(pop [][]float64) ([]float64, error) {
	out := make([]float64, len(pop))
	for i, phases := range pop {
		f, err := e.engine.PropagatePhases(phases)
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", i, err)
		}
		out[i] = e.targets.Score(e.engine.GorkovPotential(f))
	}
	return out, nil
}

// NumTargets implements TargetCounter.
func (e *EngineEvaluator) NumTargets() int { return e.targets.Len() }

// Targets returns the resolved target set.
func (e *EngineEvaluator) Targets() *fitness.Targets { return e.targets }

// BatchEvaluator scores a whole generation with one engine call.
type BatchEvaluator struct {
	engine  field.BatchEngine
	targets *fitness.Targets
}

// NewBatchEvaluator scores populations through engine's batch path.
func NewBatchEvaluator(engine field.BatchEngine, targets []emitter.Point3D) (*BatchEvaluator, error) {
	if len(targets) == 0 {
		return nil, fitness.ErrEmptyTargets
	}
	return &BatchEvaluator{
		engine:  engine,
		targets: fitness.Resolve(engine.Volume(), targets),
	}, nil
}

// Evaluate implements Evaluator.
func (e *BatchEvaluator) Evaluate(pop [][]float64) ([]float64, error) {
	fields, err := e.engine.PropagateBatch(pop)
	if err != nil {
		return nil, err
	}
	pots, err := e.engine.GorkovPotentialBatch(fields)
	if err != nil {
		return nil, err
	}
	return e.targets.ScoreBatch(pots), nil
}

// NumTargets implements TargetCounter.
func (e *BatchEvaluator) NumTargets() int { return e.targets.Len() }

// Targets returns the resolved target set.
func (e *BatchEvaluator) Targets() *fitness.Targets { return e.targets }

// NewEvaluator picks the batch path when engine supports it.
func NewEvaluator(engine field.Engine, targets []emitter.Point3D) (Evaluator, error) {
	if be, ok := engine.(field.BatchEngine); ok {
		return NewBatchEvaluator(be, targets)
	}
	return NewCPUEvaluator(engine, targets)
}
