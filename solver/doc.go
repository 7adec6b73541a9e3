// Package solver searches phase vectors with an elitist genetic algorithm.
//
// One run is a fixed sequence of stages:
//
//	Init -> Evaluate -> (Select -> Reproduce -> Evaluate) x Generations -> Terminate
//
// Elites survive unchanged, so the best fitness never decreases. There is no
// early exit: every run spends the full generation budget, and the result is
// the best individual seen in any generation.
//
// Scoring is delegated to an Evaluator. NewCPUEvaluator propagates one
// individual at a time; NewBatchEvaluator hands the whole population to a
// field.BatchEngine in one call.
package solver
