package solver

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hupe1980/levito/emitter"
	"github.com/hupe1980/levito/fitness"
)

// Result is the outcome of one run.
type Result struct {
	// Phases is the best individual seen in any generation.
	Phases []float64
	// Fitness of Phases.
	Fitness float64
	// Generation in which Phases was found. 0 is the initial population.
	Generation int
	// History holds the best-so-far fitness after the initial population
	// and after every generation, so len(History) == Generations+1.
	History []float64
	// Evaluations counts individuals scored.
	Evaluations int
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Solver runs the genetic algorithm with a fixed configuration.
type Solver struct {
	cfg Config
}

// New validates cfg and returns a solver.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

// Config returns the solver configuration.
func (s *Solver) Config() Config { return s.cfg }

// Solve is a convenience wrapper around New and (*Solver).Solve.
func Solve(ctx context.Context, cfg Config, eval Evaluator, numEmitters int, seed []float64) (*Result, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx, eval, numEmitters, seed)
}

// Solve searches a phase vector of length numEmitters. seed is used by
// InitPerturbedSeed and ignored otherwise.
//
// ctx is only checked before the run starts. A started run always completes
// its generation budget.
func (s *Solver) Solve(ctx context.Context, eval Evaluator, numEmitters int, seed []float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, fmt.Errorf("solver: nil evaluator")
	}
	if tc, ok := eval.(TargetCounter); ok && tc.NumTargets() == 0 {
		return nil, fitness.ErrEmptyTargets
	}
	if numEmitters <= 0 {
		return nil, emitter.ErrEmptyArray
	}
	if seed != nil && len(seed) != numEmitters {
		return nil, &emitter.ErrPhaseLength{Expected: numEmitters, Actual: len(seed)}
	}

	start := time.Now()
	cfg := s.cfg
	rng := rand.New(rand.NewPCG(cfg.RandSeed, cfg.RandSeed^0x9e3779b97f4a7c15))

	pop := s.initPopulation(rng, numEmitters, seed)
	scores, err := evaluate(eval, pop)
	if err != nil {
		return nil, err
	}

	res := &Result{
		History:     make([]float64, 0, cfg.Generations+1),
		Evaluations: len(pop),
	}
	best := argmax(scores)
	res.Phases = slices.Clone(pop[best])
	res.Fitness = scores[best]
	res.History = append(res.History, res.Fitness)

	elites := cfg.Elites()
	order := make([]int, len(pop))
	for gen := 1; gen <= cfg.Generations; gen++ {
		// Select
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(scores[b], scores[a])
		})

		next := make([][]float64, len(pop))
		nextScores := make([]float64, len(pop))
		for i := 0; i < elites; i++ {
			next[i] = pop[order[i]]
			nextScores[i] = scores[order[i]]
		}

		// Reproduce
		for i := elites; i < len(next); i++ {
			next[i] = s.reproduce(rng, next[:elites])
		}

		// Evaluate children only; elites keep their scores.
		if children := next[elites:]; len(children) > 0 {
			childScores, err := evaluate(eval, children)
			if err != nil {
				return nil, fmt.Errorf("generation %d: %w", gen, err)
			}
			copy(nextScores[elites:], childScores)
			res.Evaluations += len(children)

			if i := argmax(childScores); childScores[i] > res.Fitness {
				res.Phases = slices.Clone(children[i])
				res.Fitness = childScores[i]
				res.Generation = gen
			}
		}

		res.History = append(res.History, res.Fitness)
		pop, scores = next, nextScores
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (s *Solver) initPopulation(rng *rand.Rand, n int, seed []float64) [][]float64 {
	pop := make([][]float64, s.cfg.PopulationSize)
	perturb := s.cfg.Init == InitPerturbedSeed && seed != nil
	for p := range pop {
		ind := make([]float64, n)
		switch {
		case perturb && p == 0:
			// Keep the seed itself so a re-solve never starts worse.
			for i, v := range seed {
				ind[i] = emitter.WrapPhase(v)
			}
		case perturb:
			for i, v := range seed {
				ind[i] = emitter.WrapPhase(v + rng.NormFloat64()*s.cfg.SeedSigma)
			}
		default:
			for i := range ind {
				ind[i] = rng.Float64() * emitter.TwoPi
			}
		}
		pop[p] = ind
	}
	return pop
}

// reproduce builds one child by single-point crossover of two distinct
// elites followed by an optional single-gene mutation.
func (s *Solver) reproduce(rng *rand.Rand, elites [][]float64) []float64 {
	a := rng.IntN(len(elites))
	b := rng.IntN(len(elites) - 1)
	if b >= a {
		b++
	}
	pa, pb := elites[a], elites[b]
	n := len(pa)

	child := make([]float64, n)
	cut := n
	if n > 1 {
		cut = 1 + rng.IntN(n-1)
	}
	copy(child[:cut], pa[:cut])
	copy(child[cut:], pb[cut:])

	if rng.Float64() < s.cfg.MutationRate {
		child[rng.IntN(n)] = rng.Float64() * emitter.TwoPi
	}
	return child
}

func evaluate(eval Evaluator, pop [][]float64) ([]float64, error) {
	scores, err := eval.Evaluate(pop)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if len(scores) != len(pop) {
		return nil, fmt.Errorf("evaluate: got %d scores for %d individuals", len(scores), len(pop))
	}
	for i, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("solver: non-finite fitness %v for individual %d", v, i))
		}
	}
	return scores, nil
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
