package solver

import (
	"errors"
	"fmt"
	"math"
)

// InitStrategy selects how the first population is drawn.
type InitStrategy int

const (
	// InitUniform draws every gene uniformly in [0, 2π).
	InitUniform InitStrategy = iota
	// InitPerturbedSeed draws Gaussian perturbations around seed phases.
	// Without seed phases it behaves like InitUniform.
	InitPerturbedSeed
)

// String returns the strategy name.
func (s InitStrategy) String() string {
	switch s {
	case InitUniform:
		return "uniform"
	case InitPerturbedSeed:
		return "perturbed-seed"
	default:
		return "unknown"
	}
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid solver config")

// Config controls one solver run.
type Config struct {
	// Generations is the number of reproduction rounds.
	Generations int `json:"generations" toml:"generations"`
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `json:"population_size" toml:"population_size"`
	// EliteFraction of the population survives unchanged. At least two
	// elites are kept so crossover always has two parents.
	EliteFraction float64 `json:"elite_fraction" toml:"elite_fraction"`
	// MutationRate is the probability that a child gets one gene redrawn.
	MutationRate float64 `json:"mutation_rate" toml:"mutation_rate"`
	// Init selects the initial population strategy.
	Init InitStrategy `json:"init" toml:"init"`
	// SeedSigma is the standard deviation in radians for InitPerturbedSeed.
	SeedSigma float64 `json:"seed_sigma" toml:"seed_sigma"`
	// RandSeed makes runs reproducible.
	RandSeed uint64 `json:"rand_seed" toml:"rand_seed"`
}

// DefaultConfig returns the default solver settings.
func DefaultConfig() Config {
	return Config{
		Generations:    30,
		PopulationSize: 24,
		EliteFraction:  0.2,
		MutationRate:   0.25,
		Init:           InitUniform,
		SeedSigma:      0.3,
		RandSeed:       1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Generations < 0 {
		return fmt.Errorf("%w: generations %d", ErrInvalidConfig, c.Generations)
	}
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: population size %d, need at least 2", ErrInvalidConfig, c.PopulationSize)
	}
	if !(c.EliteFraction > 0 && c.EliteFraction <= 1) {
		return fmt.Errorf("%w: elite fraction %v", ErrInvalidConfig, c.EliteFraction)
	}
	if !(c.MutationRate >= 0 && c.MutationRate <= 1) {
		return fmt.Errorf("%w: mutation rate %v", ErrInvalidConfig, c.MutationRate)
	}
	if c.Init != InitUniform && c.Init != InitPerturbedSeed {
		return fmt.Errorf("%w: init strategy %d", ErrInvalidConfig, c.Init)
	}
	if c.SeedSigma < 0 || math.IsNaN(c.SeedSigma) {
		return fmt.Errorf("%w: seed sigma %v", ErrInvalidConfig, c.SeedSigma)
	}
	return nil
}

// Elites returns the number of individuals kept per generation.
func (c Config) Elites() int {
	n := int(math.Ceil(float64(c.PopulationSize) * c.EliteFraction))
	return min(max(n, 2), c.PopulationSize)
}
