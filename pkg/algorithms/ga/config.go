package ga

import (
	"fmt"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

// Pipeline selects how a generation is produced.
type Pipeline string

const (
	// PipelineSteadyState replaces members in place when their offspring is
	// at least as fit.
	PipelineSteadyState Pipeline = "steady"
	// PipelineGenerational builds a whole new generation from elites,
	// roulette survivors and two-child crossover.
	PipelineGenerational Pipeline = "generational"
)

type Config struct {
	PopulationSize    int
	Generations       int
	MutationRate      float64
	CrossoverRate     float64
	ElitismCount      int
	Pipeline          Pipeline
	WarmStartFraction float64
	Parallelism       int
}

func DefaultConfig() Config {
	return Config{
		PopulationSize: 400,
		Generations:    600,
		MutationRate:   0.1,
		CrossoverRate:  0.9,
		ElitismCount:   1,
		Pipeline:       PipelineSteadyState,
		Parallelism:    1,
	}
}

func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be >= 2, got %d", c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.ElitismCount < 0 || c.ElitismCount >= c.PopulationSize {
		return fmt.Errorf("elitism count must be in [0, population size), got %d", c.ElitismCount)
	}
	if err := algorithms.ValidateRate("mutation rate", c.MutationRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("crossover rate", c.CrossoverRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("warm start fraction", c.WarmStartFraction); err != nil {
		return err
	}
	switch c.Pipeline {
	case PipelineSteadyState, PipelineGenerational:
	default:
		return fmt.Errorf("unknown pipeline %q", c.Pipeline)
	}
	return nil
}
