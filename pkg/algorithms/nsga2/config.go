package nsga2

import (
	"fmt"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

// CrossoverKind names the recombination operator used for reproduction.
type CrossoverKind string

const (
	CrossoverSBX       CrossoverKind = "sbx"
	CrossoverOnePoint  CrossoverKind = "onepoint"
	CrossoverTwoPoint  CrossoverKind = "twopoint"
	CrossoverUniform   CrossoverKind = "uniform"
	CrossoverNodeAware CrossoverKind = "nodeaware"
)

// NSGA2Config holds configuration parameters for NSGA-II
type NSGA2Config struct {
	PopulationSize int
	Generations    int
	CrossoverRate  float64
	// MutationRate is split between chromosome reversal and half swap.
	// Children escaping both get a single random gene change.
	MutationRate   float64
	TournamentSize int
	Crossover      CrossoverKind
	// DistributionIndex is the SBX eta. Larger values keep children closer
	// to their parents.
	DistributionIndex float64
	WarmStartFraction float64
	Parallelism       int
}

func DefaultConfig() NSGA2Config {
	return NSGA2Config{
		PopulationSize:    400,
		Generations:       600,
		CrossoverRate:     0.9,
		MutationRate:      0.1,
		TournamentSize:    4,
		Crossover:         CrossoverSBX,
		DistributionIndex: 20,
		Parallelism:       1,
	}
}

func (c NSGA2Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be >= 2, got %d", c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.TournamentSize < 2 {
		return fmt.Errorf("tournament size must be >= 2, got %d", c.TournamentSize)
	}
	if c.DistributionIndex < 0 {
		return fmt.Errorf("distribution index must be >= 0, got %v", c.DistributionIndex)
	}
	switch c.Crossover {
	case CrossoverSBX, CrossoverOnePoint, CrossoverTwoPoint, CrossoverUniform, CrossoverNodeAware:
	default:
		return fmt.Errorf("unknown crossover %q", c.Crossover)
	}
	if err := algorithms.ValidateRate("crossover rate", c.CrossoverRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("mutation rate", c.MutationRate); err != nil {
		return err
	}
	return algorithms.ValidateRate("warm start fraction", c.WarmStartFraction)
}
