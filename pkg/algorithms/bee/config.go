package bee

import (
	"fmt"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

const (
	// DefaultDroneFraction is the share of the colony acting as drones when
	// NumberDrones is left at zero.
	DefaultDroneFraction = 0.4
	// DefaultFoodSourceTries bounds the refinement loop of a single worker.
	DefaultFoodSourceTries = 100
)

type Config struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	// NumberDrones is the count of members right after the queen that mate
	// with her. Zero means DefaultDroneFraction of the colony.
	NumberDrones      int
	FoodSourceTries   int
	WarmStartFraction float64
	Parallelism       int
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:  400,
		Generations:     600,
		MutationRate:    0.1,
		CrossoverRate:   0.9,
		FoodSourceTries: DefaultFoodSourceTries,
		Parallelism:     1,
	}
}

// drones resolves the configured drone count against the colony size.
func (c Config) drones() int {
	if c.NumberDrones > 0 {
		return c.NumberDrones
	}
	return int(DefaultDroneFraction * float64(c.PopulationSize))
}

func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be >= 2, got %d", c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.NumberDrones < 0 || c.NumberDrones >= c.PopulationSize {
		return fmt.Errorf("number of drones must be in [0, population size), got %d", c.NumberDrones)
	}
	if c.FoodSourceTries < 0 {
		return fmt.Errorf("food source tries must be >= 0, got %d", c.FoodSourceTries)
	}
	if err := algorithms.ValidateRate("mutation rate", c.MutationRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("crossover rate", c.CrossoverRate); err != nil {
		return err
	}
	return algorithms.ValidateRate("warm start fraction", c.WarmStartFraction)
}
