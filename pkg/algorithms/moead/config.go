package moead

import (
	"fmt"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

type Config struct {
	Generations    int
	NumSubProblems int
	// NumNeighbors counts the subproblem itself.
	NumNeighbors int
	// MaxLambda is the upper bound of the per-subproblem Poisson mean used
	// to draw initial genes.
	MaxLambda int
	// ReverseRate, SwapHalfRate and OnePointRate are cumulative thresholds
	// on one uniform draw selecting the offspring mutation.
	ReverseRate  float64
	SwapHalfRate float64
	OnePointRate float64
}

func DefaultConfig() Config {
	return Config{
		Generations:    600,
		NumSubProblems: 20,
		NumNeighbors:   7,
		MaxLambda:      15,
		ReverseRate:    0.2,
		SwapHalfRate:   0.4,
		OnePointRate:   0.6,
	}
}

func (c Config) Validate() error {
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	if c.NumSubProblems < 2 {
		return fmt.Errorf("number of subproblems must be >= 2, got %d", c.NumSubProblems)
	}
	if c.NumNeighbors < 2 || c.NumNeighbors > c.NumSubProblems {
		return fmt.Errorf("number of neighbors must be in [2, %d], got %d", c.NumSubProblems, c.NumNeighbors)
	}
	if c.MaxLambda < 1 {
		return fmt.Errorf("max lambda must be >= 1, got %d", c.MaxLambda)
	}
	if err := algorithms.ValidateRate("reverse rate", c.ReverseRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("swap half rate", c.SwapHalfRate); err != nil {
		return err
	}
	if err := algorithms.ValidateRate("one point rate", c.OnePointRate); err != nil {
		return err
	}
	if c.ReverseRate > c.SwapHalfRate || c.SwapHalfRate > c.OnePointRate {
		return fmt.Errorf("mutation thresholds must be non-decreasing, got %v, %v, %v",
			c.ReverseRate, c.SwapHalfRate, c.OnePointRate)
	}
	return nil
}
