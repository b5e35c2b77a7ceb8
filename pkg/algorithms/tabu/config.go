package tabu

import (
	"fmt"
	"time"
)

const (
	minIterations    = 50
	maxIterations    = 1500
	simpleIterations = 2000
)

// Config drives the adaptive tabu search.
type Config struct {
	// Iterations overrides the size-derived budget when positive.
	Iterations int
	// SimpleMode uses a fixed budget instead of one derived from the
	// task/node ratio.
	SimpleMode       bool
	TenureMin        int
	TenureMax        int
	StableLimit      int
	RestartFrequency int
	// MaxDuration bounds the wall-clock time of a run. Zero disables it.
	MaxDuration time.Duration
}

func DefaultConfig() Config {
	return Config{
		TenureMin:        2,
		TenureMax:        5,
		StableLimit:      50,
		RestartFrequency: 200,
		MaxDuration:      20 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %d", c.Iterations)
	}
	if c.TenureMin < 1 || c.TenureMax < c.TenureMin {
		return fmt.Errorf("tenure bounds must satisfy 1 <= min <= max, got [%d, %d]", c.TenureMin, c.TenureMax)
	}
	if c.StableLimit < 1 {
		return fmt.Errorf("stable limit must be >= 1, got %d", c.StableLimit)
	}
	if c.RestartFrequency < 1 {
		return fmt.Errorf("restart frequency must be >= 1, got %d", c.RestartFrequency)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must be >= 0, got %v", c.MaxDuration)
	}
	return nil
}

// IterationBudget is the number of iterations a run gets for a problem of
// the given size. Unbalanced problems, with many more tasks than nodes or
// the reverse, get more iterations.
func IterationBudget(taskCount, nodeCount int, simple bool) int {
	if simple {
		return simpleIterations
	}
	ratio := max(taskCount/nodeCount, nodeCount/taskCount)
	return max(minIterations, min(maxIterations, 100*ratio))
}

// HillClimbConfig bounds a steepest-random hill climb.
type HillClimbConfig struct {
	// MaxSteps caps the number of accepted moves. Zero means no cap.
	MaxSteps    int
	MaxDuration time.Duration
}

func DefaultHillClimbConfig() HillClimbConfig {
	return HillClimbConfig{MaxDuration: 20 * time.Second}
}

func (c HillClimbConfig) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must be >= 0, got %d", c.MaxSteps)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must be >= 0, got %v", c.MaxDuration)
	}
	return nil
}

// LocalSearchConfig drives the task-by-node tabu matrix search.
type LocalSearchConfig struct {
	// TabuLength is how many iterations a (task, node) pair stays forbidden
	// after the task leaves that node.
	TabuLength    int
	MaxStable     int
	MaxIterations int
	MaxDuration   time.Duration
}

func DefaultLocalSearchConfig() LocalSearchConfig {
	return LocalSearchConfig{
		TabuLength:    30,
		MaxStable:     100,
		MaxIterations: 10000,
		MaxDuration:   20 * time.Second,
	}
}

func (c LocalSearchConfig) Validate() error {
	if c.TabuLength < 0 {
		return fmt.Errorf("tabu length must be >= 0, got %d", c.TabuLength)
	}
	if c.MaxStable < 1 {
		return fmt.Errorf("max stable must be >= 1, got %d", c.MaxStable)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration must be >= 0, got %v", c.MaxDuration)
	}
	return nil
}
