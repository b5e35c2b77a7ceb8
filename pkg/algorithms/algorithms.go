// Package algorithms holds what every search engine shares: the Engine
// contract and the Result it produces.
package algorithms

import (
	"context"
	"time"

	"github.com/fogsched/taskopt/pkg/solution"
)

// Engine is one metaheuristic bound to a problem, a configuration and a
// random source.
type Engine interface {
	Name() string
	Run(ctx context.Context) (Result, error)
}

// Result is the outcome of one engine run.
type Result struct {
	Algorithm string
	// Best is the assignment the engine recommends.
	Best solution.Individual
	// Front is the Pareto set found by multi-objective engines. Empty for
	// scalar engines.
	Front       []solution.Individual
	Iterations  int
	Evaluations int64
	Duration    time.Duration
	Meta        map[string]any
}
