package algorithms

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
	"github.com/fogsched/taskopt/pkg/warmstart"
)

// InitOptions controls how an initial population is built.
type InitOptions struct {
	Size int
	// WarmStartFraction is the share of the population built by the greedy
	// constructive heuristic. The rest is uniformly random.
	WarmStartFraction float64
	Parallelism       int
}

// InitPopulation draws the random part of the population first so that a
// zero warm-start fraction consumes the random source exactly like plain
// uniform initialization.
func InitPopulation(ctx context.Context, eval *solution.Evaluator, rng *rand.Rand, opts InitOptions) (*solution.Population, error) {
	warm := int(float64(opts.Size) * opts.WarmStartFraction)
	batch := make([][]int, 0, opts.Size)
	for i := warm; i < opts.Size; i++ {
		genes, err := framework.RandomAssignment(rng, eval.TaskCount(), eval.NodeCount())
		if err != nil {
			return nil, err
		}
		batch = append(batch, genes)
	}
	if warm > 0 {
		gcsh := warmstart.NewGCSH(warmstart.GCSHConfig{Problem: eval.Problem(), Jitter: 0.2}, rng)
		batch = append(batch, gcsh.GenerateInitialPopulation(warm)...)
	}

	members, err := solution.EvaluateAll(ctx, eval, batch, opts.Parallelism)
	if err != nil {
		return nil, fmt.Errorf("initializing population: %w", err)
	}
	return solution.NewPopulation(members), nil
}

// ValidateRate checks that a probability lies in [0, 1].
func ValidateRate(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0,1], got %v", name, v)
	}
	return nil
}
