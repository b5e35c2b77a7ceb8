package solution

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// EvaluateAll evaluates every assignment in batch. With parallelism above one
// the work is spread over a bounded goroutine pool; results are stored by
// index so the output order, and any aggregate computed from it, does not
// depend on scheduling.
func EvaluateAll(ctx context.Context, e *Evaluator, batch [][]int, parallelism int) ([]Individual, error) {
	out := make([]Individual, len(batch))
	if parallelism <= 1 || len(batch) < 2 {
		for i, genes := range batch {
			ind, err := e.Evaluate(genes)
			if err != nil {
				return nil, fmt.Errorf("evaluating assignment %d: %w", i, err)
			}
			out[i] = ind
		}
		return out, nil
	}

	p := pool.New().
		WithMaxGoroutines(parallelism).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i := range batch {
		i := i
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ind, err := e.Evaluate(batch[i])
			if err != nil {
				return fmt.Errorf("evaluating assignment %d: %w", i, err)
			}
			out[i] = ind
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
