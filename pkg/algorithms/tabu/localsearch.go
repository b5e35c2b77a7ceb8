package tabu

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/solution"
)

const LocalSearchName = "LocalSearch"

// LocalSearch always takes the best admissible single-task move, even a
// worsening one. Moving a task off a node forbids moving it back for
// TabuLength iterations.
type LocalSearch struct {
	cfg  LocalSearchConfig
	eval *solution.Evaluator
	rng  *rand.Rand
}

var _ algorithms.Engine = &LocalSearch{}

func NewLocalSearch(cfg LocalSearchConfig, eval *solution.Evaluator, rng *rand.Rand) (*LocalSearch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LocalSearch{cfg: cfg, eval: eval, rng: rng}, nil
}

func (l *LocalSearch) Name() string {
	return LocalSearchName
}

// tabuMatrix holds, per task and node, the iteration from which the task
// may move onto the node again.
type tabuMatrix [][]int

func newTabuMatrix(tasks, nodes int) tabuMatrix {
	m := make(tabuMatrix, tasks)
	for i := range m {
		m[i] = make([]int, nodes)
	}
	return m
}

func (m tabuMatrix) reset() {
	for _, row := range m {
		clear(row)
	}
}

// candidates returns every admissible move sharing the best fitness delta.
func (l *LocalSearch) candidates(state *solution.Incremental, tabu tabuMatrix, iteration int) []move {
	var best []move
	current := state.Fitness()
	bestDelta := 0.0
	for task := range tabu {
		from := state.Gene(task)
		for node := range tabu[task] {
			if node == from || tabu[task][node] > iteration {
				continue
			}
			state.Move(task, node)
			delta := state.Fitness() - current
			state.Move(task, from)

			switch {
			case len(best) == 0 || delta > bestDelta:
				best = append(best[:0], move{task: task, node: node, fitness: current + delta})
				bestDelta = delta
			case delta == bestDelta:
				best = append(best, move{task: task, node: node, fitness: current + delta})
			}
		}
	}
	return best
}

func (l *LocalSearch) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", LocalSearchName)
	start := time.Now()
	startEvaluations := l.eval.Evaluations()

	initial, err := l.eval.Random(l.rng)
	if err != nil {
		return algorithms.Result{}, err
	}
	state := l.eval.NewIncremental(initial)
	best := initial
	tabu := newTabuMatrix(l.eval.TaskCount(), l.eval.NodeCount())
	nonImproving, restarts := 0, 0

	restart := func() error {
		fresh, err := l.eval.Random(l.rng)
		if err != nil {
			return err
		}
		state.Reset(fresh)
		tabu.reset()
		nonImproving = 0
		restarts++
		return nil
	}

	result := func(iteration int) algorithms.Result {
		return algorithms.Result{
			Algorithm:   LocalSearchName,
			Best:        best,
			Iterations:  iteration,
			Evaluations: l.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta:        map[string]any{"restarts": restarts},
		}
	}

	iteration := 0
	for iteration < l.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			res := result(iteration)
			res.Meta["stopped"] = "context"
			return res, err
		}
		if l.cfg.MaxDuration > 0 && time.Since(start) > l.cfg.MaxDuration {
			break
		}
		iteration++

		moves := l.candidates(state, tabu, iteration)
		if len(moves) == 0 {
			if err := restart(); err != nil {
				return algorithms.Result{}, err
			}
			continue
		}
		m := moves[l.rng.Intn(len(moves))]
		from := state.Move(m.task, m.node)
		tabu[m.task][from] = iteration + l.cfg.TabuLength

		if state.Fitness() > best.Fitness() {
			best = state.Individual()
			nonImproving = 0
			continue
		}
		nonImproving++
		if nonImproving > l.cfg.MaxStable {
			if err := restart(); err != nil {
				return algorithms.Result{}, err
			}
		}
	}

	res := result(iteration)
	logger.Info("Local search complete",
		"iterations", iteration,
		"bestFitness", best.Fitness(),
		"restarts", restarts,
		"duration", res.Duration)
	return res, nil
}
