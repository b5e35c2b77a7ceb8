// Package tabu holds the single-solution engines: an adaptive tabu search
// with soft and hard restarts, a random-improvement hill climber and a
// task-by-node tabu matrix local search. All of them evaluate neighbors
// through solution.Incremental.
package tabu

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/solution"
)

const Name = "Tabu"

// Search is the adaptive tabu search. A task that was just moved may not be
// moved again for tenure iterations; tenure shrinks while the search is
// improving and grows while it is not.
type Search struct {
	cfg  Config
	eval *solution.Evaluator
	rng  *rand.Rand
}

var _ algorithms.Engine = &Search{}

func New(cfg Config, eval *solution.Evaluator, rng *rand.Rand) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Search{cfg: cfg, eval: eval, rng: rng}, nil
}

func (s *Search) Name() string {
	return Name
}

// Budget returns the number of iterations Run will perform.
func (s *Search) Budget() int {
	if s.cfg.Iterations > 0 {
		return s.cfg.Iterations
	}
	return IterationBudget(s.eval.TaskCount(), s.eval.NodeCount(), s.cfg.SimpleMode)
}

type move struct {
	task, node int
	fitness    float64
}

// bestMove scans every non-tabu task against every other node and returns
// the fittest resulting state. The first move found wins ties. ok is false
// when every task is tabu or there is only one node.
func bestMove(state *solution.Incremental, tabu []int, nodeCount int) (move, bool) {
	best := move{task: -1}
	for task := range tabu {
		if tabu[task] > 0 {
			continue
		}
		from := state.Gene(task)
		for node := 0; node < nodeCount; node++ {
			if node == from {
				continue
			}
			state.Move(task, node)
			if state.Fitness() > best.fitness {
				best = move{task: task, node: node, fitness: state.Fitness()}
			}
			state.Move(task, from)
		}
	}
	return best, best.task >= 0
}

func (s *Search) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", Name)
	start := time.Now()
	startEvaluations := s.eval.Evaluations()
	budget := s.Budget()

	initial, err := s.eval.Random(s.rng)
	if err != nil {
		return algorithms.Result{}, err
	}
	state := s.eval.NewIncremental(initial)
	best := initial
	lastImproved := initial
	tabu := make([]int, s.eval.TaskCount())
	tenure := s.cfg.TenureMax
	stable := 0
	restarts, softRestarts := 0, 0

	restart := func() error {
		fresh, err := s.eval.Random(s.rng)
		if err != nil {
			return err
		}
		state.Reset(fresh)
		clear(tabu)
		restarts++
		return nil
	}

	logger.Info("Starting tabu search",
		"iterations", budget,
		"tenureMin", s.cfg.TenureMin,
		"tenureMax", s.cfg.TenureMax,
		"stableLimit", s.cfg.StableLimit,
		"restartFrequency", s.cfg.RestartFrequency)

	result := func(iteration int) algorithms.Result {
		return algorithms.Result{
			Algorithm:   Name,
			Best:        best,
			Iterations:  iteration,
			Evaluations: s.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta: map[string]any{
				"restarts":     restarts,
				"softRestarts": softRestarts,
				"tenure":       tenure,
			},
		}
	}

	iteration := 0
	for iteration < budget {
		if err := ctx.Err(); err != nil {
			res := result(iteration)
			res.Meta["stopped"] = "context"
			return res, err
		}
		if s.cfg.MaxDuration > 0 && time.Since(start) > s.cfg.MaxDuration {
			logger.V(2).Info("Time budget exhausted", "iteration", iteration)
			break
		}
		iteration++

		switch {
		case state.Fitness() > best.Fitness():
			best = state.Individual()
			stable = 0
		case stable == s.cfg.StableLimit:
			state.Reset(lastImproved)
			stable = 0
			softRestarts++
		default:
			stable++
			if iteration%s.cfg.RestartFrequency == 0 {
				if err := restart(); err != nil {
					return algorithms.Result{}, err
				}
			}
		}

		m, ok := bestMove(state, tabu, s.eval.NodeCount())
		if !ok {
			if err := restart(); err != nil {
				return algorithms.Result{}, err
			}
			continue
		}

		previous := state.Fitness()
		state.Move(m.task, m.node)
		for t := range tabu {
			if tabu[t] > 0 {
				tabu[t]--
			}
		}
		tabu[m.task] = tenure

		if state.Fitness() > previous {
			tenure = max(s.cfg.TenureMin, tenure-1)
			lastImproved = state.Individual()
			stable = 0
		} else {
			tenure = min(s.cfg.TenureMax, tenure+1)
		}

		if iteration%100 == 0 {
			logger.V(3).Info("Iteration",
				"iteration", iteration,
				"fitness", state.Fitness(),
				"bestFitness", best.Fitness(),
				"tenure", tenure)
		}
	}
	if state.Fitness() > best.Fitness() {
		best = state.Individual()
	}

	res := result(iteration)
	logger.Info("Tabu search complete",
		"iterations", iteration,
		"bestFitness", best.Fitness(),
		"time", best.Time(),
		"cost", best.Cost(),
		"restarts", restarts,
		"duration", res.Duration)
	return res, nil
}
