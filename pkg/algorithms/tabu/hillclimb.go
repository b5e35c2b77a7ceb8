package tabu

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/solution"
)

const HillClimbName = "HillClimb"

// HillClimber repeatedly applies a random improving single-task move until
// the current assignment is a local optimum.
type HillClimber struct {
	cfg  HillClimbConfig
	eval *solution.Evaluator
	rng  *rand.Rand
}

var _ algorithms.Engine = &HillClimber{}

func NewHillClimber(cfg HillClimbConfig, eval *solution.Evaluator, rng *rand.Rand) (*HillClimber, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HillClimber{cfg: cfg, eval: eval, rng: rng}, nil
}

func (h *HillClimber) Name() string {
	return HillClimbName
}

// improvingMoves lists every single-task reassignment that raises fitness.
func improvingMoves(state *solution.Incremental, nodeCount, taskCount int) []move {
	var moves []move
	current := state.Fitness()
	for task := 0; task < taskCount; task++ {
		from := state.Gene(task)
		for node := 0; node < nodeCount; node++ {
			if node == from {
				continue
			}
			state.Move(task, node)
			if state.Fitness() > current {
				moves = append(moves, move{task: task, node: node, fitness: state.Fitness()})
			}
			state.Move(task, from)
		}
	}
	return moves
}

// Climb runs the hill climb from start and returns the local optimum reached
// and the number of accepted moves.
func (h *HillClimber) Climb(ctx context.Context, start solution.Individual) (solution.Individual, int, error) {
	begin := time.Now()
	state := h.eval.NewIncremental(start)
	steps := 0
	for h.cfg.MaxSteps == 0 || steps < h.cfg.MaxSteps {
		if err := ctx.Err(); err != nil {
			return state.Individual(), steps, err
		}
		if h.cfg.MaxDuration > 0 && time.Since(begin) > h.cfg.MaxDuration {
			break
		}
		moves := improvingMoves(state, h.eval.NodeCount(), h.eval.TaskCount())
		if len(moves) == 0 {
			break
		}
		m := moves[h.rng.Intn(len(moves))]
		state.Move(m.task, m.node)
		steps++
	}
	return state.Individual(), steps, nil
}

func (h *HillClimber) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", HillClimbName)
	start := time.Now()
	startEvaluations := h.eval.Evaluations()

	initial, err := h.eval.Random(h.rng)
	if err != nil {
		return algorithms.Result{}, err
	}
	best, steps, err := h.Climb(ctx, initial)
	res := algorithms.Result{
		Algorithm:   HillClimbName,
		Best:        best,
		Iterations:  steps,
		Evaluations: h.eval.Evaluations() - startEvaluations,
		Duration:    time.Since(start),
		Meta:        map[string]any{"initialFitness": initial.Fitness()},
	}
	if err != nil {
		res.Meta["stopped"] = "context"
		return res, err
	}
	logger.Info("Hill climb complete",
		"steps", steps,
		"initialFitness", initial.Fitness(),
		"bestFitness", best.Fitness(),
		"duration", res.Duration)
	return res, nil
}
