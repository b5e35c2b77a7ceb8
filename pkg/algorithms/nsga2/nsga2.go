package nsga2

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/algorithms/operators"
	"github.com/fogsched/taskopt/pkg/solution"
)

const (
	Name = "NSGA-II"
)

// NSGAII is the elitist non-dominated sorting genetic algorithm over the
// (makespan, cost) objective pair.
type NSGAII struct {
	cfg  NSGA2Config
	eval *solution.Evaluator
	rng  *rand.Rand
}

var _ algorithms.Engine = &NSGAII{}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(cfg NSGA2Config, eval *solution.Evaluator, rng *rand.Rand) (*NSGAII, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &NSGAII{cfg: cfg, eval: eval, rng: rng}, nil
}

func (n *NSGAII) Name() string {
	return Name
}

// TournamentSelect draws TournamentSize distinct members and returns the one
// preferred by CrowdedLess.
func (n *NSGAII) TournamentSelect(population []*Member) *Member {
	k := min(n.cfg.TournamentSize, len(population))
	contestants := n.rng.Perm(len(population))[:k]
	best := population[contestants[0]]
	for _, idx := range contestants[1:] {
		if CrowdedLess(population[idx], best) {
			best = population[idx]
		}
	}
	return best
}

func (n *NSGAII) crossover(p1, p2 []int) ([]int, []int, error) {
	if n.rng.Float64() >= n.cfg.CrossoverRate {
		return slices.Clone(p1), slices.Clone(p2), nil
	}
	switch n.cfg.Crossover {
	case CrossoverOnePoint:
		return operators.OnePointCrossover(n.rng, p1, p2)
	case CrossoverTwoPoint:
		return operators.TwoPointCrossover(n.rng, p1, p2)
	case CrossoverUniform:
		return operators.UniformCrossover(n.rng, p1, p2)
	case CrossoverNodeAware:
		return operators.NodeAwareCrossover(n.rng, p1, p2)
	default:
		c1, c2 := operators.SimulatedBinary(n.rng, p1, p2, n.eval.NodeCount()-1, n.cfg.DistributionIndex)
		return c1, c2, nil
	}
}

// mutate applies exactly one of the three mutation operators to the pair.
func (n *NSGAII) mutate(child1, child2 []int) error {
	d := n.rng.Float64()
	switch {
	case d < n.cfg.MutationRate/2:
		operators.Reverse(child1)
	case d < n.cfg.MutationRate:
		operators.SwapHalf(child2)
	default:
		if err := operators.OnePoint(n.rng, child1, n.eval.NodeCount()); err != nil {
			return err
		}
		if err := operators.OnePoint(n.rng, child2, n.eval.NodeCount()); err != nil {
			return err
		}
	}
	return nil
}

// Offspring breeds PopulationSize children from the selected population.
func (n *NSGAII) Offspring(ctx context.Context, population []*Member) ([]*Member, error) {
	batch := make([][]int, 0, n.cfg.PopulationSize)
	for i := 0; i < n.cfg.PopulationSize/2; i++ {
		parent1 := n.TournamentSelect(population)
		parent2 := n.TournamentSelect(population)
		child1, child2, err := n.crossover(parent1.Genes(), parent2.Genes())
		if err != nil {
			return nil, err
		}
		if err := n.mutate(child1, child2); err != nil {
			return nil, err
		}
		batch = append(batch, child1, child2)
	}
	children, err := solution.EvaluateAll(ctx, n.eval, batch, n.cfg.Parallelism)
	if err != nil {
		return nil, err
	}
	return NewMembers(children), nil
}

// fittestOfFront returns the rank 0 member with the highest scalar fitness.
func fittestOfFront(population []*Member) (solution.Individual, bool) {
	var best solution.Individual
	found := false
	for _, m := range population {
		if m.Rank == 0 && (!found || m.Fitness() > best.Fitness()) {
			best, found = m.Individual, true
		}
	}
	return best, found
}

// Run executes the NSGA-II algorithm
func (n *NSGAII) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", Name)
	start := time.Now()
	startEvaluations := n.eval.Evaluations()

	initial, err := algorithms.InitPopulation(ctx, n.eval, n.rng, algorithms.InitOptions{
		Size:              n.cfg.PopulationSize,
		WarmStartFraction: n.cfg.WarmStartFraction,
		Parallelism:       n.cfg.Parallelism,
	})
	if err != nil {
		return algorithms.Result{}, err
	}
	population := Select(NewMembers(initial.Individuals), n.cfg.PopulationSize)
	bestGlobal, _ := fittestOfFront(population)

	logger.Info("Starting evolution",
		"populationSize", n.cfg.PopulationSize,
		"generations", n.cfg.Generations,
		"crossover", n.cfg.Crossover,
		"crossoverRate", n.cfg.CrossoverRate,
		"mutationRate", n.cfg.MutationRate,
		"tournamentSize", n.cfg.TournamentSize)

	result := func(generation int) algorithms.Result {
		front := ParetoFront(population)
		return algorithms.Result{
			Algorithm:   Name,
			Best:        bestGlobal,
			Front:       front,
			Iterations:  generation,
			Evaluations: n.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta:        map[string]any{"frontSize": len(front)},
		}
	}

	gen := 0
	for ; gen < n.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			res := result(gen)
			res.Meta["stopped"] = "context"
			return res, err
		}

		offspring, err := n.Offspring(ctx, population)
		if err != nil {
			return algorithms.Result{}, fmt.Errorf("generation %d: %w", gen, err)
		}
		combined := append(population, offspring...)
		population = Select(combined, n.cfg.PopulationSize)

		if candidate, ok := fittestOfFront(population); ok && candidate.Fitness() > bestGlobal.Fitness() {
			bestGlobal = candidate
		}
		if gen%10 == 0 {
			logger.V(2).Info("Generation",
				"generation", gen+1,
				"bestFitness", bestGlobal.Fitness(),
				"frontSize", len(ParetoFront(population)))
		}
	}

	res := result(gen)
	logger.Info("Evolution complete",
		"generations", gen,
		"frontSize", len(res.Front),
		"bestFitness", bestGlobal.Fitness(),
		"time", bestGlobal.Time(),
		"cost", bestGlobal.Cost(),
		"duration", res.Duration)
	return res, nil
}
