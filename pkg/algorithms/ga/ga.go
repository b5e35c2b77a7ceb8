package ga

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/algorithms/operators"
	"github.com/fogsched/taskopt/pkg/solution"
)

const (
	Name = "GA"

	// maxParentRedraws bounds the search for a second parent whose genes
	// differ from the first one.
	maxParentRedraws = 100
)

// GeneticAlgorithm evolves a population of assignments under the scalar
// fitness of its evaluator.
type GeneticAlgorithm struct {
	cfg  Config
	eval *solution.Evaluator
	rng  *rand.Rand
}

var _ algorithms.Engine = &GeneticAlgorithm{}

func New(cfg Config, eval *solution.Evaluator, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GeneticAlgorithm{cfg: cfg, eval: eval, rng: rng}, nil
}

func (ga *GeneticAlgorithm) Name() string {
	return Name
}

// InitPopulation creates PopulationSize uniformly random individuals.
func (ga *GeneticAlgorithm) InitPopulation(ctx context.Context) (*solution.Population, error) {
	return algorithms.InitPopulation(ctx, ga.eval, ga.rng, algorithms.InitOptions{
		Size:              ga.cfg.PopulationSize,
		WarmStartFraction: ga.cfg.WarmStartFraction,
		Parallelism:       ga.cfg.Parallelism,
	})
}

// Evaluate refreshes the aggregate fitness and sorts by decreasing fitness.
// Members are already evaluated when they enter the population.
func (ga *GeneticAlgorithm) Evaluate(pop *solution.Population) {
	pop.Sort()
}

// SelectParent spins a roulette wheel weighted by fitness.
func (ga *GeneticAlgorithm) SelectParent(pop *solution.Population) solution.Individual {
	wheel := ga.rng.Float64() * pop.PopulationFitness
	spin := 0.0
	for _, ind := range pop.Individuals {
		spin += ind.Fitness()
		if spin >= wheel {
			return ind
		}
	}
	return pop.Individuals[pop.Size()-1]
}

// CrossoverPopulation mates every member, with probability CrossoverRate,
// with a roulette-selected partner. The offspring takes the member's slot
// when it is at least as fit and not already present.
func (ga *GeneticAlgorithm) CrossoverPopulation(pop *solution.Population) error {
	for i := 0; i < pop.Size(); i++ {
		if ga.rng.Float64() >= ga.cfg.CrossoverRate {
			continue
		}
		parent1 := pop.Fittest(i)
		parent2 := ga.SelectParent(pop)

		genes, err := operators.TwoPointWrapped(ga.rng, parent1.Genes(), parent2.Genes())
		if err != nil {
			return err
		}
		offspring, err := ga.eval.Evaluate(genes)
		if err != nil {
			return err
		}
		if offspring.Fitness() >= parent1.Fitness() && !pop.Contains(offspring) {
			pop.Set(i, offspring)
		}
	}
	return nil
}

// MutatePopulation reassigns one random gene of each non-elite member with
// probability MutationRate. Elites are the first ElitismCount members of a
// sorted population.
//
// Elitism is positional. Run does not re-sort between CrossoverPopulation and
// MutatePopulation, so an offspring that became the fittest member at index
// ElitismCount or later can be mutated before best is recorded.
func (ga *GeneticAlgorithm) MutatePopulation(pop *solution.Population) error {
	for i := ga.cfg.ElitismCount; i < pop.Size(); i++ {
		if ga.rng.Float64() >= ga.cfg.MutationRate {
			continue
		}
		genes := pop.Fittest(i).Genes()
		if err := operators.OnePoint(ga.rng, genes, ga.eval.NodeCount()); err != nil {
			return err
		}
		mutated, err := ga.eval.Evaluate(genes)
		if err != nil {
			return err
		}
		pop.Set(i, mutated)
	}
	return nil
}

// CrossoverPopulation2 builds a new generation of the same size: the
// ElitismCount best members, roulette survivors for the remaining copy
// slots, then children of int(size*CrossoverRate/2) roulette-selected pairs.
// pop must be sorted.
func (ga *GeneticAlgorithm) CrossoverPopulation2(ctx context.Context, pop *solution.Population) (*solution.Population, error) {
	size := pop.Size()
	pairs := int(float64(size) * ga.cfg.CrossoverRate / 2)
	copies := size - 2*pairs

	next := make([]solution.Individual, 0, size)
	for i := 0; i < copies; i++ {
		if i < ga.cfg.ElitismCount {
			next = append(next, pop.Fittest(i))
		} else {
			next = append(next, ga.SelectParent(pop))
		}
	}

	batch := make([][]int, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		parent1 := ga.SelectParent(pop)
		parent2 := ga.SelectParent(pop)
		for redraw := 0; redraw < maxParentRedraws && parent2.SameGenes(parent1); redraw++ {
			parent2 = ga.SelectParent(pop)
		}
		child1, child2, err := operators.TwoPointWrappedPair(ga.rng, parent1.Genes(), parent2.Genes())
		if err != nil {
			return nil, err
		}
		batch = append(batch, child1, child2)
	}

	children, err := solution.EvaluateAll(ctx, ga.eval, batch, ga.cfg.Parallelism)
	if err != nil {
		return nil, err
	}
	return solution.NewPopulation(append(next, children...)), nil
}

// MutatePopulation2 mutates a generation built by CrossoverPopulation2,
// whose elites occupy the leading slots.
func (ga *GeneticAlgorithm) MutatePopulation2(pop *solution.Population) error {
	return ga.MutatePopulation(pop)
}

// IsTerminationConditionMet reports whether the best member reached the
// ideal fitness of 1.
func (ga *GeneticAlgorithm) IsTerminationConditionMet(pop *solution.Population) bool {
	return pop.Fittest(0).Fitness() >= 1
}

// Run evolves the population for Generations generations or until the
// termination condition is met.
func (ga *GeneticAlgorithm) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", Name)
	start := time.Now()
	startEvaluations := ga.eval.Evaluations()

	pop, err := ga.InitPopulation(ctx)
	if err != nil {
		return algorithms.Result{}, err
	}
	ga.Evaluate(pop)
	best := pop.Fittest(0)

	logger.Info("Starting evolution",
		"populationSize", ga.cfg.PopulationSize,
		"generations", ga.cfg.Generations,
		"pipeline", ga.cfg.Pipeline,
		"crossoverRate", ga.cfg.CrossoverRate,
		"mutationRate", ga.cfg.MutationRate,
		"elitismCount", ga.cfg.ElitismCount)

	result := func(generation int) algorithms.Result {
		return algorithms.Result{
			Algorithm:   Name,
			Best:        best,
			Iterations:  generation,
			Evaluations: ga.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta: map[string]any{
				"pipeline":          string(ga.cfg.Pipeline),
				"populationFitness": pop.PopulationFitness,
			},
		}
	}

	generation := 0
	for ; generation < ga.cfg.Generations && !ga.IsTerminationConditionMet(pop); generation++ {
		if err := ctx.Err(); err != nil {
			res := result(generation)
			res.Meta["stopped"] = "context"
			return res, err
		}

		switch ga.cfg.Pipeline {
		case PipelineGenerational:
			next, err := ga.CrossoverPopulation2(ctx, pop)
			if err != nil {
				return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
			}
			if err := ga.MutatePopulation2(next); err != nil {
				return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
			}
			pop = next
		default:
			if err := ga.CrossoverPopulation(pop); err != nil {
				return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
			}
			if err := ga.MutatePopulation(pop); err != nil {
				return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
			}
		}
		ga.Evaluate(pop)

		if pop.Fittest(0).Fitness() > best.Fitness() {
			best = pop.Fittest(0).Clone()
		}
		if generation%50 == 0 {
			logger.V(2).Info("Generation",
				"generation", generation+1,
				"bestFitness", best.Fitness(),
				"populationFitness", pop.PopulationFitness)
		}
	}

	res := result(generation)
	logger.Info("Evolution complete",
		"generations", generation,
		"bestFitness", best.Fitness(),
		"time", best.Time(),
		"cost", best.Cost(),
		"duration", res.Duration)
	return res, nil
}
