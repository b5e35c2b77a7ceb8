// Package bee implements a bee-colony search. The sorted population is split
// by rank into a queen, drones that mate with her and workers that refine
// their own food source.
package bee

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

const Name = "Bee"

type Colony struct {
	cfg    Config
	eval   *solution.Evaluator
	rng    *rand.Rand
	drones int
}

var _ algorithms.Engine = &Colony{}

func New(cfg Config, eval *solution.Evaluator, rng *rand.Rand) (*Colony, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Colony{cfg: cfg, eval: eval, rng: rng, drones: cfg.drones()}, nil
}

func (c *Colony) Name() string {
	return Name
}

// Drones returns the resolved number of drones.
func (c *Colony) Drones() int {
	return c.drones
}

func (c *Colony) InitPopulation(ctx context.Context) (*solution.Population, error) {
	return algorithms.InitPopulation(ctx, c.eval, c.rng, algorithms.InitOptions{
		Size:              c.cfg.PopulationSize,
		WarmStartFraction: c.cfg.WarmStartFraction,
		Parallelism:       c.cfg.Parallelism,
	})
}

// CrossoverDrones mates each drone with the queen. A fitter, non-duplicate
// offspring takes the drone's place at the end of the population; the next
// Sort puts it back in rank order.
func (c *Colony) CrossoverDrones(pop *solution.Population) error {
	queen := pop.Fittest(0)
	drones := min(c.drones, pop.Size()-1)
	removed := 0
	for k := 1; k <= drones; k++ {
		if c.rng.Float64() >= c.cfg.CrossoverRate {
			continue
		}
		i := k - removed
		drone := pop.Fittest(i)
		genes, err := operators.TwoPointWrapped(c.rng, drone.Genes(), queen.Genes())
		if err != nil {
			return err
		}
		offspring, err := c.eval.Evaluate(genes)
		if err != nil {
			return err
		}
		if offspring.Fitness() >= drone.Fitness() && !pop.Contains(offspring) {
			pop.Remove(i)
			pop.Append(offspring)
			removed++
		}
	}
	return nil
}

// Mutate reassigns one random gene of every non-queen member with probability
// MutationRate.
func (c *Colony) Mutate(pop *solution.Population) error {
	for i := 1; i < pop.Size(); i++ {
		if c.rng.Float64() >= c.cfg.MutationRate {
			continue
		}
		genes := pop.Fittest(i).Genes()
		if err := operators.OnePoint(c.rng, genes, c.eval.NodeCount()); err != nil {
			return err
		}
		mutated, err := c.eval.Evaluate(genes)
		if err != nil {
			return err
		}
		pop.Set(i, mutated)
	}
	return nil
}

// FoodSource refines a copy of worker by applying two random single-gene
// changes per try until the copy is fitter than worker or the tries run out.
// The last copy is returned whether or not it improved.
func (c *Colony) FoodSource(worker solution.Individual) (solution.Individual, error) {
	genes := worker.Genes()
	current := worker
	for try := 0; try < c.cfg.FoodSourceTries; try++ {
		for k := 0; k < 2; k++ {
			if err := operators.OnePoint(c.rng, genes, c.eval.NodeCount()); err != nil {
				return solution.Individual{}, err
			}
		}
		next, err := c.eval.Evaluate(genes)
		if err != nil {
			return solution.Individual{}, err
		}
		current = next
		if current.Fitness() > worker.Fitness() {
			break
		}
	}
	return current, nil
}

// SearchFoodSources runs FoodSource for every worker and stores the result
// in the worker's slot.
func (c *Colony) SearchFoodSources(pop *solution.Population) error {
	for i := c.drones + 1; i < pop.Size(); i++ {
		refined, err := c.FoodSource(pop.Fittest(i))
		if err != nil {
			return err
		}
		pop.Set(i, refined)
	}
	return nil
}

func (c *Colony) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", Name)
	start := time.Now()
	startEvaluations := c.eval.Evaluations()

	pop, err := c.InitPopulation(ctx)
	if err != nil {
		return algorithms.Result{}, err
	}
	pop.Sort()
	best := pop.Fittest(0)

	logger.Info("Starting colony",
		"populationSize", c.cfg.PopulationSize,
		"generations", c.cfg.Generations,
		"drones", c.drones,
		"workers", max(0, pop.Size()-c.drones-1))

	result := func(generation int) algorithms.Result {
		return algorithms.Result{
			Algorithm:   Name,
			Best:        best,
			Iterations:  generation,
			Evaluations: c.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta: map[string]any{
				"drones":            c.drones,
				"populationFitness": pop.PopulationFitness,
			},
		}
	}

	generation := 0
	for ; generation < c.cfg.Generations; generation++ {
		if err := ctx.Err(); err != nil {
			res := result(generation)
			res.Meta["stopped"] = "context"
			return res, err
		}
		if err := c.CrossoverDrones(pop); err != nil {
			return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		pop.Sort()
		if err := c.Mutate(pop); err != nil {
			return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		if err := c.SearchFoodSources(pop); err != nil {
			return algorithms.Result{}, fmt.Errorf("generation %d: %w", generation, err)
		}
		pop.Sort()

		if pop.Fittest(0).Fitness() > best.Fitness() {
			best = pop.Fittest(0).Clone()
		}
		logger.V(3).Info("Generation", "generation", generation+1, "bestFitness", best.Fitness())
	}

	res := result(generation)
	logger.Info("Colony complete",
		"generations", generation,
		"bestFitness", best.Fitness(),
		"time", best.Time(),
		"cost", best.Cost(),
		"duration", res.Duration)
	return res, nil
}
