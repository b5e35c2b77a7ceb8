package bee_test

import (
	"context"
	"testing"

	"github.com/fogsched/taskopt/internal/testutil"
	"github.com/fogsched/taskopt/pkg/algorithms/bee"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

func newColony(t *testing.T, cfg bee.Config, e *solution.Evaluator, seed uint64) *bee.Colony {
	t.Helper()
	c, err := bee.New(cfg, e, framework.NewRand(seed))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func smallConfig() bee.Config {
	cfg := bee.DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 10
	cfg.FoodSourceTries = 20
	return cfg
}

func TestDefaultDrones(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)

	cfg := smallConfig()
	if got := newColony(t, cfg, e, 1).Drones(); got != 8 {
		t.Errorf("expected 8 drones for a colony of 20, got %d", got)
	}
	cfg.NumberDrones = 3
	if got := newColony(t, cfg, e, 1).Drones(); got != 3 {
		t.Errorf("expected configured 3 drones, got %d", got)
	}
	cfg.NumberDrones = cfg.PopulationSize
	if _, err := bee.New(cfg, e, framework.NewRand(1)); err == nil {
		t.Error("expected an error when every member is a drone")
	}
}

func TestCrossoverDronesKeepsQueenAndSize(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 5, 25), 0.5)
	cfg := smallConfig()
	cfg.CrossoverRate = 1
	c := newColony(t, cfg, e, 7)

	pop, err := c.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	pop.Sort()
	queen := pop.Fittest(0)
	size := pop.Size()
	before := pop.PopulationFitness

	if err := c.CrossoverDrones(pop); err != nil {
		t.Fatal(err)
	}
	if pop.Size() != size {
		t.Fatalf("population size changed from %d to %d", size, pop.Size())
	}
	if !pop.Fittest(0).SameGenes(queen) {
		t.Error("queen was replaced by drone crossover")
	}
	if pop.PopulationFitness < before {
		t.Errorf("aggregate fitness dropped from %v to %v", before, pop.PopulationFitness)
	}
}

func TestFoodSourceStopsOnImprovement(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 5, 25), 0.5)
	cfg := smallConfig()
	cfg.FoodSourceTries = 100
	c := newColony(t, cfg, e, 11)

	worker, err := e.Random(framework.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	before := e.Evaluations()
	refined, err := c.FoodSource(worker)
	if err != nil {
		t.Fatal(err)
	}
	tries := e.Evaluations() - before
	if tries < 1 || tries > int64(cfg.FoodSourceTries) {
		t.Fatalf("food source used %d evaluations", tries)
	}
	if tries < int64(cfg.FoodSourceTries) && refined.Fitness() <= worker.Fitness() {
		t.Errorf("search stopped early at %v without beating %v", refined.Fitness(), worker.Fitness())
	}
	if refined.Len() != worker.Len() {
		t.Errorf("refined length %d, want %d", refined.Len(), worker.Len())
	}
}

func TestFoodSourceWithoutTriesReturnsWorker(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	cfg := smallConfig()
	cfg.FoodSourceTries = 0
	c := newColony(t, cfg, e, 1)

	worker, err := e.Evaluate([]int{0, 1, 2, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.FoodSource(worker)
	if err != nil {
		t.Fatal(err)
	}
	if !got.SameGenes(worker) {
		t.Errorf("expected the worker back, got %v", got)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)

	first, err := newColony(t, smallConfig(), e, 42).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := newColony(t, smallConfig(), e, 42).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !first.Best.SameGenes(second.Best) {
		t.Errorf("runs with the same seed differ: %v vs %v", first.Best, second.Best)
	}
	if first.Iterations != smallConfig().Generations {
		t.Errorf("expected %d generations, got %d", smallConfig().Generations, first.Iterations)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newColony(t, smallConfig(), e, 1).Run(ctx)
	if err == nil || res.Meta["stopped"] != "context" {
		t.Errorf("expected a context stop, got %v / %v", err, res.Meta)
	}
}
