package ga_test

import (
	"context"
	"testing"

	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/internal/testutil"
	"github.com/fogsched/taskopt/pkg/algorithms/ga"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

func smallConfig() ga.Config {
	cfg := ga.DefaultConfig()
	cfg.PopulationSize = 30
	cfg.Generations = 25
	return cfg
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*ga.Config)
		wantErr bool
	}{
		{name: "Default", mutate: func(*ga.Config) {}},
		{name: "TinyPopulation", mutate: func(c *ga.Config) { c.PopulationSize = 1 }, wantErr: true},
		{name: "NegativeGenerations", mutate: func(c *ga.Config) { c.Generations = -1 }, wantErr: true},
		{name: "AllElite", mutate: func(c *ga.Config) { c.ElitismCount = c.PopulationSize }, wantErr: true},
		{name: "MutationAboveOne", mutate: func(c *ga.Config) { c.MutationRate = 1.5 }, wantErr: true},
		{name: "NegativeCrossover", mutate: func(c *ga.Config) { c.CrossoverRate = -0.1 }, wantErr: true},
		{name: "UnknownPipeline", mutate: func(c *ga.Config) { c.Pipeline = "island" }, wantErr: true},
		{name: "Generational", mutate: func(c *ga.Config) { c.Pipeline = ga.PipelineGenerational }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ga.DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func newGA(t *testing.T, cfg ga.Config, e *solution.Evaluator, seed uint64) *ga.GeneticAlgorithm {
	t.Helper()
	g, err := ga.New(cfg, e, framework.NewRand(seed))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSelectParentReturnsMember(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	g := newGA(t, smallConfig(), e, 1)

	pop, err := g.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	g.Evaluate(pop)
	for i := 0; i < 200; i++ {
		if !pop.Contains(g.SelectParent(pop)) {
			t.Fatal("SelectParent returned an individual outside the population")
		}
	}
}

func TestCrossoverPopulationNeverWorsensSlots(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 30), 0.5)
	cfg := smallConfig()
	cfg.CrossoverRate = 1
	g := newGA(t, cfg, e, 2)

	pop, err := g.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	g.Evaluate(pop)
	before := make([]float64, pop.Size())
	for i, ind := range pop.Individuals {
		before[i] = ind.Fitness()
	}

	if err := g.CrossoverPopulation(pop); err != nil {
		t.Fatal(err)
	}
	for i, ind := range pop.Individuals {
		if ind.Fitness() < before[i] {
			t.Errorf("slot %d fitness dropped from %v to %v", i, before[i], ind.Fitness())
		}
	}
}

func TestMutatePopulationSparesElites(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 30), 0.5)
	cfg := smallConfig()
	cfg.MutationRate = 1
	cfg.ElitismCount = 3
	g := newGA(t, cfg, e, 3)

	pop, err := g.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	g.Evaluate(pop)
	elites := pop.Clone()

	if err := g.MutatePopulation(pop); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < cfg.ElitismCount; i++ {
		if !pop.Fittest(i).SameGenes(elites.Fittest(i)) {
			t.Errorf("elite %d was mutated", i)
		}
	}
}

func TestMutatePopulationElitismIsPositional(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 30), 0.5)
	cfg := smallConfig()
	cfg.MutationRate = 1
	cfg.ElitismCount = 1
	g := newGA(t, cfg, e, 4)

	pop, err := g.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	g.Evaluate(pop)
	last := pop.Size() - 1
	worst, best := pop.Fittest(last), pop.Fittest(0)
	pop.Set(0, worst)
	pop.Set(last, best)

	before := e.Evaluations()
	if err := g.MutatePopulation(pop); err != nil {
		t.Fatal(err)
	}
	if !pop.Fittest(0).SameGenes(worst) {
		t.Error("member in the elite slot was mutated")
	}
	// Every other slot, including the one now holding the fittest member,
	// went through mutation.
	if got, want := e.Evaluations()-before, int64(last); got != want {
		t.Errorf("mutated %d members, want %d", got, want)
	}
}

func TestCrossoverPopulation2KeepsSizeAndElites(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 30), 0.5)
	cfg := smallConfig()
	cfg.Pipeline = ga.PipelineGenerational
	cfg.ElitismCount = 2
	g := newGA(t, cfg, e, 4)

	pop, err := g.InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	g.Evaluate(pop)

	next, err := g.CrossoverPopulation2(context.Background(), pop)
	if err != nil {
		t.Fatal(err)
	}
	if next.Size() != pop.Size() {
		t.Fatalf("new generation has %d members, want %d", next.Size(), pop.Size())
	}
	for i := 0; i < cfg.ElitismCount; i++ {
		if !next.Fittest(i).SameGenes(pop.Fittest(i)) {
			t.Errorf("elite %d missing from the new generation", i)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	ctx := klog.NewContext(context.Background(), klog.NewKlogr())
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)

	for _, pipeline := range []ga.Pipeline{ga.PipelineSteadyState, ga.PipelineGenerational} {
		t.Run(string(pipeline), func(t *testing.T) {
			cfg := smallConfig()
			cfg.Pipeline = pipeline

			first, err := newGA(t, cfg, e, 42).Run(ctx)
			if err != nil {
				t.Fatal(err)
			}
			second, err := newGA(t, cfg, e, 42).Run(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if !first.Best.SameGenes(second.Best) || first.Best.Fitness() != second.Best.Fitness() {
				t.Errorf("runs with the same seed differ: %v vs %v", first.Best, second.Best)
			}
			if first.Best.Fitness() <= 0 || first.Best.Fitness() > 1 {
				t.Errorf("best fitness out of range: %v", first.Best.Fitness())
			}
		})
	}
}

func TestRunImprovesOnRandom(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 8, 40), 0.5)
	cfg := smallConfig()
	cfg.Generations = 60
	g := newGA(t, cfg, e, 5)

	pop, err := newGA(t, cfg, e, 5).InitPopulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	pop.Sort()

	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Best.Fitness() < pop.Fittest(0).Fitness() {
		t.Errorf("run best %v worse than initial best %v", res.Best.Fitness(), pop.Fittest(0).Fitness())
	}
	if res.Evaluations == 0 || res.Algorithm != ga.Name {
		t.Errorf("unexpected result metadata: %+v", res)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newGA(t, smallConfig(), e, 1).Run(ctx)
	if err == nil {
		t.Fatal("expected a context error")
	}
	if res.Meta["stopped"] != "context" {
		t.Errorf("expected stopped=context, got %v", res.Meta)
	}
}
