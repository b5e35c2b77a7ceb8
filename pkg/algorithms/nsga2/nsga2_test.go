package nsga2_test

import (
	"context"
	"math"
	"testing"

	"github.com/fogsched/taskopt/internal/testutil"
	"github.com/fogsched/taskopt/pkg/algorithms/nsga2"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

func randomMembers(t *testing.T, e *solution.Evaluator, size int, seed uint64) []*nsga2.Member {
	t.Helper()
	rng := framework.NewRand(seed)
	individuals := make([]solution.Individual, size)
	for i := range individuals {
		ind, err := e.Random(rng)
		if err != nil {
			t.Fatal(err)
		}
		individuals[i] = ind
	}
	return nsga2.NewMembers(individuals)
}

func TestNonDominatedSort(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 20), 0.5)
	population := randomMembers(t, e, 80, 1)

	fronts := nsga2.NonDominatedSort(population, 0)
	total := 0
	for rank, front := range fronts {
		total += len(front)
		for _, m := range front {
			if m.Rank != rank {
				t.Fatalf("member in front %d has rank %d", rank, m.Rank)
			}
			for _, other := range population {
				if solution.Dominates(other.Individual, m.Individual) && other.Rank >= rank {
					t.Fatalf("member of front %d dominated by a member of front %d", rank, other.Rank)
				}
			}
		}
	}
	if total != len(population) {
		t.Errorf("sorted %d of %d members", total, len(population))
	}
	for _, a := range fronts[0] {
		for _, b := range fronts[0] {
			if solution.Dominates(a.Individual, b.Individual) {
				t.Fatal("front 0 contains a dominated member")
			}
		}
	}
}

func TestNonDominatedSortLimit(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 20), 0.5)
	population := randomMembers(t, e, 80, 2)

	fronts := nsga2.NonDominatedSort(population, 10)
	ranked := 0
	for _, front := range fronts {
		ranked += len(front)
	}
	if ranked < 10 {
		t.Fatalf("ranked %d members, want at least 10", ranked)
	}
	if ranked-len(fronts[len(fronts)-1]) >= 10 {
		t.Errorf("sorting continued past the front that reached the limit")
	}
}

func TestCrowdingDistance(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 20), 0.5)

	t.Run("SmallFront", func(t *testing.T) {
		front := randomMembers(t, e, 2, 3)
		nsga2.CrowdingDistance(front)
		for _, m := range front {
			if !math.IsInf(m.Crowding, 1) {
				t.Errorf("expected infinite crowding, got %v", m.Crowding)
			}
		}
	})

	t.Run("Extremes", func(t *testing.T) {
		front := randomMembers(t, e, 30, 4)
		nsga2.CrowdingDistance(front)

		minTime, maxTime := math.Inf(1), math.Inf(-1)
		minCost, maxCost := math.Inf(1), math.Inf(-1)
		for _, m := range front {
			if m.Crowding < 0 {
				t.Fatalf("negative crowding %v", m.Crowding)
			}
			minTime, maxTime = math.Min(minTime, m.Time()), math.Max(maxTime, m.Time())
			minCost, maxCost = math.Min(minCost, m.Cost()), math.Max(maxCost, m.Cost())
		}
		extremes := map[string]func(*nsga2.Member) bool{
			"minTime": func(m *nsga2.Member) bool { return m.Time() == minTime },
			"maxTime": func(m *nsga2.Member) bool { return m.Time() == maxTime },
			"minCost": func(m *nsga2.Member) bool { return m.Cost() == minCost },
			"maxCost": func(m *nsga2.Member) bool { return m.Cost() == maxCost },
		}
		for name, isExtreme := range extremes {
			infinite := false
			for _, m := range front {
				if isExtreme(m) && math.IsInf(m.Crowding, 1) {
					infinite = true
				}
			}
			if !infinite {
				t.Errorf("no %s member has infinite crowding", name)
			}
		}
	})
}

func TestSelect(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 6, 20), 0.5)
	population := randomMembers(t, e, 60, 5)

	selected := nsga2.Select(population, 30)
	if len(selected) != 30 {
		t.Fatalf("selected %d members, want 30", len(selected))
	}
	for i := 1; i < len(selected); i++ {
		if nsga2.CrowdedLess(selected[i], selected[i-1]) {
			t.Fatalf("selection not ordered at %d", i)
		}
	}
	maxRank := selected[len(selected)-1].Rank
	for _, m := range population {
		if m.Rank < maxRank {
			found := false
			for _, s := range selected {
				if s == m {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("member of rank %d dropped while rank %d was kept", m.Rank, maxRank)
			}
		}
	}
}

func TestTournamentSelectPrefersLowerRank(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	cfg := nsga2.DefaultConfig()
	cfg.TournamentSize = 4
	n, err := nsga2.NewNSGAII(cfg, e, framework.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}

	population := randomMembers(t, e, 4, 6)
	for i, m := range population {
		m.Rank = i
	}
	for i := 0; i < 20; i++ {
		if got := n.TournamentSelect(population); got != population[0] {
			t.Fatalf("a full-size tournament picked rank %d", got.Rank)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := nsga2.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.Crossover = "pmx"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown crossover")
	}
	cfg = nsga2.DefaultConfig()
	cfg.TournamentSize = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for tournament of one")
	}
}

func TestRun(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 5, 25), 0.5)

	for _, kind := range []nsga2.CrossoverKind{
		nsga2.CrossoverSBX, nsga2.CrossoverOnePoint, nsga2.CrossoverTwoPoint,
		nsga2.CrossoverUniform, nsga2.CrossoverNodeAware,
	} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := nsga2.DefaultConfig()
			cfg.PopulationSize = 30
			cfg.Generations = 15
			cfg.Crossover = kind

			run := func() (solution.Individual, []solution.Individual) {
				n, err := nsga2.NewNSGAII(cfg, e, framework.NewRand(17))
				if err != nil {
					t.Fatal(err)
				}
				res, err := n.Run(context.Background())
				if err != nil {
					t.Fatal(err)
				}
				return res.Best, res.Front
			}

			best, front := run()
			again, _ := run()
			if !best.SameGenes(again) {
				t.Errorf("same seed produced %v and %v", best, again)
			}
			if len(front) == 0 {
				t.Fatal("empty Pareto front")
			}
			for _, a := range front {
				for _, b := range front {
					if solution.Dominates(a, b) {
						t.Fatalf("front member %v dominates %v", a, b)
					}
				}
			}
		})
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 5, 25), 0.5)
	cfg := nsga2.DefaultConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 10

	var bests []solution.Individual
	for _, parallelism := range []int{1, 4} {
		cfg.Parallelism = parallelism
		n, err := nsga2.NewNSGAII(cfg, e, framework.NewRand(3))
		if err != nil {
			t.Fatal(err)
		}
		res, err := n.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		bests = append(bests, res.Best)
	}
	if !bests[0].SameGenes(bests[1]) {
		t.Errorf("parallel evaluation changed the result: %v vs %v", bests[0], bests[1])
	}
}
