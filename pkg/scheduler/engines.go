package scheduler

import (
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/utils/ptr"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/algorithms/bee"
	"github.com/fogsched/taskopt/pkg/algorithms/ga"
	"github.com/fogsched/taskopt/pkg/algorithms/moead"
	"github.com/fogsched/taskopt/pkg/algorithms/nsga2"
	"github.com/fogsched/taskopt/pkg/algorithms/tabu"
	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
	"github.com/fogsched/taskopt/pkg/solution"
)

const (
	AlgorithmGA          = "ga"
	AlgorithmBee         = "bee"
	AlgorithmTabu        = "tabu"
	AlgorithmHillClimb   = "hillclimb"
	AlgorithmLocalSearch = "localsearch"
	AlgorithmNSGA2       = "nsga2"
	AlgorithmMOEAD       = "moead"

	defaultSearchDuration = 20 * time.Second
)

type engineEntry struct {
	validate func(args *v1alpha1.OptimizerArgs) error
	build    func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error)
}

var engines = map[string]engineEntry{
	AlgorithmGA: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return GAConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return ga.New(GAConfig(args), eval, rng)
		},
	},
	AlgorithmBee: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return BeeConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return bee.New(BeeConfig(args), eval, rng)
		},
	},
	AlgorithmTabu: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return TabuConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return tabu.New(TabuConfig(args), eval, rng)
		},
	},
	AlgorithmHillClimb: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return HillClimbConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return tabu.NewHillClimber(HillClimbConfig(args), eval, rng)
		},
	},
	AlgorithmLocalSearch: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return LocalSearchConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return tabu.NewLocalSearch(LocalSearchConfig(args), eval, rng)
		},
	},
	AlgorithmNSGA2: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return NSGA2Config(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return nsga2.NewNSGAII(NSGA2Config(args), eval, rng)
		},
	},
	AlgorithmMOEAD: {
		validate: func(args *v1alpha1.OptimizerArgs) error { return MOEADConfig(args).Validate() },
		build: func(args *v1alpha1.OptimizerArgs, eval *solution.Evaluator, rng *rand.Rand) (algorithms.Engine, error) {
			return moead.New(MOEADConfig(args), eval, rng)
		},
	},
}

// Algorithms lists the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GAConfig maps args onto the genetic algorithm configuration. Zero values
// keep the engine default.
func GAConfig(args *v1alpha1.OptimizerArgs) ga.Config {
	cfg := ga.DefaultConfig()
	if args.PopulationSize != 0 {
		cfg.PopulationSize = args.PopulationSize
	}
	if args.Generations != 0 {
		cfg.Generations = args.Generations
	}
	cfg.MutationRate = ptr.Deref(args.MutationRate, cfg.MutationRate)
	cfg.CrossoverRate = ptr.Deref(args.CrossoverRate, cfg.CrossoverRate)
	cfg.ElitismCount = ptr.Deref(args.ElitismCount, cfg.ElitismCount)
	cfg.WarmStartFraction = args.WarmStartFraction
	if args.Parallelism != 0 {
		cfg.Parallelism = args.Parallelism
	}
	if args.GA != nil && args.GA.Pipeline != "" {
		cfg.Pipeline = ga.Pipeline(args.GA.Pipeline)
	}
	return cfg
}

func BeeConfig(args *v1alpha1.OptimizerArgs) bee.Config {
	cfg := bee.DefaultConfig()
	if args.PopulationSize != 0 {
		cfg.PopulationSize = args.PopulationSize
	}
	if args.Generations != 0 {
		cfg.Generations = args.Generations
	}
	cfg.MutationRate = ptr.Deref(args.MutationRate, cfg.MutationRate)
	cfg.CrossoverRate = ptr.Deref(args.CrossoverRate, cfg.CrossoverRate)
	cfg.WarmStartFraction = args.WarmStartFraction
	if args.Parallelism != 0 {
		cfg.Parallelism = args.Parallelism
	}
	if args.Bee != nil {
		cfg.NumberDrones = args.Bee.NumberDrones
		if args.Bee.FoodSourceTries != 0 {
			cfg.FoodSourceTries = args.Bee.FoodSourceTries
		}
	}
	return cfg
}

func TabuConfig(args *v1alpha1.OptimizerArgs) tabu.Config {
	cfg := tabu.DefaultConfig()
	t := args.Tabu
	if t == nil {
		return cfg
	}
	cfg.Iterations = t.Iterations
	cfg.SimpleMode = t.SimpleMode
	if t.TenureMin != 0 {
		cfg.TenureMin = t.TenureMin
	}
	if t.TenureMax != 0 {
		cfg.TenureMax = t.TenureMax
	}
	if t.StableLimit != 0 {
		cfg.StableLimit = t.StableLimit
	}
	if t.RestartFrequency != 0 {
		cfg.RestartFrequency = t.RestartFrequency
	}
	if t.MaxDuration != nil {
		cfg.MaxDuration = t.MaxDuration.Duration
	}
	return cfg
}

func HillClimbConfig(args *v1alpha1.OptimizerArgs) tabu.HillClimbConfig {
	cfg := tabu.DefaultHillClimbConfig()
	if h := args.HillClimb; h != nil {
		cfg.MaxSteps = h.MaxSteps
		if h.MaxDuration != nil {
			cfg.MaxDuration = h.MaxDuration.Duration
		}
	}
	return cfg
}

func LocalSearchConfig(args *v1alpha1.OptimizerArgs) tabu.LocalSearchConfig {
	cfg := tabu.DefaultLocalSearchConfig()
	l := args.LocalSearch
	if l == nil {
		return cfg
	}
	if l.TabuLength != 0 {
		cfg.TabuLength = l.TabuLength
	}
	if l.MaxStable != 0 {
		cfg.MaxStable = l.MaxStable
	}
	if l.MaxIterations != 0 {
		cfg.MaxIterations = l.MaxIterations
	}
	if l.MaxDuration != nil {
		cfg.MaxDuration = l.MaxDuration.Duration
	}
	return cfg
}

func NSGA2Config(args *v1alpha1.OptimizerArgs) nsga2.NSGA2Config {
	cfg := nsga2.DefaultConfig()
	if args.PopulationSize != 0 {
		cfg.PopulationSize = args.PopulationSize
	}
	if args.Generations != 0 {
		cfg.Generations = args.Generations
	}
	cfg.MutationRate = ptr.Deref(args.MutationRate, cfg.MutationRate)
	cfg.CrossoverRate = ptr.Deref(args.CrossoverRate, cfg.CrossoverRate)
	cfg.WarmStartFraction = args.WarmStartFraction
	if args.Parallelism != 0 {
		cfg.Parallelism = args.Parallelism
	}
	if n := args.NSGA2; n != nil {
		if n.TournamentSize != 0 {
			cfg.TournamentSize = n.TournamentSize
		}
		if n.Crossover != "" {
			cfg.Crossover = nsga2.CrossoverKind(n.Crossover)
		}
		if n.DistributionIndex != 0 {
			cfg.DistributionIndex = n.DistributionIndex
		}
	}
	return cfg
}

// MOEADConfig maps args onto MOEA/D. The population is the set of
// subproblems, so PopulationSize does not apply.
func MOEADConfig(args *v1alpha1.OptimizerArgs) moead.Config {
	cfg := moead.DefaultConfig()
	if args.Generations != 0 {
		cfg.Generations = args.Generations
	}
	if m := args.MOEAD; m != nil {
		if m.NumSubProblems != 0 {
			cfg.NumSubProblems = m.NumSubProblems
		}
		if m.NumNeighbors != 0 {
			cfg.NumNeighbors = m.NumNeighbors
		}
		if m.MaxLambda != 0 {
			cfg.MaxLambda = m.MaxLambda
		}
	}
	return cfg
}
