package main

import (
	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
	"github.com/fogsched/taskopt/pkg/scheduler"
)

// argsOptions are command line overrides of an OptimizerArgs document.
type argsOptions struct {
	configPath     string
	algorithm      string
	seed           uint64
	timeWeight     float64
	populationSize int
	generations    int
	parallelism    int
	warmStart      float64
}

func (o *argsOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to an OptimizerArgs document")
	fs.StringVar(&o.algorithm, "algorithm", scheduler.DefaultAlgorithm, "one of ga, bee, tabu, hillclimb, localsearch, nsga2, moead")
	fs.Uint64Var(&o.seed, "seed", scheduler.DefaultSeed, "random seed")
	fs.Float64Var(&o.timeWeight, "time-weight", scheduler.DefaultTimeWeight, "weight of makespan against cost, in [0,1]")
	fs.IntVar(&o.populationSize, "population", 0, "population size, 0 keeps the configured value")
	fs.IntVar(&o.generations, "generations", 0, "number of generations, 0 keeps the configured value")
	fs.IntVar(&o.parallelism, "parallelism", 0, "concurrent fitness evaluations, 0 keeps the configured value")
	fs.Float64Var(&o.warmStart, "warm-start", 0, "share of the initial population built greedily")
}

// resolve loads the config document, if any, and applies the flags that were
// set explicitly on top of it.
func (o *argsOptions) resolve(fs *pflag.FlagSet) (*v1alpha1.OptimizerArgs, error) {
	args := &v1alpha1.OptimizerArgs{}
	if o.configPath != "" {
		loaded, err := scheduler.LoadArgs(o.configPath)
		if err != nil {
			return nil, err
		}
		args = loaded
	}
	if fs.Changed("algorithm") || args.Algorithm == "" {
		args.Algorithm = o.algorithm
	}
	if fs.Changed("seed") || args.Seed == nil {
		args.Seed = ptr.To(o.seed)
	}
	if fs.Changed("time-weight") || args.TimeWeight == nil {
		args.TimeWeight = ptr.To(o.timeWeight)
	}
	if o.populationSize != 0 {
		args.PopulationSize = o.populationSize
	}
	if o.generations != 0 {
		args.Generations = o.generations
	}
	if o.parallelism != 0 {
		args.Parallelism = o.parallelism
	}
	if fs.Changed("warm-start") {
		args.WarmStartFraction = o.warmStart
	}
	return args, nil
}
