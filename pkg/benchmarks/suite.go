// Package benchmarks runs every requested algorithm over a range of seeds on
// one problem and compares the outcomes.
package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/metrics"
	"github.com/fogsched/taskopt/pkg/scheduler"
	"github.com/fogsched/taskopt/pkg/solution"
	"github.com/fogsched/taskopt/pkg/util"
)

// refMargin pushes the hypervolume reference point past the worst observed
// point so that extreme members still contribute area.
const refMargin = 1.1

// Suite is a set of seeded runs of several algorithms on one problem.
type Suite struct {
	Name       string
	Problem    *framework.Problem
	Base       *v1alpha1.OptimizerArgs
	Algorithms []string
	Seeds      []uint64
	// Concurrency bounds how many runs execute at once.
	Concurrency int
	Recorder    *metrics.Recorder
}

// NewSuite creates a suite running every registered algorithm with base
// arguments on seeds 1 through runs.
func NewSuite(name string, p *framework.Problem, base *v1alpha1.OptimizerArgs, runs int) *Suite {
	return &Suite{
		Name:        name,
		Problem:     p,
		Base:        base,
		Algorithms:  scheduler.Algorithms(),
		Seeds:       SeedRange(1, runs),
		Concurrency: 1,
	}
}

// SeedRange returns n consecutive seeds starting at first.
func SeedRange(first uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = first + uint64(i)
	}
	return seeds
}

// RunRecord is the outcome of one (algorithm, seed) run.
type RunRecord struct {
	Algorithm   string
	Seed        uint64
	Fitness     float64
	Makespan    float64
	Cost        float64
	Iterations  int
	Evaluations int64
	Duration    time.Duration
	Hypervolume float64
	IGD         float64
	Front       []solution.Individual
}

// Summary aggregates the runs of one algorithm.
type Summary struct {
	Algorithm       string
	Runs            int
	MeanFitness     float64
	StdFitness      float64
	MinFitness      float64
	MaxFitness      float64
	MeanMakespan    float64
	MeanCost        float64
	MeanHypervolume float64
	MeanIGD         float64
	MeanDuration    time.Duration
}

// Report holds every run of a suite, per-algorithm summaries and the
// non-dominated union of all fronts.
type Report struct {
	Suite          string
	MinTime        float64
	MinCost        float64
	Records        []RunRecord
	Summaries      []Summary
	ReferenceFront []solution.Individual
}

// Run executes every run of the suite. Records are ordered by algorithm then
// seed whatever the concurrency.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	logger := klog.FromContext(ctx).WithValues("suite", s.Name)
	if len(s.Algorithms) == 0 || len(s.Seeds) == 0 {
		return nil, fmt.Errorf("suite %s has no runs", s.Name)
	}

	base := &v1alpha1.OptimizerArgs{}
	if s.Base != nil {
		base = s.Base.DeepCopy()
	}
	scheduler.SetDefaults_OptimizerArgs(base)
	eval, err := solution.NewEvaluator(s.Problem, *base.TimeWeight)
	if err != nil {
		return nil, err
	}

	records := make([]RunRecord, len(s.Algorithms)*len(s.Seeds))
	p := pool.New().
		WithMaxGoroutines(max(1, s.Concurrency)).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, name := range s.Algorithms {
		for j, seed := range s.Seeds {
			name, seed := name, seed
			idx := i*len(s.Seeds) + j
			args := base.DeepCopy()
			args.Algorithm = name
			args.Seed = ptr.To(seed)
			p.Go(func(ctx context.Context) error {
				rec, err := s.runOne(ctx, args)
				if err != nil {
					return fmt.Errorf("%s seed %d: %w", name, seed, err)
				}
				records[idx] = rec
				logger.V(2).Info("Benchmark run finished", "algorithm", rec.Algorithm, "seed", seed, "fitness", rec.Fitness)
				return nil
			})
		}
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Suite:   s.Name,
		MinTime: eval.MinTime(),
		MinCost: eval.MinCost(),
		Records: records,
	}
	report.score()
	report.Summaries = summarize(s.Algorithms, records)
	for _, sum := range report.Summaries {
		logger.Info("Benchmark summary",
			"algorithm", sum.Algorithm,
			"meanFitness", sum.MeanFitness,
			"stdFitness", sum.StdFitness,
			"meanHypervolume", sum.MeanHypervolume,
			"meanIGD", sum.MeanIGD,
		)
	}
	return report, nil
}

func (s *Suite) runOne(ctx context.Context, args *v1alpha1.OptimizerArgs) (RunRecord, error) {
	o, err := scheduler.New(ctx, args, s.Recorder)
	if err != nil {
		return RunRecord{}, err
	}
	res, _, err := o.Run(ctx, s.Problem)
	if err != nil {
		return RunRecord{}, err
	}
	front := res.Front
	if len(front) == 0 {
		front = []solution.Individual{res.Best}
	}
	return RunRecord{
		Algorithm:   args.Algorithm,
		Seed:        *args.Seed,
		Fitness:     res.Best.Fitness(),
		Makespan:    res.Best.Time(),
		Cost:        res.Best.Cost(),
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Duration:    res.Duration,
		Front:       front,
	}, nil
}

// score fills the reference front and the per-run front quality. The
// hypervolume reference point is shared by every run.
func (r *Report) score() {
	archive := solution.NewArchive()
	ref := Point{}
	for _, rec := range r.Records {
		for _, pt := range normalize(rec.Front, r.MinTime, r.MinCost) {
			ref.Time = max(ref.Time, pt.Time)
			ref.Cost = max(ref.Cost, pt.Cost)
		}
		for _, ind := range rec.Front {
			archive.Update(ind)
		}
	}
	ref.Time *= refMargin
	ref.Cost *= refMargin

	r.ReferenceFront = archive.Members()
	reference := normalize(r.ReferenceFront, r.MinTime, r.MinCost)
	for i := range r.Records {
		points := normalize(r.Records[i].Front, r.MinTime, r.MinCost)
		r.Records[i].Hypervolume = Hypervolume(points, ref)
		r.Records[i].IGD = IGD(points, reference)
	}
}

func summarize(algorithms []string, records []RunRecord) []Summary {
	summaries := make([]Summary, 0, len(algorithms))
	for _, name := range algorithms {
		var fitness, makespan, cost, hv, igd []float64
		var total time.Duration
		for _, rec := range records {
			if rec.Algorithm != name {
				continue
			}
			fitness = append(fitness, rec.Fitness)
			makespan = append(makespan, rec.Makespan)
			cost = append(cost, rec.Cost)
			hv = append(hv, rec.Hypervolume)
			igd = append(igd, rec.IGD)
			total += rec.Duration
		}
		if len(fitness) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(fitness, nil)
		if len(fitness) < 2 {
			std = 0
		}
		summaries = append(summaries, Summary{
			Algorithm:       name,
			Runs:            len(fitness),
			MeanFitness:     mean,
			StdFitness:      std,
			MinFitness:      floats.Min(fitness),
			MaxFitness:      floats.Max(fitness),
			MeanMakespan:    stat.Mean(makespan, nil),
			MeanCost:        stat.Mean(cost, nil),
			MeanHypervolume: stat.Mean(hv, nil),
			MeanIGD:         stat.Mean(igd, nil),
			MeanDuration:    total / time.Duration(len(fitness)),
		})
	}
	return summaries
}

// Save writes runs.csv, summary.csv and fronts.html into dir.
func (r *Report) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeFile(filepath.Join(dir, "runs.csv"), func(f *os.File) error { return WriteRunsCSV(f, r.Records) }); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "summary.csv"), func(f *os.File) error { return WriteSummaryCSV(f, r.Summaries) }); err != nil {
		return err
	}

	series := make([]util.FrontSeries, 0, len(r.Summaries)+1)
	for _, sum := range r.Summaries {
		archive := solution.NewArchive()
		for _, rec := range r.Records {
			if rec.Algorithm != sum.Algorithm {
				continue
			}
			for _, ind := range rec.Front {
				archive.Update(ind)
			}
		}
		series = append(series, util.FrontSeries{Name: sum.Algorithm, Points: archive.Members()})
	}
	series = append(series, util.FrontSeries{Name: "reference", Points: r.ReferenceFront})
	return util.PlotFrontsFile(filepath.Join(dir, "fronts.html"), r.Suite, r.MinTime, r.MinCost, series...)
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
