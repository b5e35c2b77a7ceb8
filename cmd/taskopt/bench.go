package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/benchmarks"
	"github.com/fogsched/taskopt/pkg/workload"
)

type benchOptions struct {
	argsOptions
	workloadPath string
	runs         int
	algorithms   []string
	concurrency  int
	outDir       string
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "compare algorithms over several seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			args, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			w, err := workload.Load(opts.workloadPath)
			if err != nil {
				return err
			}
			p, err := workload.ToProblem(w)
			if err != nil {
				return err
			}

			suite := benchmarks.NewSuite(w.Name, p, args, opts.runs)
			suite.Seeds = benchmarks.SeedRange(*args.Seed, opts.runs)
			if len(opts.algorithms) > 0 {
				suite.Algorithms = opts.algorithms
			}
			suite.Concurrency = opts.concurrency

			report, err := suite.Run(ctx)
			if err != nil {
				return err
			}
			if err := report.Save(opts.outDir); err != nil {
				return err
			}
			klog.FromContext(ctx).Info("Wrote benchmark results", "dir", opts.outDir)
			return benchmarks.WriteSummaryCSV(cmd.OutOrStdout(), report.Summaries)
		},
	}

	fs := cmd.Flags()
	opts.addFlags(fs)
	fs.StringVar(&opts.workloadPath, "workload", "", "path to a Workload document")
	fs.IntVar(&opts.runs, "runs", 5, "number of seeds per algorithm, starting at --seed")
	fs.StringSliceVar(&opts.algorithms, "algorithms", nil, "algorithms to compare, all when empty")
	fs.IntVar(&opts.concurrency, "concurrency", 1, "runs executing at once")
	fs.StringVar(&opts.outDir, "out-dir", "results", "directory for CSV and HTML output")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}
