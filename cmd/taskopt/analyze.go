package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fogsched/taskopt/pkg/analysis"
	"github.com/fogsched/taskopt/pkg/objectives/balance"
	"github.com/fogsched/taskopt/pkg/objectives/migration"
	"github.com/fogsched/taskopt/pkg/solution"
	"github.com/fogsched/taskopt/pkg/workload"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		workloadPath string
		baselinePath string
		timeWeight   float64
		weights      []float64
	)
	cmd := &cobra.Command{
		Use:   "analyze PLAN...",
		Short: "compare placement plans of one workload",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			w, err := workload.Load(workloadPath)
			if err != nil {
				return err
			}
			p, err := workload.ToProblem(w)
			if err != nil {
				return err
			}
			eval, err := solution.NewEvaluator(p, timeWeight)
			if err != nil {
				return err
			}

			candidates := make([]analysis.Candidate, 0, len(paths))
			for _, path := range paths {
				plan, err := workload.LoadPlan(path)
				if err != nil {
					return err
				}
				assignment, err := workload.Assignment(p, plan)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				name := plan.Name
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				candidates = append(candidates, analysis.Candidate{Name: name, Assignment: assignment})
			}

			reports, err := analysis.AnalyzeAll(eval, candidates, timeWeight, balance.DefaultBalanceConfig())
			if err != nil {
				return err
			}
			if baselinePath != "" {
				baseline, err := workload.LoadPlan(baselinePath)
				if err != nil {
					return err
				}
				assignment, err := workload.Assignment(p, baseline)
				if err != nil {
					return fmt.Errorf("%s: %w", baselinePath, err)
				}
				if err := analysis.CompareToBaseline(eval, reports, assignment, migration.DefaultConfig()); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			for _, r := range analysis.Rank(reports) {
				if err := analysis.WriteReport(out, r); err != nil {
					return err
				}
			}

			sensitivity, err := analysis.SensitivityAnalysis(eval, candidates, weights)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nTime weight sensitivity:")
			for _, s := range sensitivity {
				fmt.Fprintf(out, "  w=%.2f  %-20s fitness=%.4f\n", s.TimeWeight, s.Winner, s.Fitness)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&workloadPath, "workload", "", "path to the Workload the plans were made for")
	fs.StringVar(&baselinePath, "baseline", "", "placement plan currently deployed, to report migration impact")
	fs.Float64Var(&timeWeight, "time-weight", 0.5, "weight of makespan against cost, in [0,1]")
	fs.Float64SliceVar(&weights, "weights", []float64{0, 0.25, 0.5, 0.75, 1}, "time weights for the sensitivity table")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}
