// Package analysis breaks an assignment down into its objectives, per-node
// load and load balance, and ranks candidate assignments under different
// time/cost trade-offs.
package analysis

import (
	"fmt"
	"io"
	"sort"

	"github.com/fogsched/taskopt/pkg/objectives/balance"
	"github.com/fogsched/taskopt/pkg/objectives/cost"
	"github.com/fogsched/taskopt/pkg/objectives/migration"
	"github.com/fogsched/taskopt/pkg/solution"
)

// Candidate is a named assignment to analyze.
type Candidate struct {
	Name       string
	Assignment []int
}

// ObjectiveBreakdown shows how one objective enters the scalar fitness.
type ObjectiveBreakdown struct {
	Raw        float64
	LowerBound float64
	// Normalized is LowerBound/Raw, 1 at the bound.
	Normalized float64
	Weighted   float64
}

// NodeReport is the load one node receives.
type NodeReport struct {
	Name        string
	Tasks       int
	Time        float64
	Cost        float64
	Utilization float64
}

type Report struct {
	Name       string
	Assignment []int
	TimeWeight float64
	Time       ObjectiveBreakdown
	Cost       ObjectiveBreakdown
	Fitness    float64
	Balance    balance.BalanceResult
	Nodes      []NodeReport
	// Migration is set by CompareToBaseline.
	Migration *migration.Result
}

// Analyze evaluates c under the evaluator's problem and time weight w.
func Analyze(e *solution.Evaluator, c Candidate, w float64, balanceCfg balance.BalanceConfig) (Report, error) {
	ind, err := e.EvaluateFor(c.Assignment, w)
	if err != nil {
		return Report{}, fmt.Errorf("analyzing %q: %w", c.Name, err)
	}
	p := e.Problem()

	r := Report{
		Name:       c.Name,
		Assignment: ind.Genes(),
		TimeWeight: w,
		Time: ObjectiveBreakdown{
			Raw:        ind.Time(),
			LowerBound: e.MinTime(),
			Normalized: e.MinTime() / ind.Time(),
			Weighted:   w * e.MinTime() / ind.Time(),
		},
		Cost: ObjectiveBreakdown{
			Raw:        ind.Cost(),
			LowerBound: e.MinCost(),
			Normalized: e.MinCost() / ind.Cost(),
			Weighted:   (1 - w) * e.MinCost() / ind.Cost(),
		},
		Fitness: ind.Fitness(),
	}

	_, r.Balance = balance.BalanceObjectiveWithDetails(p, c.Assignment, balanceCfg)
	r.Nodes = make([]NodeReport, p.NodeCount())
	for i, n := range p.Nodes {
		r.Nodes[i] = NodeReport{
			Name:        n.Name,
			Time:        r.Balance.NodeUtilizations[i].Time,
			Utilization: r.Balance.NodeUtilizations[i].Utilization,
		}
	}
	for t, n := range c.Assignment {
		r.Nodes[n].Tasks++
		r.Nodes[n].Cost += cost.TaskCost(p.Nodes[n], p.Tasks[t])
	}
	return r, nil
}

// AnalyzeAll runs Analyze for every candidate.
func AnalyzeAll(e *solution.Evaluator, candidates []Candidate, w float64, balanceCfg balance.BalanceConfig) ([]Report, error) {
	reports := make([]Report, len(candidates))
	for i, c := range candidates {
		r, err := Analyze(e, c, w, balanceCfg)
		if err != nil {
			return nil, err
		}
		reports[i] = r
	}
	return reports, nil
}

// Rank orders reports by decreasing fitness. Equal fitness keeps input order.
func Rank(reports []Report) []Report {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness > sorted[j].Fitness
	})
	return sorted
}

// CompareToBaseline records on every report what moving from baseline to
// its assignment would disrupt.
func CompareToBaseline(e *solution.Evaluator, reports []Report, baseline []int, cfg migration.Config) error {
	for i := range reports {
		m, err := migration.Evaluate(e.Problem(), baseline, reports[i].Assignment, cfg)
		if err != nil {
			return fmt.Errorf("comparing %q to baseline: %w", reports[i].Name, err)
		}
		reports[i].Migration = &m
	}
	return nil
}

// Sensitivity is the winner among candidates at one time weight.
type Sensitivity struct {
	TimeWeight float64
	Winner     string
	Fitness    float64
}

// SensitivityAnalysis re-ranks the candidates under each time weight.
func SensitivityAnalysis(e *solution.Evaluator, candidates []Candidate, weights []float64) ([]Sensitivity, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	out := make([]Sensitivity, 0, len(weights))
	for _, w := range weights {
		reports, err := AnalyzeAll(e, candidates, w, balance.DefaultBalanceConfig())
		if err != nil {
			return nil, err
		}
		best := Rank(reports)[0]
		out = append(out, Sensitivity{TimeWeight: w, Winner: best.Name, Fitness: best.Fitness})
	}
	return out, nil
}

// WriteReport prints a human readable breakdown of r.
func WriteReport(w io.Writer, r Report) error {
	ew := &errWriter{w: w}
	ew.printf("\n=== %s ===\n", r.Name)
	ew.printf("Assignment: %v\n", r.Assignment)

	ew.printf("\nTIME BREAKDOWN:\n")
	ew.printf("  Makespan: %.4f\n", r.Time.Raw)
	ew.printf("  Lower bound: %.4f\n", r.Time.LowerBound)
	ew.printf("  Normalized: %.4f (%.4f / %.4f)\n", r.Time.Normalized, r.Time.LowerBound, r.Time.Raw)
	ew.printf("  Weighted: %.4f (%.4f × %.2f)\n", r.Time.Weighted, r.Time.Normalized, r.TimeWeight)

	ew.printf("\nCOST BREAKDOWN:\n")
	ew.printf("  Total cost: %.4f\n", r.Cost.Raw)
	ew.printf("  Lower bound: %.4f\n", r.Cost.LowerBound)
	ew.printf("  Normalized: %.4f (%.4f / %.4f)\n", r.Cost.Normalized, r.Cost.LowerBound, r.Cost.Raw)
	ew.printf("  Weighted: %.4f (%.4f × %.2f)\n", r.Cost.Weighted, r.Cost.Normalized, 1-r.TimeWeight)

	ew.printf("\nNODES:\n")
	for _, n := range r.Nodes {
		ew.printf("  %-16s tasks=%-4d time=%-10.4f cost=%-10.4f util=%5.1f%%\n",
			n.Name, n.Tasks, n.Time, n.Cost, n.Utilization)
	}
	ew.printf("  Utilization std dev: %.2f (normalized %.4f)\n", r.Balance.StdDev, r.Balance.NormalizedStdDev)

	if m := r.Migration; m != nil {
		ew.printf("\nMIGRATION FROM BASELINE:\n")
		ew.printf("  Moved tasks: %d/%d (data %.2f)\n", m.Moved, len(r.Assignment), m.MovedData)
		ew.printf("  Impact: %.4f (movement %.4f, transfer %.4f)\n", m.Total, m.MovementImpact, m.TransferImpact)
	}

	ew.printf("\nFITNESS: %.4f\n", r.Fitness)
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
