package analysis_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fogsched/taskopt/internal/testutil"
	"github.com/fogsched/taskopt/pkg/analysis"
	"github.com/fogsched/taskopt/pkg/objectives/balance"
	"github.com/fogsched/taskopt/pkg/objectives/migration"
)

func TestAnalyze(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)

	r, err := analysis.Analyze(e, analysis.Candidate{Name: "spread", Assignment: []int{0, 1, 2, 1, 2}}, 0.5, balance.DefaultBalanceConfig())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Time.Raw-1.5) > 1e-9 || math.Abs(r.Cost.Raw-15.5) > 1e-9 {
		t.Errorf("got time %v cost %v, want 1.5 and 15.5", r.Time.Raw, r.Cost.Raw)
	}
	if math.Abs(r.Time.Weighted+r.Cost.Weighted-r.Fitness) > 1e-12 {
		t.Errorf("weighted parts %v + %v do not add up to fitness %v", r.Time.Weighted, r.Cost.Weighted, r.Fitness)
	}

	tasks, totalCost := 0, 0.0
	for _, n := range r.Nodes {
		tasks += n.Tasks
		totalCost += n.Cost
	}
	if tasks != 5 || math.Abs(totalCost-r.Cost.Raw) > 1e-9 {
		t.Errorf("node reports cover %d tasks costing %v", tasks, totalCost)
	}
	if r.Nodes[1].Utilization != 100 {
		t.Errorf("busiest node utilization = %v, want 100", r.Nodes[1].Utilization)
	}

	var buf bytes.Buffer
	if err := analysis.WriteReport(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "=== spread ===") {
		t.Errorf("report missing header:\n%s", buf.String())
	}
}

func TestAnalyzeRejectsInvalidAssignment(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	if _, err := analysis.Analyze(e, analysis.Candidate{Assignment: []int{0, 1}}, 0.5, balance.DefaultBalanceConfig()); err == nil {
		t.Error("expected an error for a short assignment")
	}
}

func TestRankAndSensitivity(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	candidates := []analysis.Candidate{
		// node-1 charges the least per unit of length
		{Name: "cheap", Assignment: []int{1, 1, 1, 1, 1}},
		{Name: "slow", Assignment: []int{0, 0, 0, 0, 0}},
		{Name: "spread", Assignment: []int{0, 1, 2, 1, 2}},
	}

	reports, err := analysis.AnalyzeAll(e, candidates, 0.5, balance.DefaultBalanceConfig())
	if err != nil {
		t.Fatal(err)
	}
	ranked := analysis.Rank(reports)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Fitness > ranked[i-1].Fitness {
			t.Fatalf("ranking out of order at %d", i)
		}
	}

	sens, err := analysis.SensitivityAnalysis(e, candidates, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if sens[0].Winner != "cheap" {
		t.Errorf("cost-only weight picked %q", sens[0].Winner)
	}
	if sens[1].Winner == "cheap" {
		t.Errorf("time-only weight picked the serial assignment")
	}
}

func TestCompareToBaseline(t *testing.T) {
	e := testutil.Evaluator(t, testutil.ReferenceProblem(t), 0.5)
	candidates := []analysis.Candidate{
		{Name: "same", Assignment: []int{0, 1, 2, 1, 2}},
		{Name: "two-moves", Assignment: []int{1, 1, 2, 1, 0}},
	}
	reports, err := analysis.AnalyzeAll(e, candidates, 0.5, balance.DefaultBalanceConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := migration.DefaultConfig()
	if err := analysis.CompareToBaseline(e, reports, []int{0, 1, 2, 1, 2}, cfg); err != nil {
		t.Fatal(err)
	}
	if reports[0].Migration.Moved != 0 || reports[1].Migration.Moved != 2 {
		t.Errorf("moved %d and %d tasks, want 0 and 2", reports[0].Migration.Moved, reports[1].Migration.Moved)
	}
	// The reference tasks carry no data, so only movement counts.
	if want := cfg.MovementWeight * 0.4; math.Abs(reports[1].Migration.Total-want) > 1e-12 {
		t.Errorf("impact = %v, want %v", reports[1].Migration.Total, want)
	}

	var buf bytes.Buffer
	if err := analysis.WriteReport(&buf, reports[1]); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Moved tasks: 2/5") {
		t.Errorf("report missing migration section:\n%s", buf.String())
	}

	if err := analysis.CompareToBaseline(e, reports, []int{0}, cfg); err == nil {
		t.Error("expected an error for a short baseline")
	}
}
