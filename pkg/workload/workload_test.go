package workload_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fogsched/taskopt/internal/testutil"
	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/workload"
)

func TestGenerate(t *testing.T) {
	cfg := workload.DefaultGeneratorConfig()
	cfg.NumNodes = 7
	cfg.NumTasks = 30

	w, err := workload.Generate(cfg, framework.NewRand(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Spec.Nodes) != 7 || len(w.Spec.Tasks) != 30 {
		t.Fatalf("got %d nodes and %d tasks", len(w.Spec.Nodes), len(w.Spec.Tasks))
	}
	again, err := workload.Generate(cfg, framework.NewRand(4))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(w.Spec, again.Spec); diff != "" {
		t.Errorf("same seed generated different workloads (-first +second):\n%s", diff)
	}
	if _, err := workload.ToProblem(w); err != nil {
		t.Errorf("generated workload is not a valid problem: %v", err)
	}

	cfg.NumTasks = 0
	if _, err := workload.Generate(cfg, framework.NewRand(4)); err == nil {
		t.Error("expected an error for zero tasks")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := testutil.ReferenceProblem(t)
	path := filepath.Join(t.TempDir(), "nested", "workload.yaml")

	if err := workload.Save(path, workload.FromProblem("reference", p)); err != nil {
		t.Fatal(err)
	}
	w, err := workload.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := workload.ToProblem(w)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip changed the problem (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "kind: Workload\nspec:\n  nodes: []\n  tasks: []\n  priority: high\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := workload.Load(path); err == nil {
		t.Error("expected an error for an unknown field")
	}
}

func TestPlacementPlanRoundTrip(t *testing.T) {
	p := testutil.ReferenceProblem(t)
	e := testutil.Evaluator(t, p, 0.5)
	best, err := e.Evaluate([]int{0, 1, 2, 1, 2})
	if err != nil {
		t.Fatal(err)
	}

	res := algorithms.Result{Algorithm: "GA", Best: best, Iterations: 3, Evaluations: 10, Duration: time.Second}
	plan := workload.NewPlacementPlan("reference", p, e, 7, res)
	if plan.Spec.Placements[3].Node != "node-1" {
		t.Errorf("task-3 placed on %s, want node-1", plan.Spec.Placements[3].Node)
	}

	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := workload.Save(path, plan); err != nil {
		t.Fatal(err)
	}
	loaded, err := workload.LoadPlan(path)
	if err != nil {
		t.Fatal(err)
	}
	assignment, err := workload.Assignment(p, loaded)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(best.Genes(), assignment); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}

	loaded.Spec.Placements = loaded.Spec.Placements[1:]
	if _, err := workload.Assignment(p, loaded); err == nil {
		t.Error("expected an error for a task without placement")
	}
}
