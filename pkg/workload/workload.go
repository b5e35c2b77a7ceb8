// Package workload reads, writes and generates workload and placement plan
// documents, and converts them to and from scheduling problems.
package workload

import (
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

// Load reads a Workload document from path.
func Load(path string) (*v1alpha1.Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w := &v1alpha1.Workload{}
	if err := yaml.UnmarshalStrict(data, w); err != nil {
		return nil, fmt.Errorf("decoding workload %s: %w", path, err)
	}
	if w.Kind != "" && w.Kind != v1alpha1.KindWorkload {
		return nil, fmt.Errorf("%s: expected kind %s, got %s", path, v1alpha1.KindWorkload, w.Kind)
	}
	return w, nil
}

// Save writes doc as YAML to path, creating parent directories.
func Save(path string, doc any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dirs for %s: %w", path, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ToProblem converts a workload into a validated problem.
func ToProblem(w *v1alpha1.Workload) (*framework.Problem, error) {
	nodes := make([]framework.NodeInfo, len(w.Spec.Nodes))
	for i, n := range w.Spec.Nodes {
		nodes[i] = framework.NodeInfo{
			Name:        n.Name,
			Capacity:    n.Capacity,
			CostPerTime: n.CostPerTime,
			CostPerMem:  n.CostPerMem,
			CostPerBw:   n.CostPerBw,
		}
	}
	tasks := make([]framework.TaskInfo, len(w.Spec.Tasks))
	for i, t := range w.Spec.Tasks {
		tasks[i] = framework.TaskInfo{
			Name:       t.Name,
			Length:     t.Length,
			Mem:        t.Mem,
			InputSize:  t.InputSize,
			OutputSize: t.OutputSize,
		}
	}
	p, err := framework.NewProblem(nodes, tasks)
	if err != nil {
		return nil, fmt.Errorf("workload %q: %w", w.Name, err)
	}
	return p, nil
}

// FromProblem is the inverse of ToProblem.
func FromProblem(name string, p *framework.Problem) *v1alpha1.Workload {
	w := &v1alpha1.Workload{
		TypeMeta:   metav1.TypeMeta{APIVersion: v1alpha1.APIVersion, Kind: v1alpha1.KindWorkload},
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}
	for _, n := range p.Nodes {
		w.Spec.Nodes = append(w.Spec.Nodes, v1alpha1.NodeSpec{
			Name:        n.Name,
			Capacity:    n.Capacity,
			CostPerTime: n.CostPerTime,
			CostPerMem:  n.CostPerMem,
			CostPerBw:   n.CostPerBw,
		})
	}
	for _, t := range p.Tasks {
		w.Spec.Tasks = append(w.Spec.Tasks, v1alpha1.TaskSpec{
			Name:       t.Name,
			Length:     t.Length,
			Mem:        t.Mem,
			InputSize:  t.InputSize,
			OutputSize: t.OutputSize,
		})
	}
	return w
}

func frontPoints(front []solution.Individual) []v1alpha1.FrontPoint {
	points := make([]v1alpha1.FrontPoint, len(front))
	for i, f := range front {
		points[i] = v1alpha1.FrontPoint{Makespan: f.Time(), Cost: f.Cost(), Assignment: f.Genes()}
	}
	return points
}

// NewPlacementPlan turns an engine result into a plan naming tasks and nodes.
func NewPlacementPlan(workloadName string, p *framework.Problem, eval *solution.Evaluator, seed uint64, res algorithms.Result) *v1alpha1.PlacementPlan {
	plan := &v1alpha1.PlacementPlan{
		TypeMeta:   metav1.TypeMeta{APIVersion: v1alpha1.APIVersion, Kind: v1alpha1.KindPlacementPlan},
		ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("%s-%d", workloadName, seed)},
		Spec: v1alpha1.PlacementPlanSpec{
			Workload:   workloadName,
			Algorithm:  res.Algorithm,
			TimeWeight: eval.TimeWeight(),
			Seed:       seed,
		},
		Status: v1alpha1.PlacementPlanStatus{
			Makespan:    res.Best.Time(),
			Cost:        res.Best.Cost(),
			Fitness:     res.Best.Fitness(),
			MinMakespan: eval.MinTime(),
			MinCost:     eval.MinCost(),
			Iterations:  res.Iterations,
			Evaluations: res.Evaluations,
			Duration:    metav1.Duration{Duration: res.Duration},
			GeneratedAt: metav1.Now(),
			Front:       frontPoints(res.Front),
		},
	}
	for t, n := range res.Best.Genes() {
		plan.Spec.Placements = append(plan.Spec.Placements, v1alpha1.TaskPlacement{
			Task: p.Tasks[t].Name,
			Node: p.Nodes[n].Name,
		})
	}
	return plan
}

// LoadPlan reads a PlacementPlan document from path.
func LoadPlan(path string) (*v1alpha1.PlacementPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plan := &v1alpha1.PlacementPlan{}
	if err := yaml.UnmarshalStrict(data, plan); err != nil {
		return nil, fmt.Errorf("decoding placement plan %s: %w", path, err)
	}
	return plan, nil
}

// Assignment resolves the task and node names of plan against p.
func Assignment(p *framework.Problem, plan *v1alpha1.PlacementPlan) ([]int, error) {
	taskIdx := make(map[string]int, p.TaskCount())
	for i, t := range p.Tasks {
		taskIdx[t.Name] = i
	}
	nodeIdx := make(map[string]int, p.NodeCount())
	for i, n := range p.Nodes {
		nodeIdx[n.Name] = i
	}

	assignment := make([]int, p.TaskCount())
	seen := make([]bool, p.TaskCount())
	for _, pl := range plan.Spec.Placements {
		t, ok := taskIdx[pl.Task]
		if !ok {
			return nil, fmt.Errorf("unknown task %q", pl.Task)
		}
		n, ok := nodeIdx[pl.Node]
		if !ok {
			return nil, fmt.Errorf("unknown node %q", pl.Node)
		}
		assignment[t], seen[t] = n, true
	}
	for t, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("task %q has no placement", p.Tasks[t].Name)
		}
	}
	return assignment, nil
}
