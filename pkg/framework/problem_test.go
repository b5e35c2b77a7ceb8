package framework_test

import (
	"errors"
	"testing"

	"github.com/fogsched/taskopt/pkg/framework"
)

func TestNewProblemValidation(t *testing.T) {
	node := framework.NodeInfo{Name: "n", Capacity: 10, CostPerTime: 1}
	task := framework.TaskInfo{Name: "t", Length: 5}

	testCases := []struct {
		name    string
		nodes   []framework.NodeInfo
		tasks   []framework.TaskInfo
		wantErr error
	}{
		{
			name:  "Valid",
			nodes: []framework.NodeInfo{node},
			tasks: []framework.TaskInfo{task},
		},
		{
			name:    "NoTasks",
			nodes:   []framework.NodeInfo{node},
			wantErr: framework.ErrInvalidProblemSize,
		},
		{
			name:    "NoNodes",
			tasks:   []framework.TaskInfo{task},
			wantErr: framework.ErrInvalidProblemSize,
		},
		{
			name:    "ZeroCapacity",
			nodes:   []framework.NodeInfo{node, {Name: "dead"}},
			tasks:   []framework.TaskInfo{task},
			wantErr: framework.ErrInvalidProblemSize,
		},
		{
			name:    "NegativeLength",
			nodes:   []framework.NodeInfo{node},
			tasks:   []framework.TaskInfo{{Length: -1}},
			wantErr: framework.ErrInvalidDescriptor,
		},
		{
			name:    "NegativeRate",
			nodes:   []framework.NodeInfo{{Capacity: 1, CostPerBw: -2}},
			tasks:   []framework.TaskInfo{task},
			wantErr: framework.ErrInvalidDescriptor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := framework.NewProblem(tc.nodes, tc.tasks)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.NodeCount() != len(tc.nodes) || p.TaskCount() != len(tc.tasks) {
					t.Errorf("got %d nodes / %d tasks", p.NodeCount(), p.TaskCount())
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewProblemReindexes(t *testing.T) {
	p, err := framework.NewProblem(
		[]framework.NodeInfo{{Idx: 7, Capacity: 1}, {Idx: 7, Capacity: 2}},
		[]framework.TaskInfo{{Idx: 3, Length: 4}},
	)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range p.Nodes {
		if n.Idx != i {
			t.Errorf("node %d has Idx %d", i, n.Idx)
		}
	}
	if got := p.ExecTime(0, 1); got != 2 {
		t.Errorf("ExecTime = %v, want 2", got)
	}
}

func TestRandInt(t *testing.T) {
	rng := framework.NewRand(1)

	if _, err := framework.RandInt(rng, 0, -1); !errors.Is(err, framework.ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}

	for i := 0; i < 1000; i++ {
		v, err := framework.RandInt(rng, 3, 5)
		if err != nil {
			t.Fatal(err)
		}
		if v < 3 || v > 5 {
			t.Fatalf("value %d outside [3,5]", v)
		}
	}

	v, err := framework.RandInt(rng, 4, 4)
	if err != nil || v != 4 {
		t.Errorf("single-value range: got %d, %v", v, err)
	}
}

func TestRandomAssignment(t *testing.T) {
	if _, err := framework.RandomAssignment(framework.NewRand(1), 3, 0); !errors.Is(err, framework.ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}

	a, err := framework.RandomAssignment(framework.NewRand(9), 50, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := framework.RandomAssignment(framework.NewRand(9), 50, 4)
	for i := range a {
		if a[i] < 0 || a[i] >= 4 {
			t.Fatalf("gene %d out of range: %d", i, a[i])
		}
		if a[i] != b[i] {
			t.Fatalf("same seed produced different assignments at %d", i)
		}
	}
}
