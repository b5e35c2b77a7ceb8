/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package testutil holds problem fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

// ReferenceProblem has three nodes with capacities 10, 20 and 30 and five
// tasks with lengths 5 to 25. Only execution time is charged, so the makespan
// bound is 75/60 and the cost bound is 0.2*75.
func ReferenceProblem(t testing.TB) *framework.Problem {
	t.Helper()
	p, err := framework.NewProblem(
		[]framework.NodeInfo{
			{Name: "node-0", Capacity: 10, CostPerTime: 3},
			{Name: "node-1", Capacity: 20, CostPerTime: 4},
			{Name: "node-2", Capacity: 30, CostPerTime: 6},
		},
		[]framework.TaskInfo{
			{Name: "task-0", Length: 5},
			{Name: "task-1", Length: 10},
			{Name: "task-2", Length: 15},
			{Name: "task-3", Length: 20},
			{Name: "task-4", Length: 25},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// MixedProblem is a larger instance with fast expensive nodes and slow cheap
// nodes, so that time and cost actually conflict.
func MixedProblem(t testing.TB, numNodes, numTasks int) *framework.Problem {
	t.Helper()
	nodes := make([]framework.NodeInfo, numNodes)
	for i := range nodes {
		capacity := float64(100 * (1 + i%4))
		nodes[i] = framework.NodeInfo{
			Name:        fmt.Sprintf("node-%d", i),
			Capacity:    capacity,
			CostPerTime: capacity * capacity / 1000,
			CostPerMem:  0.01,
			CostPerBw:   0.002 * float64(1+i%3),
		}
	}
	tasks := make([]framework.TaskInfo, numTasks)
	for i := range tasks {
		tasks[i] = framework.TaskInfo{
			Name:       fmt.Sprintf("task-%d", i),
			Length:     float64(200 + (i*137)%1800),
			Mem:        float64(64 * (1 + i%8)),
			InputSize:  float64(10 + (i*31)%90),
			OutputSize: float64(5 + (i*17)%45),
		}
	}
	p, err := framework.NewProblem(nodes, tasks)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// Evaluator builds an evaluator for p or fails the test.
func Evaluator(t testing.TB, p *framework.Problem, timeWeight float64) *solution.Evaluator {
	t.Helper()
	e, err := solution.NewEvaluator(p, timeWeight)
	if err != nil {
		t.Fatal(err)
	}
	return e
}
