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

package testutil_test

import (
	"testing"

	"github.com/fogsched/taskopt/internal/testutil"
)

func TestFixtures(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(testing.TB) (nodes, tasks int)
		wantNodes int
		wantTasks int
	}{
		{
			name: "Reference",
			build: func(tb testing.TB) (int, int) {
				p := testutil.ReferenceProblem(tb)
				return p.NodeCount(), p.TaskCount()
			},
			wantNodes: 3,
			wantTasks: 5,
		},
		{
			name: "Mixed",
			build: func(tb testing.TB) (int, int) {
				p := testutil.MixedProblem(tb, 7, 40)
				return p.NodeCount(), p.TaskCount()
			},
			wantNodes: 7,
			wantTasks: 40,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes, tasks := tc.build(t)
			if nodes != tc.wantNodes || tasks != tc.wantTasks {
				t.Errorf("got %d nodes and %d tasks, want %d and %d", nodes, tasks, tc.wantNodes, tc.wantTasks)
			}
		})
	}
}

func TestEvaluatorHasPositiveBounds(t *testing.T) {
	e := testutil.Evaluator(t, testutil.MixedProblem(t, 4, 12), 0.5)
	if e.MinTime() <= 0 || e.MinCost() <= 0 {
		t.Errorf("bounds must be positive, got time=%v cost=%v", e.MinTime(), e.MinCost())
	}
	if e.NodeCount() != 4 || e.TaskCount() != 12 {
		t.Errorf("evaluator sees %d nodes and %d tasks, want 4 and 12", e.NodeCount(), e.TaskCount())
	}
}
