package makespan_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/objectives/makespan"
)

func TestMakespan(t *testing.T) {
	p, err := framework.NewProblem(
		[]framework.NodeInfo{{Capacity: 10}, {Capacity: 20}, {Capacity: 30}},
		[]framework.TaskInfo{{Length: 5}, {Length: 10}, {Length: 15}, {Length: 20}, {Length: 25}},
	)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name       string
		assignment []int
		nodeTimes  []float64
		makespan   float64
	}{
		{
			name:       "AllOnSlowest",
			assignment: []int{0, 0, 0, 0, 0},
			nodeTimes:  []float64{7.5, 0, 0},
			makespan:   7.5,
		},
		{
			name:       "AllOnFastest",
			assignment: []int{2, 2, 2, 2, 2},
			nodeTimes:  []float64{0, 0, 2.5},
			makespan:   2.5,
		},
		{
			name:       "Spread",
			assignment: []int{0, 1, 2, 1, 2},
			nodeTimes:  []float64{0.5, 1.5, 40.0 / 30},
			makespan:   1.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			times := makespan.NodeTimes(p, tc.assignment)
			if diff := cmp.Diff(tc.nodeTimes, times, cmp.Comparer(func(a, b float64) bool {
				return math.Abs(a-b) < 1e-9
			})); diff != "" {
				t.Errorf("NodeTimes mismatch (-want +got):\n%s", diff)
			}
			if got := makespan.Makespan(p, tc.assignment); math.Abs(got-tc.makespan) > 1e-9 {
				t.Errorf("Makespan = %v, want %v", got, tc.makespan)
			}
			if lb := makespan.LowerBound(p); makespan.Makespan(p, tc.assignment) < lb {
				t.Errorf("makespan below lower bound %v", lb)
			}
		})
	}

	if lb := makespan.LowerBound(p); lb != 1.25 {
		t.Errorf("LowerBound = %v, want 1.25", lb)
	}
}
