package moead

import (
	"math"
	"sort"

	"github.com/fogsched/taskopt/pkg/solution"
)

// Subproblem is one scalarization of the time/cost problem. TimeWeight and
// the implied cost weight 1-TimeWeight are fixed for the run, Current is the
// best assignment found for them.
type Subproblem struct {
	TimeWeight float64
	Current    solution.Individual
	// Neighbors are subproblem indexes ordered by weight distance. The first
	// entry is the subproblem itself.
	Neighbors []int
}

// WeightVectors returns n time weights evenly spaced over (0, 1]. The last
// slot is pinned to the run's global trade-off instead of 1.
func WeightVectors(n int, pinned float64) []float64 {
	weights := make([]float64, n)
	for i := 0; i < n-1; i++ {
		weights[i] = float64(i+1) / float64(n)
	}
	if n > 0 {
		weights[n-1] = pinned
	}
	return weights
}

// Neighbors returns, for every weight, the indexes of the k closest weight
// vectors by Euclidean distance on (w, 1-w). Ties keep index order, so a
// weight's own index comes first.
func Neighbors(weights []float64, k int) [][]int {
	k = min(k, len(weights))
	out := make([][]int, len(weights))
	for i, wi := range weights {
		order := make([]int, len(weights))
		dist := make([]float64, len(weights))
		for j, wj := range weights {
			order[j] = j
			dist[j] = math.Hypot(wi-wj, (1-wi)-(1-wj))
		}
		sort.SliceStable(order, func(a, b int) bool {
			da, db := dist[order[a]], dist[order[b]]
			if da != db {
				return da < db
			}
			// self before any other weight at distance zero
			return order[a] == i && order[b] != i
		})
		out[i] = order[:k]
	}
	return out
}
