package benchmarks

import (
	"math"
	"sort"

	"github.com/fogsched/taskopt/pkg/solution"
)

// Point is an assignment in normalized objective space: makespan and cost
// divided by their lower bounds, so both coordinates are at least one.
type Point struct {
	Time, Cost float64
}

func normalize(front []solution.Individual, minTime, minCost float64) []Point {
	points := make([]Point, len(front))
	for i, ind := range front {
		points[i] = Point{Time: ind.Time() / minTime, Cost: ind.Cost() / minCost}
	}
	return points
}

// Hypervolume is the area dominated by points and bounded by ref. Points
// not strictly better than ref in both objectives contribute nothing.
func Hypervolume(points []Point, ref Point) float64 {
	inside := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Time < ref.Time && p.Cost < ref.Cost {
			inside = append(inside, p)
		}
	}
	sort.Slice(inside, func(i, j int) bool {
		if inside[i].Time != inside[j].Time {
			return inside[i].Time < inside[j].Time
		}
		return inside[i].Cost < inside[j].Cost
	})

	hv, prevCost := 0.0, ref.Cost
	for _, p := range inside {
		if p.Cost < prevCost {
			hv += (ref.Time - p.Time) * (prevCost - p.Cost)
			prevCost = p.Cost
		}
	}
	return hv
}

// IGD is the inverted generational distance: the mean distance from each
// reference point to its nearest obtained point.
func IGD(obtained, reference []Point) float64 {
	if len(reference) == 0 {
		return 0
	}
	if len(obtained) == 0 {
		return math.Inf(1)
	}
	total := 0.0
	for _, r := range reference {
		nearest := math.Inf(1)
		for _, o := range obtained {
			nearest = min(nearest, math.Hypot(r.Time-o.Time, r.Cost-o.Cost))
		}
		total += nearest
	}
	return total / float64(len(reference))
}
