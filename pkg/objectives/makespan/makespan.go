package makespan

import (
	"gonum.org/v1/gonum/floats"

	"github.com/fogsched/taskopt/pkg/framework"
)

// NodeTimes returns, per node, the total execution time of the tasks the
// assignment places on it.
func NodeTimes(p *framework.Problem, assignment []int) []float64 {
	times := make([]float64, p.NodeCount())
	for t, n := range assignment {
		times[n] += p.ExecTime(t, n)
	}
	return times
}

// Makespan is the finishing time of the busiest node.
func Makespan(p *framework.Problem, assignment []int) float64 {
	return floats.Max(NodeTimes(p, assignment))
}

// LowerBound is the perfectly parallel, fractional makespan: all work spread
// over the aggregate capacity of every node.
func LowerBound(p *framework.Problem) float64 {
	length, capacity := 0.0, 0.0
	for _, t := range p.Tasks {
		length += t.Length
	}
	for _, n := range p.Nodes {
		capacity += n.Capacity
	}
	return length / capacity
}
