package cost

import (
	"math"

	"github.com/fogsched/taskopt/pkg/framework"
)

// TaskCost is the monetary cost of running task on node: execution time,
// memory footprint and data transfer, each charged at the node's rate.
func TaskCost(node framework.NodeInfo, task framework.TaskInfo) float64 {
	return node.CostPerTime*(task.Length/node.Capacity) +
		node.CostPerMem*task.Mem +
		node.CostPerBw*task.DataSize()
}

// TotalCost sums TaskCost over an assignment where assignment[t] is the node
// index chosen for task t.
func TotalCost(p *framework.Problem, assignment []int) float64 {
	total := 0.0
	for t, n := range assignment {
		total += TaskCost(p.Nodes[n], p.Tasks[t])
	}
	return total
}

// CheapestNode returns the node on which task is cheapest and that cost.
// Ties go to the lowest node index.
func CheapestNode(p *framework.Problem, task int) (int, float64) {
	best, bestCost := -1, math.Inf(1)
	for n, node := range p.Nodes {
		c := TaskCost(node, p.Tasks[task])
		if c < bestCost {
			best, bestCost = n, c
		}
	}
	return best, bestCost
}

// LowerBound places every task on its cheapest node, ignoring contention.
// It is a normalization anchor and is not necessarily attainable together
// with a good makespan.
func LowerBound(p *framework.Problem) float64 {
	total := 0.0
	for t := range p.Tasks {
		_, c := CheapestNode(p, t)
		total += c
	}
	return total
}

// Objective returns the cost objective as a function of an assignment, for
// callers that treat objectives uniformly.
func Objective(p *framework.Problem) func(assignment []int) float64 {
	return func(assignment []int) float64 {
		return TotalCost(p, assignment)
	}
}
