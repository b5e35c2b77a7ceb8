package solution

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/fogsched/taskopt/pkg/objectives/cost"
	"github.com/fogsched/taskopt/pkg/objectives/makespan"
)

// Incremental is a mutable working copy of an assignment that keeps per-node
// execution time and per-task cost, so that reassigning one task costs
// O(nodes) instead of a full re-evaluation. It is not safe for concurrent use.
type Incremental struct {
	eval      *Evaluator
	genes     []int
	nodeTimes []float64
	taskCosts []float64
	time      float64
	cost      float64
	fitness   float64
}

// NewIncremental starts an incremental state from an evaluated individual.
func (e *Evaluator) NewIncremental(ind Individual) *Incremental {
	s := &Incremental{eval: e}
	s.Reset(ind)
	return s
}

// Reset discards the current state and rebuilds it from ind.
func (s *Incremental) Reset(ind Individual) {
	p := s.eval.problem
	s.genes = slices.Clone(ind.genes)
	s.nodeTimes = make([]float64, p.NodeCount())
	s.taskCosts = make([]float64, p.TaskCount())
	for t, n := range s.genes {
		s.nodeTimes[n] += p.ExecTime(t, n)
		s.taskCosts[t] = cost.TaskCost(p.Nodes[n], p.Tasks[t])
	}
	s.time = ind.time
	s.cost = ind.cost
	s.fitness = ind.fitness
}

// Move reassigns task to node and returns the node it was on. Calling Move
// again with the returned node undoes the change.
func (s *Incremental) Move(task, node int) int {
	old := s.genes[task]
	if old == node {
		return old
	}
	p := s.eval.problem
	s.nodeTimes[old] -= p.ExecTime(task, old)
	s.nodeTimes[node] += p.ExecTime(task, node)
	s.time = floats.Max(s.nodeTimes)

	newCost := cost.TaskCost(p.Nodes[node], p.Tasks[task])
	s.cost += newCost - s.taskCosts[task]
	s.taskCosts[task] = newCost
	s.genes[task] = node

	// NewEvaluator checked the weight and rejected zero bounds, and a valid
	// assignment never scores below minTime and minCost, so the quotient is
	// always defined.
	s.fitness = s.eval.score(s.time, s.cost, s.eval.timeWeight)
	s.eval.evaluations.Add(1)
	return old
}

func (s *Incremental) Gene(task int) int { return s.genes[task] }
func (s *Incremental) Time() float64     { return s.time }
func (s *Incremental) Cost() float64     { return s.cost }
func (s *Incremental) Fitness() float64  { return s.fitness }

// Individual snapshots the current assignment. Time, cost and fitness are
// recomputed from the genes, so the snapshot carries none of the rounding
// accumulated by Move and is identical to what Evaluate returns.
func (s *Incremental) Individual() Individual {
	p := s.eval.problem
	ind := Individual{
		genes: slices.Clone(s.genes),
		time:  makespan.Makespan(p, s.genes),
		cost:  cost.TotalCost(p, s.genes),
	}
	ind.fitness = s.eval.score(ind.time, ind.cost, s.eval.timeWeight)
	return ind
}
