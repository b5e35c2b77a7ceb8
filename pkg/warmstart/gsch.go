// Package warmstart provides a Greedy Constructive State Heuristic (GCSH) for
// generating good initial assignments for the search engines.
//
// The GCSH algorithm creates diverse solutions by using different weight vectors
// for the objectives, systematically sweeping from makespan-focused to
// cost-focused solutions. Engines can seed part of their initial population
// with them instead of starting from purely random assignments.
package warmstart

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/objectives/cost"
	"github.com/fogsched/taskopt/pkg/objectives/makespan"
)

// ObjectiveWeights defines the weights for objectives, time first
type ObjectiveWeights []float64

// GCSHConfig contains configuration for the Greedy Constructive State Heuristic
type GCSHConfig struct {
	Problem *framework.Problem
	// Jitter randomizes task ordering by up to this fraction of a task's
	// length so that equal weight vectors still give varied solutions.
	Jitter float64
}

// GenerateWeightVectors creates evenly distributed weight vectors
func GenerateWeightVectors(count int, numObjectives int) []ObjectiveWeights {
	weights := make([]ObjectiveWeights, count)

	// Simple linear interpolation
	for i := 0; i < count; i++ {
		weights[i] = make(ObjectiveWeights, numObjectives)

		if count == 1 {
			// Single weight - equal distribution
			for j := 0; j < numObjectives; j++ {
				weights[i][j] = 1.0 / float64(numObjectives)
			}
		} else {
			// Linear interpolation for 2 objectives (which is what we use)
			t := float64(i) / float64(count-1)
			weights[i][0] = 1.0 - t
			weights[i][1] = t
		}
	}

	return weights
}

// GCSH implements the Greedy Constructive State Heuristic
type GCSH struct {
	config  GCSHConfig
	rng     *rand.Rand
	minTime float64
	// cheapest[t] is the lowest cost of task t on any node
	cheapest []float64
}

// NewGCSH creates a new GCSH instance
func NewGCSH(config GCSHConfig, rng *rand.Rand) *GCSH {
	p := config.Problem
	cheapest := make([]float64, p.TaskCount())
	for t := range cheapest {
		_, cheapest[t] = cost.CheapestNode(p, t)
	}
	return &GCSH{
		config:   config,
		rng:      rng,
		minTime:  makespan.LowerBound(p),
		cheapest: cheapest,
	}
}

// GenerateInitialPopulation creates popSize assignments, one per weight vector
func (g *GCSH) GenerateInitialPopulation(popSize int) [][]int {
	weightVectors := GenerateWeightVectors(popSize, 2)
	solutions := make([][]int, popSize)
	for i, w := range weightVectors {
		solutions[i] = g.ConstructSolution(w)
	}

	// Check uniqueness of generated solutions
	unique := make(map[string]bool)
	for _, sol := range solutions {
		unique[fmt.Sprint(sol)] = true
	}
	klog.V(3).InfoS("GCSH generated initial solutions", "count", len(solutions), "unique", len(unique))
	return solutions
}

// ConstructSolution places tasks longest first, each on the node that
// minimizes the weighted sum of the node's resulting finish time (relative to
// the makespan lower bound) and the task's cost (relative to its cheapest
// placement).
func (g *GCSH) ConstructSolution(weights ObjectiveWeights) []int {
	p := g.config.Problem

	type taskWithPriority struct {
		index    int
		priority float64
	}
	tasks := make([]taskWithPriority, p.TaskCount())
	for i, task := range p.Tasks {
		factor := 1.0
		if g.config.Jitter > 0 {
			factor += (g.rng.Float64()*2 - 1) * g.config.Jitter
		}
		tasks[i] = taskWithPriority{index: i, priority: task.Length * factor}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].priority > tasks[j].priority
	})

	assignment := make([]int, p.TaskCount())
	nodeTimes := make([]float64, p.NodeCount())
	for _, tp := range tasks {
		t := tp.index
		bestNode, bestScore := 0, math.Inf(1)
		for n, node := range p.Nodes {
			finish := nodeTimes[n] + p.ExecTime(t, n)
			c := cost.TaskCost(node, p.Tasks[t])
			if g.cheapest[t] > 0 {
				c /= g.cheapest[t]
			}
			score := weights[0]*finish/g.minTime + weights[1]*c
			if score < bestScore {
				bestNode, bestScore = n, score
			}
		}
		assignment[t] = bestNode
		nodeTimes[bestNode] += p.ExecTime(t, bestNode)
	}
	return assignment
}
