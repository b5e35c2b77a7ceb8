package solution

import (
	"fmt"
	"slices"
)

// Individual is an evaluated assignment: gene t holds the node index chosen
// for task t, and the cached objectives always describe exactly those genes.
// Values are obtained from an Evaluator or an Incremental state, never built
// by hand, and the gene slice is never modified after construction.
type Individual struct {
	genes   []int
	time    float64
	cost    float64
	fitness float64
}

// Genes returns a copy of the assignment vector.
func (ind Individual) Genes() []int {
	return slices.Clone(ind.genes)
}

// Gene returns the node assigned to task.
func (ind Individual) Gene(task int) int {
	return ind.genes[task]
}

// Len is the chromosome length, i.e. the task count.
func (ind Individual) Len() int {
	return len(ind.genes)
}

// Time is the makespan of the assignment.
func (ind Individual) Time() float64 {
	return ind.time
}

// Cost is the total monetary cost of the assignment.
func (ind Individual) Cost() float64 {
	return ind.cost
}

// Fitness is the weighted, bound-normalized objective. Higher is better.
func (ind Individual) Fitness() float64 {
	return ind.fitness
}

// IsZero reports whether ind was never evaluated.
func (ind Individual) IsZero() bool {
	return ind.genes == nil
}

// Clone returns a structural copy.
func (ind Individual) Clone() Individual {
	ind.genes = slices.Clone(ind.genes)
	return ind
}

// SameGenes reports whether both individuals assign every task to the same node.
func (ind Individual) SameGenes(other Individual) bool {
	return slices.Equal(ind.genes, other.genes)
}

func (ind Individual) String() string {
	return fmt.Sprintf("%v time=%.4f cost=%.4f fitness=%.4f", ind.genes, ind.time, ind.cost, ind.fitness)
}

// Dominates reports whether a Pareto-dominates b when minimizing both time
// and cost: no worse in either objective and strictly better in one.
func Dominates(a, b Individual) bool {
	return (a.time < b.time && a.cost <= b.cost) || (a.time <= b.time && a.cost < b.cost)
}
