package operators

import (
	"math"
	"slices"

	"golang.org/x/exp/rand"

	"github.com/fogsched/taskopt/pkg/framework"
)

// CrossoverFunc represents a two-child crossover operation on integer chromosomes
type CrossoverFunc func(rng *rand.Rand, parent1, parent2 []int) (child1, child2 []int, err error)

// WrappedSegment returns a child equal to parent2 on the cut range [p1, p2)
// taken modulo the chromosome length, and to parent1 everywhere else. p2 may
// exceed the length, in which case the segment wraps to the front.
func WrappedSegment(parent1, parent2 []int, p1, p2 int) []int {
	n := len(parent1)
	child := slices.Clone(parent1)
	for i := p1; i < p2; i++ {
		child[i%n] = parent2[i%n]
	}
	return child
}

// TwoPointWrapped is the single-child two-point crossover over the wrapped
// index range: p1 in [0, L-1], p2 in [p1+1, p1+L].
func TwoPointWrapped(rng *rand.Rand, parent1, parent2 []int) ([]int, error) {
	n := len(parent1)
	p1, err := framework.RandInt(rng, 0, n-1)
	if err != nil {
		return nil, err
	}
	p2, err := framework.RandInt(rng, p1+1, p1+n)
	if err != nil {
		return nil, err
	}
	return WrappedSegment(parent1, parent2, p1, p2), nil
}

// TwoPointWrappedPair is the two-child variant: p2 is drawn from
// [p1+1, p1+L-1] so neither child is a plain copy of a parent. Chromosomes
// shorter than two genes have no cut and are returned as copies.
func TwoPointWrappedPair(rng *rand.Rand, parent1, parent2 []int) ([]int, []int, error) {
	n := len(parent1)
	if n == 1 {
		return slices.Clone(parent1), slices.Clone(parent2), nil
	}
	p1, err := framework.RandInt(rng, 0, n-1)
	if err != nil {
		return nil, nil, err
	}
	p2, err := framework.RandInt(rng, p1+1, p1+n-1)
	if err != nil {
		return nil, nil, err
	}
	return WrappedSegment(parent1, parent2, p1, p2), WrappedSegment(parent2, parent1, p1, p2), nil
}

// OnePointCrossover creates offspring by selecting a random cut point in [1, L-1]
func OnePointCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int, error) {
	if len(p1) < 2 {
		return slices.Clone(p1), slices.Clone(p2), nil
	}
	point, err := framework.RandInt(rng, 1, len(p1)-1)
	if err != nil {
		return nil, nil, err
	}
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))
	for i := 0; i < point; i++ {
		child1[i] = p1[i]
		child2[i] = p2[i]
	}
	for i := point; i < len(p1); i++ {
		child1[i] = p2[i]
		child2[i] = p1[i]
	}
	return child1, child2, nil
}

// TwoPointCrossover creates offspring using two random cut points without wrapping
func TwoPointCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int, error) {
	if len(p1) == 0 {
		return nil, nil, framework.ErrEmptyRange
	}
	point1 := rng.Intn(len(p1))
	point2 := rng.Intn(len(p1))
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))
	for i := 0; i < len(p1); i++ {
		if i < point1 || i >= point2 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}
	return child1, child2, nil
}

// UniformCrossover creates offspring by randomly selecting from each parent
func UniformCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int, error) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))
	for i := range p1 {
		if rng.Float64() < 0.5 {
			child1[i] = p1[i]
			child2[i] = p2[i]
		} else {
			child1[i] = p2[i]
			child2[i] = p1[i]
		}
	}
	return child1, child2, nil
}

// NodeAwareCrossover keeps tasks that share a node in parent1 together: each
// such group is inherited as a unit from one parent.
func NodeAwareCrossover(rng *rand.Rand, p1, p2 []int) ([]int, []int, error) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))

	// Group tasks by node, in node order so draws are reproducible
	groups := make(map[int][]int)
	var nodes []int
	for task, node := range p1 {
		if _, ok := groups[node]; !ok {
			nodes = append(nodes, node)
		}
		groups[node] = append(groups[node], task)
	}
	slices.Sort(nodes)

	for _, node := range nodes {
		fromFirst := rng.Float64() < 0.5
		for _, task := range groups[node] {
			if fromFirst {
				child1[task] = p1[task]
				child2[task] = p2[task]
			} else {
				child1[task] = p2[task]
				child2[task] = p1[task]
			}
		}
	}
	return child1, child2, nil
}

// SimulatedBinary is SBX adapted to node indexes: each gene pair is blended
// with a spread factor drawn from a polynomial distribution with index eta,
// then rounded and clamped to [0, maxNode].
func SimulatedBinary(rng *rand.Rand, p1, p2 []int, maxNode int, eta float64) ([]int, []int) {
	child1 := make([]int, len(p1))
	child2 := make([]int, len(p2))
	for i := range p1 {
		x1, x2 := float64(p1[i]), float64(p2[i])
		u := rng.Float64()
		var beta float64
		if u <= 0.5 {
			beta = math.Pow(2*u, 1/(eta+1))
		} else {
			beta = math.Pow(1/(2*(1-u)), 1/(eta+1))
		}
		child1[i] = clamp(math.Round(0.5*((1+beta)*x1+(1-beta)*x2)), maxNode)
		child2[i] = clamp(math.Round(0.5*((1-beta)*x1+(1+beta)*x2)), maxNode)
	}
	return child1, child2
}

func clamp(v float64, maxNode int) int {
	switch {
	case v < 0:
		return 0
	case v > float64(maxNode):
		return maxNode
	default:
		return int(v)
	}
}
