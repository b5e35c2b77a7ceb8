package operators_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fogsched/taskopt/pkg/algorithms/operators"
	"github.com/fogsched/taskopt/pkg/framework"
)

func TestWrappedSegment(t *testing.T) {
	parent1 := []int{1, 1, 1, 1, 1, 1}
	parent2 := []int{2, 2, 2, 2, 2, 2}

	testCases := []struct {
		name     string
		p1, p2   int
		expected []int
	}{
		{
			// p2 = 8 wraps to 2: parent2 on [4,6) and [0,2)
			name:     "Wrapped",
			p1:       4,
			p2:       8,
			expected: []int{2, 2, 1, 1, 2, 2},
		},
		{
			name:     "Inner",
			p1:       1,
			p2:       3,
			expected: []int{1, 2, 2, 1, 1, 1},
		},
		{
			name:     "WholeChromosome",
			p1:       3,
			p2:       9,
			expected: []int{2, 2, 2, 2, 2, 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := operators.WrappedSegment(parent1, parent2, tc.p1, tc.p2)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("child mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if parent1[0] != 1 {
		t.Error("WrappedSegment modified parent1")
	}
}

func TestTwoPointWrappedInheritsFromParents(t *testing.T) {
	rng := framework.NewRand(3)
	parent1 := []int{0, 0, 0, 0, 0, 0, 0}
	parent2 := []int{1, 1, 1, 1, 1, 1, 1}

	for i := 0; i < 200; i++ {
		child, err := operators.TwoPointWrapped(rng, parent1, parent2)
		if err != nil {
			t.Fatal(err)
		}
		fromSecond := 0
		for _, g := range child {
			fromSecond += g
		}
		if fromSecond < 1 || fromSecond > len(child) {
			t.Fatalf("child %v takes %d genes from parent2", child, fromSecond)
		}

		c1, c2, err := operators.TwoPointWrappedPair(rng, parent1, parent2)
		if err != nil {
			t.Fatal(err)
		}
		for j := range c1 {
			if c1[j]+c2[j] != 1 {
				t.Fatalf("children %v and %v are not complementary", c1, c2)
			}
		}
		if cmp.Equal(c1, parent1) || cmp.Equal(c1, parent2) {
			t.Fatalf("pair crossover produced a parent copy: %v", c1)
		}
	}
}

func TestCrossoverEmptyChromosome(t *testing.T) {
	rng := framework.NewRand(1)
	if _, err := operators.TwoPointWrapped(rng, nil, nil); !errors.Is(err, framework.ErrEmptyRange) {
		t.Errorf("TwoPointWrapped: expected ErrEmptyRange, got %v", err)
	}
	if _, _, err := operators.TwoPointWrappedPair(rng, []int{}, []int{}); !errors.Is(err, framework.ErrEmptyRange) {
		t.Errorf("TwoPointWrappedPair: expected ErrEmptyRange, got %v", err)
	}
	if _, _, err := operators.TwoPointCrossover(rng, nil, nil); !errors.Is(err, framework.ErrEmptyRange) {
		t.Errorf("TwoPointCrossover: expected ErrEmptyRange, got %v", err)
	}

	c1, c2, err := operators.TwoPointWrappedPair(rng, []int{4}, []int{5})
	if err != nil || c1[0] != 4 || c2[0] != 5 {
		t.Errorf("single gene pair: %v %v %v", c1, c2, err)
	}
}

func TestCrossoversPreserveGenes(t *testing.T) {
	rng := framework.NewRand(8)
	p1 := []int{0, 1, 2, 3, 0, 1, 2, 3}
	p2 := []int{3, 3, 1, 1, 2, 2, 0, 0}

	crossovers := map[string]operators.CrossoverFunc{
		"OnePoint":  operators.OnePointCrossover,
		"TwoPoint":  operators.TwoPointCrossover,
		"Uniform":   operators.UniformCrossover,
		"NodeAware": operators.NodeAwareCrossover,
		"Wrapped":   operators.TwoPointWrappedPair,
	}

	for name, crossover := range crossovers {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				c1, c2, err := crossover(rng, p1, p2)
				if err != nil {
					t.Fatal(err)
				}
				for j := range p1 {
					fromParents := (c1[j] == p1[j] && c2[j] == p2[j]) || (c1[j] == p2[j] && c2[j] == p1[j])
					if !fromParents {
						t.Fatalf("gene %d: children %d/%d not taken from parents %d/%d", j, c1[j], c2[j], p1[j], p2[j])
					}
				}
			}
		})
	}
}

func TestSimulatedBinary(t *testing.T) {
	rng := framework.NewRand(5)
	const maxNode = 4

	same := []int{2, 0, 4, 1}
	c1, c2 := operators.SimulatedBinary(rng, same, same, maxNode, 20)
	if !cmp.Equal(c1, same) || !cmp.Equal(c2, same) {
		t.Errorf("identical parents produced %v and %v", c1, c2)
	}

	p1 := []int{0, 0, 4, 4, 2}
	p2 := []int{4, 0, 0, 4, 3}
	for i := 0; i < 500; i++ {
		c1, c2 := operators.SimulatedBinary(rng, p1, p2, maxNode, 2)
		for j := range c1 {
			if c1[j] < 0 || c1[j] > maxNode || c2[j] < 0 || c2[j] > maxNode {
				t.Fatalf("children out of range: %v %v", c1, c2)
			}
		}
	}
}
