package framework

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

// ErrEmptyRange is returned when a random draw is requested over a range with
// no values in it.
var ErrEmptyRange = errors.New("empty random range")

// NewRand returns the seeded generator every engine draws from.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandInt returns a uniformly distributed integer in [min, max].
func RandInt(rng *rand.Rand, min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrEmptyRange, min, max)
	}
	return min + rng.Intn(max-min+1), nil
}

// RandomAssignment draws one node per task uniformly at random.
func RandomAssignment(rng *rand.Rand, taskCount, nodeCount int) ([]int, error) {
	if nodeCount <= 0 {
		return nil, fmt.Errorf("%w: no nodes to draw from", ErrEmptyRange)
	}
	genes := make([]int, taskCount)
	for i := range genes {
		genes[i] = rng.Intn(nodeCount)
	}
	return genes, nil
}
