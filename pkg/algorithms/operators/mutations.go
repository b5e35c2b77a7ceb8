package operators

import (
	"slices"

	"golang.org/x/exp/rand"

	"github.com/fogsched/taskopt/pkg/framework"
)

// Reverse mirrors the whole chromosome in place.
func Reverse(genes []int) {
	slices.Reverse(genes)
}

// SwapHalf exchanges the first half of the chromosome with the second half
// in place. For odd lengths the middle gene stays where it is.
func SwapHalf(genes []int) {
	n := len(genes)
	half := n / 2
	for i := 0; i < half; i++ {
		genes[i], genes[n-half+i] = genes[n-half+i], genes[i]
	}
}

// OnePoint assigns one random task to a random node.
func OnePoint(rng *rand.Rand, genes []int, nodeCount int) error {
	task, err := framework.RandInt(rng, 0, len(genes)-1)
	if err != nil {
		return err
	}
	node, err := framework.RandInt(rng, 0, nodeCount-1)
	if err != nil {
		return err
	}
	genes[task] = node
	return nil
}
