package constraints

import (
	"errors"
	"fmt"

	"github.com/fogsched/taskopt/pkg/framework"
)

var (
	// ErrLengthMismatch is returned when an assignment does not have one gene per task.
	ErrLengthMismatch = errors.New("assignment length does not match task count")
	// ErrNodeOutOfRange is returned when a gene does not name an existing node.
	ErrNodeOutOfRange = errors.New("node index out of range")
)

// Constraint checks one property of an assignment against a problem.
type Constraint func(p *framework.Problem, assignment []int) error

// LengthConstraint requires exactly one gene per task.
func LengthConstraint(p *framework.Problem, assignment []int) error {
	if len(assignment) != p.TaskCount() {
		return fmt.Errorf("%w: got %d genes for %d tasks", ErrLengthMismatch, len(assignment), p.TaskCount())
	}
	return nil
}

// NodeRangeConstraint requires every gene to lie in [0, nodeCount-1].
func NodeRangeConstraint(p *framework.Problem, assignment []int) error {
	for t, n := range assignment {
		if n < 0 || n >= p.NodeCount() {
			return fmt.Errorf("%w: task %d assigned to node %d of %d", ErrNodeOutOfRange, t, n, p.NodeCount())
		}
	}
	return nil
}

// Default returns the constraints every evaluated assignment must satisfy.
func Default() []Constraint {
	return []Constraint{LengthConstraint, NodeRangeConstraint}
}

// Check runs constraints in order and returns the first violation.
func Check(p *framework.Problem, assignment []int, cs ...Constraint) error {
	for _, c := range cs {
		if err := c(p, assignment); err != nil {
			return err
		}
	}
	return nil
}
