package framework

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProblemSize is returned for problems with no tasks, no nodes,
	// or a node without processing capacity.
	ErrInvalidProblemSize = errors.New("invalid problem size")
	// ErrInvalidDescriptor is returned when a node or task carries a negative value.
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)

// Problem is one read-only scheduling instance: a batch of tasks and the nodes
// they can be placed on.
type Problem struct {
	Nodes []NodeInfo
	Tasks []TaskInfo
}

// NewProblem builds a validated problem. Idx fields are rewritten to match
// slice positions so that gene values can be used directly as node indexes.
func NewProblem(nodes []NodeInfo, tasks []TaskInfo) (*Problem, error) {
	p := &Problem{
		Nodes: make([]NodeInfo, len(nodes)),
		Tasks: make([]TaskInfo, len(tasks)),
	}
	copy(p.Nodes, nodes)
	copy(p.Tasks, tasks)
	for i := range p.Nodes {
		p.Nodes[i].Idx = i
	}
	for i := range p.Tasks {
		p.Tasks[i].Idx = i
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects degenerate instances before any division by a node
// capacity or an objective bound can happen.
func (p *Problem) Validate() error {
	if len(p.Tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrInvalidProblemSize)
	}
	if len(p.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidProblemSize)
	}
	for i, n := range p.Nodes {
		if n.Capacity <= 0 {
			return fmt.Errorf("%w: node %d (%s) has capacity %v", ErrInvalidProblemSize, i, n.Name, n.Capacity)
		}
		if n.CostPerTime < 0 || n.CostPerMem < 0 || n.CostPerBw < 0 {
			return fmt.Errorf("%w: node %d (%s) has a negative cost rate", ErrInvalidDescriptor, i, n.Name)
		}
	}
	for i, t := range p.Tasks {
		if t.Length < 0 || t.Mem < 0 || t.InputSize < 0 || t.OutputSize < 0 {
			return fmt.Errorf("%w: task %d (%s) has a negative size", ErrInvalidDescriptor, i, t.Name)
		}
	}
	return nil
}

// NodeCount returns the number of nodes, which bounds every gene value.
func (p *Problem) NodeCount() int {
	return len(p.Nodes)
}

// TaskCount returns the number of tasks, which is the chromosome length.
func (p *Problem) TaskCount() int {
	return len(p.Tasks)
}

// ExecTime is the time task spends on node.
func (p *Problem) ExecTime(task, node int) float64 {
	return p.Tasks[task].Length / p.Nodes[node].Capacity
}
