package solution

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"golang.org/x/exp/rand"

	"github.com/fogsched/taskopt/pkg/constraints"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/objectives/cost"
	"github.com/fogsched/taskopt/pkg/objectives/makespan"
)

var (
	// ErrUndefinedFitness is returned when a makespan or cost of zero would
	// turn the normalized fitness into a division by zero.
	ErrUndefinedFitness = errors.New("fitness undefined")
	// ErrInvalidWeight is returned for a time weight outside [0, 1].
	ErrInvalidWeight = errors.New("time weight must be within [0, 1]")
)

// Evaluator turns assignments into Individuals for one problem. The lower
// bounds are computed once at construction. An Evaluator is safe for
// concurrent use.
type Evaluator struct {
	problem     *framework.Problem
	timeWeight  float64
	minTime     float64
	minCost     float64
	constraints []constraints.Constraint

	evaluations atomic.Int64
}

// NewEvaluator validates p and precomputes its time and cost lower bounds.
// Problems whose bounds are zero are rejected: some assignment of such a
// problem would have a zero makespan or a zero cost.
func NewEvaluator(p *framework.Problem, timeWeight float64) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkWeight(timeWeight); err != nil {
		return nil, err
	}
	e := &Evaluator{
		problem:     p,
		timeWeight:  timeWeight,
		minTime:     makespan.LowerBound(p),
		minCost:     cost.LowerBound(p),
		constraints: constraints.Default(),
	}
	if e.minTime <= 0 {
		return nil, fmt.Errorf("%w: total task length is zero", ErrUndefinedFitness)
	}
	if e.minCost <= 0 {
		return nil, fmt.Errorf("%w: cost lower bound is zero", ErrUndefinedFitness)
	}
	return e, nil
}

func checkWeight(w float64) error {
	if w < 0 || w > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidWeight, w)
	}
	return nil
}

// Problem returns the instance being evaluated.
func (e *Evaluator) Problem() *framework.Problem { return e.problem }

// TimeWeight is the default trade-off weight used by Evaluate and Fitness.
func (e *Evaluator) TimeWeight() float64 { return e.timeWeight }

// MinTime is the fractional makespan lower bound.
func (e *Evaluator) MinTime() float64 { return e.minTime }

// MinCost is the cheapest-node cost lower bound.
func (e *Evaluator) MinCost() float64 { return e.minCost }

func (e *Evaluator) NodeCount() int { return e.problem.NodeCount() }

func (e *Evaluator) TaskCount() int { return e.problem.TaskCount() }

// Evaluations is the number of full and incremental evaluations performed so far.
func (e *Evaluator) Evaluations() int64 {
	return e.evaluations.Load()
}

// Fitness scores a (time, cost) pair under the evaluator's time weight.
func (e *Evaluator) Fitness(time, cost float64) (float64, error) {
	return e.FitnessFor(time, cost, e.timeWeight)
}

// FitnessFor scores a (time, cost) pair under weight w:
// w*minTime/time + (1-w)*minCost/cost.
func (e *Evaluator) FitnessFor(time, cost, w float64) (float64, error) {
	if err := checkWeight(w); err != nil {
		return 0, err
	}
	if time <= 0 || cost <= 0 {
		return 0, fmt.Errorf("%w: time=%v cost=%v", ErrUndefinedFitness, time, cost)
	}
	return e.score(time, cost, w), nil
}

func (e *Evaluator) score(time, cost, w float64) float64 {
	return w*(e.minTime/time) + (1-w)*(e.minCost/cost)
}

// Evaluate copies genes and computes makespan, cost and fitness from scratch.
func (e *Evaluator) Evaluate(genes []int) (Individual, error) {
	return e.EvaluateFor(genes, e.timeWeight)
}

// EvaluateFor is Evaluate under an explicit time weight.
func (e *Evaluator) EvaluateFor(genes []int, w float64) (Individual, error) {
	if err := constraints.Check(e.problem, genes, e.constraints...); err != nil {
		return Individual{}, err
	}
	e.evaluations.Add(1)
	ind := Individual{
		genes: slices.Clone(genes),
		time:  makespan.Makespan(e.problem, genes),
		cost:  cost.TotalCost(e.problem, genes),
	}
	f, err := e.FitnessFor(ind.time, ind.cost, w)
	if err != nil {
		return Individual{}, err
	}
	ind.fitness = f
	return ind, nil
}

// Reweight rescores ind under weight w. Time and cost are unchanged.
func (e *Evaluator) Reweight(ind Individual, w float64) (Individual, error) {
	f, err := e.FitnessFor(ind.time, ind.cost, w)
	if err != nil {
		return Individual{}, err
	}
	ind.fitness = f
	return ind, nil
}

// Random evaluates a uniformly random assignment.
func (e *Evaluator) Random(rng *rand.Rand) (Individual, error) {
	genes, err := framework.RandomAssignment(rng, e.TaskCount(), e.NodeCount())
	if err != nil {
		return Individual{}, err
	}
	return e.Evaluate(genes)
}
