// Package moead implements decomposition-based multi-objective search. The
// problem is split into scalar subproblems with fixed time weights; each
// subproblem breeds from its weight-space neighbors and shares offspring
// with them, while an external archive collects every non-dominated
// assignment seen.
package moead

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/algorithms/operators"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/solution"
)

const Name = "MOEA/D"

type MOEAD struct {
	cfg  Config
	eval *solution.Evaluator
	rng  *rand.Rand

	subproblems []Subproblem
	archive     *solution.Archive
}

var _ algorithms.Engine = &MOEAD{}

func New(cfg Config, eval *solution.Evaluator, rng *rand.Rand) (*MOEAD, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MOEAD{cfg: cfg, eval: eval, rng: rng}, nil
}

func (m *MOEAD) Name() string {
	return Name
}

// Subproblems returns the current subproblem table.
func (m *MOEAD) Subproblems() []Subproblem {
	return m.subproblems
}

// Archive returns the external Pareto archive.
func (m *MOEAD) Archive() *solution.Archive {
	return m.archive
}

// poissonGenes draws every gene from a Poisson distribution with a mean
// picked uniformly in [1, MaxLambda], capped at the last node.
func (m *MOEAD) poissonGenes() ([]int, error) {
	lambda, err := framework.RandInt(m.rng, 1, m.cfg.MaxLambda)
	if err != nil {
		return nil, err
	}
	dist := distuv.Poisson{Lambda: float64(lambda), Src: m.rng}
	genes := make([]int, m.eval.TaskCount())
	for t := range genes {
		genes[t] = min(m.eval.NodeCount()-1, int(dist.Rand()))
	}
	return genes, nil
}

// Init builds the weight table, the neighbor graph and one initial
// assignment per subproblem, and seeds the archive with them.
func (m *MOEAD) Init() error {
	weights := WeightVectors(m.cfg.NumSubProblems, m.eval.TimeWeight())
	neighbors := Neighbors(weights, m.cfg.NumNeighbors)

	m.archive = solution.NewArchive()
	m.subproblems = make([]Subproblem, len(weights))
	for i, w := range weights {
		genes, err := m.poissonGenes()
		if err != nil {
			return err
		}
		ind, err := m.eval.EvaluateFor(genes, w)
		if err != nil {
			return err
		}
		m.subproblems[i] = Subproblem{TimeWeight: w, Current: ind, Neighbors: neighbors[i]}
		m.archive.Update(ind)
	}
	return nil
}

func (m *MOEAD) mutate(genes []int) error {
	r := m.rng.Float64()
	switch {
	case r < m.cfg.ReverseRate:
		operators.Reverse(genes)
	case r < m.cfg.SwapHalfRate:
		operators.SwapHalf(genes)
	case r <= m.cfg.OnePointRate:
		return operators.OnePoint(m.rng, genes, m.eval.NodeCount())
	}
	return nil
}

// Evolve breeds one offspring for subproblem i from two random neighbors
// and offers it to the subproblem, its other neighbors and the archive.
func (m *MOEAD) Evolve(i int) error {
	sub := &m.subproblems[i]
	slots := m.rng.Perm(len(sub.Neighbors))
	parent1 := m.subproblems[sub.Neighbors[slots[0]]].Current
	parent2 := m.subproblems[sub.Neighbors[slots[1]]].Current

	genes, err := operators.TwoPointWrapped(m.rng, parent1.Genes(), parent2.Genes())
	if err != nil {
		return err
	}
	if err := m.mutate(genes); err != nil {
		return err
	}
	offspring, err := m.eval.EvaluateFor(genes, sub.TimeWeight)
	if err != nil {
		return err
	}
	if offspring.Fitness() > sub.Current.Fitness() {
		sub.Current = offspring
	}

	for _, j := range sub.Neighbors[1:] {
		neighbor := &m.subproblems[j]
		scored, err := m.eval.Reweight(offspring, neighbor.TimeWeight)
		if err != nil {
			return err
		}
		if scored.Fitness() > neighbor.Current.Fitness() {
			neighbor.Current = scored
		}
	}

	m.archive.Update(offspring)
	return nil
}

func (m *MOEAD) Run(ctx context.Context) (algorithms.Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", Name)
	start := time.Now()
	startEvaluations := m.eval.Evaluations()

	if err := m.Init(); err != nil {
		return algorithms.Result{}, err
	}
	logger.Info("Starting decomposition",
		"subproblems", m.cfg.NumSubProblems,
		"neighbors", m.cfg.NumNeighbors,
		"generations", m.cfg.Generations)

	result := func(generation int) (algorithms.Result, error) {
		best, _, err := m.archive.BestFor(m.eval, m.eval.TimeWeight())
		if err != nil {
			return algorithms.Result{}, err
		}
		return algorithms.Result{
			Algorithm:   Name,
			Best:        best,
			Front:       m.archive.Members(),
			Iterations:  generation,
			Evaluations: m.eval.Evaluations() - startEvaluations,
			Duration:    time.Since(start),
			Meta:        map[string]any{"archiveSize": m.archive.Len()},
		}, nil
	}

	gen := 0
	for ; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			res, rerr := result(gen)
			if rerr != nil {
				return res, rerr
			}
			res.Meta["stopped"] = "context"
			return res, err
		}
		for i := range m.subproblems {
			if err := m.Evolve(i); err != nil {
				return algorithms.Result{}, fmt.Errorf("generation %d, subproblem %d: %w", gen, i, err)
			}
		}
		if gen%50 == 0 {
			logger.V(2).Info("Generation", "generation", gen+1, "archiveSize", m.archive.Len())
		}
	}

	res, err := result(gen)
	if err != nil {
		return res, err
	}
	logger.Info("Decomposition complete",
		"generations", gen,
		"archiveSize", m.archive.Len(),
		"bestFitness", res.Best.Fitness(),
		"time", res.Best.Time(),
		"cost", res.Best.Cost(),
		"duration", res.Duration)
	return res, nil
}
