// Package migration measures how disruptive it is to switch from a running
// placement to a new one.
package migration

import (
	"fmt"
	"math"

	"github.com/fogsched/taskopt/pkg/framework"
)

// PenaltyType shapes how the share of moved tasks turns into a penalty.
type PenaltyType string

const (
	PenaltyLinear PenaltyType = "linear"
	// PenaltySqrt punishes the first few moves hardest.
	PenaltySqrt PenaltyType = "sqrt"
	PenaltyLog  PenaltyType = "log"
	// PenaltyExp is 1 - e^(-lambda*ratio).
	PenaltyExp PenaltyType = "exp"
)

type Config struct {
	PenaltyType PenaltyType
	Lambda      float64
	// MovementWeight and TransferWeight scale the two normalized components.
	MovementWeight float64
	TransferWeight float64
}

func DefaultConfig() Config {
	return Config{
		PenaltyType:    PenaltyLinear,
		Lambda:         1,
		MovementWeight: 0.8,
		TransferWeight: 0.2,
	}
}

// Result is the breakdown of one migration.
type Result struct {
	Moved int
	// MovedData is the input plus output size of every moved task, the
	// volume that has to be shipped to the new nodes.
	MovedData      float64
	MovementImpact float64
	TransferImpact float64
	Total          float64
}

// Penalty maps a moved ratio in [0, 1] onto [0, 1].
func Penalty(ratio float64, kind PenaltyType, lambda float64) float64 {
	if ratio <= 0 {
		return 0
	}
	switch kind {
	case PenaltySqrt:
		return math.Sqrt(ratio)
	case PenaltyLog:
		return math.Log1p(ratio) / math.Ln2
	case PenaltyExp:
		return 1 - math.Exp(-lambda*ratio)
	default:
		return ratio
	}
}

// Evaluate compares proposed against baseline. Both must assign every task
// of p to a valid node.
func Evaluate(p *framework.Problem, baseline, proposed []int, cfg Config) (Result, error) {
	if len(baseline) != p.TaskCount() || len(proposed) != p.TaskCount() {
		return Result{}, fmt.Errorf("assignments cover %d and %d tasks, problem has %d",
			len(baseline), len(proposed), p.TaskCount())
	}

	res := Result{}
	totalData := 0.0
	for t, task := range p.Tasks {
		if baseline[t] < 0 || baseline[t] >= p.NodeCount() || proposed[t] < 0 || proposed[t] >= p.NodeCount() {
			return Result{}, fmt.Errorf("task %d assigned outside [0, %d)", t, p.NodeCount())
		}
		totalData += task.DataSize()
		if baseline[t] != proposed[t] {
			res.Moved++
			res.MovedData += task.DataSize()
		}
	}

	ratio := float64(res.Moved) / float64(p.TaskCount())
	res.MovementImpact = cfg.MovementWeight * Penalty(ratio, cfg.PenaltyType, cfg.Lambda)
	if totalData > 0 {
		res.TransferImpact = cfg.TransferWeight * res.MovedData / totalData
	}
	res.Total = res.MovementImpact + res.TransferImpact
	return res, nil
}
