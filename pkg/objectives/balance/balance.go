package balance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/objectives/makespan"
)

// BalanceConfig contains normalization parameters
type BalanceConfig struct {
	// Maximum expected standard deviation for normalization.
	// Default is 50 (theoretical max for 0-100% range)
	MaxStdDev float64
}

// DefaultBalanceConfig returns the default normalization
func DefaultBalanceConfig() BalanceConfig {
	return BalanceConfig{
		MaxStdDev: 50.0,
	}
}

// BalanceResult contains detailed balance metrics
type BalanceResult struct {
	StdDev           float64
	NormalizedStdDev float64
	NodeUtilizations []NodeUtilization
}

// NodeUtilization tracks how busy a node is relative to the makespan
type NodeUtilization struct {
	NodeIndex   int
	Time        float64
	Utilization float64 // percentage (0-100)
}

// BalanceObjective returns the normalized load imbalance of an assignment.
// Zero means every node finishes at the same time.
func BalanceObjective(p *framework.Problem, assignment []int, config BalanceConfig) float64 {
	return calculateBalance(p, assignment, config).NormalizedStdDev
}

// BalanceObjectiveWithDetails returns both the normalized value and detailed metrics
func BalanceObjectiveWithDetails(p *framework.Problem, assignment []int, config BalanceConfig) (float64, BalanceResult) {
	result := calculateBalance(p, assignment, config)
	return result.NormalizedStdDev, result
}

func calculateBalance(p *framework.Problem, assignment []int, config BalanceConfig) BalanceResult {
	times := makespan.NodeTimes(p, assignment)
	span := 0.0
	for _, t := range times {
		if t > span {
			span = t
		}
	}

	utilizations := make([]NodeUtilization, len(times))
	percents := make([]float64, len(times))
	for i, t := range times {
		u := 0.0
		if span > 0 {
			u = t / span * 100
		}
		utilizations[i] = NodeUtilization{NodeIndex: i, Time: t, Utilization: u}
		percents[i] = u
	}

	stdDev := stat.PopStdDev(percents, nil)
	normalized := 0.0
	if config.MaxStdDev > 0 {
		normalized = stdDev / config.MaxStdDev
	}

	return BalanceResult{
		StdDev:           stdDev,
		NormalizedStdDev: normalized,
		NodeUtilizations: utilizations,
	}
}
