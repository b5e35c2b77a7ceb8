package workload

import (
	"fmt"

	"golang.org/x/exp/rand"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
)

// NodeTier is a family of nodes sharing a capacity and price range.
type NodeTier struct {
	Prefix string
	// Share is the tier's fraction of the generated nodes
	Share       float64
	MinCapacity float64
	MaxCapacity float64
	// CostPerTime is charged per unit of capacity
	CostPerTime float64
	CostPerMem  float64
	CostPerBw   float64
}

// DefaultTiers is an edge/fog/cloud mix: slow cheap edge devices, mid-range
// fog nodes and fast expensive cloud VMs.
func DefaultTiers() []NodeTier {
	return []NodeTier{
		{Prefix: "edge", Share: 0.4, MinCapacity: 100, MaxCapacity: 500, CostPerTime: 0.001, CostPerMem: 0.01, CostPerBw: 0.01},
		{Prefix: "fog", Share: 0.35, MinCapacity: 500, MaxCapacity: 1500, CostPerTime: 0.002, CostPerMem: 0.03, CostPerBw: 0.02},
		{Prefix: "cloud", Share: 0.25, MinCapacity: 2000, MaxCapacity: 5000, CostPerTime: 0.004, CostPerMem: 0.05, CostPerBw: 0.1},
	}
}

type GeneratorConfig struct {
	Name      string
	NumNodes  int
	NumTasks  int
	Tiers     []NodeTier
	MinLength float64
	MaxLength float64
	MaxMem    float64
	MaxData   float64
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Name:      "generated",
		NumNodes:  10,
		NumTasks:  50,
		Tiers:     DefaultTiers(),
		MinLength: 1000,
		MaxLength: 20000,
		MaxMem:    512,
		MaxData:   300,
	}
}

func (c GeneratorConfig) Validate() error {
	if c.NumNodes < 1 || c.NumTasks < 1 {
		return fmt.Errorf("need at least one node and one task, got %d nodes and %d tasks", c.NumNodes, c.NumTasks)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("no node tiers")
	}
	for _, t := range c.Tiers {
		if t.MinCapacity <= 0 || t.MaxCapacity < t.MinCapacity {
			return fmt.Errorf("tier %s: invalid capacity range [%v, %v]", t.Prefix, t.MinCapacity, t.MaxCapacity)
		}
	}
	if c.MinLength <= 0 || c.MaxLength < c.MinLength {
		return fmt.Errorf("invalid length range [%v, %v]", c.MinLength, c.MaxLength)
	}
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Generate builds a random workload. Nodes are split across tiers by share,
// with any rounding remainder going to the first tier.
func Generate(cfg GeneratorConfig, rng *rand.Rand) (*v1alpha1.Workload, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &v1alpha1.Workload{
		TypeMeta:   metav1.TypeMeta{APIVersion: v1alpha1.APIVersion, Kind: v1alpha1.KindWorkload},
		ObjectMeta: metav1.ObjectMeta{Name: cfg.Name},
	}

	counts := make([]int, len(cfg.Tiers))
	assigned := 0
	for i, t := range cfg.Tiers {
		counts[i] = int(t.Share * float64(cfg.NumNodes))
		assigned += counts[i]
	}
	counts[0] += cfg.NumNodes - assigned

	for i, tier := range cfg.Tiers {
		for j := 0; j < counts[i]; j++ {
			capacity := uniform(rng, tier.MinCapacity, tier.MaxCapacity)
			w.Spec.Nodes = append(w.Spec.Nodes, v1alpha1.NodeSpec{
				Name:        fmt.Sprintf("%s-%d", tier.Prefix, j),
				Capacity:    capacity,
				CostPerTime: tier.CostPerTime * capacity,
				CostPerMem:  tier.CostPerMem,
				CostPerBw:   tier.CostPerBw,
			})
		}
	}

	for i := 0; i < cfg.NumTasks; i++ {
		w.Spec.Tasks = append(w.Spec.Tasks, v1alpha1.TaskSpec{
			Name:       fmt.Sprintf("task-%d", i),
			Length:     uniform(rng, cfg.MinLength, cfg.MaxLength),
			Mem:        uniform(rng, 0, cfg.MaxMem),
			InputSize:  uniform(rng, 0, cfg.MaxData),
			OutputSize: uniform(rng, 0, cfg.MaxData),
		})
	}
	return w, nil
}
