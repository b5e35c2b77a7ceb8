package nsga2

import (
	"math"
	"sort"

	"github.com/fogsched/taskopt/pkg/solution"
)

// Member wraps an individual in the population with its front rank and
// crowding distance.
type Member struct {
	solution.Individual

	Rank     int
	Crowding float64
}

// NewMembers wraps evaluated individuals for sorting.
func NewMembers(individuals []solution.Individual) []*Member {
	members := make([]*Member, len(individuals))
	for i, ind := range individuals {
		members[i] = &Member{Individual: ind}
	}
	return members
}

// Unranked is the Rank of members that NonDominatedSort left out of its
// fronts because the limit was reached.
const Unranked = math.MaxInt32

// NonDominatedSort partitions population into fronts of mutually
// non-dominated members and sets their Rank. Peeling stops once limit
// members are ranked; a limit of zero or less ranks everything.
func NonDominatedSort(population []*Member, limit int) [][]*Member {
	if limit <= 0 {
		limit = len(population)
	}
	for _, m := range population {
		m.Rank = Unranked
	}
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			switch {
			case solution.Dominates(population[i].Individual, population[j].Individual):
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			case solution.Dominates(population[j].Individual, population[i].Individual):
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	var current []int
	for i := range population {
		if domCount[i] == 0 {
			current = append(current, i)
		}
	}

	var fronts [][]*Member
	ranked := 0
	for rank := 0; len(current) > 0 && ranked < limit; rank++ {
		front := make([]*Member, len(current))
		var next []int
		for k, idx := range current {
			population[idx].Rank = rank
			front[k] = population[idx]
			for _, d := range dominated[idx] {
				domCount[d]--
				if domCount[d] == 0 {
					next = append(next, d)
				}
			}
		}
		fronts = append(fronts, front)
		ranked += len(front)
		current = next
	}
	return fronts
}

// CrowdingDistance sets Crowding for every member of front. The front is
// reordered in the process.
func CrowdingDistance(front []*Member) {
	if len(front) <= 2 {
		for _, m := range front {
			m.Crowding = math.Inf(1)
		}
		return
	}
	for _, m := range front {
		m.Crowding = 0
	}

	objectives := []func(*Member) float64{
		func(m *Member) float64 { return m.Time() },
		func(m *Member) float64 { return m.Cost() },
	}
	last := len(front) - 1
	for _, value := range objectives {
		sort.SliceStable(front, func(i, j int) bool {
			return value(front[i]) < value(front[j])
		})
		front[0].Crowding = math.Inf(1)
		front[last].Crowding = math.Inf(1)

		spread := value(front[last]) - value(front[0])
		if spread == 0 {
			continue
		}
		for i := 1; i < last; i++ {
			front[i].Crowding += (value(front[i+1]) - value(front[i-1])) / spread
		}
	}
}

// CrowdedLess reports whether a is preferred to b: lower rank first, then
// larger crowding distance.
func CrowdedLess(a, b *Member) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Crowding > b.Crowding
}

// Select truncates population to n members: whole fronts in rank order while
// they fit, then the least crowded members of the first front that does not.
// The result is ordered by CrowdedLess.
func Select(population []*Member, n int) []*Member {
	fronts := NonDominatedSort(population, n)
	selected := make([]*Member, 0, n)
	for _, front := range fronts {
		CrowdingDistance(front)
		if len(selected)+len(front) <= n {
			selected = append(selected, front...)
			continue
		}
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Crowding > front[j].Crowding
		})
		selected = append(selected, front[:n-len(selected)]...)
		break
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return CrowdedLess(selected[i], selected[j])
	})
	return selected
}

// ParetoFront returns the rank 0 members of a population ordered by
// CrowdedLess, skipping members whose genes repeat an earlier one.
func ParetoFront(population []*Member) []solution.Individual {
	var front []solution.Individual
	for _, m := range population {
		if m.Rank != 0 {
			continue
		}
		duplicate := false
		for _, f := range front {
			if f.SameGenes(m.Individual) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			front = append(front, m.Individual)
		}
	}
	return front
}
