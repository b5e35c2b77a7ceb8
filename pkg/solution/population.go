package solution

import (
	"sort"

	"golang.org/x/exp/rand"
)

// Population is an ordered set of individuals with the sum of their fitness.
type Population struct {
	Individuals       []Individual
	PopulationFitness float64
}

// NewPopulation wraps individuals and computes the aggregate fitness.
func NewPopulation(individuals []Individual) *Population {
	p := &Population{Individuals: individuals}
	p.refresh()
	return p
}

func (p *Population) refresh() {
	total := 0.0
	for _, ind := range p.Individuals {
		total += ind.fitness
	}
	p.PopulationFitness = total
}

// Size is the number of members.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// Sort orders members by decreasing fitness, keeping the relative order of
// equal members, and recomputes the aggregate fitness.
func (p *Population) Sort() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].fitness > p.Individuals[j].fitness
	})
	p.refresh()
}

// Fittest returns the member at offset. After Sort, offset 0 is the best.
func (p *Population) Fittest(offset int) Individual {
	return p.Individuals[offset]
}

// Set replaces the member at i.
func (p *Population) Set(i int, ind Individual) {
	p.PopulationFitness += ind.fitness - p.Individuals[i].fitness
	p.Individuals[i] = ind
}

// Append adds ind at the end.
func (p *Population) Append(ind Individual) {
	p.Individuals = append(p.Individuals, ind)
	p.PopulationFitness += ind.fitness
}

// Remove deletes the member at i, shifting later members down.
func (p *Population) Remove(i int) {
	p.PopulationFitness -= p.Individuals[i].fitness
	p.Individuals = append(p.Individuals[:i], p.Individuals[i+1:]...)
}

// Contains reports whether a member has the same fitness and the same genes
// as ind. Fitness is compared first, so two assignments are only treated as
// duplicates when their float fitness values are exactly equal.
func (p *Population) Contains(ind Individual) bool {
	for _, m := range p.Individuals {
		if m.fitness == ind.fitness && m.SameGenes(ind) {
			return true
		}
	}
	return false
}

// Shuffle randomizes member order.
func (p *Population) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.Individuals), func(i, j int) {
		p.Individuals[i], p.Individuals[j] = p.Individuals[j], p.Individuals[i]
	})
}

// Clone copies the population. Individuals are immutable so members are shared.
func (p *Population) Clone() *Population {
	c := &Population{
		Individuals:       make([]Individual, len(p.Individuals)),
		PopulationFitness: p.PopulationFitness,
	}
	copy(c.Individuals, p.Individuals)
	return c
}
