package solution

import "math"

// Archive holds mutually non-dominated individuals. After every Update no
// member dominates another.
type Archive struct {
	members []Individual
}

func NewArchive() *Archive {
	return &Archive{}
}

// Update drops members dominated by cand and adds cand unless a member
// dominates it or already holds the same genes. It reports whether cand was
// added.
func (a *Archive) Update(cand Individual) bool {
	kept := a.members[:0]
	for _, m := range a.members {
		if !Dominates(cand, m) {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(a.members); i++ {
		a.members[i] = Individual{}
	}
	a.members = kept

	for _, m := range a.members {
		if Dominates(m, cand) || m.SameGenes(cand) {
			return false
		}
	}
	a.members = append(a.members, cand.Clone())
	return true
}

// Len is the number of members.
func (a *Archive) Len() int {
	return len(a.members)
}

// Members returns a copy of the archive contents.
func (a *Archive) Members() []Individual {
	out := make([]Individual, len(a.members))
	copy(out, a.members)
	return out
}

// BestFor returns the member with the highest fitness under time weight w,
// rescored with that weight. ok is false for an empty archive.
func (a *Archive) BestFor(e *Evaluator, w float64) (best Individual, ok bool, err error) {
	bestFitness := math.Inf(-1)
	for _, m := range a.members {
		scored, err := e.Reweight(m, w)
		if err != nil {
			return Individual{}, false, err
		}
		if scored.fitness > bestFitness {
			best, bestFitness, ok = scored, scored.fitness, true
		}
	}
	return best, ok, nil
}
