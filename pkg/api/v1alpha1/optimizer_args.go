/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OptimizerArgs holds arguments used to configure an optimizer run.
// Unset fields are filled by defaulting.
type OptimizerArgs struct {
	metav1.TypeMeta `json:",inline"`

	// Algorithm is one of ga, bee, tabu, hillclimb, localsearch, nsga2, moead
	Algorithm string `json:"algorithm,omitempty"`

	// Seed makes a run reproducible
	Seed *uint64 `json:"seed,omitempty"`

	// TimeWeight trades makespan (1) against cost (0)
	TimeWeight *float64 `json:"timeWeight,omitempty"`

	PopulationSize int      `json:"populationSize,omitempty"`
	Generations    int      `json:"generations,omitempty"`
	MutationRate   *float64 `json:"mutationRate,omitempty"`
	CrossoverRate  *float64 `json:"crossoverRate,omitempty"`
	ElitismCount   *int     `json:"elitismCount,omitempty"`

	// WarmStartFraction is the share of the initial population built by the
	// greedy constructive heuristic
	WarmStartFraction float64 `json:"warmStartFraction,omitempty"`

	// Parallelism bounds concurrent fitness evaluations
	Parallelism int `json:"parallelism,omitempty"`

	GA          *GAArgs          `json:"ga,omitempty"`
	Bee         *BeeArgs         `json:"bee,omitempty"`
	Tabu        *TabuArgs        `json:"tabu,omitempty"`
	HillClimb   *HillClimbArgs   `json:"hillClimb,omitempty"`
	LocalSearch *LocalSearchArgs `json:"localSearch,omitempty"`
	NSGA2       *NSGA2Args       `json:"nsga2,omitempty"`
	MOEAD       *MOEADArgs       `json:"moead,omitempty"`
}

type GAArgs struct {
	// Pipeline is steady or generational
	Pipeline string `json:"pipeline,omitempty"`
}

type BeeArgs struct {
	NumberDrones    int `json:"numberDrones,omitempty"`
	FoodSourceTries int `json:"foodSourceTries,omitempty"`
}

type TabuArgs struct {
	Iterations       int              `json:"iterations,omitempty"`
	SimpleMode       bool             `json:"simpleMode,omitempty"`
	TenureMin        int              `json:"tenureMin,omitempty"`
	TenureMax        int              `json:"tenureMax,omitempty"`
	StableLimit      int              `json:"stableLimit,omitempty"`
	RestartFrequency int              `json:"restartFrequency,omitempty"`
	MaxDuration      *metav1.Duration `json:"maxDuration,omitempty"`
}

type HillClimbArgs struct {
	MaxSteps    int              `json:"maxSteps,omitempty"`
	MaxDuration *metav1.Duration `json:"maxDuration,omitempty"`
}

type LocalSearchArgs struct {
	TabuLength    int              `json:"tabuLength,omitempty"`
	MaxStable     int              `json:"maxStable,omitempty"`
	MaxIterations int              `json:"maxIterations,omitempty"`
	MaxDuration   *metav1.Duration `json:"maxDuration,omitempty"`
}

type NSGA2Args struct {
	TournamentSize    int     `json:"tournamentSize,omitempty"`
	Crossover         string  `json:"crossover,omitempty"`
	DistributionIndex float64 `json:"distributionIndex,omitempty"`
}

type MOEADArgs struct {
	NumSubProblems int `json:"numSubProblems,omitempty"`
	NumNeighbors   int `json:"numNeighbors,omitempty"`
	MaxLambda      int `json:"maxLambda,omitempty"`
}

// DeepCopyInto copies every pointer field of in into out.
func (in *OptimizerArgs) DeepCopyInto(out *OptimizerArgs) {
	*out = *in
	out.Seed = copyPtr(in.Seed)
	out.TimeWeight = copyPtr(in.TimeWeight)
	out.MutationRate = copyPtr(in.MutationRate)
	out.CrossoverRate = copyPtr(in.CrossoverRate)
	out.ElitismCount = copyPtr(in.ElitismCount)
	out.GA = copyPtr(in.GA)
	out.Bee = copyPtr(in.Bee)
	out.NSGA2 = copyPtr(in.NSGA2)
	out.MOEAD = copyPtr(in.MOEAD)
	if in.Tabu != nil {
		out.Tabu = copyPtr(in.Tabu)
		out.Tabu.MaxDuration = copyPtr(in.Tabu.MaxDuration)
	}
	if in.HillClimb != nil {
		out.HillClimb = copyPtr(in.HillClimb)
		out.HillClimb.MaxDuration = copyPtr(in.HillClimb.MaxDuration)
	}
	if in.LocalSearch != nil {
		out.LocalSearch = copyPtr(in.LocalSearch)
		out.LocalSearch.MaxDuration = copyPtr(in.LocalSearch.MaxDuration)
	}
}

// DeepCopy returns an independent copy of in.
func (in *OptimizerArgs) DeepCopy() *OptimizerArgs {
	if in == nil {
		return nil
	}
	out := new(OptimizerArgs)
	in.DeepCopyInto(out)
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
