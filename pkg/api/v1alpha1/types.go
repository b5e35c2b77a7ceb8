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

const (
	GroupName = "taskopt.fogsched.io"
	Version   = "v1alpha1"

	KindWorkload      = "Workload"
	KindPlacementPlan = "PlacementPlan"
	KindOptimizerArgs = "OptimizerArgs"
)

// APIVersion is the group/version written into every document.
var APIVersion = GroupName + "/" + Version

// Workload is the batch of tasks and the nodes available to run them.
type Workload struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec WorkloadSpec `json:"spec"`
}

// WorkloadSpec lists nodes and tasks. Their order defines node and task
// indexes in an assignment.
type WorkloadSpec struct {
	Nodes []NodeSpec `json:"nodes"`
	Tasks []TaskSpec `json:"tasks"`
}

// NodeSpec describes one compute node
type NodeSpec struct {
	Name string `json:"name"`

	// Capacity is the aggregate processing rate, in length units per time unit
	Capacity float64 `json:"capacity"`

	CostPerTime float64 `json:"costPerTime"`
	CostPerMem  float64 `json:"costPerMem,omitempty"`
	CostPerBw   float64 `json:"costPerBw,omitempty"`
}

// TaskSpec describes one task
type TaskSpec struct {
	Name string `json:"name"`

	// Length is the amount of processing the task needs
	Length float64 `json:"length"`

	Mem        float64 `json:"mem,omitempty"`
	InputSize  float64 `json:"inputSize,omitempty"`
	OutputSize float64 `json:"outputSize,omitempty"`
}

// PlacementPlan is the outcome of one optimizer run
type PlacementPlan struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PlacementPlanSpec   `json:"spec"`
	Status PlacementPlanStatus `json:"status,omitempty"`
}

// PlacementPlanSpec holds the recommended task placements
type PlacementPlanSpec struct {
	// Workload is the name of the workload the plan was computed for
	Workload string `json:"workload,omitempty"`

	Algorithm  string  `json:"algorithm"`
	TimeWeight float64 `json:"timeWeight"`
	Seed       uint64  `json:"seed"`

	Placements []TaskPlacement `json:"placements"`
}

// TaskPlacement assigns one task to one node
type TaskPlacement struct {
	Task string `json:"task"`
	Node string `json:"node"`
}

// PlacementPlanStatus records how good the plan is and how it was found
type PlacementPlanStatus struct {
	Makespan float64 `json:"makespan"`
	Cost     float64 `json:"cost"`
	Fitness  float64 `json:"fitness"`

	// MinMakespan and MinCost are the lower bounds fitness is normalized by
	MinMakespan float64 `json:"minMakespan"`
	MinCost     float64 `json:"minCost"`

	Iterations  int             `json:"iterations"`
	Evaluations int64           `json:"evaluations"`
	Duration    metav1.Duration `json:"duration"`
	GeneratedAt metav1.Time     `json:"generatedAt"`

	// Front is the Pareto set found by multi-objective algorithms
	Front []FrontPoint `json:"front,omitempty"`
}

// FrontPoint is one non-dominated assignment
type FrontPoint struct {
	Makespan   float64 `json:"makespan"`
	Cost       float64 `json:"cost"`
	Assignment []int   `json:"assignment"`
}
