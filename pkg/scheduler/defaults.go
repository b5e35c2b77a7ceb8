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

package scheduler

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
)

const (
	DefaultAlgorithm  = AlgorithmGA
	DefaultSeed       = 1
	DefaultTimeWeight = 0.5
)

// SetDefaults_OptimizerArgs fills every unset field of args.
func SetDefaults_OptimizerArgs(args *v1alpha1.OptimizerArgs) {
	klog.V(5).InfoS("Setting defaults", "kind", v1alpha1.KindOptimizerArgs)

	if args.APIVersion == "" {
		args.APIVersion = v1alpha1.APIVersion
	}
	if args.Kind == "" {
		args.Kind = v1alpha1.KindOptimizerArgs
	}
	if args.Algorithm == "" {
		args.Algorithm = DefaultAlgorithm
	}
	if args.Seed == nil {
		args.Seed = ptr.To[uint64](DefaultSeed)
	}
	if args.TimeWeight == nil {
		args.TimeWeight = ptr.To(DefaultTimeWeight)
	}
	if args.PopulationSize == 0 {
		args.PopulationSize = 400
	}
	if args.Generations == 0 {
		args.Generations = 600
	}
	if args.MutationRate == nil {
		args.MutationRate = ptr.To(0.1)
	}
	if args.CrossoverRate == nil {
		args.CrossoverRate = ptr.To(0.9)
	}
	if args.ElitismCount == nil {
		args.ElitismCount = ptr.To(1)
	}
	if args.Parallelism == 0 {
		args.Parallelism = 1
	}

	if args.Tabu != nil && args.Tabu.MaxDuration == nil {
		args.Tabu.MaxDuration = &metav1.Duration{Duration: defaultSearchDuration}
	}
	if args.HillClimb != nil && args.HillClimb.MaxDuration == nil {
		args.HillClimb.MaxDuration = &metav1.Duration{Duration: defaultSearchDuration}
	}
	if args.LocalSearch != nil && args.LocalSearch.MaxDuration == nil {
		args.LocalSearch.MaxDuration = &metav1.Duration{Duration: defaultSearchDuration}
	}
}
