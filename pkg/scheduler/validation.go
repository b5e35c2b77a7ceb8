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
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
)

// ValidateOptimizerArgs validates defaulted optimizer arguments. Every
// problem is reported, not just the first.
func ValidateOptimizerArgs(args *v1alpha1.OptimizerArgs) error {
	var errs []error

	if _, ok := engines[args.Algorithm]; !ok {
		errs = append(errs, fmt.Errorf("unknown algorithm %q, expected one of %v", args.Algorithm, Algorithms()))
	}
	if args.TimeWeight != nil && (*args.TimeWeight < 0 || *args.TimeWeight > 1) {
		errs = append(errs, fmt.Errorf("time weight must be between 0 and 1, got %v", *args.TimeWeight))
	}
	if args.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must be >= 0, got %d", args.Parallelism))
	}

	// Every engine block is checked, not only the selected one.
	for _, name := range Algorithms() {
		if err := engines[name].validate(args); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return utilerrors.NewAggregate(errs)
}
