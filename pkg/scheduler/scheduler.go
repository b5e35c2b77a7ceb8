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

// Package scheduler resolves optimizer arguments into a configured engine
// and runs it against a problem.
package scheduler

import (
	"context"
	"fmt"
	"os"

	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/fogsched/taskopt/pkg/algorithms"
	"github.com/fogsched/taskopt/pkg/api/v1alpha1"
	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/metrics"
	"github.com/fogsched/taskopt/pkg/solution"
	"github.com/fogsched/taskopt/pkg/tracing"
	"github.com/fogsched/taskopt/pkg/workload"
)

// Optimizer runs the algorithm selected by its arguments.
type Optimizer struct {
	logger   klog.Logger
	args     *v1alpha1.OptimizerArgs
	recorder *metrics.Recorder
}

// New defaults and validates a copy of args. recorder may be nil.
func New(ctx context.Context, args *v1alpha1.OptimizerArgs, recorder *metrics.Recorder) (*Optimizer, error) {
	resolved := args.DeepCopy()
	if resolved == nil {
		resolved = &v1alpha1.OptimizerArgs{}
	}
	SetDefaults_OptimizerArgs(resolved)
	if err := ValidateOptimizerArgs(resolved); err != nil {
		return nil, fmt.Errorf("invalid optimizer args: %w", err)
	}
	return &Optimizer{
		logger:   klog.FromContext(ctx).WithValues("algorithm", resolved.Algorithm),
		args:     resolved,
		recorder: recorder,
	}, nil
}

// Args returns the resolved arguments.
func (o *Optimizer) Args() *v1alpha1.OptimizerArgs {
	return o.args
}

// Run evaluates p under the configured time weight and runs the selected
// engine. A run stopped by ctx returns its partial result together with
// the context error.
func (o *Optimizer) Run(ctx context.Context, p *framework.Problem) (algorithms.Result, *solution.Evaluator, error) {
	eval, err := solution.NewEvaluator(p, *o.args.TimeWeight)
	if err != nil {
		return algorithms.Result{}, nil, err
	}
	seed := *o.args.Seed
	engine, err := engines[o.args.Algorithm].build(o.args, eval, framework.NewRand(seed))
	if err != nil {
		return algorithms.Result{}, nil, err
	}

	ctx, span := tracing.StartRun(ctx, engine.Name(), p.TaskCount(), p.NodeCount(), seed)
	o.logger.V(1).Info("Starting optimizer run", "tasks", p.TaskCount(), "nodes", p.NodeCount(), "seed", seed)
	res, err := engine.Run(klog.NewContext(ctx, o.logger))
	if res.Algorithm == "" {
		res.Algorithm = engine.Name()
	}
	tracing.EndRun(span, res, err)
	if o.recorder != nil {
		o.recorder.Observe(res, err)
	}
	if err != nil {
		return res, eval, err
	}

	o.logger.Info("Optimizer run finished",
		"fitness", res.Best.Fitness(),
		"makespan", res.Best.Time(),
		"cost", res.Best.Cost(),
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
		"duration", res.Duration,
	)
	return res, eval, nil
}

// Plan runs the optimizer on a workload and returns the placement plan for
// its best assignment.
func (o *Optimizer) Plan(ctx context.Context, w *v1alpha1.Workload) (*v1alpha1.PlacementPlan, error) {
	p, err := workload.ToProblem(w)
	if err != nil {
		return nil, err
	}
	res, eval, err := o.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	return workload.NewPlacementPlan(w.Name, p, eval, *o.args.Seed, res), nil
}

// RunAlgorithm is a convenience wrapper building an Optimizer for a single
// run without metrics.
func RunAlgorithm(ctx context.Context, p *framework.Problem, args *v1alpha1.OptimizerArgs) (algorithms.Result, error) {
	o, err := New(ctx, args, nil)
	if err != nil {
		return algorithms.Result{}, err
	}
	res, _, err := o.Run(ctx, p)
	return res, err
}

// LoadArgs reads an OptimizerArgs document. The result is not defaulted.
func LoadArgs(path string) (*v1alpha1.OptimizerArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	args := &v1alpha1.OptimizerArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding optimizer args %s: %w", path, err)
	}
	if args.Kind != "" && args.Kind != v1alpha1.KindOptimizerArgs {
		return nil, fmt.Errorf("%s: expected kind %s, got %s", path, v1alpha1.KindOptimizerArgs, args.Kind)
	}
	return args, nil
}
