package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/fogsched/taskopt/pkg/metrics"
	"github.com/fogsched/taskopt/pkg/scheduler"
	"github.com/fogsched/taskopt/pkg/solution"
	"github.com/fogsched/taskopt/pkg/tracing"
	"github.com/fogsched/taskopt/pkg/util"
	"github.com/fogsched/taskopt/pkg/workload"
)

type runOptions struct {
	argsOptions
	workloadPath string
	outputPath   string
	plotPath     string
	metricsAddr  string
	otlpEndpoint string
	otlpInsecure bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "optimize the placement of a workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	fs := cmd.Flags()
	opts.addFlags(fs)
	fs.StringVar(&opts.workloadPath, "workload", "", "path to a Workload document")
	fs.StringVarP(&opts.outputPath, "output", "o", "", "write the placement plan here instead of stdout")
	fs.StringVar(&opts.plotPath, "plot", "", "write an HTML plot of the result front")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	fs.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "export traces to this OTLP gRPC endpoint")
	fs.BoolVar(&opts.otlpInsecure, "otlp-insecure", false, "disable TLS for the OTLP exporter")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := klog.FromContext(ctx)

	args, err := o.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	w, err := workload.Load(o.workloadPath)
	if err != nil {
		return err
	}
	p, err := workload.ToProblem(w)
	if err != nil {
		return err
	}

	tp, err := tracing.NewProvider(ctx, tracing.Config{Endpoint: o.otlpEndpoint, Insecure: o.otlpInsecure})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "Failed to shut down tracer provider")
		}
	}()

	var recorder *metrics.Recorder
	if o.metricsAddr != "" {
		reg := metrics.NewRegistry()
		recorder = metrics.NewRecorder(reg)
		stop := serveMetrics(ctx, o.metricsAddr, reg)
		defer stop()
	}

	optimizer, err := scheduler.New(ctx, args, recorder)
	if err != nil {
		return err
	}
	res, eval, err := optimizer.Run(ctx, p)
	if err != nil {
		return err
	}
	plan := workload.NewPlacementPlan(w.Name, p, eval, *optimizer.Args().Seed, res)

	if o.plotPath != "" {
		points := res.Front
		if len(points) == 0 {
			points = []solution.Individual{res.Best}
		}
		series := util.FrontSeries{Name: res.Algorithm, Points: points}
		if err := util.PlotFrontsFile(o.plotPath, w.Name, eval.MinTime(), eval.MinCost(), series); err != nil {
			return err
		}
	}

	if o.outputPath != "" {
		if err := workload.Save(o.outputPath, plan); err != nil {
			return err
		}
		logger.Info("Wrote placement plan", "path", o.outputPath)
		return nil
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

// serveMetrics exposes g on addr until the returned stop function is called.
func serveMetrics(ctx context.Context, addr string, g prometheus.Gatherer) func() {
	logger := klog.FromContext(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server failed")
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
