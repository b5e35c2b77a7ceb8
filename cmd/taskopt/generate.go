package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/fogsched/taskopt/pkg/framework"
	"github.com/fogsched/taskopt/pkg/workload"
)

func newGenerateCmd() *cobra.Command {
	cfg := workload.DefaultGeneratorConfig()
	var (
		seed   uint64
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a random edge/fog/cloud workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := workload.Generate(cfg, framework.NewRand(seed))
			if err != nil {
				return err
			}
			if output != "" {
				return workload.Save(output, w)
			}
			data, err := yaml.Marshal(w)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Name, "name", cfg.Name, "workload name")
	fs.IntVar(&cfg.NumNodes, "nodes", cfg.NumNodes, "number of nodes")
	fs.IntVar(&cfg.NumTasks, "tasks", cfg.NumTasks, "number of tasks")
	fs.Float64Var(&cfg.MinLength, "min-length", cfg.MinLength, "smallest task length")
	fs.Float64Var(&cfg.MaxLength, "max-length", cfg.MaxLength, "largest task length")
	fs.Uint64Var(&seed, "seed", 1, "random seed")
	fs.StringVarP(&output, "output", "o", "", "write the workload here instead of stdout")
	return cmd
}
