package benchmarks

import (
	"encoding/csv"
	"io"
	"strconv"
)

var (
	runsHeader = []string{
		"algorithm", "seed", "fitness", "makespan", "cost",
		"iterations", "evaluations", "duration_seconds", "front_size", "hypervolume", "igd",
	}
	summaryHeader = []string{
		"algorithm", "runs", "mean_fitness", "std_fitness", "min_fitness", "max_fitness",
		"mean_makespan", "mean_cost", "mean_hypervolume", "mean_igd", "mean_duration_seconds",
	}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteRunsCSV writes one row per run.
func WriteRunsCSV(w io.Writer, records []RunRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(runsHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Algorithm,
			strconv.FormatUint(r.Seed, 10),
			formatFloat(r.Fitness),
			formatFloat(r.Makespan),
			formatFloat(r.Cost),
			strconv.Itoa(r.Iterations),
			strconv.FormatInt(r.Evaluations, 10),
			formatFloat(r.Duration.Seconds()),
			strconv.Itoa(len(r.Front)),
			formatFloat(r.Hypervolume),
			formatFloat(r.IGD),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one row per algorithm.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Algorithm,
			strconv.Itoa(s.Runs),
			formatFloat(s.MeanFitness),
			formatFloat(s.StdFitness),
			formatFloat(s.MinFitness),
			formatFloat(s.MaxFitness),
			formatFloat(s.MeanMakespan),
			formatFloat(s.MeanCost),
			formatFloat(s.MeanHypervolume),
			formatFloat(s.MeanIGD),
			formatFloat(s.MeanDuration.Seconds()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
