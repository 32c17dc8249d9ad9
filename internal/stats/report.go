package stats

import (
	"fmt"
	"math"

	"queenside/internal/model"
)

type Aggregate struct {
	Avg float64 `json:"avg"`
	Std float64 `json:"std"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type TrialSummary struct {
	Trial       int   `json:"trial"`
	Seed        int64 `json:"seed"`
	Generations int   `json:"generations"`
	Evaluations int   `json:"evaluations"`
	DurationMS  int64 `json:"duration_ms"`
}

// RunReport aggregates the trials of one benchmark run. Evaluations are
// derived as generations times population size; the archive itself never
// stores them.
type RunReport struct {
	RunID          string         `json:"run_id"`
	GeneratedAt    string         `json:"generated_at_utc"`
	BoardSize      int            `json:"board_size"`
	PopulationSize int            `json:"population_size"`
	KeepBest       int            `json:"keep_best"`
	KeepWorst      int            `json:"keep_worst"`
	Selection      string         `json:"selection"`
	Recombination  string         `json:"recombination"`
	Perturbation   string         `json:"perturbation"`
	Trials         []TrialSummary `json:"trials"`
	Generations    Aggregate      `json:"generations"`
	Evaluations    Aggregate      `json:"evaluations"`
	DurationMS     Aggregate      `json:"duration_ms"`
}

func BuildRunReport(run model.RunRecord, trials []model.TrialRecord) (RunReport, error) {
	if run.ID == "" {
		return RunReport{}, fmt.Errorf("run id is required")
	}
	if len(trials) == 0 {
		return RunReport{}, fmt.Errorf("run %s has no trials to report", run.ID)
	}

	report := RunReport{
		RunID:          run.ID,
		BoardSize:      run.BoardSize,
		PopulationSize: run.PopulationSize,
		KeepBest:       run.KeepBest,
		KeepWorst:      run.KeepWorst,
		Selection:      run.Selection,
		Recombination:  run.Recombination,
		Perturbation:   run.Perturbation,
		Trials:         make([]TrialSummary, 0, len(trials)),
	}
	generations := make([]float64, 0, len(trials))
	evaluations := make([]float64, 0, len(trials))
	durations := make([]float64, 0, len(trials))
	for _, trial := range trials {
		if trial.RunID != run.ID {
			return RunReport{}, fmt.Errorf("trial %d belongs to run %s, not %s", trial.Trial, trial.RunID, run.ID)
		}
		evals := trial.Generations * run.PopulationSize
		report.Trials = append(report.Trials, TrialSummary{
			Trial:       trial.Trial,
			Seed:        trial.Seed,
			Generations: trial.Generations,
			Evaluations: evals,
			DurationMS:  trial.DurationMS,
		})
		generations = append(generations, float64(trial.Generations))
		evaluations = append(evaluations, float64(evals))
		durations = append(durations, float64(trial.DurationMS))
	}

	var err error
	if report.Generations, err = buildAggregate(generations); err != nil {
		return RunReport{}, err
	}
	if report.Evaluations, err = buildAggregate(evaluations); err != nil {
		return RunReport{}, err
	}
	if report.DurationMS, err = buildAggregate(durations); err != nil {
		return RunReport{}, err
	}
	return report, nil
}

func buildAggregate(values []float64) (Aggregate, error) {
	avg, err := Avg(values)
	if err != nil {
		return Aggregate{}, err
	}
	std, err := Std(values)
	if err != nil {
		return Aggregate{}, err
	}
	agg := Aggregate{Avg: avg, Std: std, Min: values[0], Max: values[0]}
	for _, value := range values[1:] {
		if value < agg.Min {
			agg.Min = value
		}
		if value > agg.Max {
			agg.Max = value
		}
	}
	return agg, nil
}

// Avg returns the arithmetic mean of values.
func Avg(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("values must not be empty")
	}
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values)), nil
}

// Std returns population standard deviation.
func Std(values []float64) (float64, error) {
	mean, err := Avg(values)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, value := range values {
		diff := mean - value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values))), nil
}
