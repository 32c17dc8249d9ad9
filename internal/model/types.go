package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord describes one archived bench invocation: the engine parameters it
// ran with and how many trials it covered. Solver output is never archived.
type RunRecord struct {
	VersionedRecord
	ID             string `json:"id"`
	CreatedAtUTC   string `json:"created_at_utc"`
	BoardSize      int    `json:"board_size"`
	PopulationSize int    `json:"population_size"`
	KeepBest       int    `json:"keep_best"`
	KeepWorst      int    `json:"keep_worst"`
	Selection      string `json:"selection"`
	Recombination  string `json:"recombination"`
	Perturbation   string `json:"perturbation"`
	Trials         int    `json:"trials"`
}

type TrialRecord struct {
	VersionedRecord
	RunID       string `json:"run_id"`
	Trial       int    `json:"trial"`
	Seed        int64  `json:"seed"`
	Generations int    `json:"generations"`
	DurationMS  int64  `json:"duration_ms"`
}

type GenerationStats struct {
	Generation      int     `json:"generation"`
	BestConflicts   int     `json:"best_conflicts"`
	MeanConflicts   float64 `json:"mean_conflicts"`
	WorstConflicts  int     `json:"worst_conflicts"`
	DistinctLayouts int     `json:"distinct_layouts"`
}
