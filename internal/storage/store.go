package storage

import (
	"context"

	"queenside/internal/model"
)

// Store defines persistence operations for the bench trial archive. Runs and
// trials carry parameters and timings only; solver layouts are never stored.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	SaveTrial(ctx context.Context, trial model.TrialRecord) error
	ListTrials(ctx context.Context, runID string) ([]model.TrialRecord, bool, error)
	SaveTrialStats(ctx context.Context, runID string, trial int, stats []model.GenerationStats) error
	GetTrialStats(ctx context.Context, runID string, trial int) ([]model.GenerationStats, bool, error)
}
