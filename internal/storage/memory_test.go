package storage

import (
	"context"
	"testing"

	"queenside/internal/model"
)

func testRunRecord(id, createdAt string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              id,
		CreatedAtUTC:    createdAt,
		BoardSize:       8,
		PopulationSize:  20,
		KeepBest:        5,
		KeepWorst:       5,
		Selection:       "truncate",
		Recombination:   "swap",
		Perturbation:    "sparse",
		Trials:          2,
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := testRunRecord("run-1", "2026-05-11T09:30:00Z")
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded.ID != run.ID || loaded.PopulationSize != run.PopulationSize || loaded.Selection != run.Selection {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, got ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, run := range []model.RunRecord{
		testRunRecord("run-a", "2026-05-10T08:00:00Z"),
		testRunRecord("run-b", "2026-05-12T08:00:00Z"),
		testRunRecord("run-c", "2026-05-11T08:00:00Z"),
	} {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, want := range []string{"run-b", "run-c", "run-a"} {
		if runs[i].ID != want {
			t.Fatalf("run %d: expected %s, got %s", i, want, runs[i].ID)
		}
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "run-b" || limited[1].ID != "run-c" {
		t.Fatalf("unexpected limited listing: %+v", limited)
	}
}

func TestMemoryStoreTrialUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	trial := model.TrialRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           "run-1",
		Trial:           1,
		Seed:            42,
		Generations:     10,
		DurationMS:      2,
	}
	if err := store.SaveTrial(ctx, trial); err != nil {
		t.Fatalf("save trial: %v", err)
	}

	second := trial
	second.Trial = 2
	second.Seed = 43
	if err := store.SaveTrial(ctx, second); err != nil {
		t.Fatalf("save trial: %v", err)
	}

	trial.Generations = 25
	if err := store.SaveTrial(ctx, trial); err != nil {
		t.Fatalf("save trial again: %v", err)
	}

	trials, ok, err := store.ListTrials(ctx, "run-1")
	if err != nil {
		t.Fatalf("list trials: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted trials")
	}
	if len(trials) != 2 {
		t.Fatalf("expected 2 trials after upsert, got %d", len(trials))
	}
	if trials[0].Trial != 1 || trials[1].Trial != 2 {
		t.Fatalf("expected trials sorted by number, got %+v", trials)
	}
	if trials[0].Generations != 25 {
		t.Fatalf("expected upserted generations 25, got %d", trials[0].Generations)
	}

	if _, ok, err := store.ListTrials(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected no trials for unknown run, got ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreTrialStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	stats := []model.GenerationStats{
		{Generation: 1, BestConflicts: 3, MeanConflicts: 6.4, WorstConflicts: 11, DistinctLayouts: 19},
		{Generation: 2, BestConflicts: 1, MeanConflicts: 4.9, WorstConflicts: 10, DistinctLayouts: 18},
	}
	if err := store.SaveTrialStats(ctx, "run-1", 1, stats); err != nil {
		t.Fatalf("save trial stats: %v", err)
	}

	loaded, ok, err := store.GetTrialStats(ctx, "run-1", 1)
	if err != nil {
		t.Fatalf("get trial stats: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted trial stats")
	}
	if len(loaded) != 2 || loaded[1].BestConflicts != 1 {
		t.Fatalf("unexpected trial stats: %+v", loaded)
	}

	// The store keeps its own copy of the series.
	stats[0].BestConflicts = 99
	loaded, _, err = store.GetTrialStats(ctx, "run-1", 1)
	if err != nil {
		t.Fatalf("get trial stats: %v", err)
	}
	if loaded[0].BestConflicts != 3 {
		t.Fatalf("expected stored stats unaffected by caller mutation, got %+v", loaded[0])
	}

	if _, ok, err := store.GetTrialStats(ctx, "run-1", 2); err != nil || ok {
		t.Fatalf("expected no stats for unknown trial, got ok=%t err=%v", ok, err)
	}
}
