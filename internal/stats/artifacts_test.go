package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"queenside/internal/model"
)

func TestWriteRunReportArtifacts(t *testing.T) {
	base := t.TempDir()
	report := RunReport{
		RunID:          "run-1",
		BoardSize:      8,
		PopulationSize: 20,
		Trials: []TrialSummary{
			{Trial: 1, Seed: 42, Generations: 10, Evaluations: 200, DurationMS: 2},
		},
		Generations: Aggregate{Avg: 10, Min: 10, Max: 10},
	}

	runDir, err := WriteRunReport(base, report)
	if err != nil {
		t.Fatalf("write run report: %v", err)
	}
	if runDir != filepath.Join(base, "run-1") {
		t.Fatalf("unexpected run dir: %s", runDir)
	}
	for _, name := range []string{"report.json", "trials.json"} {
		data, err := os.ReadFile(filepath.Join(runDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("expected non-empty %s", name)
		}
	}

	loaded, ok, err := ReadRunReport(base, "run-1")
	if err != nil {
		t.Fatalf("read run report: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted report")
	}
	if loaded.GeneratedAt == "" {
		t.Fatalf("expected generated timestamp in report envelope: %+v", loaded)
	}
	if loaded.RunID != "run-1" || len(loaded.Trials) != 1 {
		t.Fatalf("unexpected report envelope: %+v", loaded)
	}

	if _, ok, err := ReadRunReport(base, "missing"); err != nil || ok {
		t.Fatalf("expected missing report, got ok=%t err=%v", ok, err)
	}

	if _, err := WriteRunReport(base, RunReport{}); err == nil {
		t.Fatal("expected missing run id error")
	}
}

func TestTrialSeriesRoundTrip(t *testing.T) {
	base := t.TempDir()
	runDir := filepath.Join(base, "run-1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	series := []model.GenerationStats{
		{Generation: 1, BestConflicts: 3, MeanConflicts: 6.4, WorstConflicts: 11, DistinctLayouts: 19},
		{Generation: 2, BestConflicts: 1, MeanConflicts: 4.9, WorstConflicts: 10, DistinctLayouts: 18},
		{Generation: 3, BestConflicts: 0, MeanConflicts: 3.2, WorstConflicts: 9, DistinctLayouts: 20},
	}
	if err := WriteTrialSeries(runDir, 1, series); err != nil {
		t.Fatalf("write trial series: %v", err)
	}

	loaded, ok, err := ReadTrialSeries(base, "run-1", 1)
	if err != nil {
		t.Fatalf("read trial series: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted series")
	}
	if !reflect.DeepEqual(loaded, series) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", loaded, series)
	}

	if _, ok, err := ReadTrialSeries(base, "run-1", 2); err != nil || ok {
		t.Fatalf("expected missing series, got ok=%t err=%v", ok, err)
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	base := t.TempDir()

	entries := []RunIndexEntry{
		{RunID: "run-a", BoardSize: 8, PopulationSize: 20, Trials: 3, AvgGenerations: 120, CreatedAtUTC: "2026-05-10T08:00:00Z"},
		{RunID: "run-b", BoardSize: 8, PopulationSize: 20, Trials: 3, AvgGenerations: 95, CreatedAtUTC: "2026-05-12T08:00:00Z"},
	}
	for _, entry := range entries {
		if err := AppendRunIndex(base, entry); err != nil {
			t.Fatalf("append %s: %v", entry.RunID, err)
		}
	}

	index, err := ListRunIndex(base)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 2 || index[0].RunID != "run-b" || index[1].RunID != "run-a" {
		t.Fatalf("unexpected index order: %+v", index)
	}

	updated := entries[0]
	updated.AvgGenerations = 80
	if err := AppendRunIndex(base, updated); err != nil {
		t.Fatalf("append updated: %v", err)
	}
	index, err = ListRunIndex(base)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("expected replacement, got %d entries", len(index))
	}
	for _, entry := range index {
		if entry.RunID == "run-a" && entry.AvgGenerations != 80 {
			t.Fatalf("expected updated entry, got %+v", entry)
		}
	}

	// Index survives a direct decode too.
	data, err := os.ReadFile(filepath.Join(base, "run_index.json"))
	if err != nil {
		t.Fatalf("read index file: %v", err)
	}
	var raw []RunIndexEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode index file: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("unexpected raw index: %+v", raw)
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	index, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 0 {
		t.Fatalf("expected empty index, got %+v", index)
	}
}
