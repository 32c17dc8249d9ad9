package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"queenside/internal/model"
)

const runIndexFile = "run_index.json"

type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	BoardSize      int     `json:"board_size"`
	PopulationSize int     `json:"population_size"`
	Trials         int     `json:"trials"`
	AvgGenerations float64 `json:"avg_generations"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

// WriteRunReport writes the report envelope and the per-trial summary table
// under baseDir/<run id> and returns the run directory.
func WriteRunReport(baseDir string, report RunReport) (string, error) {
	if report.RunID == "" {
		return "", fmt.Errorf("report run id is required")
	}

	runDir := filepath.Join(baseDir, report.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	if report.GeneratedAt == "" {
		report.GeneratedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	if err := writeJSON(filepath.Join(runDir, "report.json"), report); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "trials.json"), report.Trials); err != nil {
		return "", err
	}
	return runDir, nil
}

func ReadRunReport(baseDir, runID string) (RunReport, bool, error) {
	path := filepath.Join(baseDir, runID, "report.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunReport{}, false, nil
		}
		return RunReport{}, false, err
	}

	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return RunReport{}, false, err
	}
	return report, true, nil
}

// WriteTrialSeries writes one trial's per-generation conflict curve as CSV.
func WriteTrialSeries(runDir string, trial int, series []model.GenerationStats) error {
	path := filepath.Join(runDir, trialSeriesFile(trial))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "best_conflicts", "mean_conflicts", "worst_conflicts", "distinct_layouts"}); err != nil {
		return err
	}
	for _, row := range series {
		if err := writer.Write([]string{
			strconv.Itoa(row.Generation),
			strconv.Itoa(row.BestConflicts),
			strconv.FormatFloat(row.MeanConflicts, 'f', -1, 64),
			strconv.Itoa(row.WorstConflicts),
			strconv.Itoa(row.DistinctLayouts),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadTrialSeries(baseDir, runID string, trial int) ([]model.GenerationStats, bool, error) {
	path := filepath.Join(baseDir, runID, trialSeriesFile(trial))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.GenerationStats{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 5 {
		return nil, false, fmt.Errorf("trial series header must have at least 5 columns")
	}

	series := make([]model.GenerationStats, 0, 128)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 5 {
			return nil, false, fmt.Errorf("trial series row must have at least 5 columns")
		}
		generation, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, false, err
		}
		best, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, false, err
		}
		mean, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, false, err
		}
		worst, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, false, err
		}
		distinct, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, false, err
		}
		series = append(series, model.GenerationStats{
			Generation:      generation,
			BestConflicts:   best,
			MeanConflicts:   mean,
			WorstConflicts:  worst,
			DistinctLayouts: distinct,
		})
	}
	return series, true, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func trialSeriesFile(trial int) string {
	return fmt.Sprintf("trial_%03d_series.csv", trial)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
