package queenside

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"queenside/internal/board"
	"queenside/internal/evo"
	"queenside/internal/model"
	"queenside/internal/stats"
	"queenside/internal/storage"
)

const (
	defaultReportsDir = "reports"
	defaultDBPath     = "queenside.db"
	defaultTrials     = 10
)

type Options struct {
	StoreKind  string
	DBPath     string
	ReportsDir string
}

type Client struct {
	store       storage.Store
	reportsDir  string
	initialized bool
}

type SolveRequest struct {
	BoardSize     int
	Population    int
	KeepBest      int
	KeepWorst     int
	Seed          int64
	Selection     string
	Recombination string
	Perturbation  string
	Pairs         int
	Mutations     int
	CollectStats  bool
	Progress      func(evo.Progress)
}

type SolveSummary struct {
	Positions   []int
	Generations int
	Stats       []model.GenerationStats
}

type EnumerateRequest struct {
	BoardSize       int
	Population      int
	KeepBest        int
	KeepWorst       int
	Seed            int64
	Selection       string
	Recombination   string
	Perturbation    string
	Pairs           int
	Mutations       int
	TargetSolutions int
	CollectStats    bool
	Progress        func(evo.Progress)
}

type EnumerateSummary struct {
	Solutions   [][]int
	Generations int
	Stats       []model.GenerationStats
}

type BenchRequest struct {
	BoardSize     int
	Population    int
	KeepBest      int
	KeepWorst     int
	Seed          int64
	Trials        int
	Selection     string
	Recombination string
	Perturbation  string
	Pairs         int
	Mutations     int
	CollectStats  bool
	OnTrial       func(model.TrialRecord)
}

type BenchSummary struct {
	RunID        string
	ArtifactsDir string
	Report       stats.RunReport
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	BoardSize      int
	Population     int
	Trials         int
	AvgGenerations float64
}

type TrialsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type TrialStatsRequest struct {
	RunID  string
	Latest bool
	Trial  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	reportsDir := opts.ReportsDir
	if reportsDir == "" {
		reportsDir = defaultReportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		reportsDir: reportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

func (c *Client) Solve(ctx context.Context, req SolveRequest) (SolveSummary, error) {
	cfg, err := engineConfig(req.BoardSize, req.Population, req.KeepBest, req.KeepWorst, req.Seed,
		req.Selection, req.Recombination, req.Perturbation, req.Pairs, req.Mutations)
	if err != nil {
		return SolveSummary{}, err
	}
	cfg.CollectStats = req.CollectStats
	cfg.Progress = req.Progress

	eng, err := evo.NewEngine(cfg)
	if err != nil {
		return SolveSummary{}, err
	}
	result, err := eng.Solve(ctx)
	if err != nil {
		return SolveSummary{}, err
	}
	return SolveSummary{
		Positions:   result.Positions,
		Generations: result.Generations,
		Stats:       result.Stats,
	}, nil
}

func (c *Client) Enumerate(ctx context.Context, req EnumerateRequest) (EnumerateSummary, error) {
	cfg, err := engineConfig(req.BoardSize, req.Population, req.KeepBest, req.KeepWorst, req.Seed,
		req.Selection, req.Recombination, req.Perturbation, req.Pairs, req.Mutations)
	if err != nil {
		return EnumerateSummary{}, err
	}
	cfg.TargetSolutions = req.TargetSolutions
	cfg.CollectStats = req.CollectStats
	cfg.Progress = req.Progress

	eng, err := evo.NewEngine(cfg)
	if err != nil {
		return EnumerateSummary{}, err
	}
	result, err := eng.Enumerate(ctx)
	if err != nil {
		return EnumerateSummary{}, err
	}
	return EnumerateSummary{
		Solutions:   result.Solutions,
		Generations: result.Generations,
		Stats:       result.Stats,
	}, nil
}

func (c *Client) Bench(ctx context.Context, req BenchRequest) (BenchSummary, error) {
	if req.BoardSize <= 0 {
		req.BoardSize = board.DefaultSize
	}
	if req.Population <= 0 {
		req.Population = evo.DefaultPopulationSize
	}
	if req.KeepBest == 0 && req.KeepWorst == 0 {
		req.KeepBest = evo.DefaultKeepBest
		req.KeepWorst = evo.DefaultKeepWorst
	}
	if req.Trials <= 0 {
		req.Trials = defaultTrials
	}
	if req.Selection == "" {
		req.Selection = "truncate"
	}
	if req.Recombination == "" {
		req.Recombination = "swap"
	}
	if req.Perturbation == "" {
		req.Perturbation = "sparse"
	}
	baseSeed := req.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	// Validate the policy names before the first trial runs.
	if _, err := selectionFromName(req.Selection); err != nil {
		return BenchSummary{}, err
	}
	if _, err := recombinationFromName(req.Recombination); err != nil {
		return BenchSummary{}, err
	}
	if _, err := perturbationFromConfig(req.Perturbation, req.Pairs, req.Mutations); err != nil {
		return BenchSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return BenchSummary{}, err
	}

	now := time.Now().UTC()
	runID := fmt.Sprintf("queens%d-%d-%d", req.BoardSize, baseSeed, now.Unix())

	trials := make([]model.TrialRecord, 0, req.Trials)
	seriesByTrial := make(map[int][]model.GenerationStats, req.Trials)
	for trial := 1; trial <= req.Trials; trial++ {
		seed := baseSeed + int64(trial-1)
		cfg, err := engineConfig(req.BoardSize, req.Population, req.KeepBest, req.KeepWorst, seed,
			req.Selection, req.Recombination, req.Perturbation, req.Pairs, req.Mutations)
		if err != nil {
			return BenchSummary{}, err
		}
		cfg.CollectStats = req.CollectStats

		eng, err := evo.NewEngine(cfg)
		if err != nil {
			return BenchSummary{}, err
		}
		started := time.Now()
		result, err := eng.Solve(ctx)
		if err != nil {
			return BenchSummary{}, err
		}

		record := model.TrialRecord{
			VersionedRecord: model.VersionedRecord{
				SchemaVersion: storage.CurrentSchemaVersion,
				CodecVersion:  storage.CurrentCodecVersion,
			},
			RunID:       runID,
			Trial:       trial,
			Seed:        seed,
			Generations: result.Generations,
			DurationMS:  time.Since(started).Milliseconds(),
		}
		trials = append(trials, record)
		if req.CollectStats {
			seriesByTrial[trial] = result.Stats
		}
		if req.OnTrial != nil {
			req.OnTrial(record)
		}
	}

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:             runID,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
		BoardSize:      req.BoardSize,
		PopulationSize: req.Population,
		KeepBest:       req.KeepBest,
		KeepWorst:      req.KeepWorst,
		Selection:      req.Selection,
		Recombination:  req.Recombination,
		Perturbation:   req.Perturbation,
		Trials:         req.Trials,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return BenchSummary{}, err
	}
	for _, record := range trials {
		if err := c.store.SaveTrial(ctx, record); err != nil {
			return BenchSummary{}, err
		}
	}
	for trial, series := range seriesByTrial {
		if err := c.store.SaveTrialStats(ctx, runID, trial, series); err != nil {
			return BenchSummary{}, err
		}
	}

	report, err := stats.BuildRunReport(run, trials)
	if err != nil {
		return BenchSummary{}, err
	}
	runDir, err := stats.WriteRunReport(c.reportsDir, report)
	if err != nil {
		return BenchSummary{}, err
	}
	for trial, series := range seriesByTrial {
		if err := stats.WriteTrialSeries(runDir, trial, series); err != nil {
			return BenchSummary{}, err
		}
	}
	if err := stats.AppendRunIndex(c.reportsDir, stats.RunIndexEntry{
		RunID:          runID,
		BoardSize:      req.BoardSize,
		PopulationSize: req.Population,
		Trials:         req.Trials,
		AvgGenerations: report.Generations.Avg,
		CreatedAtUTC:   now.Format(time.RFC3339Nano),
	}); err != nil {
		return BenchSummary{}, err
	}

	return BenchSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Report:       report,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.reportsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:          e.RunID,
			CreatedAtUTC:   e.CreatedAtUTC,
			BoardSize:      e.BoardSize,
			Population:     e.PopulationSize,
			Trials:         e.Trials,
			AvgGenerations: e.AvgGenerations,
		})
	}
	return out, nil
}

func (c *Client) Trials(ctx context.Context, req TrialsRequest) ([]model.TrialRecord, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}

	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, errors.New("trials requires run id or latest")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	trials, ok, err := c.store.ListTrials(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("trials not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(trials) > req.Limit {
		trials = trials[:req.Limit]
	}
	out := make([]model.TrialRecord, len(trials))
	copy(out, trials)
	return out, nil
}

func (c *Client) TrialStats(ctx context.Context, req TrialStatsRequest) ([]model.GenerationStats, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}
	if req.Trial <= 0 {
		return nil, errors.New("trial must be > 0")
	}

	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, errors.New("trial stats requires run id or latest")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	series, ok, err := c.store.GetTrialStats(ctx, runID, req.Trial)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("trial stats not found for run id %s trial %d", runID, req.Trial)
	}
	out := make([]model.GenerationStats, len(series))
	copy(out, series)
	return out, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if !latest {
		return runID, nil
	}
	entries, err := stats.ListRunIndex(c.reportsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func engineConfig(boardSize, population, keepBest, keepWorst int, seed int64,
	selection, recombination, perturbation string, pairs, mutations int) (evo.Config, error) {
	selectionPolicy, err := selectionFromName(selection)
	if err != nil {
		return evo.Config{}, err
	}
	recombinationPolicy, err := recombinationFromName(recombination)
	if err != nil {
		return evo.Config{}, err
	}
	perturbationPolicy, err := perturbationFromConfig(perturbation, pairs, mutations)
	if err != nil {
		return evo.Config{}, err
	}

	return evo.Config{
		BoardSize:      boardSize,
		PopulationSize: population,
		KeepBest:       keepBest,
		KeepWorst:      keepWorst,
		Seed:           seed,
		Selection:      selectionPolicy,
		Recombination:  recombinationPolicy,
		Perturbation:   perturbationPolicy,
	}, nil
}

func selectionFromName(name string) (evo.SelectionPolicy, error) {
	switch name {
	case "", "truncate":
		return evo.TruncateSelection{}, nil
	case "dedup":
		return evo.DedupSelection{}, nil
	default:
		return nil, fmt.Errorf("unsupported selection policy: %s", name)
	}
}

func recombinationFromName(name string) (evo.RecombinationPolicy, error) {
	switch name {
	case "", "swap":
		return evo.SwapRecombination{}, nil
	case "clone":
		return evo.CloneRecombination{}, nil
	default:
		return nil, fmt.Errorf("unsupported recombination policy: %s", name)
	}
}

func perturbationFromConfig(name string, pairs, mutations int) (evo.PerturbationPolicy, error) {
	switch name {
	case "", "sparse":
		if pairs <= 0 {
			pairs = 1
		}
		if mutations <= 0 {
			mutations = 1
		}
		return evo.SparsePerturbation{Pairs: pairs, Mutations: mutations}, nil
	case "sweep":
		return evo.SweepPerturbation{}, nil
	default:
		return nil, fmt.Errorf("unsupported perturbation policy: %s", name)
	}
}
