package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"queenside/internal/board"
	"queenside/internal/evo"
	"queenside/internal/model"
	"queenside/internal/storage"
	queensapi "queenside/pkg/queenside"
)

const reportsDir = "reports"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "solve":
		return runSolve(ctx, args[1:])
	case "enumerate":
		return runEnumerate(ctx, args[1:])
	case "bench":
		return runBench(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "trials":
		return runTrials(ctx, args[1:])
	case "trial-stats":
		return runTrialStats(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	boardSize := fs.Int("board-size", board.DefaultSize, "board dimension")
	population := fs.Int("pop", evo.DefaultPopulationSize, "population size")
	keepBest := fs.Int("keep-best", evo.DefaultKeepBest, "best-ranked members kept by selection")
	keepWorst := fs.Int("keep-worst", evo.DefaultKeepWorst, "worst-ranked members kept by selection")
	seed := fs.Int64("seed", 0, "rng seed (0 uses a time-based seed)")
	selectionName := fs.String("selection", "truncate", "selection policy: truncate|dedup")
	recombinationName := fs.String("recombination", "swap", "recombination policy: swap|clone")
	perturbationName := fs.String("perturbation", "sparse", "perturbation policy: sparse|sweep")
	pairs := fs.Int("pairs", 1, "recombined pairs per generation for the sparse policy")
	mutations := fs.Int("mutations", 1, "mutated members per generation for the sparse policy")
	quiet := fs.Bool("quiet", false, "suppress per-generation attempt lines")
	jsonOut := fs.Bool("json", false, "emit the solution as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := queensapi.New(queensapi.Options{ReportsDir: reportsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := queensapi.SolveRequest{
		BoardSize:     *boardSize,
		Population:    *population,
		KeepBest:      *keepBest,
		KeepWorst:     *keepWorst,
		Seed:          *seed,
		Selection:     *selectionName,
		Recombination: *recombinationName,
		Perturbation:  *perturbationName,
		Pairs:         *pairs,
		Mutations:     *mutations,
	}
	if !*quiet && !*jsonOut {
		req.Progress = func(p evo.Progress) {
			fmt.Printf("Attempt #%d\n", p.Generation)
		}
	}

	summary, err := client.Solve(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Positions   []int `json:"positions"`
			Conflicts   int   `json:"conflicts"`
			Generations int   `json:"generations"`
		}{summary.Positions, board.Conflicts(summary.Positions), summary.Generations})
	}

	fmt.Printf("positions %v conflicts %d\n", summary.Positions, board.Conflicts(summary.Positions))
	fmt.Printf("generations=%d\n", summary.Generations)
	return nil
}

func runEnumerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enumerate", flag.ContinueOnError)
	boardSize := fs.Int("board-size", board.DefaultSize, "board dimension")
	population := fs.Int("pop", evo.DefaultPopulationSize, "population size")
	keepBest := fs.Int("keep-best", evo.DefaultKeepBest, "best-ranked members kept by selection")
	keepWorst := fs.Int("keep-worst", evo.DefaultKeepWorst, "worst-ranked members kept by selection")
	seed := fs.Int64("seed", 0, "rng seed (0 uses a time-based seed)")
	selectionName := fs.String("selection", "truncate", "selection policy: truncate|dedup")
	recombinationName := fs.String("recombination", "swap", "recombination policy: swap|clone")
	perturbationName := fs.String("perturbation", "sparse", "perturbation policy: sparse|sweep")
	pairs := fs.Int("pairs", 1, "recombined pairs per generation for the sparse policy")
	mutations := fs.Int("mutations", 1, "mutated members per generation for the sparse policy")
	target := fs.Int("target", 0, "distinct solutions to collect (0 uses the published total for the board size)")
	quiet := fs.Bool("quiet", false, "suppress per-generation attempt lines")
	jsonOut := fs.Bool("json", false, "emit the solution set as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := queensapi.New(queensapi.Options{ReportsDir: reportsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := queensapi.EnumerateRequest{
		BoardSize:       *boardSize,
		Population:      *population,
		KeepBest:        *keepBest,
		KeepWorst:       *keepWorst,
		Seed:            *seed,
		Selection:       *selectionName,
		Recombination:   *recombinationName,
		Perturbation:    *perturbationName,
		Pairs:           *pairs,
		Mutations:       *mutations,
		TargetSolutions: *target,
	}
	if !*quiet && !*jsonOut {
		req.Progress = func(p evo.Progress) {
			fmt.Printf("Attempt #%d\n", p.Generation)
			fmt.Printf("    Found %d solutions\n", p.Solutions)
		}
	}

	summary, err := client.Enumerate(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Solutions   [][]int `json:"solutions"`
			Generations int     `json:"generations"`
		}{summary.Solutions, summary.Generations})
	}

	fmt.Printf("found %d solutions in %d generations\n", len(summary.Solutions), summary.Generations)
	for _, layout := range summary.Solutions {
		fmt.Printf("positions %v\n", layout)
	}
	return nil
}

func runBench(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	boardSize := fs.Int("board-size", board.DefaultSize, "board dimension")
	population := fs.Int("pop", evo.DefaultPopulationSize, "population size")
	keepBest := fs.Int("keep-best", evo.DefaultKeepBest, "best-ranked members kept by selection")
	keepWorst := fs.Int("keep-worst", evo.DefaultKeepWorst, "worst-ranked members kept by selection")
	seed := fs.Int64("seed", 0, "base rng seed; trial k runs with seed+k-1 (0 uses a time-based base)")
	trials := fs.Int("trials", 10, "trial count")
	selectionName := fs.String("selection", "truncate", "selection policy: truncate|dedup")
	recombinationName := fs.String("recombination", "swap", "recombination policy: swap|clone")
	perturbationName := fs.String("perturbation", "sparse", "perturbation policy: sparse|sweep")
	pairs := fs.Int("pairs", 1, "recombined pairs per generation for the sparse policy")
	mutations := fs.Int("mutations", 1, "mutated members per generation for the sparse policy")
	collectStats := fs.Bool("collect-stats", false, "archive per-generation conflict curves")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the run report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := queensapi.New(queensapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ReportsDir: reportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := queensapi.BenchRequest{
		BoardSize:     *boardSize,
		Population:    *population,
		KeepBest:      *keepBest,
		KeepWorst:     *keepWorst,
		Seed:          *seed,
		Trials:        *trials,
		Selection:     *selectionName,
		Recombination: *recombinationName,
		Perturbation:  *perturbationName,
		Pairs:         *pairs,
		Mutations:     *mutations,
		CollectStats:  *collectStats,
	}
	if !*jsonOut {
		req.OnTrial = func(record model.TrialRecord) {
			fmt.Printf("trial=%d seed=%d generations=%d duration_ms=%d\n",
				record.Trial, record.Seed, record.Generations, record.DurationMS)
		}
	}

	summary, err := client.Bench(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary.Report)
	}

	fmt.Printf("bench completed run_id=%s trials=%d\n", summary.RunID, len(summary.Report.Trials))
	fmt.Printf("generations avg=%.2f std=%.2f min=%.0f max=%.0f\n",
		summary.Report.Generations.Avg, summary.Report.Generations.Std,
		summary.Report.Generations.Min, summary.Report.Generations.Max)
	fmt.Printf("duration_ms avg=%.2f std=%.2f min=%.0f max=%.0f\n",
		summary.Report.DurationMS.Avg, summary.Report.DurationMS.Std,
		summary.Report.DurationMS.Min, summary.Report.DurationMS.Max)
	fmt.Printf("artifacts_dir=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := queensapi.New(queensapi.Options{ReportsDir: reportsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, queensapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		type runsItem struct {
			RunID          string  `json:"run_id"`
			CreatedAtUTC   string  `json:"created_at_utc"`
			BoardSize      int     `json:"board_size"`
			PopulationSize int     `json:"population_size"`
			Trials         int     `json:"trials"`
			AvgGenerations float64 `json:"avg_generations"`
		}
		items := make([]runsItem, 0, len(runs))
		for _, r := range runs {
			items = append(items, runsItem{
				RunID:          r.RunID,
				CreatedAtUTC:   r.CreatedAtUTC,
				BoardSize:      r.BoardSize,
				PopulationSize: r.Population,
				Trials:         r.Trials,
				AvgGenerations: r.AvgGenerations,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s board=%d pop=%d trials=%d avg_generations=%.2f\n",
			r.RunID, r.CreatedAtUTC, r.BoardSize, r.Population, r.Trials, r.AvgGenerations)
	}
	return nil
}

func runTrials(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trials", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show trials for the most recent run from run index")
	limit := fs.Int("limit", 50, "max trials to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit trials as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("trials requires --run-id or --latest")
	}

	client, err := queensapi.New(queensapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ReportsDir: reportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	trials, err := client.Trials(ctx, queensapi.TrialsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(trials) == 0 {
		fmt.Println("no trials found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trials)
	}

	for _, trial := range trials {
		fmt.Printf("trial=%d seed=%d generations=%d duration_ms=%d\n",
			trial.Trial, trial.Seed, trial.Generations, trial.DurationMS)
	}
	return nil
}

func runTrialStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trial-stats", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show stats for the most recent run from run index")
	trial := fs.Int("trial", 1, "trial number")
	jsonOut := fs.Bool("json", false, "emit stats as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "queenside.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("trial-stats requires --run-id or --latest")
	}

	client, err := queensapi.New(queensapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ReportsDir: reportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	series, err := client.TrialStats(ctx, queensapi.TrialStatsRequest{
		RunID:  *runID,
		Latest: *latest,
		Trial:  *trial,
	})
	if err != nil {
		return err
	}
	if len(series) == 0 {
		fmt.Println("no trial stats found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	for _, row := range series {
		fmt.Printf("generation=%d best=%d mean=%.2f worst=%d distinct=%d\n",
			row.Generation, row.BestConflicts, row.MeanConflicts, row.WorstConflicts, row.DistinctLayouts)
	}
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: queensidectl <init|solve|enumerate|bench|runs|trials|trial-stats> [flags]", msg)
}
