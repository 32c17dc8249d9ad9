package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"queenside/internal/board"
	"queenside/internal/model"
)

// Default engine parameters, the classic tuning for an 8x8 board.
const (
	DefaultPopulationSize = 20
	DefaultKeepBest       = 5
	DefaultKeepWorst      = 5
)

// Progress describes one completed ranking step. Solutions stays zero during
// single-solution searches.
type Progress struct {
	Generation    int
	BestConflicts int
	Solutions     int
}

type Config struct {
	BoardSize       int
	PopulationSize  int
	KeepBest        int
	KeepWorst       int
	Seed            int64
	Rand            *rand.Rand
	Selection       SelectionPolicy
	Recombination   RecombinationPolicy
	Perturbation    PerturbationPolicy
	TargetSolutions int
	Progress        func(Progress)
	CollectStats    bool
}

type SolveResult struct {
	Positions   []int
	Generations int
	Stats       []model.GenerationStats
}

type EnumerateResult struct {
	Solutions   [][]int
	Generations int
	Stats       []model.GenerationStats
}

// Engine drives the generation loop with a fixed configuration and a single
// owned random source. Engines are not safe for concurrent use.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine validates the configuration and fills zero values with defaults.
// The selection windows default together: setting either one takes ownership
// of both. A zero Seed with no injected Rand seeds from the clock.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.BoardSize == 0 {
		cfg.BoardSize = board.DefaultSize
	}
	if cfg.BoardSize < 0 {
		return nil, fmt.Errorf("board size must be > 0")
	}
	if cfg.PopulationSize == 0 {
		cfg.PopulationSize = DefaultPopulationSize
	}
	if cfg.PopulationSize < 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.KeepBest == 0 && cfg.KeepWorst == 0 {
		cfg.KeepBest = DefaultKeepBest
		cfg.KeepWorst = DefaultKeepWorst
	}
	if cfg.KeepBest < 0 || cfg.KeepWorst < 0 {
		return nil, fmt.Errorf("selection windows must be >= 0")
	}
	if cfg.KeepBest+cfg.KeepWorst > cfg.PopulationSize {
		return nil, fmt.Errorf("selection windows exceed population size: best=%d worst=%d size=%d", cfg.KeepBest, cfg.KeepWorst, cfg.PopulationSize)
	}
	if cfg.TargetSolutions < 0 {
		return nil, fmt.Errorf("target solutions must be >= 0")
	}
	if cfg.Selection == nil {
		cfg.Selection = TruncateSelection{}
	}
	if cfg.Recombination == nil {
		cfg.Recombination = SwapRecombination{}
	}
	if cfg.Perturbation == nil {
		cfg.Perturbation = SparsePerturbation{Pairs: 1, Mutations: 1}
	}

	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	return &Engine{cfg: cfg, rng: rng}, nil
}

// Solve evolves a population until the best-ranked member reaches zero
// conflicts and returns that layout. There is no generation cap; cancel
// through ctx to stop early.
func (e *Engine) Solve(ctx context.Context) (SolveResult, error) {
	population, err := NewRandomPopulation(e.rng, e.cfg.PopulationSize, e.cfg.BoardSize)
	if err != nil {
		return SolveResult{}, err
	}

	var stats []model.GenerationStats
	for generation := 1; ; generation++ {
		if err := ctx.Err(); err != nil {
			return SolveResult{}, err
		}

		Rank(population)
		if e.cfg.CollectStats {
			stats = append(stats, summarizeGeneration(generation, population))
		}
		if e.cfg.Progress != nil {
			e.cfg.Progress(Progress{Generation: generation, BestConflicts: population[0].conflicts})
		}
		if population[0].conflicts == 0 {
			return SolveResult{
				Positions:   population[0].Positions(),
				Generations: generation,
				Stats:       stats,
			}, nil
		}

		population, err = e.nextGeneration(population)
		if err != nil {
			return SolveResult{}, err
		}
	}
}

// Enumerate keeps evolving past the first solution, collecting every distinct
// zero-conflict layout until the target count is reached. Solutions come back
// sorted by canonical key.
func (e *Engine) Enumerate(ctx context.Context) (EnumerateResult, error) {
	target, err := e.targetSolutions()
	if err != nil {
		return EnumerateResult{}, err
	}

	population, err := NewRandomPopulation(e.rng, e.cfg.PopulationSize, e.cfg.BoardSize)
	if err != nil {
		return EnumerateResult{}, err
	}

	found := make(map[string][]int, target)
	var stats []model.GenerationStats
	for generation := 1; ; generation++ {
		if err := ctx.Err(); err != nil {
			return EnumerateResult{}, err
		}

		Rank(population)
		if e.cfg.CollectStats {
			stats = append(stats, summarizeGeneration(generation, population))
		}
		for _, ind := range population {
			if ind.conflicts != 0 {
				continue
			}
			key := board.Key(ind.positions)
			if _, ok := found[key]; !ok {
				found[key] = ind.Positions()
			}
		}
		if e.cfg.Progress != nil {
			e.cfg.Progress(Progress{
				Generation:    generation,
				BestConflicts: population[0].conflicts,
				Solutions:     len(found),
			})
		}
		if len(found) >= target {
			return EnumerateResult{
				Solutions:   sortedSolutions(found),
				Generations: generation,
				Stats:       stats,
			}, nil
		}

		population, err = e.nextGeneration(population)
		if err != nil {
			return EnumerateResult{}, err
		}
	}
}

func (e *Engine) nextGeneration(population []*Individual) ([]*Individual, error) {
	selected, err := e.cfg.Selection.Select(population, e.cfg.KeepBest, e.cfg.KeepWorst)
	if err != nil {
		return nil, err
	}
	for _, pair := range e.cfg.Perturbation.CrossoverPairs(e.rng, len(selected)) {
		e.cfg.Recombination.Recombine(selected, pair[0], pair[1])
	}
	for _, target := range e.cfg.Perturbation.MutationTargets(e.rng, len(selected)) {
		Mutate(selected[target], e.rng)
	}
	return Replenish(selected, e.cfg.PopulationSize, e.rng, e.cfg.BoardSize)
}

func (e *Engine) targetSolutions() (int, error) {
	if e.cfg.TargetSolutions > 0 {
		return e.cfg.TargetSolutions, nil
	}
	total, ok := board.SolutionCount(e.cfg.BoardSize)
	if !ok {
		return 0, fmt.Errorf("no published solution total for board size %d; set TargetSolutions", e.cfg.BoardSize)
	}
	return total, nil
}

func sortedSolutions(found map[string][]int) [][]int {
	keys := make([]string, 0, len(found))
	for key := range found {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	solutions := make([][]int, 0, len(keys))
	for _, key := range keys {
		solutions = append(solutions, found[key])
	}
	return solutions
}
