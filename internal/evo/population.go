package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"queenside/internal/board"
	"queenside/internal/model"
)

// NewRandomPopulation builds count independent random individuals.
func NewRandomPopulation(rng *rand.Rand, count, size int) ([]*Individual, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid population count: %d", count)
	}
	population := make([]*Individual, 0, count)
	for i := 0; i < count; i++ {
		ind, err := NewRandomIndividual(rng, size)
		if err != nil {
			return nil, err
		}
		population = append(population, ind)
	}
	return population, nil
}

// Rank sorts the population ascending by conflict count. The sort is stable:
// members with equal counts keep their relative order, so ranking twice never
// reshuffles ties.
func Rank(population []*Individual) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].conflicts < population[j].conflicts
	})
}

// Replenish appends fresh random individuals until the population reaches
// target size. Populations already at or above target are returned unchanged;
// members are never removed.
func Replenish(population []*Individual, target int, rng *rand.Rand, size int) ([]*Individual, error) {
	for len(population) < target {
		ind, err := NewRandomIndividual(rng, size)
		if err != nil {
			return nil, err
		}
		population = append(population, ind)
	}
	return population, nil
}

func summarizeGeneration(generation int, population []*Individual) model.GenerationStats {
	stats := model.GenerationStats{Generation: generation}
	if len(population) == 0 {
		return stats
	}

	best := population[0].conflicts
	worst := population[0].conflicts
	total := 0
	distinct := make(map[string]struct{}, len(population))
	for _, ind := range population {
		if ind.conflicts < best {
			best = ind.conflicts
		}
		if ind.conflicts > worst {
			worst = ind.conflicts
		}
		total += ind.conflicts
		distinct[board.Key(ind.positions)] = struct{}{}
	}

	stats.BestConflicts = best
	stats.WorstConflicts = worst
	stats.MeanConflicts = float64(total) / float64(len(population))
	stats.DistinctLayouts = len(distinct)
	return stats
}
