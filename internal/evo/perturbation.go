package evo

import "math/rand"

// PerturbationPolicy decides how many crossovers and mutations one generation
// applies to the selected population, and where they land.
type PerturbationPolicy interface {
	Name() string
	CrossoverPairs(rng *rand.Rand, size int) [][2]int
	MutationTargets(rng *rand.Rand, size int) []int
}

// SparsePerturbation draws a fixed number of uniform pairs and targets each
// generation. Pair indices may coincide, mating a member with itself.
type SparsePerturbation struct {
	Pairs     int
	Mutations int
}

func (SparsePerturbation) Name() string {
	return "sparse"
}

func (p SparsePerturbation) CrossoverPairs(rng *rand.Rand, size int) [][2]int {
	if size <= 0 || p.Pairs <= 0 {
		return nil
	}
	pairs := make([][2]int, 0, p.Pairs)
	for i := 0; i < p.Pairs; i++ {
		pairs = append(pairs, [2]int{rng.Intn(size), rng.Intn(size)})
	}
	return pairs
}

func (p SparsePerturbation) MutationTargets(rng *rand.Rand, size int) []int {
	if size <= 0 || p.Mutations <= 0 {
		return nil
	}
	targets := make([]int, 0, p.Mutations)
	for i := 0; i < p.Mutations; i++ {
		targets = append(targets, rng.Intn(size))
	}
	return targets
}

// SweepPerturbation recombines every adjacent slot pair and mutates every
// member.
type SweepPerturbation struct{}

func (SweepPerturbation) Name() string {
	return "sweep"
}

func (SweepPerturbation) CrossoverPairs(_ *rand.Rand, size int) [][2]int {
	pairs := make([][2]int, 0, size/2)
	for i := 0; i+1 < size; i += 2 {
		pairs = append(pairs, [2]int{i, i + 1})
	}
	return pairs
}

func (SweepPerturbation) MutationTargets(_ *rand.Rand, size int) []int {
	targets := make([]int, size)
	for i := range targets {
		targets[i] = i
	}
	return targets
}
