package evo

// RecombinationPolicy applies one crossover to the population slots i and j.
type RecombinationPolicy interface {
	Name() string
	Recombine(population []*Individual, i, j int)
}

// SwapRecombination rewrites both parents in place.
type SwapRecombination struct{}

func (SwapRecombination) Name() string {
	return "swap"
}

func (SwapRecombination) Recombine(population []*Individual, i, j int) {
	CrossoverInPlace(population[i], population[j])
}

// CloneRecombination replaces both slots with fresh children and leaves the
// parent individuals intact for any caller still holding them.
type CloneRecombination struct{}

func (CloneRecombination) Name() string {
	return "clone"
}

func (CloneRecombination) Recombine(population []*Individual, i, j int) {
	first, second := CrossoverNew(population[i], population[j])
	population[i] = first
	population[j] = second
}
