package evo

import "fmt"

// SelectionPolicy reduces a rank-sorted population to survivors drawn from
// the keepBest head and the keepWorst tail. Input order must be ascending by
// conflict count.
type SelectionPolicy interface {
	Name() string
	Select(population []*Individual, keepBest, keepWorst int) ([]*Individual, error)
}

// TruncateSelection drops the middle ranks in place. Survivors keep their
// rank order, and a population no larger than the two windows combined passes
// through untouched.
type TruncateSelection struct{}

func (TruncateSelection) Name() string {
	return "truncate"
}

func (TruncateSelection) Select(population []*Individual, keepBest, keepWorst int) ([]*Individual, error) {
	if err := validateWindows(len(population), keepBest, keepWorst); err != nil {
		return nil, err
	}
	cut := len(population) - keepWorst
	if keepBest >= cut {
		return population, nil
	}
	return append(population[:keepBest], population[cut:]...), nil
}

// DedupSelection copies the two windows into a fresh slice and drops later
// survivors that repeat an earlier survivor's exact layout. The input
// population is left untouched.
type DedupSelection struct{}

func (DedupSelection) Name() string {
	return "dedup"
}

func (DedupSelection) Select(population []*Individual, keepBest, keepWorst int) ([]*Individual, error) {
	if err := validateWindows(len(population), keepBest, keepWorst); err != nil {
		return nil, err
	}
	picked := make([]*Individual, 0, keepBest+keepWorst)
	picked = append(picked, population[:keepBest]...)
	picked = append(picked, population[len(population)-keepWorst:]...)

	survivors := make([]*Individual, 0, len(picked))
	for _, candidate := range picked {
		duplicate := false
		for _, kept := range survivors {
			if kept.equalLayout(candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			survivors = append(survivors, candidate)
		}
	}
	return survivors, nil
}

func validateWindows(size, keepBest, keepWorst int) error {
	if keepBest < 0 || keepWorst < 0 {
		return fmt.Errorf("invalid selection windows: best=%d worst=%d", keepBest, keepWorst)
	}
	if keepBest+keepWorst > size {
		return fmt.Errorf("selection windows exceed population size %d: best=%d worst=%d", size, keepBest, keepWorst)
	}
	return nil
}
