package evo

import (
	"fmt"
	"math/rand"

	"queenside/internal/board"
)

// Individual is one board layout paired with its cached conflict count. Every
// constructor and operator recomputes the count before the individual is
// visible again, so the two fields never disagree.
type Individual struct {
	positions []int
	conflicts int
}

// NewRandomIndividual samples a permutation layout: one queen per column with
// all rows distinct. Diagonal conflicts are still possible.
func NewRandomIndividual(rng *rand.Rand, size int) (*Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid board size: %d", size)
	}
	positions := rng.Perm(size)
	return &Individual{positions: positions, conflicts: board.Conflicts(positions)}, nil
}

// NewIndividual adopts a supplied layout verbatim. Duplicate rows are legal;
// recombined layouts are usually not permutations.
func NewIndividual(positions []int, size int) (*Individual, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid board size: %d", size)
	}
	if len(positions) != size {
		return nil, fmt.Errorf("layout has %d columns, want %d", len(positions), size)
	}
	for col, row := range positions {
		if row < 0 || row >= size {
			return nil, fmt.Errorf("row %d out of range in column %d", row, col)
		}
	}
	copied := append([]int(nil), positions...)
	return &Individual{positions: copied, conflicts: board.Conflicts(copied)}, nil
}

// Positions returns a copy of the layout.
func (ind *Individual) Positions() []int {
	return append([]int(nil), ind.positions...)
}

// Conflicts reports the number of attacking queen pairs in the layout.
func (ind *Individual) Conflicts() int {
	return ind.conflicts
}

// Key returns the canonical string form of the layout.
func (ind *Individual) Key() string {
	return board.Key(ind.positions)
}

func (ind *Individual) String() string {
	return fmt.Sprintf("positions %v conflicts %d", ind.positions, ind.conflicts)
}

func (ind *Individual) equalLayout(other *Individual) bool {
	if len(ind.positions) != len(other.positions) {
		return false
	}
	for i, row := range ind.positions {
		if row != other.positions[i] {
			return false
		}
	}
	return true
}
