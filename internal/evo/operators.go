package evo

import (
	"math/rand"

	"queenside/internal/board"
)

// CrossoverInPlace swaps the asymmetric half segments of two layouts: the
// first half of a is overwritten with the last half-sized segment of b, and
// that segment of b with the original first half of a. Both conflict caches
// are refreshed before returning. With a == b the call swaps the layout's own
// halves.
func CrossoverInPlace(a, b *Individual) {
	half := len(a.positions) / 2
	tmp := append([]int(nil), a.positions[:half]...)
	copy(a.positions[:half], b.positions[len(b.positions)-half:])
	copy(b.positions[len(b.positions)-half:], tmp)
	a.conflicts = board.Conflicts(a.positions)
	b.conflicts = board.Conflicts(b.positions)
}

// CrossoverNew combines the same segments into two fresh children without
// touching the parents: the first half of a joined to the rest of b, and the
// first half of b joined to the rest of a.
func CrossoverNew(a, b *Individual) (*Individual, *Individual) {
	half := len(a.positions) / 2

	first := make([]int, 0, len(b.positions))
	first = append(first, a.positions[:half]...)
	first = append(first, b.positions[half:]...)

	second := make([]int, 0, len(a.positions))
	second = append(second, b.positions[:half]...)
	second = append(second, a.positions[half:]...)

	return &Individual{positions: first, conflicts: board.Conflicts(first)},
		&Individual{positions: second, conflicts: board.Conflicts(second)}
}

// Mutate overwrites one uniformly drawn column with a uniformly drawn row and
// refreshes the conflict cache. The new row may equal the old one, so the
// layout is not guaranteed to change.
func Mutate(ind *Individual, rng *rand.Rand) {
	n := len(ind.positions)
	ind.positions[rng.Intn(n)] = rng.Intn(n)
	ind.conflicts = board.Conflicts(ind.positions)
}
