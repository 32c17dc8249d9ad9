package board

import (
	"strconv"
	"strings"
)

// DefaultSize is the classic chess board dimension.
const DefaultSize = 8

// Layouts are row sequences indexed by column: positions[col] is the row of
// the queen placed in that column. Columns never collide by construction, so
// two queens attack only when they share a row or a diagonal.

// Conflicts counts attacking queen pairs in a layout. Every unordered column
// pair contributes one conflict when both queens sit on the same row or the
// same diagonal. Pure and deterministic; duplicate rows are counted normally.
func Conflicts(positions []int) int {
	total := 0
	for c1 := 0; c1 < len(positions); c1++ {
		r1 := positions[c1]
		for c2 := c1 + 1; c2 < len(positions); c2++ {
			r2 := positions[c2]
			if r1 == r2 || abs(c1-c2) == abs(r1-r2) {
				total++
			}
		}
	}
	return total
}

// Key returns the canonical string form of a layout, used for solution-set
// membership.
func Key(positions []int) string {
	var b strings.Builder
	for i, row := range positions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(row))
	}
	return b.String()
}

// SolutionCount reports the published number of distinct n-queens solutions.
// Only the 8x8 total is asserted; the counts are looked up, never derived.
func SolutionCount(n int) (int, bool) {
	if n == DefaultSize {
		return 92, true
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
