package board

import "testing"

func TestConflictsMainDiagonal(t *testing.T) {
	// Only consecutive columns share the unit diagonal distance, so the
	// identity layout has exactly N-1 conflicts, not one per pair.
	if got := Conflicts([]int{0, 1, 2, 3, 4, 5, 6, 7}); got != 7 {
		t.Fatalf("conflicts on main diagonal = %d, want 7", got)
	}
}

func TestConflictsKnownSolution(t *testing.T) {
	if got := Conflicts([]int{0, 4, 7, 5, 2, 6, 1, 3}); got != 0 {
		t.Fatalf("conflicts of known solution = %d, want 0", got)
	}
}

func TestConflictsCountsDuplicateRows(t *testing.T) {
	cases := map[string]struct {
		positions []int
		want      int
	}{
		"pair on one row":   {[]int{0, 0}, 1},
		"triple on one row": {[]int{5, 5, 5}, 3},
		"row plus diagonal": {[]int{3, 3, 5}, 2},
		"single queen":      {[]int{4}, 0},
		"empty":             {nil, 0},
	}
	for name, tc := range cases {
		if got := Conflicts(tc.positions); got != tc.want {
			t.Fatalf("%s: conflicts(%v)=%d want=%d", name, tc.positions, got, tc.want)
		}
	}
}

func TestConflictFreeSurvivesTransposition(t *testing.T) {
	// Swapping the row and column roles of a permutation layout reflects the
	// board across its main diagonal, which maps solutions to solutions.
	solutions := [][]int{
		{0, 4, 7, 5, 2, 6, 1, 3},
		{3, 1, 6, 2, 5, 7, 4, 0},
	}
	for _, solution := range solutions {
		if got := Conflicts(solution); got != 0 {
			t.Fatalf("conflicts(%v)=%d want=0", solution, got)
		}
		transposed := make([]int, len(solution))
		for col, row := range solution {
			transposed[row] = col
		}
		if got := Conflicts(transposed); got != 0 {
			t.Fatalf("conflicts of transposed %v = %d, want 0", transposed, got)
		}
	}
}

func TestKey(t *testing.T) {
	cases := map[string][]int{
		"0,4,7,5,2,6,1,3": {0, 4, 7, 5, 2, 6, 1, 3},
		"0,0":             {0, 0},
		"12":              {12},
		"":                nil,
	}
	for want, positions := range cases {
		if got := Key(positions); got != want {
			t.Fatalf("key(%v)=%q want=%q", positions, got, want)
		}
	}
}

func TestSolutionCount(t *testing.T) {
	if count, ok := SolutionCount(8); !ok || count != 92 {
		t.Fatalf("solution count for 8 = (%d, %t), want (92, true)", count, ok)
	}
	if _, ok := SolutionCount(6); ok {
		t.Fatal("expected no asserted solution count for 6x6 boards")
	}
}
