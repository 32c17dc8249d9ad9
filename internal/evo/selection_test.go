package evo

import (
	"math/rand"
	"testing"
)

func TestTruncateSelectionDropsMiddleRanks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	population, err := NewRandomPopulation(rng, 20, 8)
	if err != nil {
		t.Fatalf("new random population: %v", err)
	}
	Rank(population)
	head := append([]*Individual(nil), population[:5]...)
	tail := append([]*Individual(nil), population[15:]...)

	selected, err := TruncateSelection{}.Select(population, 5, 5)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 10 {
		t.Fatalf("expected 10 survivors, got %d", len(selected))
	}
	for i, ind := range head {
		if selected[i] != ind {
			t.Fatalf("best window changed at rank %d", i)
		}
	}
	for i, ind := range tail {
		if selected[5+i] != ind {
			t.Fatalf("worst window changed at rank %d", 5+i)
		}
	}
}

func TestTruncateSelectionRankOrderContract(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	population, err := NewRandomPopulation(rng, 20, 8)
	if err != nil {
		t.Fatalf("new random population: %v", err)
	}
	Rank(population)
	discarded := append([]*Individual(nil), population[5:]...)

	selected, err := TruncateSelection{}.Select(population, 5, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	maxKept := 0
	for _, ind := range selected {
		if ind.Conflicts() > maxKept {
			maxKept = ind.Conflicts()
		}
	}
	for _, ind := range discarded {
		if ind.Conflicts() < maxKept {
			t.Fatalf("discarded member outranks a survivor: %d < %d", ind.Conflicts(), maxKept)
		}
	}
}

func TestTruncateSelectionWindowsCoveringWholePopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	population, err := NewRandomPopulation(rng, 4, 8)
	if err != nil {
		t.Fatalf("new random population: %v", err)
	}
	Rank(population)
	before := append([]*Individual(nil), population...)

	selected, err := TruncateSelection{}.Select(population, 2, 2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 4 {
		t.Fatalf("expected every member kept, got %d", len(selected))
	}
	for i, ind := range before {
		if selected[i] != ind {
			t.Fatalf("member reordered at rank %d", i)
		}
	}
}

func TestDedupSelectionDropsRepeatedLayouts(t *testing.T) {
	solution := newFixedIndividual(t, 0, 4, 7, 5, 2, 6, 1, 3)
	dup1 := newFixedIndividual(t, 0, 1, 2, 3, 4, 5, 6, 7)
	dup2 := newFixedIndividual(t, 0, 1, 2, 3, 4, 5, 6, 7)
	crowded := newFixedIndividual(t, 3, 3, 3, 3, 3, 3, 3, 3)

	population := []*Individual{solution, dup1, dup2, crowded}
	Rank(population)

	selected, err := DedupSelection{}.Select(population, 3, 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 3 {
		t.Fatalf("expected 3 survivors after dedup, got %d", len(selected))
	}
	if selected[0] != solution || selected[1] != dup1 || selected[2] != crowded {
		t.Fatal("expected first occurrence to win and order to be preserved")
	}
}

func TestDedupSelectionLeavesInputIntact(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	population, err := NewRandomPopulation(rng, 6, 8)
	if err != nil {
		t.Fatalf("new random population: %v", err)
	}
	Rank(population)
	before := append([]*Individual(nil), population...)

	if _, err := (DedupSelection{}).Select(population, 2, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	for i, ind := range before {
		if population[i] != ind {
			t.Fatalf("input population mutated at %d", i)
		}
	}
}

func TestSelectionWindowValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	population, err := NewRandomPopulation(rng, 4, 8)
	if err != nil {
		t.Fatalf("new random population: %v", err)
	}
	if _, err := (TruncateSelection{}).Select(population, 3, 2); err == nil {
		t.Fatal("expected error for windows exceeding population")
	}
	if _, err := (DedupSelection{}).Select(population, -1, 2); err == nil {
		t.Fatal("expected error for negative window")
	}
}
