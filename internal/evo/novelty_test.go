package evo

import (
	"math"
	"testing"

	"fabula/internal/model"
)

func namedSkeleton(names ...string) *model.StorySkeleton {
	sk := &model.StorySkeleton{}
	for _, name := range names {
		sk.Atoms = append(sk.Atoms, model.StoryAtom{Name: name, Category: model.CategoryObject})
	}
	return sk
}

func TestNoveltyEmptyPopulation(t *testing.T) {
	eng := testEngine(t)
	if got := eng.CalculateNovelty(namedSkeleton("a"), nil); got != 1.0 {
		t.Fatalf("novelty = %v, want 1.0", got)
	}
}

func TestNoveltyEmptySkeleton(t *testing.T) {
	eng := testEngine(t)
	population := []*model.StorySkeleton{namedSkeleton("a")}
	if got := eng.CalculateNovelty(namedSkeleton(), population); got != 0.0 {
		t.Fatalf("novelty = %v, want 0.0", got)
	}
}

func TestNoveltyIdenticalSets(t *testing.T) {
	eng := testEngine(t)
	population := []*model.StorySkeleton{namedSkeleton("a", "b")}
	if got := eng.CalculateNovelty(namedSkeleton("a", "b"), population); got != 0.0 {
		t.Fatalf("novelty = %v, want 0.0", got)
	}
}

func TestNoveltyDisjointSets(t *testing.T) {
	eng := testEngine(t)
	population := []*model.StorySkeleton{namedSkeleton("x", "y")}
	if got := eng.CalculateNovelty(namedSkeleton("a", "b"), population); got != 1.0 {
		t.Fatalf("novelty = %v, want 1.0", got)
	}
}

func TestNoveltyPartialOverlap(t *testing.T) {
	eng := testEngine(t)
	// Overlap {a} of union {a, b, c}: distance 1 - 1/3.
	population := []*model.StorySkeleton{namedSkeleton("a", "c")}
	got := eng.CalculateNovelty(namedSkeleton("a", "b"), population)
	want := 1.0 - 1.0/3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("novelty = %v, want %v", got, want)
	}
}

func TestNoveltyAveragesOverPopulation(t *testing.T) {
	eng := testEngine(t)
	population := []*model.StorySkeleton{
		namedSkeleton("a", "b"), // distance 0
		namedSkeleton("x", "y"), // distance 1
	}
	got := eng.CalculateNovelty(namedSkeleton("a", "b"), population)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("novelty = %v, want 0.5", got)
	}
}

func TestNoveltyDuplicateAtomNamesCollapse(t *testing.T) {
	eng := testEngine(t)
	population := []*model.StorySkeleton{namedSkeleton("a")}
	if got := eng.CalculateNovelty(namedSkeleton("a", "a", "a"), population); got != 0.0 {
		t.Fatalf("novelty = %v, want 0.0", got)
	}
}
