package storage

import (
	"context"
	"testing"

	"fabula/internal/model"
)

func skeletonRecord(id, runID string) model.SkeletonRecord {
	return model.SkeletonRecord{
		VersionedRecord: Stamp(),
		ID:              id,
		RunID:           runID,
		Skeleton: model.StorySkeleton{
			Atoms: []model.StoryAtom{
				{Name: "the cartographer", Category: model.CategoryAgent, Source: model.SourceCatalogue},
			},
			Beats: []string{"OPENING", "RESOLUTION"},
			Tone:  "enigmatic",
			Stats: model.GenerationStats{Engine: "tarot_spread", CoherenceScore: 0.65},
		},
	}
}

func TestMemoryStoreSkeletonRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := skeletonRecord("sk-1", "run-1")
	if err := store.SaveSkeleton(ctx, input); err != nil {
		t.Fatalf("save skeleton: %v", err)
	}

	output, ok, err := store.GetSkeleton(ctx, "sk-1")
	if err != nil {
		t.Fatalf("get skeleton: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted skeleton")
	}
	if output.Skeleton.Tone != "enigmatic" || len(output.Skeleton.Atoms) != 1 {
		t.Fatalf("unexpected skeleton: %+v", output)
	}
}

func TestMemoryStoreGetSkeletonMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetSkeleton(ctx, "missing")
	if err != nil {
		t.Fatalf("get skeleton: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestMemoryStoreListSkeletonsByRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, record := range []model.SkeletonRecord{
		skeletonRecord("sk-2", "run-1"),
		skeletonRecord("sk-1", "run-1"),
		skeletonRecord("sk-3", "run-2"),
	} {
		if err := store.SaveSkeleton(ctx, record); err != nil {
			t.Fatalf("save skeleton: %v", err)
		}
	}

	records, err := store.ListSkeletons(ctx, "run-1")
	if err != nil {
		t.Fatalf("list skeletons: %v", err)
	}
	if len(records) != 2 || records[0].ID != "sk-1" || records[1].ID != "sk-2" {
		t.Fatalf("unexpected records: %+v", records)
	}

	all, err := store.ListSkeletons(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              "run-1",
		Config:          model.DefaultGenerationConfig(),
		GenerationsRun:  5,
		BestSkeletonID:  "sk-1",
		BestScore:       0.82,
		SkeletonCount:   50,
	}
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if output.BestScore != 0.82 || output.GenerationsRun != 5 {
		t.Fatalf("unexpected run: %+v", output)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestMemoryStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []float64{0.1, 0.2, 0.3}
	if err := store.SaveFitnessHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	output, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted fitness history")
	}
	if len(output) != len(input) || output[2] != input[2] {
		t.Fatalf("unexpected history: %+v", output)
	}

	// The stored copy is independent of the caller's slice.
	input[0] = 9.9
	output, _, _ = store.GetFitnessHistory(ctx, "run-1")
	if output[0] != 0.1 {
		t.Fatalf("stored history aliased caller slice: %v", output)
	}
}
