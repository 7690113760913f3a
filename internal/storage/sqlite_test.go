//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fabula/internal/model"
)

func TestSQLiteStoreSkeletonAndRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fabula.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	skeleton := skeletonRecord("sk-1", "run-1")
	if err := store.SaveSkeleton(ctx, skeleton); err != nil {
		t.Fatalf("save skeleton: %v", err)
	}

	loaded, ok, err := store.GetSkeleton(ctx, "sk-1")
	if err != nil {
		t.Fatalf("get skeleton: %v", err)
	}
	if !ok {
		t.Fatal("expected skeleton sk-1")
	}
	if loaded.Skeleton.Tone != skeleton.Skeleton.Tone || len(loaded.Skeleton.Atoms) != len(skeleton.Skeleton.Atoms) {
		t.Fatalf("unexpected skeleton loaded: %+v", loaded)
	}

	run := model.RunRecord{
		VersionedRecord: Stamp(),
		ID:              "run-1",
		Config:          model.DefaultGenerationConfig(),
		GenerationsRun:  5,
		BestSkeletonID:  "sk-1",
		BestScore:       0.8,
		SkeletonCount:   1,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loadedRun, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected run run-1")
	}
	if loadedRun.BestSkeletonID != "sk-1" || loadedRun.BestScore != 0.8 {
		t.Fatalf("unexpected run loaded: %+v", loadedRun)
	}
}

func TestSQLiteStoreListSkeletonsByRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fabula.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

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
}

func TestSQLiteStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fabula.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	input := []float64{0.2, 0.4, 0.6}
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
	if len(output) != 3 || output[2] != 0.6 {
		t.Fatalf("unexpected history: %+v", output)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "fabula.db"))
	if err := store.SaveFitnessHistory(context.Background(), "run-1", nil); err == nil {
		t.Fatal("expected error before init")
	}
}
