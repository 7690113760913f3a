package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fabula/internal/model"
)

func sampleArtifacts(runID string) RunArtifacts {
	return RunArtifacts{
		Config: RunConfig{
			RunID:     runID,
			Seed:      42,
			Skeletons: 8,
			MinBeats:  5,
			MaxBeats:  12,
			Workers:   2,
		},
		FitnessHistory: []float64{0.61, 0.68, 0.72},
		FinalBestScore: 0.72,
		TopSkeletons: []TopSkeleton{
			{
				Rank:  1,
				Score: 0.72,
				Skeleton: model.StorySkeleton{
					Beats: []string{"OPENING", "CRISIS", "RESOLUTION"},
					Tone:  "enigmatic",
				},
			},
		},
	}
}

func TestWriteRunArtifactsCreatesFiles(t *testing.T) {
	baseDir := t.TempDir()

	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if runDir != filepath.Join(baseDir, "run-1") {
		t.Fatalf("unexpected run dir: %s", runDir)
	}

	for _, file := range []string{"config.json", "fitness_history.json", "top_skeletons.json"} {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected artifact %s: %v", file, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "config.json"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var config RunConfig
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if config.RunID != "run-1" || config.Seed != 42 || config.Skeletons != 8 {
		t.Fatalf("config round trip mismatch: %+v", config)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	artifacts := sampleArtifacts("")
	if _, err := WriteRunArtifacts(t.TempDir(), artifacts); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	baseDir := t.TempDir()

	first := RunIndexEntry{RunID: "run-1", Seed: 1, Skeletons: 4, FinalBestScore: 0.5, CreatedAtUTC: "2026-01-01T10:00:00Z"}
	second := RunIndexEntry{RunID: "run-2", Seed: 2, Skeletons: 4, FinalBestScore: 0.6, CreatedAtUTC: "2026-01-02T10:00:00Z"}

	if err := AppendRunIndex(baseDir, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := AppendRunIndex(baseDir, second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-2" || entries[1].RunID != "run-1" {
		t.Fatalf("entries not sorted newest first: %+v", entries)
	}
}

func TestRunIndexReplacesExistingRun(t *testing.T) {
	baseDir := t.TempDir()

	entry := RunIndexEntry{RunID: "run-1", FinalBestScore: 0.5, CreatedAtUTC: "2026-01-01T10:00:00Z"}
	if err := AppendRunIndex(baseDir, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	entry.FinalBestScore = 0.9
	if err := AppendRunIndex(baseDir, entry); err != nil {
		t.Fatalf("replace: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(entries))
	}
	if entries[0].FinalBestScore != 0.9 {
		t.Fatalf("entry not replaced: %+v", entries[0])
	}
}

func TestListRunIndexMissingFile(t *testing.T) {
	entries, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list missing index: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(entries))
	}
}

func TestRunIndexTieBreaksOnInsertionOrder(t *testing.T) {
	baseDir := t.TempDir()
	ts := "2026-01-01T10:00:00Z"

	for _, id := range []string{"run-a", "run-b"} {
		if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: id, CreatedAtUTC: ts}); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if entries[0].RunID != "run-b" {
		t.Fatalf("expected later entry first on equal timestamps, got %s", entries[0].RunID)
	}
}
