// Package stats writes per-run artifact directories and maintains a JSON
// run index, so finished runs can be inspected and compared without a
// database.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fabula/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig is the flat, file-friendly record of how a run was invoked.
type RunConfig struct {
	RunID          string   `json:"run_id"`
	Seed           int64    `json:"seed"`
	Skeletons      int      `json:"skeletons"`
	SpreadTypes    []string `json:"spread_types,omitempty"`
	MinBeats       int      `json:"min_beats"`
	MaxBeats       int      `json:"max_beats"`
	Workers        int      `json:"workers"`
	Evolve         bool     `json:"evolve"`
	Generations    int      `json:"generations,omitempty"`
	MutationRate   float64  `json:"mutation_rate,omitempty"`
	CrossoverRate  float64  `json:"crossover_rate,omitempty"`
	WildCardRate   float64  `json:"wild_card_rate,omitempty"`
	TournamentSize int      `json:"tournament_size,omitempty"`
	Selection      string   `json:"selection,omitempty"`
}

// TopSkeleton pairs a ranked skeleton with its score for the artifact file.
type TopSkeleton struct {
	Rank     int                 `json:"rank"`
	Score    float64             `json:"score"`
	Skeleton model.StorySkeleton `json:"skeleton"`
}

// RunArtifacts is everything written into a run's artifact directory.
type RunArtifacts struct {
	Config         RunConfig     `json:"config"`
	FitnessHistory []float64     `json:"fitness_history"`
	FinalBestScore float64       `json:"final_best_score"`
	TopSkeletons   []TopSkeleton `json:"top_skeletons"`
}

// RunIndexEntry is one line of the run index, newest first when listed.
type RunIndexEntry struct {
	RunID          string  `json:"run_id"`
	Seed           int64   `json:"seed"`
	Skeletons      int     `json:"skeletons"`
	Generations    int     `json:"generations"`
	FinalBestScore float64 `json:"final_best_score"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes the run's artifact files under
// baseDir/<run-id>/ and returns the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	history := map[string]any{
		"fitness_history":  artifacts.FitnessHistory,
		"final_best_score": artifacts.FinalBestScore,
	}
	if err := writeJSON(filepath.Join(runDir, "fitness_history.json"), history); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "top_skeletons.json"), artifacts.TopSkeletons); err != nil {
		return "", err
	}

	return runDir, nil
}

// AppendRunIndex inserts or replaces the entry for its run ID.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the run index sorted newest first. A missing index
// file is an empty index, not an error.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
