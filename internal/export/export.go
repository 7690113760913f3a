// Package export reads and writes skeleton collections as files. JSON is
// the round-trippable format; CSV is a flat per-skeleton summary for
// spreadsheet triage.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fabula/internal/model"
)

// ToJSON writes the skeletons as an indented JSON array.
func ToJSON(skeletons []*model.StorySkeleton, path string) error {
	payload, err := json.MarshalIndent(skeletons, "", "  ")
	if err != nil {
		return fmt.Errorf("encode skeletons: %w", err)
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var csvHeader = []string{
	"index", "tone", "coherence_score", "engine", "spread_type",
	"beat_count", "atom_count", "theme_tags", "violations",
}

// ToCSV writes a one-row-per-skeleton summary.
func ToCSV(skeletons []*model.StorySkeleton, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, sk := range skeletons {
		row := []string{
			strconv.Itoa(i),
			sk.Tone,
			strconv.FormatFloat(sk.Stats.CoherenceScore, 'f', 4, 64),
			sk.Stats.Engine,
			sk.Stats.SpreadType,
			strconv.Itoa(sk.Stats.BeatCount),
			strconv.Itoa(len(sk.Atoms)),
			strings.Join(sk.ThemeTags, "; "),
			strings.Join(sk.Stats.Violations, "; "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteFile dispatches on the path extension: ".csv" gets the summary
// format, everything else the JSON array.
func WriteFile(skeletons []*model.StorySkeleton, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return ToCSV(skeletons, path)
	}
	return ToJSON(skeletons, path)
}

// LoadSkeletons reads a JSON array of skeletons. A single skeleton object
// is accepted too and returned as a one-element slice.
func LoadSkeletons(path string) ([]*model.StorySkeleton, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var skeletons []*model.StorySkeleton
	if err := json.Unmarshal(payload, &skeletons); err != nil {
		var single model.StorySkeleton
		if singleErr := json.Unmarshal(payload, &single); singleErr == nil {
			return []*model.StorySkeleton{&single}, nil
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return skeletons, nil
}
