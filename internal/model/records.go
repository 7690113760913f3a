package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SkeletonRecord is a persisted story skeleton.
type SkeletonRecord struct {
	VersionedRecord
	ID        string        `json:"id"`
	RunID     string        `json:"run_id,omitempty"`
	Skeleton  StorySkeleton `json:"skeleton"`
	CreatedAt time.Time     `json:"created_at"`
}

// RunRecord is a persisted generation or evolution run. Fitness history is
// stored separately, keyed by the run ID.
type RunRecord struct {
	VersionedRecord
	ID             string           `json:"id"`
	Config         GenerationConfig `json:"config"`
	GenerationsRun int              `json:"generations_run"`
	BestSkeletonID string           `json:"best_skeleton_id,omitempty"`
	BestScore      float64          `json:"best_score"`
	SkeletonCount  int              `json:"skeleton_count"`
	CreatedAt      time.Time        `json:"created_at"`
}
