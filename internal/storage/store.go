// Package storage persists story skeletons and run summaries behind a small
// Store interface with in-memory and SQLite backends.
package storage

import (
	"context"

	"fabula/internal/model"
)

// Store defines persistence operations for skeletons and runs.
type Store interface {
	Init(ctx context.Context) error
	SaveSkeleton(ctx context.Context, record model.SkeletonRecord) error
	GetSkeleton(ctx context.Context, id string) (model.SkeletonRecord, bool, error)
	ListSkeletons(ctx context.Context, runID string) ([]model.SkeletonRecord, error)
	SaveRun(ctx context.Context, record model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
}
