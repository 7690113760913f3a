package storage

import (
	"context"
	"sort"
	"sync"

	"fabula/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	skeletons map[string]model.SkeletonRecord
	runs      map[string]model.RunRecord
	history   map[string][]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skeletons = make(map[string]model.SkeletonRecord)
	s.runs = make(map[string]model.RunRecord)
	s.history = make(map[string][]float64)
	return nil
}

func (s *MemoryStore) SaveSkeleton(_ context.Context, record model.SkeletonRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skeletons[record.ID] = record
	return nil
}

func (s *MemoryStore) GetSkeleton(_ context.Context, id string) (model.SkeletonRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.skeletons[id]
	return record, ok, nil
}

func (s *MemoryStore) ListSkeletons(_ context.Context, runID string) ([]model.SkeletonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.SkeletonRecord, 0, len(s.skeletons))
	for _, record := range s.skeletons {
		if runID == "" || record.RunID == runID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[record.ID] = record
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.runs[id]
	return record, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.RunRecord, 0, len(s.runs))
	for _, record := range s.runs {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}
