package storage

import (
	"context"
	"sort"
	"sync"

	"flusignal/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	analyses  map[string][]model.MutationAnalysis
	matrices  map[string]model.FrequencyMatrix
	tensors   map[string]model.FrequencyTensor
	summaries map[string]model.AggregateSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses = make(map[string][]model.MutationAnalysis)
	s.matrices = make(map[string]model.FrequencyMatrix)
	s.tensors = make(map[string]model.FrequencyTensor)
	s.summaries = make(map[string]model.AggregateSummary)
	return nil
}

func (s *MemoryStore) SaveAnalyses(_ context.Context, runID string, analyses []model.MutationAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.MutationAnalysis, len(analyses))
	copy(copied, analyses)
	s.analyses[runID] = copied
	return nil
}

func (s *MemoryStore) GetAnalyses(_ context.Context, runID string) ([]model.MutationAnalysis, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analyses, ok := s.analyses[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.MutationAnalysis, len(analyses))
	copy(copied, analyses)
	return copied, true, nil
}

func (s *MemoryStore) SaveMatrix(_ context.Context, runID string, matrix model.FrequencyMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrices[runID] = matrix
	return nil
}

func (s *MemoryStore) GetMatrix(_ context.Context, runID string) (model.FrequencyMatrix, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matrix, ok := s.matrices[runID]
	return matrix, ok, nil
}

func (s *MemoryStore) SaveTensor(_ context.Context, runID string, tensor model.FrequencyTensor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tensors[runID] = tensor
	return nil
}

func (s *MemoryStore) GetTensor(_ context.Context, runID string) (model.FrequencyTensor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tensor, ok := s.tensors[runID]
	return tensor, ok, nil
}

func (s *MemoryStore) SaveSummary(_ context.Context, summary model.AggregateSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.RunID] = summary
	return nil
}

func (s *MemoryStore) GetSummary(_ context.Context, runID string) (model.AggregateSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[runID]
	return summary, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for runID := range s.analyses {
		seen[runID] = struct{}{}
	}
	for runID := range s.matrices {
		seen[runID] = struct{}{}
	}
	for runID := range s.tensors {
		seen[runID] = struct{}{}
	}
	for runID := range s.summaries {
		seen[runID] = struct{}{}
	}

	runs := make([]string, 0, len(seen))
	for runID := range seen {
		runs = append(runs, runID)
	}
	sort.Strings(runs)
	return runs, nil
}
