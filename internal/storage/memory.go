package storage

import (
	"context"
	"sort"
	"sync"

	"queenside/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	trials      map[string][]model.TrialRecord
	trialStats  map[string]map[int][]model.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.trials = make(map[string][]model.TrialRecord)
	s.trialStats = make(map[string]map[int][]model.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUTC == runs[j].CreatedAtUTC {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAtUTC > runs[j].CreatedAtUTC
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) SaveTrial(_ context.Context, trial model.TrialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.trials[trial.RunID]
	for i, item := range existing {
		if item.Trial == trial.Trial {
			existing[i] = trial
			return nil
		}
	}
	s.trials[trial.RunID] = append(existing, trial)
	return nil
}

func (s *MemoryStore) ListTrials(_ context.Context, runID string) ([]model.TrialRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trials, ok := s.trials[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.TrialRecord, len(trials))
	copy(copied, trials)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Trial < copied[j].Trial })
	return copied, true, nil
}

func (s *MemoryStore) SaveTrialStats(_ context.Context, runID string, trial int, stats []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTrial := s.trialStats[runID]
	if byTrial == nil {
		byTrial = make(map[int][]model.GenerationStats)
		s.trialStats[runID] = byTrial
	}
	copied := make([]model.GenerationStats, len(stats))
	copy(copied, stats)
	byTrial[trial] = copied
	return nil
}

func (s *MemoryStore) GetTrialStats(_ context.Context, runID string, trial int) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTrial, ok := s.trialStats[runID]
	if !ok {
		return nil, false, nil
	}
	stats, ok := byTrial[trial]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationStats, len(stats))
	copy(copied, stats)
	return copied, true, nil
}
