package handlers

import (
	"sync"
	"time"

	"greenhouse-eplus/internal/api/models"
	"greenhouse-eplus/internal/simulation"
)

type runRecord struct {
	id         string
	status     string
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
	err        *models.ErrorDetail
	result     *simulation.Result
}

// runStore keeps every run of this process in memory.
type runStore struct {
	mu   sync.RWMutex
	runs map[string]*runRecord
}

func newRunStore() *runStore {
	return &runStore{runs: map[string]*runRecord{}}
}

func (s *runStore) add(id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = &runRecord{id: id, status: models.StatusQueued, createdAt: now}
}

func (s *runStore) update(id string, fn func(*runRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runs[id]; ok {
		fn(r)
	}
}

func (s *runStore) get(id string) (models.RunResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return models.RunResponse{}, false
	}
	out := models.RunResponse{
		ID:        r.id,
		Status:    r.status,
		CreatedAt: r.createdAt,
		Error:     r.err,
		Result:    r.result,
	}
	if !r.startedAt.IsZero() {
		t := r.startedAt
		out.StartedAt = &t
	}
	if !r.finishedAt.IsZero() {
		t := r.finishedAt
		out.FinishedAt = &t
	}
	return out, true
}
