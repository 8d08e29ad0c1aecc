package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/organize/tasktracker/internal/submission"
	"github.com/organize/tasktracker/pkg/apperr"
)

// MemoryRepo keeps submissions in process, listed in id order.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]submission.Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]submission.Submission)}
}

func (m *MemoryRepo) Create(ctx context.Context, s *submission.Submission) (*submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *s
	cp.ID = m.nextID
	m.store[cp.ID] = cp
	return &cp, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("submission not found with id %d", id)
	}
	return &s, nil
}

func (m *MemoryRepo) List(ctx context.Context, f Filter) ([]*submission.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*submission.Submission, 0, len(m.store))
	for _, s := range m.store {
		if f.TaskID != nil && s.TaskID != *f.TaskID {
			continue
		}
		cp := s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, s *submission.Submission) (*submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[s.ID]; !ok {
		return nil, apperr.NotFound("submission not found with id %d", s.ID)
	}
	m.store[s.ID] = *s
	cp := *s
	return &cp, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return apperr.NotFound("submission not found with id %d", id)
	}
	delete(m.store, id)
	return nil
}

// Len reports how many submissions are stored.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
