package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/organize/tasktracker/internal/task"
	"github.com/organize/tasktracker/pkg/apperr"
)

// MemoryRepo keeps tasks in process. List returns tasks in id order.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*task.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*task.Task)}
}

func (m *MemoryRepo) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := t.Clone()
	stored.ID = m.nextID
	m.store[stored.ID] = stored
	return stored.Clone(), nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int64) (*task.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("task not found with id %d", id)
	}
	return t.Clone(), nil
}

func (m *MemoryRepo) List(ctx context.Context, f Filter) ([]*task.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*task.Task, 0, len(m.store))
	for _, t := range m.store {
		if f.matches(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, t *task.Task) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[t.ID]; !ok {
		return nil, apperr.NotFound("task not found with id %d", t.ID)
	}
	m.store[t.ID] = t.Clone()
	return t.Clone(), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return apperr.NotFound("task not found with id %d", id)
	}
	delete(m.store, id)
	return nil
}
