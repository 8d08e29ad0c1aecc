package users

import (
	"context"
	"sort"
	"sync"

	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/pkg/apperr"
)

// MemoryUserRepository is the in-process store used when MongoDB is not configured
// and in tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: map[int64]*models.User{}}
}

func (m *MemoryUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, apperr.Conflict("user with email %s already exists", u.Email)
		}
	}
	m.nextID++
	stored := *u
	stored.ID = m.nextID
	m.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MemoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.User, 0, len(m.byID))
	for _, u := range m.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
