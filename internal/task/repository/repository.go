package repository

import (
	"context"

	"github.com/organize/tasktracker/internal/task"
)

// Filter restricts List by exact field match. Nil fields do not filter.
type Filter struct {
	Status         *task.Status
	AssignedUserID *int64
}

func (f Filter) matches(t *task.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.AssignedUserID != nil && (t.AssignedUserID == nil || *t.AssignedUserID != *f.AssignedUserID) {
		return false
	}
	return true
}

// Repository persists tasks. Get, Update and Delete fail with apperr.ErrNotFound
// for unknown ids.
type Repository interface {
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	Get(ctx context.Context, id int64) (*task.Task, error)
	List(ctx context.Context, f Filter) ([]*task.Task, error)
	Update(ctx context.Context, t *task.Task) (*task.Task, error)
	Delete(ctx context.Context, id int64) error
}
