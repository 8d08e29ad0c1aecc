package repository

import (
	"context"

	"github.com/organize/tasktracker/internal/submission"
)

// Filter restricts List. A nil TaskID lists every submission.
type Filter struct {
	TaskID *int64
}

// Repository persists submissions. Get, Update and Delete fail with
// apperr.ErrNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, s *submission.Submission) (*submission.Submission, error)
	Get(ctx context.Context, id int64) (*submission.Submission, error)
	List(ctx context.Context, f Filter) ([]*submission.Submission, error)
	Update(ctx context.Context, s *submission.Submission) (*submission.Submission, error)
	Delete(ctx context.Context, id int64) error
}
