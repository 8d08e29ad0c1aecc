package repository

import (
	"context"
	"testing"

	"github.com/organize/tasktracker/internal/submission"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestRepositoriesImplementInterface(t *testing.T) {
	var _ Repository = (*MemoryRepo)(nil)
	var _ Repository = (*MongoRepo)(nil)
}

func TestMemoryRepo(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	a, err := r.Create(ctx, &submission.Submission{TaskID: 1, UserID: 3, GithubLink: "https://github.com/a/b", Status: submission.StatusPending})
	require.NoError(t, err)
	b, _ := r.Create(ctx, &submission.Submission{TaskID: 2, UserID: 3, GithubLink: "https://github.com/c/d", Status: submission.StatusPending})
	_, _ = r.Create(ctx, &submission.Submission{TaskID: 1, UserID: 3, GithubLink: "https://github.com/a/b", Status: submission.StatusPending})
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, 3, r.Len())

	taskOne := int64(1)
	forTask, err := r.List(ctx, Filter{TaskID: &taskOne})
	require.NoError(t, err)
	require.Len(t, forTask, 2)
	require.Equal(t, int64(1), forTask[0].ID)
	require.Equal(t, int64(3), forTask[1].ID)

	b.Status = submission.StatusAccepted
	_, err = r.Update(ctx, b)
	require.NoError(t, err)
	got, _ := r.Get(ctx, b.ID)
	require.Equal(t, submission.StatusAccepted, got.Status)

	require.NoError(t, r.Delete(ctx, a.ID))
	_, err = r.Get(ctx, a.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, a.ID), apperr.ErrNotFound)
	_, err = r.Update(ctx, a)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
