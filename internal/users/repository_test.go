package users

import (
	"context"
	"testing"

	"github.com/organize/tasktracker/internal/models"
	"github.com/organize/tasktracker/pkg/apperr"
	"github.com/stretchr/testify/require"
)

func TestRepositoriesImplementInterface(t *testing.T) {
	var _ UserRepository = (*MongoUserRepository)(nil)
	var _ UserRepository = (*MemoryUserRepository)(nil)
}

func TestMemoryUserRepository(t *testing.T) {
	r := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = r.Create(ctx, &models.User{Name: "B", Email: "a@x.com"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	got, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)

	// returned values are copies
	got.Email = "mutated@x.com"
	again, _ := r.FindByEmail(ctx, "a@x.com")
	require.NotNil(t, again)

	missing, err := r.FindByEmail(ctx, "none@x.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}
