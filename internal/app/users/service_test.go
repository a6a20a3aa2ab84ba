package users

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musiclib/internal/auth"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory())

	user, err := svc.Create(ctx, models.Credentials{Login: ptr(" demo "), Password: ptr("secret")})
	require.NoError(t, err)
	assert.Equal(t, "demo", user.Login)
	assert.Equal(t, 1, user.Version)
	assert.NoError(t, auth.VerifyPassword(user.PasswordHash, "secret"))

	_, err = svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr("other")})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.Create(ctx, models.Credentials{Login: ptr("nopass")})
	assert.ErrorIs(t, err, models.ErrMissingField)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory())
	user, err := svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr("old")})
	require.NoError(t, err)

	_, err = svc.UpdatePassword(ctx, user.ID, models.PasswordChange{OldPassword: ptr("wrong"), NewPassword: ptr("new")})
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := svc.UpdatePassword(ctx, user.ID, models.PasswordChange{OldPassword: ptr("old"), NewPassword: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(user.UpdatedAt))
	assert.NoError(t, auth.VerifyPassword(updated.PasswordHash, "new"))

	_, err = svc.UpdatePassword(ctx, models.NewID(), models.PasswordChange{OldPassword: ptr("a"), NewPassword: ptr("b")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdatePassword(ctx, user.ID, models.PasswordChange{NewPassword: ptr("b")})
	assert.ErrorIs(t, err, models.ErrMissingField)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory())
	user, err := svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr("pw")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), models.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), models.ErrInvalidArgument)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentPasswordChangesKeepEveryVersion(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory())
	user, err := svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr("same")})
	require.NoError(t, err)

	const writers = 4
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UpdatePassword(ctx, user.ID, models.PasswordChange{OldPassword: ptr("same"), NewPassword: ptr("same")})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1+writers, got.Version)
}

func TestPasswordTooLongIsInvalidArgument(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemory())
	long := strings.Repeat("x", 100)

	_, err := svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr(long)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	user, err := svc.Create(ctx, models.Credentials{Login: ptr("demo"), Password: ptr("short")})
	require.NoError(t, err)
	_, err = svc.UpdatePassword(ctx, user.ID, models.PasswordChange{OldPassword: ptr("short"), NewPassword: ptr(long)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
