package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musiclib/internal/auth"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	store.Users
	Atomically(ctx context.Context, fn func(store.Repository) error) error
}

// Service exposes user-related workflows.
type Service interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, in models.Credentials) (models.User, error)
	UpdatePassword(ctx context.Context, id string, change models.PasswordChange) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *service) Get(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.User{}, err
	}
	return s.store.User(ctx, id)
}

// Create registers a user. The login must be unused.
func (s *service) Create(ctx context.Context, in models.Credentials) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           models.NewID(),
		Login:        strings.TrimSpace(*in.Login),
		PasswordHash: hash,
		Version:      1,
	}
	created, err := s.store.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.User{}, fmt.Errorf("login %q is taken: %w", user.Login, models.ErrConflict)
		}
		return models.User{}, err
	}
	return created, nil
}

// UpdatePassword replaces the password after checking the old one and bumps
// the version.
func (s *service) UpdatePassword(ctx context.Context, id string, change models.PasswordChange) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.User{}, err
	}
	if err := change.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(*change.NewPassword)
	if err != nil {
		return models.User{}, err
	}

	var updated models.User
	err = s.store.Atomically(ctx, func(r store.Repository) error {
		user, err := r.LockUser(ctx, id)
		if err != nil {
			return err
		}

		if err := auth.VerifyPassword(user.PasswordHash, *change.OldPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return fmt.Errorf("old password is wrong: %w", models.ErrForbidden)
			}
			return err
		}

		user.PasswordHash = hash
		user.Version++
		updated, err = r.UpdateUser(ctx, user)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := models.ValidateID(id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}
