package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musiclib/internal/auth"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Registrar creates accounts.
type Registrar interface {
	Create(ctx context.Context, in models.Credentials) (models.User, error)
}

// Tokens issues and verifies token pairs.
type Tokens interface {
	Issue(userID, login string) (auth.TokenPair, error)
	ParseRefresh(raw string) (*auth.Claims, error)
}

// Service covers signup, login and token refresh.
type Service interface {
	Signup(ctx context.Context, in models.Credentials) (models.User, error)
	Login(ctx context.Context, in models.Credentials) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

type service struct {
	users    store.Users
	registry Registrar
	tokens   Tokens
}

// New wires a session Service.
func New(users store.Users, registry Registrar, tokens Tokens) Service {
	return &service{users: users, registry: registry, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, in models.Credentials) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return s.registry.Create(ctx, in)
}

// Login checks the credentials and issues a token pair. Unknown logins and
// wrong passwords fail the same way.
func (s *service) Login(ctx context.Context, in models.Credentials) (auth.TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return auth.TokenPair{}, err
	}
	if err := in.Validate(); err != nil {
		return auth.TokenPair{}, err
	}

	login := strings.TrimSpace(*in.Login)
	user, err := s.users.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			auth.BurnPasswordCheck(*in.Password)
			return auth.TokenPair{}, fmt.Errorf("invalid login or password: %w", models.ErrForbidden)
		}
		return auth.TokenPair{}, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, *in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return auth.TokenPair{}, fmt.Errorf("invalid login or password: %w", models.ErrForbidden)
		}
		return auth.TokenPair{}, err
	}

	return s.tokens.Issue(user.ID, user.Login)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *service) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return auth.TokenPair{}, err
	}
	if strings.TrimSpace(refreshToken) == "" {
		return auth.TokenPair{}, fmt.Errorf("refresh token is required: %w", models.ErrUnauthorized)
	}

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("refresh token rejected: %w", models.ErrForbidden)
	}

	user, err := s.users.User(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return auth.TokenPair{}, fmt.Errorf("refresh token owner is gone: %w", models.ErrForbidden)
		}
		return auth.TokenPair{}, err
	}

	return s.tokens.Issue(user.ID, user.Login)
}
