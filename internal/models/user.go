package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// User is an account able to sign in to the API.
type User struct {
	ID           string    `json:"id" db:"id"`
	Login        string    `json:"login" db:"login"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Version      int       `json:"version" db:"version"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// MarshalJSON renders timestamps as Unix milliseconds and never includes the
// password hash.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Login     string `json:"login"`
		Version   int    `json:"version"`
		CreatedAt int64  `json:"createdAt"`
		UpdatedAt int64  `json:"updatedAt"`
	}{
		ID:        u.ID,
		Login:     u.Login,
		Version:   u.Version,
		CreatedAt: u.CreatedAt.UnixMilli(),
		UpdatedAt: u.UpdatedAt.UnixMilli(),
	})
}

// Credentials is the signup/login payload.
type Credentials struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
}

// Validate requires both fields to be present and non-empty.
func (c Credentials) Validate() error {
	if c.Login == nil || c.Password == nil {
		return fmt.Errorf("login and password are required: %w", ErrMissingField)
	}
	if strings.TrimSpace(*c.Login) == "" || *c.Password == "" {
		return fmt.Errorf("login and password must not be empty: %w", ErrMissingField)
	}
	return checkPasswordLength("password", *c.Password)
}

// PasswordChange is the payload for updating a user's password.
type PasswordChange struct {
	OldPassword *string `json:"oldPassword"`
	NewPassword *string `json:"newPassword"`
}

// Validate requires both passwords.
func (p PasswordChange) Validate() error {
	if p.OldPassword == nil || p.NewPassword == nil {
		return fmt.Errorf("oldPassword and newPassword are required: %w", ErrMissingField)
	}
	if *p.NewPassword == "" {
		return fmt.Errorf("newPassword must not be empty: %w", ErrMissingField)
	}
	if err := checkPasswordLength("oldPassword", *p.OldPassword); err != nil {
		return err
	}
	return checkPasswordLength("newPassword", *p.NewPassword)
}

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

func checkPasswordLength(field, password string) error {
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%s must be at most %d bytes: %w", field, MaxPasswordBytes, ErrInvalidArgument)
	}
	return nil
}
