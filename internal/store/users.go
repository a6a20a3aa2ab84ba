package store

import (
	"context"
	"fmt"

	"musiclib/internal/models"
)

const userColumns = `id, login, password_hash, version, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// User returns the user with id.
func (r pgRepo) User(ctx context.Context, id string) (models.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		return models.User{}, rowErr(err, "user", id)
	}
	return u, nil
}

// LockUser returns the user with id and locks its row for the rest of the
// transaction.
func (r pgRepo) LockUser(ctx context.Context, id string) (models.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id)

	u, err := scanUser(row)
	if err != nil {
		return models.User{}, rowErr(err, "user", id)
	}
	return u, nil
}

// UserByLogin returns the user registered under login.
func (r pgRepo) UserByLogin(ctx context.Context, login string) (models.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE login = $1
	`, login)

	u, err := scanUser(row)
	if err != nil {
		return models.User{}, rowErr(err, "user", login)
	}
	return u, nil
}

// ListUsers returns every user in creation order.
func (r pgRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// InsertUser stores a new user. The database assigns both timestamps.
func (r pgRepo) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO users (id, login, password_hash, version)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, user.Login, user.PasswordHash, user.Version).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, mapWriteError("insert user", err)
	}
	return user, nil
}

// UpdateUser replaces the stored login, password hash and version.
func (r pgRepo) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE users
		SET login = $2,
			password_hash = $3,
			version = $4,
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING `+userColumns, user.ID, user.Login, user.PasswordHash, user.Version)

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, mapWriteError("update user", err)
		}
		return models.User{}, rowErr(err, "user", user.ID)
	}
	return u, nil
}

// DeleteUser removes the user with id.
func (r pgRepo) DeleteUser(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res, "user", id)
}
