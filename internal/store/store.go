// Package store holds the catalog's storage collaborator: the entity store and
// the favorites set, with an in-memory and a Postgres implementation.
//
// Stores never cascade. Deleting an artist leaves albums, tracks and favorites
// pointing at it until the integrity coordinator reconciles them, which it
// does inside the same Atomically call.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"musiclib/internal/models"
)

// Artists is the artist table.
type Artists interface {
	Artist(ctx context.Context, id string) (models.Artist, error)
	ListArtists(ctx context.Context) ([]models.Artist, error)
	InsertArtist(ctx context.Context, artist models.Artist) (models.Artist, error)
	UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
}

// Albums is the album table.
type Albums interface {
	Album(ctx context.Context, id string) (models.Album, error)
	ListAlbums(ctx context.Context) ([]models.Album, error)
	AlbumsByArtist(ctx context.Context, artistID string) ([]models.Album, error)
	InsertAlbum(ctx context.Context, album models.Album) (models.Album, error)
	UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error)
	DeleteAlbum(ctx context.Context, id string) error
}

// Tracks is the track table.
type Tracks interface {
	Track(ctx context.Context, id string) (models.Track, error)
	ListTracks(ctx context.Context) ([]models.Track, error)
	TracksByArtist(ctx context.Context, artistID string) ([]models.Track, error)
	TracksByAlbum(ctx context.Context, albumID string) ([]models.Track, error)
	InsertTrack(ctx context.Context, track models.Track) (models.Track, error)
	UpdateTrack(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error)
	DeleteTrack(ctx context.Context, id string) error
}

// Users is the account table.
type Users interface {
	User(ctx context.Context, id string) (models.User, error)
	// LockUser reads the user and holds it against concurrent writers until
	// the surrounding transaction ends.
	LockUser(ctx context.Context, id string) (models.User, error)
	UserByLogin(ctx context.Context, login string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	InsertUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// FavoritesSet is the process-wide favorites collection.
type FavoritesSet interface {
	FavoriteIDs(ctx context.Context) (models.FavoriteIDs, error)
	IsFavorite(ctx context.Context, kind models.Kind, id string) (bool, error)
	// AddFavorite is a no-op when id is already a favorite of kind.
	AddFavorite(ctx context.Context, kind models.Kind, id string) error
	// RemoveFavorite reports whether id was present. Absence is not an error.
	RemoveFavorite(ctx context.Context, kind models.Kind, id string) (bool, error)
}

// Repository is every table the catalog reads and writes.
type Repository interface {
	Artists
	Albums
	Tracks
	Users
	FavoritesSet
}

// Store is a Repository that can run a group of operations atomically.
type Store interface {
	Repository
	// Atomically runs fn against a transactional view of the store. Writes made
	// through the view become visible together when fn returns nil and are
	// discarded otherwise.
	Atomically(ctx context.Context, fn func(Repository) error) error
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
}

func conflict(kind, id string) error {
	return fmt.Errorf("%s %s already exists: %w", kind, id, models.ErrConflict)
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}
