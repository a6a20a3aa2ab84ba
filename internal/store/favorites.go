package store

import (
	"context"
	"fmt"

	"musiclib/internal/models"
)

type favoriteTable struct {
	name   string
	column string
}

var favoriteTables = map[models.Kind]favoriteTable{
	models.KindArtist: {name: "favorite_artists", column: "artist_id"},
	models.KindAlbum:  {name: "favorite_albums", column: "album_id"},
	models.KindTrack:  {name: "favorite_tracks", column: "track_id"},
}

func favoriteTableFor(kind models.Kind) (favoriteTable, error) {
	t, ok := favoriteTables[kind]
	if !ok {
		return favoriteTable{}, fmt.Errorf("favorite kind %q: %w", kind, models.ErrInvalidArgument)
	}
	return t, nil
}

func (r pgRepo) favoriteIDsOf(ctx context.Context, kind models.Kind) ([]string, error) {
	t, err := favoriteTableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY position ASC
	`, t.column, t.name))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.name, err)
	}
	return ids, nil
}

// FavoriteIDs returns the favorite ids per kind in the order they were added.
func (r pgRepo) FavoriteIDs(ctx context.Context) (models.FavoriteIDs, error) {
	var (
		ids models.FavoriteIDs
		err error
	)
	if ids.Artists, err = r.favoriteIDsOf(ctx, models.KindArtist); err != nil {
		return models.FavoriteIDs{}, err
	}
	if ids.Albums, err = r.favoriteIDsOf(ctx, models.KindAlbum); err != nil {
		return models.FavoriteIDs{}, err
	}
	if ids.Tracks, err = r.favoriteIDsOf(ctx, models.KindTrack); err != nil {
		return models.FavoriteIDs{}, err
	}
	return ids, nil
}

// IsFavorite reports whether id is a favorite of kind.
func (r pgRepo) IsFavorite(ctx context.Context, kind models.Kind, id string) (bool, error) {
	t, err := favoriteTableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)
	`, t.name, t.column), id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s: %w", t.name, err)
	}
	return exists, nil
}

// AddFavorite marks id as a favorite of kind. Re-adding keeps the original
// position.
func (r pgRepo) AddFavorite(ctx context.Context, kind models.Kind, id string) error {
	t, err := favoriteTableFor(kind)
	if err != nil {
		return err
	}

	if _, err := r.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1)
		ON CONFLICT (%s) DO NOTHING
	`, t.name, t.column, t.column), id); err != nil {
		return mapWriteError("insert "+t.name, err)
	}
	return nil
}

// RemoveFavorite unmarks id as a favorite of kind and reports whether it was
// present.
func (r pgRepo) RemoveFavorite(ctx context.Context, kind models.Kind, id string) (bool, error) {
	t, err := favoriteTableFor(kind)
	if err != nil {
		return false, err
	}

	res, err := r.q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.column), id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
