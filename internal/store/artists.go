package store

import (
	"context"
	"fmt"

	"musiclib/internal/models"
)

const artistColumns = `id, name, grammy`

func scanArtist(row scanner) (models.Artist, error) {
	var a models.Artist
	if err := row.Scan(&a.ID, &a.Name, &a.Grammy); err != nil {
		return models.Artist{}, err
	}
	return a, nil
}

// Artist returns the artist with id.
func (r pgRepo) Artist(ctx context.Context, id string) (models.Artist, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		WHERE id = $1
	`, id)

	a, err := scanArtist(row)
	if err != nil {
		return models.Artist{}, rowErr(err, "artist", id)
	}
	return a, nil
}

// ListArtists returns every artist in creation order.
func (r pgRepo) ListArtists(ctx context.Context) ([]models.Artist, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+artistColumns+`
		FROM artists
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// InsertArtist stores a new artist.
func (r pgRepo) InsertArtist(ctx context.Context, artist models.Artist) (models.Artist, error) {
	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO artists (id, name, grammy)
		VALUES ($1, $2, $3)
	`, artist.ID, artist.Name, artist.Grammy); err != nil {
		return models.Artist{}, mapWriteError("insert artist", err)
	}
	return artist, nil
}

// UpdateArtist applies patch to the stored artist.
func (r pgRepo) UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE artists
		SET name = COALESCE($2, name),
			grammy = COALESCE($3, grammy)
		WHERE id = $1
		RETURNING `+artistColumns, id, trimmed(patch.Name), optional(patch.Grammy))

	a, err := scanArtist(row)
	if err != nil {
		return models.Artist{}, rowErr(err, "artist", id)
	}
	return a, nil
}

// DeleteArtist removes the artist with id.
func (r pgRepo) DeleteArtist(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete artist", err)
	}
	return expectOne(res, "artist", id)
}
