package store

import (
	"context"
	"fmt"

	"musiclib/internal/models"
)

const albumColumns = `id, name, year, artist_id`

func scanAlbum(row scanner) (models.Album, error) {
	var a models.Album
	if err := row.Scan(&a.ID, &a.Name, &a.Year, &a.ArtistID); err != nil {
		return models.Album{}, err
	}
	return a, nil
}

func (r pgRepo) selectAlbums(ctx context.Context, where string, args ...any) ([]models.Album, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums`+where+`
		ORDER BY created_at ASC, id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("select albums: %w", err)
	}
	defer rows.Close()

	albums := []models.Album{}
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

// Album returns the album with id.
func (r pgRepo) Album(ctx context.Context, id string) (models.Album, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums
		WHERE id = $1
	`, id)

	a, err := scanAlbum(row)
	if err != nil {
		return models.Album{}, rowErr(err, "album", id)
	}
	return a, nil
}

// ListAlbums returns every album in creation order.
func (r pgRepo) ListAlbums(ctx context.Context) ([]models.Album, error) {
	return r.selectAlbums(ctx, "")
}

// AlbumsByArtist returns the albums credited to artistID.
func (r pgRepo) AlbumsByArtist(ctx context.Context, artistID string) ([]models.Album, error) {
	return r.selectAlbums(ctx, `
		WHERE artist_id = $1`, artistID)
}

// InsertAlbum stores a new album.
func (r pgRepo) InsertAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO albums (id, name, year, artist_id)
		VALUES ($1, $2, $3, $4)
	`, album.ID, album.Name, album.Year, album.ArtistID); err != nil {
		return models.Album{}, mapWriteError("insert album", err)
	}
	return album, nil
}

// UpdateAlbum applies patch to the stored album. An artistId present in the
// patch replaces the stored one, including with null.
func (r pgRepo) UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE albums
		SET name = COALESCE($2, name),
			year = COALESCE($3, year),
			artist_id = CASE WHEN $4 THEN $5::uuid ELSE artist_id END
		WHERE id = $1
		RETURNING `+albumColumns,
		id, trimmed(patch.Name), optional(patch.Year), patch.ArtistID.Set, patch.ArtistID.Ref)

	a, err := scanAlbum(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Album{}, mapWriteError("update album", err)
		}
		return models.Album{}, rowErr(err, "album", id)
	}
	return a, nil
}

// DeleteAlbum removes the album with id.
func (r pgRepo) DeleteAlbum(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete album", err)
	}
	return expectOne(res, "album", id)
}
