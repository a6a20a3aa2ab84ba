package store

import (
	"context"
	"fmt"

	"musiclib/internal/models"
)

const trackColumns = `id, name, duration, artist_id, album_id`

func scanTrack(row scanner) (models.Track, error) {
	var t models.Track
	if err := row.Scan(&t.ID, &t.Name, &t.Duration, &t.ArtistID, &t.AlbumID); err != nil {
		return models.Track{}, err
	}
	return t, nil
}

func (r pgRepo) selectTracks(ctx context.Context, where string, args ...any) ([]models.Track, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks`+where+`
		ORDER BY created_at ASC, id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("select tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// Track returns the track with id.
func (r pgRepo) Track(ctx context.Context, id string) (models.Track, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+trackColumns+`
		FROM tracks
		WHERE id = $1
	`, id)

	t, err := scanTrack(row)
	if err != nil {
		return models.Track{}, rowErr(err, "track", id)
	}
	return t, nil
}

// ListTracks returns every track in creation order.
func (r pgRepo) ListTracks(ctx context.Context) ([]models.Track, error) {
	return r.selectTracks(ctx, "")
}

// TracksByArtist returns the tracks credited to artistID.
func (r pgRepo) TracksByArtist(ctx context.Context, artistID string) ([]models.Track, error) {
	return r.selectTracks(ctx, `
		WHERE artist_id = $1`, artistID)
}

// TracksByAlbum returns the tracks on albumID.
func (r pgRepo) TracksByAlbum(ctx context.Context, albumID string) ([]models.Track, error) {
	return r.selectTracks(ctx, `
		WHERE album_id = $1`, albumID)
}

// InsertTrack stores a new track.
func (r pgRepo) InsertTrack(ctx context.Context, track models.Track) (models.Track, error) {
	if _, err := r.q.ExecContext(ctx, `
		INSERT INTO tracks (id, name, duration, artist_id, album_id)
		VALUES ($1, $2, $3, $4, $5)
	`, track.ID, track.Name, track.Duration, track.ArtistID, track.AlbumID); err != nil {
		return models.Track{}, mapWriteError("insert track", err)
	}
	return track, nil
}

// UpdateTrack applies patch to the stored track.
func (r pgRepo) UpdateTrack(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE tracks
		SET name = COALESCE($2, name),
			duration = COALESCE($3, duration),
			artist_id = CASE WHEN $4 THEN $5::uuid ELSE artist_id END,
			album_id = CASE WHEN $6 THEN $7::uuid ELSE album_id END
		WHERE id = $1
		RETURNING `+trackColumns,
		id, trimmed(patch.Name), optional(patch.Duration),
		patch.ArtistID.Set, patch.ArtistID.Ref,
		patch.AlbumID.Set, patch.AlbumID.Ref)

	t, err := scanTrack(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.Track{}, mapWriteError("update track", err)
		}
		return models.Track{}, rowErr(err, "track", id)
	}
	return t, nil
}

// DeleteTrack removes the track with id.
func (r pgRepo) DeleteTrack(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tracks WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete track", err)
	}
	return expectOne(res, "track", id)
}
