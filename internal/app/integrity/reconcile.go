package integrity

import (
	"context"

	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Report counts the repairs made by Reconcile.
type Report struct {
	AlbumArtistsCleared int `json:"albumArtistsCleared"`
	TrackArtistsCleared int `json:"trackArtistsCleared"`
	TrackAlbumsCleared  int `json:"trackAlbumsCleared"`
	FavoritesDropped    int `json:"favoritesDropped"`
}

// Repairs returns the total number of fixes.
func (r Report) Repairs() int {
	return r.AlbumArtistsCleared + r.TrackArtistsCleared + r.TrackAlbumsCleared + r.FavoritesDropped
}

// Reconcile clears every reference that no longer resolves and drops
// favorites whose entity is gone. A catalog that is already consistent is
// left untouched.
func (c *Coordinator) Reconcile(ctx context.Context) (Report, error) {
	var report Report
	err := c.atomically(ctx, "reconcile", func(r store.Repository) error {
		report = Report{}
		return reconcile(ctx, r, &report)
	})
	if err != nil {
		return Report{}, err
	}

	event := c.log(ctx).Info()
	if report.Repairs() > 0 {
		event = c.log(ctx).Warn()
	}
	event.
		Int("album_artists_cleared", report.AlbumArtistsCleared).
		Int("track_artists_cleared", report.TrackArtistsCleared).
		Int("track_albums_cleared", report.TrackAlbumsCleared).
		Int("favorites_dropped", report.FavoritesDropped).
		Msg("catalog reconciled")
	return report, nil
}

func reconcile(ctx context.Context, r store.Repository, report *Report) error {
	artists, err := r.ListArtists(ctx)
	if err != nil {
		return err
	}
	albums, err := r.ListAlbums(ctx)
	if err != nil {
		return err
	}
	tracks, err := r.ListTracks(ctx)
	if err != nil {
		return err
	}

	live := map[models.Kind]map[string]bool{
		models.KindArtist: make(map[string]bool, len(artists)),
		models.KindAlbum:  make(map[string]bool, len(albums)),
		models.KindTrack:  make(map[string]bool, len(tracks)),
	}
	for _, a := range artists {
		live[models.KindArtist][a.ID] = true
	}
	for _, a := range albums {
		live[models.KindAlbum][a.ID] = true
	}
	for _, t := range tracks {
		live[models.KindTrack][t.ID] = true
	}

	dangling := func(kind models.Kind, ref models.Ref) bool {
		id, ok := ref.ID()
		return ok && !live[kind][id]
	}

	for _, album := range albums {
		if !dangling(models.KindArtist, album.ArtistID) {
			continue
		}
		if _, err := r.UpdateAlbum(ctx, album.ID, models.AlbumPatch{ArtistID: models.SetRef(models.NoRef)}); err != nil {
			return err
		}
		report.AlbumArtistsCleared++
	}

	for _, track := range tracks {
		var patch models.TrackPatch
		if dangling(models.KindArtist, track.ArtistID) {
			patch.ArtistID = models.SetRef(models.NoRef)
			report.TrackArtistsCleared++
		}
		if dangling(models.KindAlbum, track.AlbumID) {
			patch.AlbumID = models.SetRef(models.NoRef)
			report.TrackAlbumsCleared++
		}
		if !patch.ArtistID.Set && !patch.AlbumID.Set {
			continue
		}
		if _, err := r.UpdateTrack(ctx, track.ID, patch); err != nil {
			return err
		}
	}

	favorites, err := r.FavoriteIDs(ctx)
	if err != nil {
		return err
	}
	for _, kind := range models.Kinds {
		for _, id := range favorites.Of(kind) {
			if live[kind][id] {
				continue
			}
			if _, err := r.RemoveFavorite(ctx, kind, id); err != nil {
				return err
			}
			report.FavoritesDropped++
		}
	}
	return nil
}
