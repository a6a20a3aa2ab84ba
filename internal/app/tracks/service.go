package tracks

import (
	"context"

	"musiclib/internal/app/integrity"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Store is the persistence the track service needs.
type Store interface {
	store.Tracks
	Atomically(ctx context.Context, fn func(store.Repository) error) error
}

// Cascader deletes a track and drops it from favorites.
type Cascader interface {
	DeleteTrack(ctx context.Context, id string) error
}

// Service provides track operations.
type Service interface {
	List(ctx context.Context) ([]models.Track, error)
	Get(ctx context.Context, id string) (models.Track, error)
	Create(ctx context.Context, in models.NewTrack) (models.Track, error)
	Update(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store   Store
	cascade Cascader
}

// New constructs a track Service.
func New(st Store, cascade Cascader) Service {
	return &service{store: st, cascade: cascade}
}

func (s *service) List(ctx context.Context) ([]models.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListTracks(ctx)
}

func (s *service) Get(ctx context.Context, id string) (models.Track, error) {
	if err := ctx.Err(); err != nil {
		return models.Track{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Track{}, err
	}
	return s.store.Track(ctx, id)
}

func (s *service) Create(ctx context.Context, in models.NewTrack) (models.Track, error) {
	if err := ctx.Err(); err != nil {
		return models.Track{}, err
	}
	track, err := in.Build(models.NewID())
	if err != nil {
		return models.Track{}, err
	}

	var created models.Track
	err = s.store.Atomically(ctx, func(r store.Repository) error {
		if err := requireRefs(ctx, r, track.ArtistID, track.AlbumID); err != nil {
			return err
		}
		created, err = r.InsertTrack(ctx, track)
		return err
	})
	if err != nil {
		return models.Track{}, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error) {
	if err := ctx.Err(); err != nil {
		return models.Track{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Track{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Track{}, err
	}

	var updated models.Track
	err := s.store.Atomically(ctx, func(r store.Repository) error {
		if _, err := r.Track(ctx, id); err != nil {
			return err
		}
		artist, album := models.NoRef, models.NoRef
		if patch.ArtistID.Set {
			artist = patch.ArtistID.Ref
		}
		if patch.AlbumID.Set {
			album = patch.AlbumID.Ref
		}
		if err := requireRefs(ctx, r, artist, album); err != nil {
			return err
		}
		var err error
		updated, err = r.UpdateTrack(ctx, id, patch)
		return err
	})
	if err != nil {
		return models.Track{}, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cascade.DeleteTrack(ctx, id)
}

func requireRefs(ctx context.Context, r store.Repository, artist, album models.Ref) error {
	if err := integrity.RequireRef(ctx, r, models.KindArtist, "artistId", artist); err != nil {
		return err
	}
	return integrity.RequireRef(ctx, r, models.KindAlbum, "albumId", album)
}
