package albums

import (
	"context"

	"musiclib/internal/app/integrity"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Store is the persistence the album service needs. Reference checks and the
// write they guard share one Atomically call.
type Store interface {
	store.Albums
	Atomically(ctx context.Context, fn func(store.Repository) error) error
}

// Cascader deletes an album and detaches its tracks.
type Cascader interface {
	DeleteAlbum(ctx context.Context, id string) error
}

// Service provides album operations.
type Service interface {
	List(ctx context.Context) ([]models.Album, error)
	Get(ctx context.Context, id string) (models.Album, error)
	Create(ctx context.Context, in models.NewAlbum) (models.Album, error)
	Update(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store   Store
	cascade Cascader
}

// New constructs an album Service.
func New(st Store, cascade Cascader) Service {
	return &service{store: st, cascade: cascade}
}

func (s *service) List(ctx context.Context) ([]models.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx)
}

func (s *service) Get(ctx context.Context, id string) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Album{}, err
	}
	return s.store.Album(ctx, id)
}

func (s *service) Create(ctx context.Context, in models.NewAlbum) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	album, err := in.Build(models.NewID())
	if err != nil {
		return models.Album{}, err
	}

	var created models.Album
	err = s.store.Atomically(ctx, func(r store.Repository) error {
		if err := integrity.RequireRef(ctx, r, models.KindArtist, "artistId", album.ArtistID); err != nil {
			return err
		}
		created, err = r.InsertAlbum(ctx, album)
		return err
	})
	if err != nil {
		return models.Album{}, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error) {
	if err := ctx.Err(); err != nil {
		return models.Album{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Album{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Album{}, err
	}

	var updated models.Album
	err := s.store.Atomically(ctx, func(r store.Repository) error {
		if _, err := r.Album(ctx, id); err != nil {
			return err
		}
		if patch.ArtistID.Set {
			if err := integrity.RequireRef(ctx, r, models.KindArtist, "artistId", patch.ArtistID.Ref); err != nil {
				return err
			}
		}
		var err error
		updated, err = r.UpdateAlbum(ctx, id, patch)
		return err
	})
	if err != nil {
		return models.Album{}, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cascade.DeleteAlbum(ctx, id)
}
