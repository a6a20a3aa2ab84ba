package artists

import (
	"context"

	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Cascader deletes an artist together with everything that depends on it.
type Cascader interface {
	DeleteArtist(ctx context.Context, id string) error
}

// Service provides artist-centric operations.
type Service interface {
	List(ctx context.Context) ([]models.Artist, error)
	Get(ctx context.Context, id string) (models.Artist, error)
	Create(ctx context.Context, in models.NewArtist) (models.Artist, error)
	Update(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store   store.Artists
	cascade Cascader
}

// New constructs an artist Service. Deletes are routed through cascade.
func New(st store.Artists, cascade Cascader) Service {
	return &service{store: st, cascade: cascade}
}

func (s *service) List(ctx context.Context) ([]models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx)
}

func (s *service) Get(ctx context.Context, id string) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Artist{}, err
	}
	return s.store.Artist(ctx, id)
}

func (s *service) Create(ctx context.Context, in models.NewArtist) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	artist, err := in.Build(models.NewID())
	if err != nil {
		return models.Artist{}, err
	}
	return s.store.InsertArtist(ctx, artist)
}

func (s *service) Update(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return models.Artist{}, err
	}
	if err := models.ValidateID(id); err != nil {
		return models.Artist{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Artist{}, err
	}
	return s.store.UpdateArtist(ctx, id, patch)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cascade.DeleteArtist(ctx, id)
}
