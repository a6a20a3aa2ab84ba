package favorites

import (
	"context"
	"errors"
	"fmt"

	"musiclib/internal/app/integrity"
	"musiclib/internal/logging"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	store.FavoritesSet
	Atomically(ctx context.Context, fn func(store.Repository) error) error
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	List(ctx context.Context) (models.Favorites, error)
	IsFavorite(ctx context.Context, kind models.Kind, id string) (bool, error)
	Add(ctx context.Context, kind models.Kind, id string) error
	Remove(ctx context.Context, kind models.Kind, id string) error
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

// List resolves every favorite id to its entity. Ids that no longer resolve
// are logged and left out.
func (s *service) List(ctx context.Context) (models.Favorites, error) {
	if err := ctx.Err(); err != nil {
		return models.Favorites{}, err
	}

	var out models.Favorites
	err := s.store.Atomically(ctx, func(r store.Repository) error {
		var err error
		out, err = s.resolve(ctx, r)
		return err
	})
	if err != nil {
		return models.Favorites{}, err
	}
	return out, nil
}

func (s *service) resolve(ctx context.Context, r store.Repository) (models.Favorites, error) {
	ids, err := r.FavoriteIDs(ctx)
	if err != nil {
		return models.Favorites{}, err
	}

	out := models.Favorites{
		Artists: make([]models.Artist, 0, len(ids.Artists)),
		Albums:  make([]models.Album, 0, len(ids.Albums)),
		Tracks:  make([]models.Track, 0, len(ids.Tracks)),
	}

	for _, id := range ids.Artists {
		a, err := r.Artist(ctx, id)
		if s.skip(ctx, models.KindArtist, id, err) {
			continue
		}
		if err != nil {
			return models.Favorites{}, err
		}
		out.Artists = append(out.Artists, a)
	}
	for _, id := range ids.Albums {
		a, err := r.Album(ctx, id)
		if s.skip(ctx, models.KindAlbum, id, err) {
			continue
		}
		if err != nil {
			return models.Favorites{}, err
		}
		out.Albums = append(out.Albums, a)
	}
	for _, id := range ids.Tracks {
		t, err := r.Track(ctx, id)
		if s.skip(ctx, models.KindTrack, id, err) {
			continue
		}
		if err != nil {
			return models.Favorites{}, err
		}
		out.Tracks = append(out.Tracks, t)
	}
	return out, nil
}

// skip reports whether a lookup failed because the favorite is dangling.
func (s *service) skip(ctx context.Context, kind models.Kind, id string, err error) bool {
	if !errors.Is(err, models.ErrNotFound) {
		return false
	}
	logging.WithContext(ctx).Warn().
		Str("kind", string(kind)).
		Str("id", id).
		Msg("favorite references a missing entity")
	return true
}

func (s *service) IsFavorite(ctx context.Context, kind models.Kind, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := kind.Validate(); err != nil {
		return false, err
	}
	if err := models.ValidateID(id); err != nil {
		return false, err
	}
	return s.store.IsFavorite(ctx, kind, id)
}

// Add marks an existing entity as favorite. Adding it again is a no-op.
func (s *service) Add(ctx context.Context, kind models.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := models.ValidateID(id); err != nil {
		return err
	}

	return s.store.Atomically(ctx, func(r store.Repository) error {
		if err := integrity.RequireEntity(ctx, r, kind, kind.Title(), id); err != nil {
			return err
		}
		return r.AddFavorite(ctx, kind, id)
	})
}

// Remove unmarks a favorite. It fails with ErrNotFound when id is not
// currently a favorite of kind.
func (s *service) Remove(ctx context.Context, kind models.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := models.ValidateID(id); err != nil {
		return err
	}

	removed, err := s.store.RemoveFavorite(ctx, kind, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%s %s is not a favorite: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
