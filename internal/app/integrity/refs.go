package integrity

import (
	"context"
	"errors"
	"fmt"

	"musiclib/internal/models"
	"musiclib/internal/store"
)

// RequireRef fails with ErrUnprocessableReference when ref points at a kind
// entity that does not exist. An empty ref always passes.
func RequireRef(ctx context.Context, r store.Repository, kind models.Kind, field string, ref models.Ref) error {
	id, ok := ref.ID()
	if !ok {
		return nil
	}
	return RequireEntity(ctx, r, kind, field, id)
}

// RequireEntity fails with ErrUnprocessableReference when no kind entity has
// id.
func RequireEntity(ctx context.Context, r store.Repository, kind models.Kind, field, id string) error {
	var err error
	switch kind {
	case models.KindArtist:
		_, err = r.Artist(ctx, id)
	case models.KindAlbum:
		_, err = r.Album(ctx, id)
	case models.KindTrack:
		_, err = r.Track(ctx, id)
	default:
		return kind.Validate()
	}

	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%s %s does not exist: %w", field, id, models.ErrUnprocessableReference)
	}
	return err
}
