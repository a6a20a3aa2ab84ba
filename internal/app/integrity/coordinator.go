// Package integrity owns every multi-entity write in the catalog. Deleting an
// artist, album or track goes through the Coordinator, which removes the
// entity, drops it from favorites and detaches whatever referenced it, all in
// one store transaction.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"musiclib/internal/logging"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 50 * time.Millisecond
	defaultMaxBackoff     = time.Second
)

// Coordinator runs deletion cascades and the reconcile sweep.
type Coordinator struct {
	store          store.Store
	logger         *logging.Logger
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMaxAttempts bounds how many times a failing cascade is attempted.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the delay before the first retry and its cap.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *Coordinator) {
		c.initialBackoff = initial
		c.maxBackoff = max
	}
}

// WithLogger routes cascade logs to l instead of the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// New constructs a Coordinator over st.
func New(st store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          st,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeleteArtist removes the artist, unfavorites it and clears artistId on every
// album and track that pointed at it.
func (c *Coordinator) DeleteArtist(ctx context.Context, id string) error {
	if err := models.ValidateID(id); err != nil {
		return err
	}

	var res cascade
	err := c.atomically(ctx, "delete artist", func(r store.Repository) error {
		res = cascade{}
		if _, err := r.Artist(ctx, id); err != nil {
			return err
		}
		if err := r.DeleteArtist(ctx, id); err != nil {
			return err
		}
		removed, err := r.RemoveFavorite(ctx, models.KindArtist, id)
		if err != nil {
			return err
		}
		res.unfavorited = removed

		albums, err := r.AlbumsByArtist(ctx, id)
		if err != nil {
			return err
		}
		for _, album := range albums {
			if _, err := r.UpdateAlbum(ctx, album.ID, models.AlbumPatch{ArtistID: models.SetRef(models.NoRef)}); err != nil {
				return err
			}
			res.albums++
		}

		tracks, err := r.TracksByArtist(ctx, id)
		if err != nil {
			return err
		}
		for _, track := range tracks {
			if _, err := r.UpdateTrack(ctx, track.ID, models.TrackPatch{ArtistID: models.SetRef(models.NoRef)}); err != nil {
				return err
			}
			res.tracks++
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log(ctx).Debug().
		Str("artist_id", id).
		Bool("unfavorited", res.unfavorited).
		Int("albums_detached", res.albums).
		Int("tracks_detached", res.tracks).
		Msg("artist deleted")
	return nil
}

// DeleteAlbum removes the album, unfavorites it and clears albumId on its
// tracks. The tracks keep their artistId.
func (c *Coordinator) DeleteAlbum(ctx context.Context, id string) error {
	if err := models.ValidateID(id); err != nil {
		return err
	}

	var res cascade
	err := c.atomically(ctx, "delete album", func(r store.Repository) error {
		res = cascade{}
		if _, err := r.Album(ctx, id); err != nil {
			return err
		}
		if err := r.DeleteAlbum(ctx, id); err != nil {
			return err
		}
		removed, err := r.RemoveFavorite(ctx, models.KindAlbum, id)
		if err != nil {
			return err
		}
		res.unfavorited = removed

		tracks, err := r.TracksByAlbum(ctx, id)
		if err != nil {
			return err
		}
		for _, track := range tracks {
			if _, err := r.UpdateTrack(ctx, track.ID, models.TrackPatch{AlbumID: models.SetRef(models.NoRef)}); err != nil {
				return err
			}
			res.tracks++
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log(ctx).Debug().
		Str("album_id", id).
		Bool("unfavorited", res.unfavorited).
		Int("tracks_detached", res.tracks).
		Msg("album deleted")
	return nil
}

// DeleteTrack removes the track and unfavorites it.
func (c *Coordinator) DeleteTrack(ctx context.Context, id string) error {
	if err := models.ValidateID(id); err != nil {
		return err
	}

	var unfavorited bool
	err := c.atomically(ctx, "delete track", func(r store.Repository) error {
		if _, err := r.Track(ctx, id); err != nil {
			return err
		}
		if err := r.DeleteTrack(ctx, id); err != nil {
			return err
		}
		removed, err := r.RemoveFavorite(ctx, models.KindTrack, id)
		unfavorited = removed
		return err
	})
	if err != nil {
		return err
	}

	c.log(ctx).Debug().
		Str("track_id", id).
		Bool("unfavorited", unfavorited).
		Msg("track deleted")
	return nil
}

type cascade struct {
	unfavorited bool
	albums      int
	tracks      int
}

// atomically runs fn in one store transaction, retrying failures that are not
// caller errors with capped exponential backoff. fn must be safe to rerun from
// scratch.
func (c *Coordinator) atomically(ctx context.Context, op string, fn func(store.Repository) error) error {
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = c.store.Atomically(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == c.maxAttempts {
			break
		}

		c.log(ctx).Warn().
			Err(lastErr).
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("cascade failed, retrying")

		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}

	return fmt.Errorf("%s: giving up after %d attempts: %w", op, c.maxAttempts, lastErr)
}

func (c *Coordinator) log(ctx context.Context) *zerolog.Logger {
	if c.logger != nil {
		return c.logger.WithContext(ctx)
	}
	return logging.WithContext(ctx)
}

// retryable reports whether err may clear up on its own. Precondition
// failures and cancellation never do.
func retryable(err error) bool {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrMissingField),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
