package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"musiclib/internal/app/albums"
	"musiclib/internal/app/artists"
	"musiclib/internal/app/favorites"
	"musiclib/internal/app/integrity"
	"musiclib/internal/app/session"
	"musiclib/internal/app/tracks"
	"musiclib/internal/app/users"
	"musiclib/internal/auth"
	"musiclib/internal/config"
	"musiclib/internal/httpapi"
	"musiclib/internal/logging"
	"musiclib/internal/store"
)

const shutdownTimeout = 10 * time.Second

type application struct {
	coordinator *integrity.Coordinator
	tokens      *auth.TokenManager
	users       users.Service
	sessions    session.Service
	artists     artists.Service
	albums      albums.Service
	tracks      tracks.Service
	favorites   favorites.Service
}

func newApplication(cfg *config.Config, st store.Store, logger *logging.Logger) *application {
	coord := integrity.New(st,
		integrity.WithMaxAttempts(cfg.Integrity.MaxAttempts),
		integrity.WithLogger(logger),
	)
	tokens := auth.NewTokenManager(
		cfg.Security.AccessSecret,
		cfg.Security.RefreshSecret,
		cfg.Security.AccessTTL,
		cfg.Security.RefreshTTL,
	)
	userSvc := users.New(st)

	return &application{
		coordinator: coord,
		tokens:      tokens,
		users:       userSvc,
		sessions:    session.New(st, userSvc, tokens),
		artists:     artists.New(st, coord),
		albums:      albums.New(st, coord),
		tracks:      tracks.New(st, coord),
		favorites:   favorites.New(st),
	}
}

func (a *application) handler(cfg *config.Config) http.Handler {
	srv := httpapi.New(a.sessions, a.users, a.artists, a.albums, a.tracks, a.favorites)
	return srv.Handler(a.tokens, cfg.CORS.AllowedOrigins)
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, cfg *config.Config, app *application, logger *logging.Logger) error {
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.handler(cfg),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Zerolog().Info().Str("addr", server.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Zerolog().Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
