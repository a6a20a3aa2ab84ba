package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"musiclib/internal/models"
)

type seedAlbum struct {
	Title  string
	Year   int
	Tracks []seedTrack
}

type seedTrack struct {
	Name     string
	Duration int
}

type seedArtist struct {
	Name   string
	Grammy bool
	Albums []seedAlbum
}

var demoCatalog = []seedArtist{
	{
		Name:   "Massive Attack",
		Grammy: false,
		Albums: []seedAlbum{{
			Title: "Mezzanine",
			Year:  1998,
			Tracks: []seedTrack{
				{Name: "Angel", Duration: 379},
				{Name: "Teardrop", Duration: 330},
				{Name: "Inertia Creeps", Duration: 356},
			},
		}},
	},
	{
		Name:   "Portishead",
		Grammy: false,
		Albums: []seedAlbum{{
			Title: "Dummy",
			Year:  1994,
			Tracks: []seedTrack{
				{Name: "Mysterons", Duration: 302},
				{Name: "Sour Times", Duration: 254},
				{Name: "Glory Box", Duration: 306},
			},
		}},
	},
	{
		Name:   "Radiohead",
		Grammy: true,
		Albums: []seedAlbum{{
			Title: "OK Computer",
			Year:  1997,
			Tracks: []seedTrack{
				{Name: "Airbag", Duration: 284},
				{Name: "Paranoid Android", Duration: 383},
				{Name: "No Surprises", Duration: 229},
			},
		}},
	},
}

// bootstrapDemoData loads the demo account and catalog through the services,
// skipping the catalog when artists already exist.
func bootstrapDemoData(ctx context.Context, app *application) error {
	if err := ensureDemoUser(ctx, app); err != nil {
		return err
	}

	existing, err := app.artists.List(ctx)
	if err != nil {
		return fmt.Errorf("list artists: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i, seed := range demoCatalog {
		name, grammy := seed.Name, seed.Grammy
		artist, err := app.artists.Create(ctx, models.NewArtist{Name: &name, Grammy: &grammy})
		if err != nil {
			return fmt.Errorf("insert demo artist %q: %w", seed.Name, err)
		}
		if i == 0 {
			if err := app.favorites.Add(ctx, models.KindArtist, artist.ID); err != nil {
				return fmt.Errorf("favorite demo artist %q: %w", seed.Name, err)
			}
		}

		for _, sa := range seed.Albums {
			title, year := sa.Title, sa.Year
			album, err := app.albums.Create(ctx, models.NewAlbum{
				Name:     &title,
				Year:     &year,
				ArtistID: models.RefTo(artist.ID),
			})
			if err != nil {
				return fmt.Errorf("insert demo album %q: %w", sa.Title, err)
			}

			for _, tr := range sa.Tracks {
				trackName, duration := tr.Name, tr.Duration
				if _, err := app.tracks.Create(ctx, models.NewTrack{
					Name:     &trackName,
					Duration: &duration,
					ArtistID: models.RefTo(artist.ID),
					AlbumID:  models.RefTo(album.ID),
				}); err != nil {
					return fmt.Errorf("insert demo track %q: %w", tr.Name, err)
				}
			}
		}
	}

	log.Info().Int("artists", len(demoCatalog)).Msg("demo catalog seeded")
	return nil
}

func ensureDemoUser(ctx context.Context, app *application) error {
	login, password := "demo", "demo123"
	if _, err := app.users.Create(ctx, models.Credentials{Login: &login, Password: &password}); err != nil &&
		!errors.Is(err, models.ErrConflict) {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}
