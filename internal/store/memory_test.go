package store

import (
	"context"
	"errors"
	"testing"

	"musiclib/internal/models"
)

func seedArtist(t *testing.T, s *Memory, name string) models.Artist {
	t.Helper()
	a, err := s.InsertArtist(context.Background(), models.Artist{ID: models.NewID(), Name: name})
	if err != nil {
		t.Fatalf("InsertArtist: %v", err)
	}
	return a
}

func TestMemoryListKeepsInsertionOrder(t *testing.T) {
	s := NewMemory()
	first := seedArtist(t, s, "Portishead")
	second := seedArtist(t, s, "Massive Attack")
	third := seedArtist(t, s, "Tricky")

	if err := s.DeleteArtist(context.Background(), second.ID); err != nil {
		t.Fatalf("DeleteArtist: %v", err)
	}

	got, err := s.ListArtists(context.Background())
	if err != nil {
		t.Fatalf("ListArtists: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != third.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestMemoryNotFound(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	id := models.NewID()

	if _, err := s.Album(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Album: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTrack(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("DeleteTrack: expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateArtist(ctx, id, models.ArtistPatch{}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("UpdateArtist: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryInsertDuplicateID(t *testing.T) {
	s := NewMemory()
	a := seedArtist(t, s, "Björk")

	if _, err := s.InsertArtist(context.Background(), a); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemoryRefQueries(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	artist := seedArtist(t, s, "Radiohead")

	album, err := s.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "OK Computer", Year: 1997, ArtistID: models.RefTo(artist.ID)})
	if err != nil {
		t.Fatalf("InsertAlbum: %v", err)
	}
	if _, err := s.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "Compilation", Year: 2001}); err != nil {
		t.Fatalf("InsertAlbum: %v", err)
	}
	if _, err := s.InsertTrack(ctx, models.Track{ID: models.NewID(), Name: "Airbag", Duration: 284, ArtistID: models.RefTo(artist.ID), AlbumID: models.RefTo(album.ID)}); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}
	if _, err := s.InsertTrack(ctx, models.Track{ID: models.NewID(), Name: "Loose", Duration: 10, AlbumID: models.RefTo(album.ID)}); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	albums, _ := s.AlbumsByArtist(ctx, artist.ID)
	if len(albums) != 1 || albums[0].ID != album.ID {
		t.Fatalf("AlbumsByArtist: %+v", albums)
	}
	byArtist, _ := s.TracksByArtist(ctx, artist.ID)
	if len(byArtist) != 1 {
		t.Fatalf("TracksByArtist: %+v", byArtist)
	}
	byAlbum, _ := s.TracksByAlbum(ctx, album.ID)
	if len(byAlbum) != 2 {
		t.Fatalf("TracksByAlbum: %+v", byAlbum)
	}
}

func TestMemoryFavoritesSet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	a, b := models.NewID(), models.NewID()

	for _, id := range []string{a, b, a} {
		if err := s.AddFavorite(ctx, models.KindTrack, id); err != nil {
			t.Fatalf("AddFavorite: %v", err)
		}
	}

	ids, err := s.FavoriteIDs(ctx)
	if err != nil {
		t.Fatalf("FavoriteIDs: %v", err)
	}
	if len(ids.Tracks) != 2 || ids.Tracks[0] != a || ids.Tracks[1] != b {
		t.Fatalf("expected [%s %s], got %v", a, b, ids.Tracks)
	}
	if len(ids.Artists) != 0 || len(ids.Albums) != 0 {
		t.Fatalf("expected other kinds empty, got %+v", ids)
	}

	removed, err := s.RemoveFavorite(ctx, models.KindTrack, a)
	if err != nil || !removed {
		t.Fatalf("RemoveFavorite: removed=%v err=%v", removed, err)
	}
	removed, err = s.RemoveFavorite(ctx, models.KindTrack, a)
	if err != nil || removed {
		t.Fatalf("second RemoveFavorite: removed=%v err=%v", removed, err)
	}

	if ok, _ := s.IsFavorite(ctx, models.KindTrack, b); !ok {
		t.Fatalf("expected %s to remain a favorite", b)
	}
	for _, kind := range []models.Kind{"genre", "Artist", "TRACK"} {
		if err := s.AddFavorite(ctx, kind, a); !errors.Is(err, models.ErrInvalidArgument) {
			t.Fatalf("AddFavorite(%q): expected ErrInvalidArgument, got %v", kind, err)
		}
		if _, err := s.RemoveFavorite(ctx, kind, a); !errors.Is(err, models.ErrInvalidArgument) {
			t.Fatalf("RemoveFavorite(%q): expected ErrInvalidArgument, got %v", kind, err)
		}
		if _, err := s.IsFavorite(ctx, kind, a); !errors.Is(err, models.ErrInvalidArgument) {
			t.Fatalf("IsFavorite(%q): expected ErrInvalidArgument, got %v", kind, err)
		}
	}
}

func TestMemoryAtomicallyDiscardsOnError(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	artist := seedArtist(t, s, "Burial")
	if err := s.AddFavorite(ctx, models.KindArtist, artist.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	boom := errors.New("boom")
	err := s.Atomically(ctx, func(r Repository) error {
		if err := r.DeleteArtist(ctx, artist.ID); err != nil {
			return err
		}
		if _, err := r.RemoveFavorite(ctx, models.KindArtist, artist.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := s.Artist(ctx, artist.ID); err != nil {
		t.Fatalf("artist should survive rollback: %v", err)
	}
	if ok, _ := s.IsFavorite(ctx, models.KindArtist, artist.ID); !ok {
		t.Fatalf("favorite should survive rollback")
	}
}

func TestMemoryAtomicallyCommits(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	artist := seedArtist(t, s, "Four Tet")

	err := s.Atomically(ctx, func(r Repository) error {
		return r.DeleteArtist(ctx, artist.ID)
	})
	if err != nil {
		t.Fatalf("Atomically: %v", err)
	}
	if _, err := s.Artist(ctx, artist.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after commit, got %v", err)
	}
}

func TestMemoryUsers(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	u, err := s.InsertUser(ctx, models.User{ID: models.NewID(), Login: "demo", PasswordHash: "h", Version: 1})
	if err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	if u.CreatedAt.IsZero() || !u.UpdatedAt.Equal(u.CreatedAt) {
		t.Fatalf("expected timestamps to be set, got %+v", u)
	}
	if _, err := s.InsertUser(ctx, models.User{ID: models.NewID(), Login: "demo"}); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate login, got %v", err)
	}

	got, err := s.UserByLogin(ctx, "demo")
	if err != nil || got.ID != u.ID {
		t.Fatalf("UserByLogin: %+v %v", got, err)
	}

	u.Version = 2
	updated, err := s.UpdateUser(ctx, u)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Version != 2 || !updated.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}
