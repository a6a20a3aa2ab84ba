package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musiclib/internal/app/integrity"
	"musiclib/internal/logging"
	"musiclib/internal/models"
	"musiclib/internal/store"
)

func setup(t *testing.T) (context.Context, *store.Memory, Service, *integrity.Coordinator) {
	t.Helper()
	st := store.NewMemory()
	return context.Background(), st, New(st), integrity.New(st, integrity.WithLogger(logging.Nop()))
}

func TestAddTwiceKeepsOneEntry(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	album, err := st.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "Blue Lines", Year: 1991})
	require.NoError(t, err)

	require.NoError(t, svc.Add(ctx, models.KindAlbum, album.ID))
	require.NoError(t, svc.Add(ctx, models.KindAlbum, album.ID))

	ids, err := st.FavoriteIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{album.ID}, ids.Albums)
}

func TestAddMissingEntity(t *testing.T) {
	ctx, _, svc, _ := setup(t)

	err := svc.Add(ctx, models.KindAlbum, models.NewID())
	assert.ErrorIs(t, err, models.ErrUnprocessableReference)

	err = svc.Add(ctx, models.KindTrack, "not-an-id")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestAddChecksTheRightKind(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Moderat"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Add(ctx, models.KindAlbum, artist.ID), models.ErrUnprocessableReference)
	assert.NoError(t, svc.Add(ctx, models.KindArtist, artist.ID))
}

func TestRemoveTwiceReportsNotFound(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	track, err := st.InsertTrack(ctx, models.Track{ID: models.NewID(), Name: "Archangel", Duration: 239})
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, models.KindTrack, track.ID))

	require.NoError(t, svc.Remove(ctx, models.KindTrack, track.ID))
	assert.ErrorIs(t, svc.Remove(ctx, models.KindTrack, track.ID), models.ErrNotFound)
}

func TestRemoveThenCascadeDoesNotFail(t *testing.T) {
	ctx, st, svc, coord := setup(t)
	track, err := st.InsertTrack(ctx, models.Track{ID: models.NewID(), Name: "Untrue", Duration: 300})
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, models.KindTrack, track.ID))

	require.NoError(t, svc.Remove(ctx, models.KindTrack, track.ID))
	assert.NoError(t, coord.DeleteTrack(ctx, track.ID))
}

func TestListAfterArtistDeleteKeepsAlbum(t *testing.T) {
	ctx, st, svc, coord := setup(t)
	x, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "X"})
	require.NoError(t, err)
	y, err := st.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "Y", Year: 2020, ArtistID: models.RefTo(x.ID)})
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, models.KindAlbum, y.ID))

	require.NoError(t, coord.DeleteArtist(ctx, x.ID))

	favs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, favs.Albums, 1)
	assert.Equal(t, y.ID, favs.Albums[0].ID)
	assert.True(t, favs.Albums[0].ArtistID.IsNone())
	assert.Empty(t, favs.Artists)

	_, err = st.Artist(ctx, x.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAfterFavoritedAlbumDelete(t *testing.T) {
	ctx, st, svc, coord := setup(t)
	album, err := st.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "Protection", Year: 1994})
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, models.KindAlbum, album.ID))

	require.NoError(t, coord.DeleteAlbum(ctx, album.ID))

	favs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs.Albums)
	_, err = st.Album(ctx, album.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListDropsDanglingIDs(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Lamb"})
	require.NoError(t, err)
	require.NoError(t, st.AddFavorite(ctx, models.KindArtist, artist.ID))
	require.NoError(t, st.AddFavorite(ctx, models.KindArtist, models.NewID()))

	favs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, favs.Artists, 1)
	assert.Equal(t, artist, favs.Artists[0])
	assert.NotNil(t, favs.Tracks)
}

func TestIsFavorite(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Morcheeba"})
	require.NoError(t, err)

	ok, err := svc.IsFavorite(ctx, models.KindArtist, artist.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Add(ctx, models.KindArtist, artist.ID))
	ok, err = svc.IsFavorite(ctx, models.KindArtist, artist.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNonCanonicalKindIsRejected(t *testing.T) {
	ctx, st, svc, _ := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Moderat"})
	require.NoError(t, err)

	for _, kind := range []models.Kind{"Artist", "TRACK", " album", ""} {
		assert.ErrorIs(t, svc.Add(ctx, kind, artist.ID), models.ErrInvalidArgument, "Add(%q)", kind)
		assert.ErrorIs(t, svc.Remove(ctx, kind, artist.ID), models.ErrInvalidArgument, "Remove(%q)", kind)
		_, err := svc.IsFavorite(ctx, kind, artist.ID)
		assert.ErrorIs(t, err, models.ErrInvalidArgument, "IsFavorite(%q)", kind)
	}

	ids, err := st.FavoriteIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids.Artists)
}
