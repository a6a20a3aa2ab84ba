package albums

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

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (context.Context, *store.Memory, Service) {
	t.Helper()
	st := store.NewMemory()
	return context.Background(), st, New(st, integrity.New(st, integrity.WithLogger(logging.Nop())))
}

func TestCreateAlbum(t *testing.T) {
	ctx, st, svc := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "DJ Shadow"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      models.NewAlbum
		wantErr error
	}{
		{name: "with artist", in: models.NewAlbum{Name: ptr("Endtroducing"), Year: ptr(1996), ArtistID: models.RefTo(artist.ID)}},
		{name: "without artist", in: models.NewAlbum{Name: ptr("Compilation"), Year: ptr(2001)}},
		{name: "missing year", in: models.NewAlbum{Name: ptr("No Year")}, wantErr: models.ErrMissingField},
		{name: "unknown artist", in: models.NewAlbum{Name: ptr("Ghost"), Year: ptr(2000), ArtistID: models.RefTo(models.NewID())}, wantErr: models.ErrUnprocessableReference},
		{name: "malformed artist", in: models.NewAlbum{Name: ptr("Bad"), Year: ptr(2000), ArtistID: models.RefTo("42")}, wantErr: models.ErrInvalidArgument},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Create(ctx, tc.in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, models.ValidateID(got.ID))
			assert.Equal(t, tc.in.ArtistID, got.ArtistID)

			stored, err := st.Album(ctx, got.ID)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestCreateFailureWritesNothing(t *testing.T) {
	ctx, st, svc := setup(t)

	_, err := svc.Create(ctx, models.NewAlbum{Name: ptr("Ghost"), Year: ptr(2000), ArtistID: models.RefTo(models.NewID())})
	require.ErrorIs(t, err, models.ErrUnprocessableReference)

	all, err := st.ListAlbums(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateAlbum(t *testing.T) {
	ctx, st, svc := setup(t)
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "UNKLE"})
	require.NoError(t, err)
	album, err := svc.Create(ctx, models.NewAlbum{Name: ptr("Psyence Fiction"), Year: ptr(1998)})
	require.NoError(t, err)

	got, err := svc.Update(ctx, album.ID, models.AlbumPatch{ArtistID: models.SetRef(models.RefTo(artist.ID))})
	require.NoError(t, err)
	assert.True(t, got.ArtistID.Is(artist.ID))
	assert.Equal(t, "Psyence Fiction", got.Name)
	assert.Equal(t, album.ID, got.ID)

	got, err = svc.Update(ctx, album.ID, models.AlbumPatch{Year: ptr(1999)})
	require.NoError(t, err)
	assert.True(t, got.ArtistID.Is(artist.ID), "absent artistId must leave the reference alone")

	got, err = svc.Update(ctx, album.ID, models.AlbumPatch{ArtistID: models.SetRef(models.NoRef)})
	require.NoError(t, err)
	assert.True(t, got.ArtistID.IsNone())

	_, err = svc.Update(ctx, album.ID, models.AlbumPatch{ArtistID: models.SetRef(models.RefTo(models.NewID()))})
	assert.ErrorIs(t, err, models.ErrUnprocessableReference)

	_, err = svc.Update(ctx, models.NewID(), models.AlbumPatch{Year: ptr(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, "x", models.AlbumPatch{})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestGetAndDelete(t *testing.T) {
	ctx, st, svc := setup(t)
	album, err := svc.Create(ctx, models.NewAlbum{Name: ptr("Maxinquaye"), Year: ptr(1995)})
	require.NoError(t, err)
	track, err := st.InsertTrack(ctx, models.Track{ID: models.NewID(), Name: "Overcome", Duration: 275, AlbumID: models.RefTo(album.ID)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, album, got)

	require.NoError(t, svc.Delete(ctx, album.ID))
	_, err = svc.Get(ctx, album.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	detached, err := st.Track(ctx, track.ID)
	require.NoError(t, err)
	assert.True(t, detached.AlbumID.IsNone())

	assert.ErrorIs(t, svc.Delete(ctx, album.ID), models.ErrNotFound)
}
