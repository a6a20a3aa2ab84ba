package tracks

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

func TestTrackLifecycle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := New(st, integrity.New(st, integrity.WithLogger(logging.Nop())))

	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Leftfield"})
	require.NoError(t, err)
	album, err := st.InsertAlbum(ctx, models.Album{ID: models.NewID(), Name: "Leftism", Year: 1995, ArtistID: models.RefTo(artist.ID)})
	require.NoError(t, err)

	track, err := svc.Create(ctx, models.NewTrack{
		Name:     ptr("Open Up"),
		Duration: ptr(413),
		ArtistID: models.RefTo(artist.ID),
		AlbumID:  models.RefTo(album.ID),
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Track{track}, list)

	updated, err := svc.Update(ctx, track.ID, models.TrackPatch{Duration: ptr(420), AlbumID: models.SetRef(models.NoRef)})
	require.NoError(t, err)
	assert.Equal(t, 420, updated.Duration)
	assert.True(t, updated.AlbumID.IsNone())
	assert.True(t, updated.ArtistID.Is(artist.ID))

	require.NoError(t, st.AddFavorite(ctx, models.KindTrack, track.ID))
	require.NoError(t, svc.Delete(ctx, track.ID))

	ids, err := st.FavoriteIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids.Tracks)
}

func TestCreateTrackValidation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := New(st, integrity.New(st, integrity.WithLogger(logging.Nop())))
	artist, err := st.InsertArtist(ctx, models.Artist{ID: models.NewID(), Name: "Orbital"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      models.NewTrack
		wantErr error
	}{
		{name: "missing name", in: models.NewTrack{Duration: ptr(1)}, wantErr: models.ErrMissingField},
		{name: "negative duration", in: models.NewTrack{Name: ptr("x"), Duration: ptr(-1)}, wantErr: models.ErrInvalidArgument},
		{name: "unknown album", in: models.NewTrack{Name: ptr("x"), Duration: ptr(1), ArtistID: models.RefTo(artist.ID), AlbumID: models.RefTo(models.NewID())}, wantErr: models.ErrUnprocessableReference},
		{name: "unknown artist", in: models.NewTrack{Name: ptr("x"), Duration: ptr(1), ArtistID: models.RefTo(models.NewID())}, wantErr: models.ErrUnprocessableReference},
		{name: "album id given as artist", in: models.NewTrack{Name: ptr("x"), Duration: ptr(1), AlbumID: models.RefTo(artist.ID)}, wantErr: models.ErrUnprocessableReference},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	all, err := st.ListTracks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateTrackUnknownID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := New(st, integrity.New(st, integrity.WithLogger(logging.Nop())))

	_, err := svc.Update(ctx, models.NewID(), models.TrackPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Get(ctx, "123")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
