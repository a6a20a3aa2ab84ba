package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"musiclib/internal/models"
)

// Memory keeps the catalog in process memory. All entity types are plain
// values, so handing out copies is enough to keep callers from mutating
// stored state.
type Memory struct {
	mu sync.RWMutex
	st *memState
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{st: newMemState()}
}

// Atomically stages a copy of the current state, runs fn against it and
// swaps it in only if fn succeeds.
func (m *Memory) Atomically(ctx context.Context, fn func(Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.st.clone()
	if err := fn(memRepo{st: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.st = staged
	return nil
}

func (m *Memory) view() memRepo {
	return memRepo{st: m.st}
}

// Artist returns the artist with id.
func (m *Memory) Artist(ctx context.Context, id string) (models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().Artist(ctx, id)
}

// ListArtists returns every artist in creation order.
func (m *Memory) ListArtists(ctx context.Context) ([]models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().ListArtists(ctx)
}

// InsertArtist stores a new artist.
func (m *Memory) InsertArtist(ctx context.Context, artist models.Artist) (models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertArtist(ctx, artist)
}

// UpdateArtist applies patch to the stored artist.
func (m *Memory) UpdateArtist(ctx context.Context, id string, patch models.ArtistPatch) (models.Artist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateArtist(ctx, id, patch)
}

// DeleteArtist removes the artist with id.
func (m *Memory) DeleteArtist(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteArtist(ctx, id)
}

// Album returns the album with id.
func (m *Memory) Album(ctx context.Context, id string) (models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().Album(ctx, id)
}

// ListAlbums returns every album in creation order.
func (m *Memory) ListAlbums(ctx context.Context) ([]models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().ListAlbums(ctx)
}

// AlbumsByArtist returns the albums credited to artistID.
func (m *Memory) AlbumsByArtist(ctx context.Context, artistID string) ([]models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().AlbumsByArtist(ctx, artistID)
}

// InsertAlbum stores a new album.
func (m *Memory) InsertAlbum(ctx context.Context, album models.Album) (models.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertAlbum(ctx, album)
}

// UpdateAlbum applies patch to the stored album.
func (m *Memory) UpdateAlbum(ctx context.Context, id string, patch models.AlbumPatch) (models.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateAlbum(ctx, id, patch)
}

// DeleteAlbum removes the album with id.
func (m *Memory) DeleteAlbum(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteAlbum(ctx, id)
}

// Track returns the track with id.
func (m *Memory) Track(ctx context.Context, id string) (models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().Track(ctx, id)
}

// ListTracks returns every track in creation order.
func (m *Memory) ListTracks(ctx context.Context) ([]models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().ListTracks(ctx)
}

// TracksByArtist returns the tracks credited to artistID.
func (m *Memory) TracksByArtist(ctx context.Context, artistID string) ([]models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().TracksByArtist(ctx, artistID)
}

// TracksByAlbum returns the tracks on albumID.
func (m *Memory) TracksByAlbum(ctx context.Context, albumID string) ([]models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().TracksByAlbum(ctx, albumID)
}

// InsertTrack stores a new track.
func (m *Memory) InsertTrack(ctx context.Context, track models.Track) (models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertTrack(ctx, track)
}

// UpdateTrack applies patch to the stored track.
func (m *Memory) UpdateTrack(ctx context.Context, id string, patch models.TrackPatch) (models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateTrack(ctx, id, patch)
}

// DeleteTrack removes the track with id.
func (m *Memory) DeleteTrack(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteTrack(ctx, id)
}

// User returns the user with id.
func (m *Memory) User(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().User(ctx, id)
}

// LockUser returns the user with id. Writers are already serialized by the
// state lock.
func (m *Memory) LockUser(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().LockUser(ctx, id)
}

// UserByLogin returns the user registered under login.
func (m *Memory) UserByLogin(ctx context.Context, login string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().UserByLogin(ctx, login)
}

// ListUsers returns every user in creation order.
func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().ListUsers(ctx)
}

// InsertUser stores a new user.
func (m *Memory) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertUser(ctx, user)
}

// UpdateUser replaces the stored user.
func (m *Memory) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateUser(ctx, user)
}

// DeleteUser removes the user with id.
func (m *Memory) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().DeleteUser(ctx, id)
}

// FavoriteIDs returns the favorite ids per kind.
func (m *Memory) FavoriteIDs(ctx context.Context) (models.FavoriteIDs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().FavoriteIDs(ctx)
}

// IsFavorite reports whether id is a favorite of kind.
func (m *Memory) IsFavorite(ctx context.Context, kind models.Kind, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view().IsFavorite(ctx, kind, id)
}

// AddFavorite marks id as a favorite of kind.
func (m *Memory) AddFavorite(ctx context.Context, kind models.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().AddFavorite(ctx, kind, id)
}

// RemoveFavorite unmarks id as a favorite of kind.
func (m *Memory) RemoveFavorite(ctx context.Context, kind models.Kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().RemoveFavorite(ctx, kind, id)
}

// table is an insertion-ordered map.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) insert(id string, v T) bool {
	if t.has(id) {
		return false
	}
	t.rows[id] = v
	t.order = append(t.order, id)
	return true
}

func (t *table[T]) replace(id string, v T) bool {
	if !t.has(id) {
		return false
	}
	t.rows[id] = v
	return true
}

func (t *table[T]) remove(id string) bool {
	if !t.has(id) {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{
		rows:  make(map[string]T, len(t.rows)),
		order: make([]string, len(t.order)),
	}
	for id, v := range t.rows {
		c.rows[id] = v
	}
	copy(c.order, t.order)
	return c
}

type memState struct {
	artists   *table[models.Artist]
	albums    *table[models.Album]
	tracks    *table[models.Track]
	users     *table[models.User]
	favorites map[models.Kind]*table[struct{}]
}

func newMemState() *memState {
	st := &memState{
		artists:   newTable[models.Artist](),
		albums:    newTable[models.Album](),
		tracks:    newTable[models.Track](),
		users:     newTable[models.User](),
		favorites: make(map[models.Kind]*table[struct{}], len(models.Kinds)),
	}
	for _, kind := range models.Kinds {
		st.favorites[kind] = newTable[struct{}]()
	}
	return st
}

func (st *memState) clone() *memState {
	c := &memState{
		artists:   st.artists.clone(),
		albums:    st.albums.clone(),
		tracks:    st.tracks.clone(),
		users:     st.users.clone(),
		favorites: make(map[models.Kind]*table[struct{}], len(st.favorites)),
	}
	for kind, set := range st.favorites {
		c.favorites[kind] = set.clone()
	}
	return c
}

// memRepo implements Repository over a state without locking. Memory guards
// the live state; Atomically hands out a memRepo over a private copy.
type memRepo struct {
	st *memState
}

func (r memRepo) Artist(_ context.Context, id string) (models.Artist, error) {
	a, ok := r.st.artists.get(id)
	if !ok {
		return models.Artist{}, notFound("artist", id)
	}
	return a, nil
}

func (r memRepo) ListArtists(context.Context) ([]models.Artist, error) {
	return r.st.artists.list(nil), nil
}

func (r memRepo) InsertArtist(_ context.Context, artist models.Artist) (models.Artist, error) {
	if !r.st.artists.insert(artist.ID, artist) {
		return models.Artist{}, conflict("artist", artist.ID)
	}
	return artist, nil
}

func (r memRepo) UpdateArtist(_ context.Context, id string, patch models.ArtistPatch) (models.Artist, error) {
	a, ok := r.st.artists.get(id)
	if !ok {
		return models.Artist{}, notFound("artist", id)
	}
	a = patch.Apply(a)
	r.st.artists.replace(id, a)
	return a, nil
}

func (r memRepo) DeleteArtist(_ context.Context, id string) error {
	if !r.st.artists.remove(id) {
		return notFound("artist", id)
	}
	return nil
}

func (r memRepo) Album(_ context.Context, id string) (models.Album, error) {
	a, ok := r.st.albums.get(id)
	if !ok {
		return models.Album{}, notFound("album", id)
	}
	return a, nil
}

func (r memRepo) ListAlbums(context.Context) ([]models.Album, error) {
	return r.st.albums.list(nil), nil
}

func (r memRepo) AlbumsByArtist(_ context.Context, artistID string) ([]models.Album, error) {
	return r.st.albums.list(func(a models.Album) bool { return a.ArtistID.Is(artistID) }), nil
}

func (r memRepo) InsertAlbum(_ context.Context, album models.Album) (models.Album, error) {
	if !r.st.albums.insert(album.ID, album) {
		return models.Album{}, conflict("album", album.ID)
	}
	return album, nil
}

func (r memRepo) UpdateAlbum(_ context.Context, id string, patch models.AlbumPatch) (models.Album, error) {
	a, ok := r.st.albums.get(id)
	if !ok {
		return models.Album{}, notFound("album", id)
	}
	a = patch.Apply(a)
	r.st.albums.replace(id, a)
	return a, nil
}

func (r memRepo) DeleteAlbum(_ context.Context, id string) error {
	if !r.st.albums.remove(id) {
		return notFound("album", id)
	}
	return nil
}

func (r memRepo) Track(_ context.Context, id string) (models.Track, error) {
	t, ok := r.st.tracks.get(id)
	if !ok {
		return models.Track{}, notFound("track", id)
	}
	return t, nil
}

func (r memRepo) ListTracks(context.Context) ([]models.Track, error) {
	return r.st.tracks.list(nil), nil
}

func (r memRepo) TracksByArtist(_ context.Context, artistID string) ([]models.Track, error) {
	return r.st.tracks.list(func(t models.Track) bool { return t.ArtistID.Is(artistID) }), nil
}

func (r memRepo) TracksByAlbum(_ context.Context, albumID string) ([]models.Track, error) {
	return r.st.tracks.list(func(t models.Track) bool { return t.AlbumID.Is(albumID) }), nil
}

func (r memRepo) InsertTrack(_ context.Context, track models.Track) (models.Track, error) {
	if !r.st.tracks.insert(track.ID, track) {
		return models.Track{}, conflict("track", track.ID)
	}
	return track, nil
}

func (r memRepo) UpdateTrack(_ context.Context, id string, patch models.TrackPatch) (models.Track, error) {
	t, ok := r.st.tracks.get(id)
	if !ok {
		return models.Track{}, notFound("track", id)
	}
	t = patch.Apply(t)
	r.st.tracks.replace(id, t)
	return t, nil
}

func (r memRepo) DeleteTrack(_ context.Context, id string) error {
	if !r.st.tracks.remove(id) {
		return notFound("track", id)
	}
	return nil
}

func (r memRepo) User(_ context.Context, id string) (models.User, error) {
	u, ok := r.st.users.get(id)
	if !ok {
		return models.User{}, notFound("user", id)
	}
	return u, nil
}

func (r memRepo) LockUser(ctx context.Context, id string) (models.User, error) {
	return r.User(ctx, id)
}

func (r memRepo) UserByLogin(_ context.Context, login string) (models.User, error) {
	for _, u := range r.st.users.list(nil) {
		if u.Login == login {
			return u, nil
		}
	}
	return models.User{}, notFound("user", login)
}

func (r memRepo) ListUsers(context.Context) ([]models.User, error) {
	return r.st.users.list(nil), nil
}

func (r memRepo) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	if _, err := r.UserByLogin(ctx, user.Login); err == nil {
		return models.User{}, conflict("login", user.Login)
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	if !r.st.users.insert(user.ID, user) {
		return models.User{}, conflict("user", user.ID)
	}
	return user, nil
}

func (r memRepo) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	existing, ok := r.st.users.get(user.ID)
	if !ok {
		return models.User{}, notFound("user", user.ID)
	}
	for _, other := range r.st.users.list(nil) {
		if other.ID != user.ID && other.Login == user.Login {
			return models.User{}, conflict("login", user.Login)
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.st.users.replace(user.ID, user)
	return user, nil
}

func (r memRepo) DeleteUser(_ context.Context, id string) error {
	if !r.st.users.remove(id) {
		return notFound("user", id)
	}
	return nil
}

func (r memRepo) FavoriteIDs(context.Context) (models.FavoriteIDs, error) {
	return models.FavoriteIDs{
		Artists: append([]string{}, r.st.favorites[models.KindArtist].order...),
		Albums:  append([]string{}, r.st.favorites[models.KindAlbum].order...),
		Tracks:  append([]string{}, r.st.favorites[models.KindTrack].order...),
	}, nil
}

func (r memRepo) favoriteSet(kind models.Kind) (*table[struct{}], error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	set, ok := r.st.favorites[kind]
	if !ok {
		return nil, fmt.Errorf("favorites of %s: %w", kind, models.ErrInvalidArgument)
	}
	return set, nil
}

func (r memRepo) IsFavorite(_ context.Context, kind models.Kind, id string) (bool, error) {
	set, err := r.favoriteSet(kind)
	if err != nil {
		return false, err
	}
	return set.has(id), nil
}

func (r memRepo) AddFavorite(_ context.Context, kind models.Kind, id string) error {
	set, err := r.favoriteSet(kind)
	if err != nil {
		return err
	}
	set.insert(id, struct{}{})
	return nil
}

func (r memRepo) RemoveFavorite(_ context.Context, kind models.Kind, id string) (bool, error) {
	set, err := r.favoriteSet(kind)
	if err != nil {
		return false, err
	}
	return set.remove(id), nil
}
