package models

import (
	"fmt"
	"strings"
)

// Kind names one of the favoritable entity types.
type Kind string

const (
	KindArtist Kind = "artist"
	KindAlbum  Kind = "album"
	KindTrack  Kind = "track"
)

// Kinds lists every favoritable kind in listing order.
var Kinds = []Kind{KindArtist, KindAlbum, KindTrack}

// ParseKind converts a path segment into a Kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindArtist, KindAlbum, KindTrack:
		return k, nil
	default:
		return "", fmt.Errorf("favorite type %q: %w", raw, ErrInvalidArgument)
	}
}

// Validate accepts only the exact kind constants.
func (k Kind) Validate() error {
	switch k {
	case KindArtist, KindAlbum, KindTrack:
		return nil
	default:
		return fmt.Errorf("favorite type %q: %w", string(k), ErrInvalidArgument)
	}
}

// Title returns the capitalized kind for messages.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Artist is a performer in the catalog.
type Artist struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Grammy bool   `json:"grammy" db:"grammy"`
}

// NewArtist carries the fields accepted when creating an artist.
type NewArtist struct {
	Name   *string `json:"name"`
	Grammy *bool   `json:"grammy"`
}

// Build validates the input and returns the artist it describes.
func (n NewArtist) Build(id string) (Artist, error) {
	if n.Name == nil || n.Grammy == nil {
		return Artist{}, fmt.Errorf("artist requires name and grammy: %w", ErrMissingField)
	}
	name := strings.TrimSpace(*n.Name)
	if name == "" {
		return Artist{}, fmt.Errorf("artist name: %w", ErrMissingField)
	}
	return Artist{ID: id, Name: name, Grammy: *n.Grammy}, nil
}

// ArtistPatch is a partial artist update.
type ArtistPatch struct {
	Name   *string `json:"name"`
	Grammy *bool   `json:"grammy"`
}

// Validate checks the fields present in the patch.
func (p ArtistPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("artist name must not be empty: %w", ErrInvalidArgument)
	}
	return nil
}

// Apply returns a copy of a with the patch applied. The id never changes.
func (p ArtistPatch) Apply(a Artist) Artist {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Grammy != nil {
		a.Grammy = *p.Grammy
	}
	return a
}

// Album is a record, optionally credited to an artist.
type Album struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Year     int    `json:"year" db:"year"`
	ArtistID Ref    `json:"artistId" db:"artist_id"`
}

// NewAlbum carries the fields accepted when creating an album.
type NewAlbum struct {
	Name     *string `json:"name"`
	Year     *int    `json:"year"`
	ArtistID Ref     `json:"artistId"`
}

// Build validates the input and returns the album it describes.
func (n NewAlbum) Build(id string) (Album, error) {
	if n.Name == nil || n.Year == nil {
		return Album{}, fmt.Errorf("album requires name and year: %w", ErrMissingField)
	}
	name := strings.TrimSpace(*n.Name)
	if name == "" {
		return Album{}, fmt.Errorf("album name: %w", ErrMissingField)
	}
	if err := validateRef("artistId", n.ArtistID); err != nil {
		return Album{}, err
	}
	return Album{ID: id, Name: name, Year: *n.Year, ArtistID: n.ArtistID}, nil
}

// AlbumPatch is a partial album update.
type AlbumPatch struct {
	Name     *string  `json:"name"`
	Year     *int     `json:"year"`
	ArtistID RefPatch `json:"artistId"`
}

// Validate checks the fields present in the patch.
func (p AlbumPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("album name must not be empty: %w", ErrInvalidArgument)
	}
	if p.ArtistID.Set {
		return validateRef("artistId", p.ArtistID.Ref)
	}
	return nil
}

// Apply returns a copy of a with the patch applied. The id never changes.
func (p AlbumPatch) Apply(a Album) Album {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Year != nil {
		a.Year = *p.Year
	}
	if p.ArtistID.Set {
		a.ArtistID = p.ArtistID.Ref
	}
	return a
}

// Track is a single recording, optionally linked to an artist and an album.
type Track struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Duration int    `json:"duration" db:"duration"`
	ArtistID Ref    `json:"artistId" db:"artist_id"`
	AlbumID  Ref    `json:"albumId" db:"album_id"`
}

// NewTrack carries the fields accepted when creating a track.
type NewTrack struct {
	Name     *string `json:"name"`
	Duration *int    `json:"duration"`
	ArtistID Ref     `json:"artistId"`
	AlbumID  Ref     `json:"albumId"`
}

// Build validates the input and returns the track it describes.
func (n NewTrack) Build(id string) (Track, error) {
	if n.Name == nil || n.Duration == nil {
		return Track{}, fmt.Errorf("track requires name and duration: %w", ErrMissingField)
	}
	name := strings.TrimSpace(*n.Name)
	if name == "" {
		return Track{}, fmt.Errorf("track name: %w", ErrMissingField)
	}
	if *n.Duration < 0 {
		return Track{}, fmt.Errorf("track duration must not be negative: %w", ErrInvalidArgument)
	}
	if err := validateRef("artistId", n.ArtistID); err != nil {
		return Track{}, err
	}
	if err := validateRef("albumId", n.AlbumID); err != nil {
		return Track{}, err
	}
	return Track{ID: id, Name: name, Duration: *n.Duration, ArtistID: n.ArtistID, AlbumID: n.AlbumID}, nil
}

// TrackPatch is a partial track update.
type TrackPatch struct {
	Name     *string  `json:"name"`
	Duration *int     `json:"duration"`
	ArtistID RefPatch `json:"artistId"`
	AlbumID  RefPatch `json:"albumId"`
}

// Validate checks the fields present in the patch.
func (p TrackPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("track name must not be empty: %w", ErrInvalidArgument)
	}
	if p.Duration != nil && *p.Duration < 0 {
		return fmt.Errorf("track duration must not be negative: %w", ErrInvalidArgument)
	}
	if p.ArtistID.Set {
		if err := validateRef("artistId", p.ArtistID.Ref); err != nil {
			return err
		}
	}
	if p.AlbumID.Set {
		return validateRef("albumId", p.AlbumID.Ref)
	}
	return nil
}

// Apply returns a copy of t with the patch applied. The id never changes.
func (p TrackPatch) Apply(t Track) Track {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.ArtistID.Set {
		t.ArtistID = p.ArtistID.Ref
	}
	if p.AlbumID.Set {
		t.AlbumID = p.AlbumID.Ref
	}
	return t
}

// FavoriteIDs holds the ids marked favorite, per kind, in insertion order.
type FavoriteIDs struct {
	Artists []string `json:"artists"`
	Albums  []string `json:"albums"`
	Tracks  []string `json:"tracks"`
}

// Of returns the id sequence for kind.
func (f FavoriteIDs) Of(kind Kind) []string {
	switch kind {
	case KindArtist:
		return f.Artists
	case KindAlbum:
		return f.Albums
	case KindTrack:
		return f.Tracks
	}
	return nil
}

// Favorites is the favorites collection resolved to full entities.
type Favorites struct {
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Tracks  []Track  `json:"tracks"`
}
