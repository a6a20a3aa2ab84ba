package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "canonical uuid", id: "0b9a4c3e-6f0e-4d6b-9a53-2a0a7e5c1d11"},
		{name: "empty", id: "", wantErr: true},
		{name: "not a uuid", id: "12345", wantErr: true},
		{name: "braced form", id: "{0b9a4c3e-6f0e-4d6b-9a53-2a0a7e5c1d11}", wantErr: true},
		{name: "bad hex", id: "zb9a4c3e-6f0e-4d6b-9a53-2a0a7e5c1d11", wantErr: true},
		{name: "upper case", id: "0B9A4C3E-6F0E-4D6B-9A53-2A0A7E5C1D11", wantErr: true},
		{name: "mixed case", id: "0b9a4c3e-6f0e-4d6b-9a53-2A0A7E5C1D11", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateID(tc.id)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		})
	}
}

func TestRefJSON(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(Album{ID: id, Name: "Dummy", Year: 1994})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"artistId":null`) {
		t.Fatalf("expected null artistId, got %s", data)
	}

	data, err = json.Marshal(Album{ID: id, Name: "Dummy", Year: 1994, ArtistID: RefTo(id)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"artistId":"`+id+`"`) {
		t.Fatalf("expected artistId %s, got %s", id, data)
	}

	var in NewAlbum
	if err := json.Unmarshal([]byte(`{"name":"x","year":1,"artistId":"`+id+`"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.ArtistID.Is(id) {
		t.Fatalf("expected artistId %s, got %s", id, in.ArtistID)
	}

	if err := json.Unmarshal([]byte(`{"artistId":42}`), &in); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for numeric ref, got %v", err)
	}
}

func TestRefPatchDistinguishesAbsentFromNull(t *testing.T) {
	id := NewID()

	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantRef Ref
	}{
		{name: "absent", body: `{"name":"x"}`},
		{name: "explicit null", body: `{"artistId":null}`, wantSet: true, wantRef: NoRef},
		{name: "id", body: `{"artistId":"` + id + `"}`, wantSet: true, wantRef: RefTo(id)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var patch AlbumPatch
			if err := json.Unmarshal([]byte(tc.body), &patch); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if patch.ArtistID.Set != tc.wantSet {
				t.Fatalf("expected set=%v, got %v", tc.wantSet, patch.ArtistID.Set)
			}
			if patch.ArtistID.Ref != tc.wantRef {
				t.Fatalf("expected ref %s, got %s", tc.wantRef, patch.ArtistID.Ref)
			}
		})
	}
}

func TestAlbumPatchApplyKeepsID(t *testing.T) {
	artistID := NewID()
	album := Album{ID: NewID(), Name: "Mezzanine", Year: 1998, ArtistID: RefTo(artistID)}
	name := "  Mezzanine (Remastered) "

	got := AlbumPatch{Name: &name, ArtistID: SetRef(NoRef)}.Apply(album)

	if got.ID != album.ID {
		t.Fatalf("id changed from %s to %s", album.ID, got.ID)
	}
	if got.Name != "Mezzanine (Remastered)" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
	if got.Year != 1998 {
		t.Fatalf("expected year untouched, got %d", got.Year)
	}
	if !got.ArtistID.IsNone() {
		t.Fatalf("expected artistId cleared, got %s", got.ArtistID)
	}
}

func TestBuildRequiresFields(t *testing.T) {
	name := "Teardrop"
	duration := 330
	badRef := RefTo("not-a-uuid")

	tests := []struct {
		name    string
		build   func() error
		wantErr error
	}{
		{
			name:    "artist without grammy",
			build:   func() error { _, err := NewArtist{Name: &name}.Build(NewID()); return err },
			wantErr: ErrMissingField,
		},
		{
			name:    "album without year",
			build:   func() error { _, err := NewAlbum{Name: &name}.Build(NewID()); return err },
			wantErr: ErrMissingField,
		},
		{
			name:    "track without duration",
			build:   func() error { _, err := NewTrack{Name: &name}.Build(NewID()); return err },
			wantErr: ErrMissingField,
		},
		{
			name: "track with malformed album ref",
			build: func() error {
				_, err := NewTrack{Name: &name, Duration: &duration, AlbumID: badRef}.Build(NewID())
				return err
			},
			wantErr: ErrInvalidArgument,
		},
		{
			name: "valid track",
			build: func() error {
				_, err := NewTrack{Name: &name, Duration: &duration}.Build(NewID())
				return err
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, raw := range []string{"artist", "ALBUM", " track "} {
		if _, err := ParseKind(raw); err != nil {
			t.Fatalf("ParseKind(%q): %v", raw, err)
		}
	}
	if _, err := ParseKind("playlist"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	created := time.UnixMilli(1700000000000).UTC()
	u := User{ID: NewID(), Login: "demo", PasswordHash: "secret-hash", Version: 1, CreatedAt: created, UpdatedAt: created}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") || strings.Contains(string(data), "password") {
		t.Fatalf("password leaked: %s", data)
	}
	if !strings.Contains(string(data), `"createdAt":1700000000000`) {
		t.Fatalf("expected millisecond timestamp, got %s", data)
	}
}

func TestKindValidateAcceptsOnlyConstants(t *testing.T) {
	for _, k := range Kinds {
		if err := k.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", k, err)
		}
	}
	for _, k := range []Kind{"", "Artist", "TRACK", " album", "playlist"} {
		if err := k.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Validate(%q): expected ErrInvalidArgument, got %v", k, err)
		}
	}
}

func TestPasswordLengthLimit(t *testing.T) {
	login := "someone"
	fits := strings.Repeat("p", MaxPasswordBytes)
	tooLong := strings.Repeat("p", MaxPasswordBytes+1)

	if err := (Credentials{Login: &login, Password: &fits}).Validate(); err != nil {
		t.Fatalf("expected %d-byte password to pass, got %v", MaxPasswordBytes, err)
	}
	if err := (Credentials{Login: &login, Password: &tooLong}).Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for long password, got %v", err)
	}

	if err := (PasswordChange{OldPassword: &fits, NewPassword: &tooLong}).Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for long newPassword, got %v", err)
	}
	if err := (PasswordChange{OldPassword: &tooLong, NewPassword: &fits}).Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for long oldPassword, got %v", err)
	}
}
