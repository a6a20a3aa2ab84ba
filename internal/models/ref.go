package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateID reports ErrInvalidArgument unless id is a UUID in canonical
// lower-case form.
func ValidateID(id string) error {
	if len(id) != 36 {
		return fmt.Errorf("id %q: %w", id, ErrInvalidArgument)
	}
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("id %q: %w", id, ErrInvalidArgument)
	}
	return nil
}

// Ref is an optional reference to another entity: either none or an id.
// The zero value is none.
type Ref struct {
	id string
}

// NoRef is the empty reference.
var NoRef = Ref{}

// RefTo builds a reference to id. An empty id yields NoRef.
func RefTo(id string) Ref {
	return Ref{id: strings.TrimSpace(id)}
}

// ID returns the referenced id and whether the reference is set.
func (r Ref) ID() (string, bool) {
	return r.id, r.id != ""
}

// IsNone reports whether the reference is empty.
func (r Ref) IsNone() bool {
	return r.id == ""
}

// Is reports whether r points at id.
func (r Ref) Is(id string) bool {
	return r.id != "" && r.id == id
}

func (r Ref) String() string {
	if r.id == "" {
		return "<none>"
	}
	return r.id
}

// MarshalJSON renders the reference as the id string or null.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts a string id or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = NoRef
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("reference must be a string or null: %w", ErrInvalidArgument)
	}
	*r = RefTo(id)
	return nil
}

// Scan implements sql.Scanner for nullable uuid/text columns.
func (r *Ref) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = NoRef
	case string:
		*r = RefTo(v)
	case []byte:
		*r = RefTo(string(v))
	case [16]byte:
		*r = RefTo(uuid.UUID(v).String())
	default:
		return fmt.Errorf("scan reference: unsupported type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (r Ref) Value() (driver.Value, error) {
	if r.id == "" {
		return nil, nil
	}
	return r.id, nil
}

// RefPatch is a reference field in a partial update. It distinguishes an
// absent field from an explicit null.
type RefPatch struct {
	Set bool
	Ref Ref
}

// SetRef returns a patch that assigns ref.
func SetRef(ref Ref) RefPatch {
	return RefPatch{Set: true, Ref: ref}
}

// UnmarshalJSON marks the patch as set, including for an explicit null.
func (p *RefPatch) UnmarshalJSON(data []byte) error {
	var ref Ref
	if err := ref.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = RefPatch{Set: true, Ref: ref}
	return nil
}

func validateRef(field string, ref Ref) error {
	id, ok := ref.ID()
	if !ok {
		return nil
	}
	if err := ValidateID(id); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
