// Package domain holds typed identifiers shared across modules.
//
// Typed IDs keep a resident identifier from being passed where an audit event
// identifier is expected. Construct them with the Parse functions at trust
// boundaries; direct conversion from uuid.UUID skips validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "residentportal/pkg/domain-errors"
)

// ResidentID identifies the resident a profile is filed under.
type ResidentID uuid.UUID

// EventID identifies an audit or notification event.
type EventID uuid.UUID

func (id ResidentID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string    { return uuid.UUID(id).String() }

// IsNil reports whether the id is the nil UUID.
func (id ResidentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewEventID returns a fresh random event id.
func NewEventID() EventID { return EventID(uuid.New()) }

// ParseResidentID parses external input into a ResidentID.
// Returns CodeInvalidInput for empty, malformed, or nil UUIDs.
func ParseResidentID(s string) (ResidentID, error) {
	u, err := parseUUID(s, "resident ID")
	return ResidentID(u), err
}

// ParseEventID parses external input into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event ID")
	return EventID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// MarshalText encodes ids as their canonical UUID string in JSON.
func (id ResidentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *ResidentID) UnmarshalText(text []byte) error {
	parsed, err := ParseResidentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EventID) UnmarshalText(text []byte) error {
	parsed, err := ParseEventID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
