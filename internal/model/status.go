package model

import (
	"fmt"
	"time"
)

// Status is the soft-delete state shared by most records. Archived
// records are hidden from every active view but stay addressable by id
// and can be restored.
//
// On the wire the states keep the names used by the stored document:
// "active" and "not_active".
type Status uint8

const (
	// StatusUnset is the zero value; Create replaces it with StatusActive.
	StatusUnset Status = iota
	StatusActive
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusArchived:
		return "not_active"
	default:
		return ""
	}
}

// Active reports whether the record is visible in active views.
func (s Status) Active() bool { return s == StatusActive }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active":
		*s = StatusActive
	case "not_active":
		*s = StatusArchived
	case "":
		*s = StatusUnset
	default:
		return fmt.Errorf("unknown status %q", string(b))
	}
	return nil
}

// Meta carries the fields every table row has. It is embedded in each
// record type so that the JSON stays flat.
type Meta struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Metadata gives generic table code access to the embedded Meta.
func (m *Meta) Metadata() *Meta { return m }
