// Package repository holds the whole kanban dataset in memory as one
// document and exposes it as typed tables. Every mutation is reported to
// a single observer so that the document can be mirrored to durable
// storage.
//
// The error values below let higher layers such as handlers tell
// failure scenarios apart. ErrNotFound is returned (wrapped in a
// *NotFoundError) by operations that need an existing id, ErrForbidden
// when a user lacks a capability on a workspace or board, and
// ErrConflict when a write would duplicate an existing record.
package repository

import (
	"errors"
	"fmt"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation it has
// no capability for. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because an
// equivalent record already exists, such as inviting a user who is
// already a board member. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// NotFoundError names the table and id that were missing.
type NotFoundError struct {
	Table model.TableName
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with id %d not found in %s", e.ID, e.Table)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
