package repository

import (
	"context"
	"slices"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

type record[R any] interface {
	*R
	Metadata() *model.Meta
}

type softRecord[R any] interface {
	record[R]
	StatusRef() *model.Status
}

// Table is one typed table of the document. Records handed out by a
// table are copies; changing them has no effect until passed back
// through Update.
type Table[R any] struct {
	s      *Store
	name   model.TableName
	rows   func(*model.Document) *[]R
	meta   func(*R) *model.Meta
	status func(*R) *model.Status // nil for tables without soft delete
}

func newTable[R any, P record[R]](s *Store, name model.TableName, rows func(*model.Document) *[]R) *Table[R] {
	return &Table[R]{
		s:    s,
		name: name,
		rows: rows,
		meta: func(r *R) *model.Meta { return P(r).Metadata() },
	}
}

// detach gives r its own copies of any shared slices.
func detach[R any](r *R) {
	if d, ok := any(r).(interface{ Detach() }); ok {
		d.Detach()
	}
}

func (t *Table[R]) Name() model.TableName { return t.name }

func (t *Table[R]) Len() int {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return len(*t.rows(&t.s.doc))
}

func (t *Table[R]) IDs() []int64 {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	rows := *t.rows(&t.s.doc)
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, t.meta(&rows[i]).ID)
	}
	return ids
}

func (t *Table[R]) Exists(id int64) bool {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.index(id) >= 0
}

// index returns the position of id or -1. Callers hold the lock.
func (t *Table[R]) index(id int64) int {
	rows := *t.rows(&t.s.doc)
	for i := range rows {
		if t.meta(&rows[i]).ID == id {
			return i
		}
	}
	return -1
}

func (t *Table[R]) nextID() int64 {
	var max int64
	rows := *t.rows(&t.s.doc)
	for i := range rows {
		if id := t.meta(&rows[i]).ID; id > max {
			max = id
		}
	}
	return max + 1
}

// Create assigns the next id and fresh timestamps, defaults the status to
// active where the table has one, appends the record and returns it.
func (t *Table[R]) Create(ctx context.Context, r R) R {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	detach(&r)
	now := t.s.now()
	m := t.meta(&r)
	m.ID = t.nextID()
	m.CreatedAt = now
	m.UpdatedAt = now
	if t.status != nil && *t.status(&r) == model.StatusUnset {
		*t.status(&r) = model.StatusActive
	}
	rows := t.rows(&t.s.doc)
	*rows = append(*rows, r)
	t.s.changed(ctx)

	detach(&r)
	return r
}

// All returns every record in insertion order, archived ones included.
func (t *Table[R]) All() []R {
	return t.Where(func(R) bool { return true })
}

// Where returns the records keep accepts. keep runs under the store's
// read lock and must not call back into the store.
func (t *Table[R]) Where(keep func(R) bool) []R {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var out []R
	for _, r := range *t.rows(&t.s.doc) {
		if keep(r) {
			detach(&r)
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the record with id. ok is false when it does not exist.
func (t *Table[R]) ByID(id int64) (r R, ok bool) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	i := t.index(id)
	if i < 0 {
		return r, false
	}
	r = (*t.rows(&t.s.doc))[i]
	detach(&r)
	return r, true
}

// Update applies patch to a copy of the record and stores the result with
// a refreshed updatedAt. The patch cannot change id or createdAt.
func (t *Table[R]) Update(ctx context.Context, id int64, patch func(*R)) (R, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	rows := *t.rows(&t.s.doc)
	i := t.index(id)
	if i < 0 {
		var zero R
		return zero, &NotFoundError{Table: t.name, ID: id}
	}
	r := rows[i]
	detach(&r)
	before := *t.meta(&r)
	patch(&r)
	m := t.meta(&r)
	m.ID = before.ID
	m.CreatedAt = before.CreatedAt
	m.UpdatedAt = t.s.now()
	rows[i] = r
	t.s.changed(ctx)

	detach(&r)
	return r, nil
}

// HardDelete removes the record outright. It reports false when there was
// nothing to remove. Records that reference it are left untouched.
func (t *Table[R]) HardDelete(ctx context.Context, id int64) bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return false
	}
	rows := t.rows(&t.s.doc)
	*rows = slices.Delete(*rows, i, i+1)
	t.s.changed(ctx)
	return true
}

// SoftTable is a table whose records carry a status. Removing a record
// archives it; it stays addressable by id and can be restored.
type SoftTable[R any] struct {
	*Table[R]
}

func newSoftTable[R any, P softRecord[R]](s *Store, name model.TableName, rows func(*model.Document) *[]R) *SoftTable[R] {
	t := newTable[R, P](s, name, rows)
	t.status = func(r *R) *model.Status { return P(r).StatusRef() }
	return &SoftTable[R]{Table: t}
}

// Remove archives the record.
func (t *SoftTable[R]) Remove(ctx context.Context, id int64) (R, error) {
	return t.setStatus(ctx, id, model.StatusArchived)
}

// Restore makes an archived record active again.
func (t *SoftTable[R]) Restore(ctx context.Context, id int64) (R, error) {
	return t.setStatus(ctx, id, model.StatusActive)
}

func (t *SoftTable[R]) setStatus(ctx context.Context, id int64, st model.Status) (R, error) {
	return t.Update(ctx, id, func(r *R) { *t.status(r) = st })
}

// Active returns the records whose status is active.
func (t *SoftTable[R]) Active() []R {
	return t.Where(func(r R) bool { return t.status(&r).Active() })
}

// Archived returns the records whose status is archived.
func (t *SoftTable[R]) Archived() []R {
	return t.Where(func(r R) bool { return *t.status(&r) == model.StatusArchived })
}

// IsActive reports whether r is active.
func (t *SoftTable[R]) IsActive(r R) bool { return t.status(&r).Active() }

// AppendOnly is a table whose records are never changed once written. It
// exposes no Update and no soft delete.
type AppendOnly[R any] struct {
	t *Table[R]
}

func newAppendOnly[R any, P record[R]](s *Store, name model.TableName, rows func(*model.Document) *[]R) *AppendOnly[R] {
	return &AppendOnly[R]{t: newTable[R, P](s, name, rows)}
}

func (a *AppendOnly[R]) Name() model.TableName             { return a.t.Name() }
func (a *AppendOnly[R]) Len() int                          { return a.t.Len() }
func (a *AppendOnly[R]) IDs() []int64                      { return a.t.IDs() }
func (a *AppendOnly[R]) Exists(id int64) bool              { return a.t.Exists(id) }
func (a *AppendOnly[R]) Create(ctx context.Context, r R) R { return a.t.Create(ctx, r) }
func (a *AppendOnly[R]) All() []R                          { return a.t.All() }
func (a *AppendOnly[R]) Where(keep func(R) bool) []R       { return a.t.Where(keep) }
func (a *AppendOnly[R]) ByID(id int64) (R, bool)           { return a.t.ByID(id) }

// hardDelete erases a record permanently. It is reachable only through
// the name-driven Accessor of the store.
func (a *AppendOnly[R]) hardDelete(ctx context.Context, id int64) bool {
	return a.t.HardDelete(ctx, id)
}

// eraser adapts an append-only table to Accessor.
type eraser[R any] struct{ *AppendOnly[R] }

func (e eraser[R]) HardDelete(ctx context.Context, id int64) bool { return e.hardDelete(ctx, id) }
