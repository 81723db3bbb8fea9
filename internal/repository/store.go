package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Oloap008/Trello-Clone/internal/kvstore"
	"github.com/Oloap008/Trello-Clone/internal/model"
)

// DocumentKey is the storage key of the persisted document.
const DocumentKey = "kanban_data"

// Options configures a Store.
type Options struct {
	// Now stamps createdAt and updatedAt. Defaults to time.Now in UTC.
	Now func() time.Time
	// OnChange is called with a copy of the document after every
	// mutation, while the store's write lock is held.
	OnChange func(ctx context.Context, doc model.Document)
	Logger   *slog.Logger
}

// Store is the relational data store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	writer   sync.Mutex
	doc      model.Document
	now      func() time.Time
	onChange func(context.Context, model.Document)
	log      *slog.Logger

	Users            *SoftTable[model.User]
	Workspaces       *SoftTable[model.Workspace]
	WorkspaceMembers *Table[model.WorkspaceMembership]
	Boards           *SoftTable[model.Board]
	BoardMembers     *Table[model.BoardMembership]
	Lists            *SoftTable[model.List]
	Cards            *SoftTable[model.Card]
	Labels           *SoftTable[model.Label]
	Comments         *SoftTable[model.Comment]
	Activities       *AppendOnly[model.Activity]
}

// New returns a store holding doc.
func New(doc model.Document, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	doc.Normalize()
	s := &Store{doc: doc, now: opts.Now, onChange: opts.OnChange, log: opts.Logger}

	s.Users = newSoftTable[model.User](s, model.TableUsers, func(d *model.Document) *[]model.User { return &d.Users })
	s.Workspaces = newSoftTable[model.Workspace](s, model.TableWorkspaces, func(d *model.Document) *[]model.Workspace { return &d.Workspaces })
	s.WorkspaceMembers = newTable[model.WorkspaceMembership](s, model.TableWorkspaceMembers, func(d *model.Document) *[]model.WorkspaceMembership { return &d.WorkspaceMembers })
	s.Boards = newSoftTable[model.Board](s, model.TableBoards, func(d *model.Document) *[]model.Board { return &d.Boards })
	s.BoardMembers = newTable[model.BoardMembership](s, model.TableBoardMembers, func(d *model.Document) *[]model.BoardMembership { return &d.BoardMembers })
	s.Lists = newSoftTable[model.List](s, model.TableLists, func(d *model.Document) *[]model.List { return &d.Lists })
	s.Cards = newSoftTable[model.Card](s, model.TableCards, func(d *model.Document) *[]model.Card { return &d.Cards })
	s.Labels = newSoftTable[model.Label](s, model.TableCardLabels, func(d *model.Document) *[]model.Label { return &d.CardLabels })
	s.Comments = newSoftTable[model.Comment](s, model.TableCardComments, func(d *model.Document) *[]model.Comment { return &d.CardComments })
	s.Activities = newAppendOnly[model.Activity](s, model.TableCardActivities, func(d *model.Document) *[]model.Activity { return &d.CardActivities })
	return s
}

// Open loads the document from v, falling back to the seed data when
// nothing usable is stored, and mirrors every later change back to v.
// An OnChange already set in opts is called after the write. A storage
// read error is returned without touching what is stored.
func Open(ctx context.Context, v *kvstore.Value[model.Document], opts Options) (*Store, error) {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	seed := model.Seed(now())
	doc, err := v.Load(ctx, &seed)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if doc == nil {
		doc = &seed
	}

	next := opts.OnChange
	opts.OnChange = func(ctx context.Context, d model.Document) {
		v.Write(ctx, &d)
		if next != nil {
			next(ctx, d)
		}
	}
	return New(*doc, opts), nil
}

// changed notifies the observer. Callers hold the write lock.
func (s *Store) changed(ctx context.Context) {
	if s.onChange == nil {
		return
	}
	s.onChange(ctx, s.doc.Clone())
}

// BeginWrite reserves the store for one multi-step mutation and returns
// the function that ends it. Readers are not blocked; another BeginWrite
// waits until end is called. Table methods stay usable in between.
func (s *Store) BeginWrite() (end func()) {
	s.writer.Lock()
	return s.writer.Unlock
}

// Batch runs fn as one multi-step mutation.
func (s *Store) Batch(fn func()) {
	defer s.BeginWrite()()
	fn()
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

// Accessor is the name-driven view of a table, for callers that only know
// the table by name.
type Accessor interface {
	Name() model.TableName
	Len() int
	IDs() []int64
	Exists(id int64) bool
	HardDelete(ctx context.Context, id int64) bool
}

// Table returns the accessor for name. ok is false for unknown names.
func (s *Store) Table(name model.TableName) (Accessor, bool) {
	switch name {
	case model.TableUsers:
		return s.Users, true
	case model.TableWorkspaces:
		return s.Workspaces, true
	case model.TableWorkspaceMembers:
		return s.WorkspaceMembers, true
	case model.TableBoards:
		return s.Boards, true
	case model.TableBoardMembers:
		return s.BoardMembers, true
	case model.TableLists:
		return s.Lists, true
	case model.TableCards:
		return s.Cards, true
	case model.TableCardLabels:
		return s.Labels, true
	case model.TableCardComments:
		return s.Comments, true
	case model.TableCardActivities:
		return eraser[model.Activity]{s.Activities}, true
	}
	return nil, false
}
