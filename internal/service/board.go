package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/queue"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// ActivitySink receives every card activity after it has been logged.
type ActivitySink interface {
	PublishActivity(ctx context.Context, ev queue.ActivityEvent) error
}

// ChangeSink is told about list and card changes on a board.
type ChangeSink interface {
	PublishChange(boardID int64, entity, kind string, id int64)
}

// Sinks fans activities out to several sinks. Errors are collected but do
// not stop delivery to the remaining sinks.
type Sinks []ActivitySink

func (s Sinks) PublishActivity(ctx context.Context, ev queue.ActivityEvent) error {
	var first error
	for _, sink := range s {
		if err := sink.PublishActivity(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BoardDeps wires a Board service. Store and Session are required.
type BoardDeps struct {
	Store    *repository.Store
	Session  SessionSource
	Activity ActivitySink
	Changes  ChangeSink
	Logger   *slog.Logger
}

// ListPatch changes the fields that are set.
type ListPatch struct {
	Name     *string
	Position *int
}

// CardPatch changes the fields that are set. ClearDueDate removes the due
// date and wins over DueDate.
type CardPatch struct {
	Title        *string
	Description  *string
	IsComplete   *bool
	DueDate      *time.Time
	ClearDueDate bool
}

// ModalState describes the card detail view.
type ModalState struct {
	Open         bool  `json:"open"`
	EditingTitle bool  `json:"editingTitle"`
	CardID       int64 `json:"cardId,omitempty"`
	ListID       int64 `json:"listId,omitempty"`
}

// Board applies board-scoped business rules for one client session. Every
// mutation requires the signed-in user to be a member of the current
// board with edit rights. A denied mutation logs a warning and returns
// nil with no error, leaving the document untouched.
//
// The service also tracks the card detail view: a selected card working
// copy that can be edited locally and committed or discarded.
type Board struct {
	store    *repository.Store
	session  SessionSource
	activity ActivitySink
	changes  ChangeSink
	log      *slog.Logger

	mu           sync.Mutex
	boardID      int64
	selected     *model.Card
	selectedList int64
	modalOpen    bool
	editingTitle bool
}

func NewBoard(d BoardDeps) *Board {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Board{
		store:    d.Store,
		session:  d.Session,
		activity: d.Activity,
		changes:  d.Changes,
		log:      d.Logger,
	}
}

// permit returns the acting user when they may edit the current board.
// Callers hold b.lock().
func (b *Board) permit() (int64, bool) {
	s := b.session.Current()
	if s == nil || b.boardID == 0 || !b.store.CanUserEditBoard(s.ID, b.boardID) {
		b.log.Warn("user does not have edit permissions for this board", "board_id", b.boardID)
		return 0, false
	}
	return s.ID, true
}

// lock reserves the store and the view state for one mutation. The store
// is taken first so that services sharing a store apply mutations one at
// a time.
func (b *Board) lock() (unlock func()) {
	end := b.store.BeginWrite()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		end()
	}
}

func (b *Board) canEdit() bool {
	s := b.session.Current()
	return s != nil && b.boardID != 0 && b.store.CanUserEditBoard(s.ID, b.boardID)
}

// logActivity records an activity for card and forwards it to the sink.
func (b *Board) logActivity(ctx context.Context, card model.Card, typ model.ActivityType, description string) {
	s := b.session.Current()
	if s == nil {
		return
	}
	a := b.store.LogCardActivity(ctx, card.ID, s.ID, typ, description)
	if b.activity == nil {
		return
	}
	ev := queue.ActivityEvent{
		ActivityID:  a.ID,
		CardID:      card.ID,
		BoardID:     card.BoardID,
		UserID:      s.ID,
		Type:        string(typ),
		Description: description,
		OccurredAt:  a.CreatedAt,
	}
	if err := b.activity.PublishActivity(ctx, ev); err != nil {
		b.log.Warn("activity not forwarded", "activity_id", a.ID, "err", err)
	}
}

func (b *Board) changed(boardID int64, entity, kind string, id int64) {
	if b.changes != nil {
		b.changes.PublishChange(boardID, entity, kind, id)
	}
}

// mirror copies a stored card into the working copy when it is the
// selected one.
func (b *Board) mirror(c model.Card) {
	if b.selected != nil && b.selected.ID == c.ID {
		title := b.selected.Title
		cp := c
		cp.Detach()
		if b.editingTitle {
			cp.Title = title
		}
		b.selected = &cp
	}
}

func nextPosition[R any](rows []R, pos func(R) int) int {
	max := 0
	for _, r := range rows {
		if p := pos(r); p > max {
			max = p
		}
	}
	if len(rows) == 0 {
		return 1
	}
	return max + 1
}

// Board selection

// SetBoard makes id the current board and closes the card view.
func (b *Board) SetBoard(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boardID = id
	b.closeCard()
}

func (b *Board) BoardID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.boardID
}

func (b *Board) CurrentBoard() (model.Board, bool) {
	b.mu.Lock()
	id := b.boardID
	b.mu.Unlock()
	if id == 0 {
		return model.Board{}, false
	}
	return b.store.Boards.ByID(id)
}

// CanEdit reports whether the signed-in user may edit the current board.
func (b *Board) CanEdit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canEdit()
}

// CurrentLists returns the current board's active lists in order.
func (b *Board) CurrentLists() []model.List {
	b.mu.Lock()
	id := b.boardID
	b.mu.Unlock()
	if id == 0 {
		return nil
	}
	return b.store.ListsForBoard(id)
}

// CloseBoard archives board id.
func (b *Board) CloseBoard(ctx context.Context, id int64) (*model.Board, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	board, err := b.store.Boards.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Lists

func (b *Board) CreateList(ctx context.Context, name string) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	pos := nextPosition(b.store.ListsForBoard(b.boardID), func(l model.List) int { return l.Position })
	l := b.store.Lists.Create(ctx, model.List{
		BoardID:  b.boardID,
		Name:     name,
		Position: pos,
		Status:   model.StatusActive,
	})
	b.changed(l.BoardID, "list", "list.created", l.ID)
	return &l, nil
}

func (b *Board) UpdateList(ctx context.Context, id int64, p ListPatch) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	return b.updateList(ctx, id, p)
}

func (b *Board) updateList(ctx context.Context, id int64, p ListPatch) (*model.List, error) {
	l, err := b.store.Lists.Update(ctx, id, func(l *model.List) {
		if p.Name != nil {
			l.Name = strings.TrimSpace(*p.Name)
		}
		if p.Position != nil {
			l.Position = *p.Position
		}
	})
	if err != nil {
		return nil, err
	}
	b.changed(l.BoardID, "list", "list.updated", l.ID)
	return &l, nil
}

// DeleteList archives every active card of the list, logging a delete for
// each, and then the list itself.
func (b *Board) DeleteList(ctx context.Context, id int64) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	if !b.store.Lists.Exists(id) {
		return nil, &repository.NotFoundError{Table: model.TableLists, ID: id}
	}
	for _, c := range b.store.CardsForList(id) {
		archived, err := b.store.Cards.Remove(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("delete list %d: %w", id, err)
		}
		b.mirror(archived)
		b.logActivity(ctx, archived, model.ActivityDelete, fmt.Sprintf("Deleted card %q (list deleted)", c.Title))
	}
	l, err := b.store.Lists.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	b.changed(l.BoardID, "list", "list.deleted", l.ID)
	return &l, nil
}

// ReorderList swaps the positions of two active lists of the current
// board. Nothing else moves and no activity is logged. It returns nil
// when either list is not an active list of the board.
func (b *Board) ReorderList(ctx context.Context, sourceID, targetID int64) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	lists := b.store.ListsForBoard(b.boardID)
	si := slices.IndexFunc(lists, func(l model.List) bool { return l.ID == sourceID })
	ti := slices.IndexFunc(lists, func(l model.List) bool { return l.ID == targetID })
	if si < 0 || ti < 0 {
		return nil, nil
	}
	src, dst := lists[si], lists[ti]
	moved, err := b.updateList(ctx, src.ID, ListPatch{Position: &dst.Position})
	if err != nil {
		return nil, err
	}
	if _, err := b.updateList(ctx, dst.ID, ListPatch{Position: &src.Position}); err != nil {
		return nil, err
	}
	return moved, nil
}

// ArchiveList archives the list and, when cascade is set, each of its
// active cards. It returns nil when the list does not exist.
func (b *Board) ArchiveList(ctx context.Context, id int64, cascade bool) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	if !b.store.Lists.Exists(id) {
		return nil, nil
	}
	l, err := b.store.Lists.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	if cascade {
		for _, c := range b.store.CardsForList(id) {
			archived, err := b.store.Cards.Remove(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			b.mirror(archived)
			b.logActivity(ctx, archived, model.ActivityUpdate, fmt.Sprintf("Archived card %q (list archived)", c.Title))
		}
	}
	b.changed(l.BoardID, "list", "list.archived", l.ID)
	return &l, nil
}

// RestoreList makes the list active again. With cascade every card of the
// list is restored too, whatever its state. It returns nil when the list
// does not exist.
func (b *Board) RestoreList(ctx context.Context, id int64, cascade bool) (*model.List, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	if !b.store.Lists.Exists(id) {
		return nil, nil
	}
	l, err := b.store.Lists.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	if cascade {
		cards := b.store.Cards.Where(func(c model.Card) bool { return c.ListID == id })
		for _, c := range cards {
			restored, err := b.store.Cards.Restore(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			b.mirror(restored)
			b.logActivity(ctx, restored, model.ActivityUpdate, fmt.Sprintf("Restored card %q (list restored)", c.Title))
		}
	}
	b.changed(l.BoardID, "list", "list.restored", l.ID)
	return &l, nil
}

func (b *Board) ArchivedLists(boardID int64) []model.List {
	return b.store.ArchivedListsForBoard(boardID)
}

func (b *Board) ArchivedCards(boardID int64) []model.Card {
	return b.store.ArchivedCardsForBoard(boardID)
}

// Cards

// boardList returns list id when it belongs to the current board.
func (b *Board) boardList(id int64) (model.List, error) {
	l, ok := b.store.Lists.ByID(id)
	if !ok || l.BoardID != b.boardID {
		return model.List{}, &repository.NotFoundError{Table: model.TableLists, ID: id}
	}
	return l, nil
}

// CreateCard appends a card to a list of the current board.
func (b *Board) CreateCard(ctx context.Context, listID int64, title, description string) (*model.Card, error) {
	defer b.lock()()
	uid, ok := b.permit()
	if !ok {
		return nil, nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	l, err := b.boardList(listID)
	if err != nil {
		return nil, err
	}
	pos := nextPosition(b.store.CardsForList(listID), func(c model.Card) int { return c.Position })
	c := b.store.Cards.Create(ctx, model.Card{
		ListID:      listID,
		BoardID:     l.BoardID,
		Title:       title,
		Description: description,
		Position:    pos,
		CreatedByID: uid,
		Status:      model.StatusActive,
	})
	b.logActivity(ctx, c, model.ActivityCreate, fmt.Sprintf("Created card %q", title))
	b.changed(c.BoardID, "card", "card.created", c.ID)
	return &c, nil
}

func (b *Board) UpdateCard(ctx context.Context, id int64, p CardPatch) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	return b.updateCard(ctx, id, p)
}

func (b *Board) updateCard(ctx context.Context, id int64, p CardPatch) (*model.Card, error) {
	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
	}
	c, err := b.store.Cards.Update(ctx, id, func(c *model.Card) {
		if title != "" {
			c.Title = title
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.IsComplete != nil {
			c.IsComplete = *p.IsComplete
		}
		if p.DueDate != nil {
			due := p.DueDate.UTC()
			c.DueDate = &due
		}
		if p.ClearDueDate {
			c.DueDate = nil
		}
	})
	if err != nil {
		return nil, err
	}
	b.mirror(c)
	if title != "" {
		b.logActivity(ctx, c, model.ActivityUpdate, fmt.Sprintf("Updated card title to %q", title))
	}
	b.changed(c.BoardID, "card", "card.updated", c.ID)
	return &c, nil
}

// MoveCard moves a card to listID. With a position, every other active
// card of the destination at or after it shifts down by one and the card
// takes that position; without one it is appended. The card takes the
// destination list's board. Moving to a list on another board also
// requires edit rights there. It returns nil when the card is missing.
func (b *Board) MoveCard(ctx context.Context, id, listID int64, position *int) (*model.Card, error) {
	defer b.lock()()
	uid, ok := b.permit()
	if !ok {
		return nil, nil
	}
	card, ok := b.store.Cards.ByID(id)
	if !ok {
		return nil, nil
	}
	dest, ok := b.store.Lists.ByID(listID)
	if !ok {
		return nil, &repository.NotFoundError{Table: model.TableLists, ID: listID}
	}
	if dest.BoardID != card.BoardID && !b.store.CanUserEditBoard(uid, dest.BoardID) {
		b.log.Warn("user does not have edit permissions for the destination board", "board_id", dest.BoardID)
		return nil, nil
	}

	siblings := b.store.CardsForList(listID)
	var pos int
	if position != nil && *position >= 0 {
		pos = *position
		for _, c := range siblings {
			if c.Position >= pos && c.ID != id {
				if _, err := b.store.Cards.Update(ctx, c.ID, func(c *model.Card) { c.Position++ }); err != nil {
					return nil, err
				}
			}
		}
	} else {
		pos = nextPosition(siblings, func(c model.Card) int { return c.Position })
	}

	moved, err := b.store.Cards.Update(ctx, id, func(c *model.Card) {
		c.ListID = listID
		c.BoardID = dest.BoardID
		c.Position = pos
	})
	if err != nil {
		return nil, err
	}
	if b.selected != nil && b.selected.ID == id {
		b.selectedList = listID
	}
	b.mirror(moved)

	if card.ListID != listID {
		b.logActivity(ctx, moved, model.ActivityMove,
			fmt.Sprintf("Moved card from %q to %q", b.listName(card.ListID), dest.Name))
	}
	if card.BoardID != dest.BoardID {
		b.changed(card.BoardID, "card", "card.moved", id)
	}
	b.changed(dest.BoardID, "card", "card.moved", id)
	return &moved, nil
}

func (b *Board) listName(id int64) string {
	if l, ok := b.store.Lists.ByID(id); ok && l.Name != "" {
		return l.Name
	}
	return "Unknown List"
}

// ToggleCardComplete flips the card's completion. It returns nil when the
// card is missing.
func (b *Board) ToggleCardComplete(ctx context.Context, id int64) (*model.Card, error) {
	defer b.lock()()
	card, ok := b.store.Cards.ByID(id)
	if !ok {
		return nil, nil
	}
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	done := !card.IsComplete
	c, err := b.store.Cards.Update(ctx, id, func(c *model.Card) { c.IsComplete = done })
	if err != nil {
		return nil, err
	}
	b.mirror(c)
	state := "reopened"
	if c.IsComplete {
		state = "completed"
	}
	b.logActivity(ctx, c, model.ActivityUpdate, "Card "+state)
	b.changed(c.BoardID, "card", "card.updated", c.ID)
	return &c, nil
}

// DeleteCard archives the card and logs its deletion.
func (b *Board) DeleteCard(ctx context.Context, id int64) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	card, ok := b.store.Cards.ByID(id)
	if !ok {
		return nil, &repository.NotFoundError{Table: model.TableCards, ID: id}
	}
	b.logActivity(ctx, card, model.ActivityDelete, fmt.Sprintf("Deleted card %q", card.Title))
	c, err := b.store.Cards.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	b.mirror(c)
	b.changed(c.BoardID, "card", "card.deleted", c.ID)
	return &c, nil
}

func (b *Board) ArchiveCard(ctx context.Context, id int64) (*model.Card, error) {
	return b.setCardStatus(ctx, id, model.StatusArchived, "archived", "Archived card %q")
}

func (b *Board) RestoreCard(ctx context.Context, id int64) (*model.Card, error) {
	return b.setCardStatus(ctx, id, model.StatusActive, "restored", "Restored card %q")
}

func (b *Board) setCardStatus(ctx context.Context, id int64, st model.Status, kind, format string) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	card, ok := b.store.Cards.ByID(id)
	if !ok {
		return nil, nil
	}
	c, err := b.store.Cards.Update(ctx, id, func(c *model.Card) { c.Status = st })
	if err != nil {
		return nil, err
	}
	b.mirror(c)
	b.logActivity(ctx, c, model.ActivityUpdate, fmt.Sprintf(format, card.Title))
	b.changed(c.BoardID, "card", "card."+kind, c.ID)
	return &c, nil
}

// CardActivities returns the card's activity log, newest first.
func (b *Board) CardActivities(cardID int64) []model.Activity {
	return b.store.ActivitiesForCard(cardID)
}

// Card view

// OpenCard selects a card and snapshots it into the working copy. It
// reports false, leaving the view unchanged, when the card is missing.
func (b *Board) OpenCard(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.store.Cards.ByID(id)
	if !ok {
		return false
	}
	b.selected = &c
	b.selectedList = c.ListID
	b.modalOpen = true
	b.editingTitle = false
	return true
}

func (b *Board) CloseCard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeCard()
}

func (b *Board) closeCard() {
	b.modalOpen = false
	b.selected = nil
	b.selectedList = 0
	b.editingTitle = false
}

// StartEditingTitle enters title editing when a card is selected.
func (b *Board) StartEditingTitle() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected != nil {
		b.editingTitle = true
	}
}

// SetSelectedTitle edits the working copy's title only.
func (b *Board) SetSelectedTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected != nil {
		b.selected.Title = title
	}
}

// SaveCardTitle commits the working copy's trimmed title. A blank title
// is not saved and editing continues.
func (b *Board) SaveCardTitle(ctx context.Context) (*model.Card, error) {
	defer b.lock()()
	if b.selected == nil {
		return nil, nil
	}
	title := strings.TrimSpace(b.selected.Title)
	if title == "" {
		return nil, nil
	}
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	b.editingTitle = false
	return b.updateCard(ctx, b.selected.ID, CardPatch{Title: &title})
}

// CancelCardTitleEdit discards the working title by re-reading the
// stored one.
func (b *Board) CancelCardTitleEdit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected != nil && b.selectedList != 0 {
		if c, ok := b.store.Cards.ByID(b.selected.ID); ok {
			b.selected.Title = c.Title
		}
	}
	b.editingTitle = false
}

// CurrentListTitle names the selected card's list.
func (b *Board) CurrentListTitle() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selectedList == 0 {
		return "Unknown List"
	}
	return b.listName(b.selectedList)
}

// Selected returns a copy of the working card, or nil.
func (b *Board) Selected() *model.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected == nil {
		return nil
	}
	c := *b.selected
	c.Detach()
	return &c
}

func (b *Board) ModalState() ModalState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := ModalState{Open: b.modalOpen, EditingTitle: b.editingTitle, ListID: b.selectedList}
	if b.selected != nil {
		st.CardID = b.selected.ID
	}
	return st
}
