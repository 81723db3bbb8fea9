package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/queue"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

var epoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

type tick struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tick) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recorder struct {
	mu      sync.Mutex
	events  []queue.ActivityEvent
	changes []string
}

func (r *recorder) PublishActivity(_ context.Context, ev queue.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) PublishChange(_ int64, _, kind string, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, kind)
}

func seededStore(t *testing.T) *repository.Store {
	t.Helper()
	c := &tick{t: epoch}
	return repository.New(model.Seed(epoch), repository.Options{Now: c.now})
}

// boardAs returns a board service acting as userID on boardID.
func boardAs(t *testing.T, s *repository.Store, userID, boardID int64) (*Board, *recorder) {
	t.Helper()
	var sess *model.Session
	if u, ok := s.Users.ByID(userID); ok {
		ss := model.SessionFor(u)
		sess = &ss
	}
	rec := &recorder{}
	b := NewBoard(BoardDeps{Store: s, Session: StaticSession{Session: sess}, Activity: rec, Changes: rec})
	b.SetBoard(boardID)
	return b, rec
}

func latest(t *testing.T, s *repository.Store, cardID int64) model.Activity {
	t.Helper()
	acts := s.ActivitiesForCard(cardID)
	if len(acts) == 0 {
		t.Fatalf("card %d has no activities", cardID)
	}
	return acts[0]
}

func TestMutationWithoutEditRightsIsNoop(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, rec := boardAs(t, s, 3, 1)

	if b.CanEdit() {
		t.Fatal("jane can edit board 1")
	}
	l, err := b.CreateList(ctx, "Nope")
	if l != nil || err != nil {
		t.Fatalf("CreateList = %v, %v; want nil, nil", l, err)
	}
	c, err := b.CreateCard(ctx, 1, "Nope", "")
	if c != nil || err != nil {
		t.Fatalf("CreateCard = %v, %v; want nil, nil", c, err)
	}
	if s.Lists.Len() != 13 || s.Cards.Len() != 9 {
		t.Fatalf("lists %d cards %d, want 13 and 9", s.Lists.Len(), s.Cards.Len())
	}
	if len(rec.events) != 0 {
		t.Fatalf("events = %v, want none", rec.events)
	}

	anon := NewBoard(BoardDeps{Store: s, Session: StaticSession{}})
	anon.SetBoard(1)
	if got, _ := anon.DeleteCard(ctx, 1); got != nil {
		t.Fatal("anonymous delete went through")
	}
}

func applied[T any](v *T, err error) (bool, error) { return v != nil, err }

func TestReadOnlyMemberCannotMutate(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	s.BoardMembers.Create(ctx, model.BoardMembership{BoardID: 1, UserID: 3, Role: model.BoardMember, JoinedAt: epoch})
	b, rec := boardAs(t, s, 3, 1)
	if b.CanEdit() {
		t.Fatal("read-only member can edit")
	}
	if !b.OpenCard(1) {
		t.Fatal("OpenCard(1) failed")
	}
	b.SetSelectedTitle("Renamed")

	name, title, pos := "Renamed", "Renamed", 1
	due := epoch.Add(48 * time.Hour)
	cases := []struct {
		name string
		op   func() (bool, error)
	}{
		{"CloseBoard", func() (bool, error) { return applied(b.CloseBoard(ctx, 1)) }},
		{"CreateList", func() (bool, error) { return applied(b.CreateList(ctx, "List")) }},
		{"UpdateList", func() (bool, error) { return applied(b.UpdateList(ctx, 1, ListPatch{Name: &name})) }},
		{"DeleteList", func() (bool, error) { return applied(b.DeleteList(ctx, 1)) }},
		{"ReorderList", func() (bool, error) { return applied(b.ReorderList(ctx, 1, 3)) }},
		{"ArchiveList", func() (bool, error) { return applied(b.ArchiveList(ctx, 1, true)) }},
		{"RestoreList", func() (bool, error) { return applied(b.RestoreList(ctx, 1, true)) }},
		{"CreateCard", func() (bool, error) { return applied(b.CreateCard(ctx, 1, "Card", "")) }},
		{"UpdateCard", func() (bool, error) { return applied(b.UpdateCard(ctx, 1, CardPatch{Title: &title})) }},
		{"MoveCard", func() (bool, error) { return applied(b.MoveCard(ctx, 1, 2, &pos)) }},
		{"ToggleCardComplete", func() (bool, error) { return applied(b.ToggleCardComplete(ctx, 1)) }},
		{"DeleteCard", func() (bool, error) { return applied(b.DeleteCard(ctx, 1)) }},
		{"ArchiveCard", func() (bool, error) { return applied(b.ArchiveCard(ctx, 1)) }},
		{"RestoreCard", func() (bool, error) { return applied(b.RestoreCard(ctx, 1)) }},
		{"SaveCardTitle", func() (bool, error) { return applied(b.SaveCardTitle(ctx)) }},
		{"AddComment", func() (bool, error) { return applied(b.AddComment(ctx, 1, "hi")) }},
		{"AssignMember", func() (bool, error) { return applied(b.AssignMember(ctx, 1, 3)) }},
		{"UnassignMember", func() (bool, error) { return applied(b.UnassignMember(ctx, 2, 1)) }},
		{"AddChecklistItem", func() (bool, error) { return applied(b.AddChecklistItem(ctx, 1, "step")) }},
		{"ToggleChecklistItem", func() (bool, error) { return applied(b.ToggleChecklistItem(ctx, 9, 1)) }},
		{"SetDueDate", func() (bool, error) { return applied(b.SetDueDate(ctx, 1, &due)) }},
		{"AttachLabel", func() (bool, error) { return applied(b.AttachLabel(ctx, 1, 1)) }},
		{"DetachLabel", func() (bool, error) { return applied(b.DetachLabel(ctx, 2, 1)) }},
		{"CreateLabel", func() (bool, error) { return applied(b.CreateLabel(ctx, "Label", "#000000")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := s.Snapshot()
			ok, err := tc.op()
			if ok || err != nil {
				t.Fatalf("%s = %v, %v; want nil, nil", tc.name, ok, err)
			}
			if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Fatalf("%s changed the document", tc.name)
			}
		})
	}
	if len(rec.events) != 0 || len(rec.changes) != 0 {
		t.Fatalf("events %v changes %v, want none", rec.events, rec.changes)
	}
}

func TestConcurrentCreateCardPositions(t *testing.T) {
	ctx := context.Background()
	c := &tick{t: epoch}
	s := repository.New(model.Seed(epoch), repository.Options{
		Now:      c.now,
		OnChange: func(context.Context, model.Document) { time.Sleep(time.Millisecond) },
	})

	const n = 20
	boards := make([]*Board, n)
	for i := range boards {
		boards[i], _ = boardAs(t, s, 1, 1)
	}
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, b := range boards {
		wg.Add(1)
		go func(b *Board) {
			defer wg.Done()
			if _, err := b.CreateCard(ctx, 1, "Parallel", ""); err != nil {
				errs <- err
			}
		}(b)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("CreateCard: %v", err)
	}

	cards := s.CardsForList(1)
	if len(cards) != n+1 {
		t.Fatalf("cards = %d, want %d", len(cards), n+1)
	}
	seen := make(map[int]bool)
	for _, card := range cards {
		seen[card.Position] = true
	}
	for p := 1; p <= n+1; p++ {
		if !seen[p] {
			t.Fatalf("position %d missing from %v", p, seen)
		}
	}
}

func TestCreateListAppends(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	l, err := b.CreateList(ctx, "  Review  ")
	if err != nil || l == nil {
		t.Fatalf("CreateList = %v, %v", l, err)
	}
	if l.ID != 14 || l.Name != "Review" || l.Position != 4 || l.BoardID != 1 {
		t.Fatalf("list = %+v", l)
	}
	if _, err := b.CreateList(ctx, "   "); err == nil {
		t.Fatal("blank list name accepted")
	}
	lists := b.CurrentLists()
	if len(lists) != 4 || lists[3].ID != 14 {
		t.Fatalf("CurrentLists = %+v", lists)
	}
}

func TestCreateCard(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, rec := boardAs(t, s, 1, 1)

	c, err := b.CreateCard(ctx, 1, "Write docs", "first pass")
	if err != nil || c == nil {
		t.Fatalf("CreateCard = %v, %v", c, err)
	}
	if c.ID != 10 || c.Position != 2 || c.BoardID != 1 || c.CreatedByID != 1 {
		t.Fatalf("card = %+v", c)
	}
	a := latest(t, s, c.ID)
	if a.Type != model.ActivityCreate || a.Description != `Created card "Write docs"` {
		t.Fatalf("activity = %+v", a)
	}
	if len(rec.events) != 1 || rec.events[0].CardID != 10 || rec.events[0].BoardID != 1 {
		t.Fatalf("events = %+v", rec.events)
	}

	l, _ := b.CreateList(ctx, "Empty")
	first, _ := b.CreateCard(ctx, l.ID, "Only", "")
	if first.Position != 1 {
		t.Fatalf("first card position = %d, want 1", first.Position)
	}

	// list 4 is on board 2
	if _, err := b.CreateCard(ctx, 4, "Elsewhere", ""); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("CreateCard on foreign list err = %v", err)
	}
}

func TestMoveCardShiftsDestination(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	a, _ := b.CreateCard(ctx, 1, "A", "")
	z, _ := b.CreateCard(ctx, 1, "Z", "")

	two := 2
	moved, err := b.MoveCard(ctx, 3, 1, &two)
	if err != nil || moved == nil {
		t.Fatalf("MoveCard = %v, %v", moved, err)
	}
	if moved.ListID != 1 || moved.Position != 2 {
		t.Fatalf("moved = %+v", moved)
	}
	want := map[int64]int{1: 1, 3: 2, a.ID: 3, z.ID: 4}
	for id, pos := range want {
		c, _ := s.Cards.ByID(id)
		if c.Position != pos {
			t.Errorf("card %d position = %d, want %d", id, c.Position, pos)
		}
	}
	act := latest(t, s, 3)
	if act.Type != model.ActivityMove || act.Description != `Moved card from "Done" to "To Do"` {
		t.Fatalf("activity = %+v", act)
	}
}

func TestMoveCardAppendsWithoutPosition(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	moved, err := b.MoveCard(ctx, 1, 2, nil)
	if err != nil || moved == nil {
		t.Fatalf("MoveCard = %v, %v", moved, err)
	}
	if moved.ListID != 2 || moved.Position != 2 {
		t.Fatalf("moved = %+v", moved)
	}
}

func TestMoveCardWithinListLogsNothing(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	before := s.Activities.Len()
	one := 1
	if _, err := b.MoveCard(ctx, 1, 1, &one); err != nil {
		t.Fatal(err)
	}
	if s.Activities.Len() != before {
		t.Fatalf("activities %d, want %d", s.Activities.Len(), before)
	}
}

func TestMoveCardErrors(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	if _, err := b.MoveCard(ctx, 1, 999, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing list err = %v", err)
	}
	if c, err := b.MoveCard(ctx, 999, 1, nil); c != nil || err != nil {
		t.Fatalf("missing card = %v, %v", c, err)
	}
}

func TestMoveCardAcrossBoards(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	// john edits board 1 but is not on board 4
	john, _ := boardAs(t, s, 2, 1)
	if c, err := john.MoveCard(ctx, 1, 11, nil); c != nil || err != nil {
		t.Fatalf("MoveCard = %v, %v; want nil, nil", c, err)
	}
	if c, _ := s.Cards.ByID(1); c.ListID != 1 {
		t.Fatalf("card moved to list %d", c.ListID)
	}

	demo, _ := boardAs(t, s, 1, 1)
	moved, err := demo.MoveCard(ctx, 1, 11, nil)
	if err != nil || moved == nil {
		t.Fatalf("MoveCard = %v, %v", moved, err)
	}
	if moved.BoardID != 4 || moved.ListID != 11 {
		t.Fatalf("moved = %+v", moved)
	}
}

func TestDeleteListArchivesCards(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	l, err := b.DeleteList(ctx, 1)
	if err != nil || l == nil {
		t.Fatalf("DeleteList = %v, %v", l, err)
	}
	if l.Status != model.StatusArchived {
		t.Fatalf("list status = %v", l.Status)
	}
	c, _ := s.Cards.ByID(1)
	if c.Status != model.StatusArchived {
		t.Fatalf("card status = %v", c.Status)
	}
	act := latest(t, s, 1)
	if act.Type != model.ActivityDelete || act.Description != `Deleted card "Welcome to your board!" (list deleted)` {
		t.Fatalf("activity = %+v", act)
	}
	if got := len(b.CurrentLists()); got != 2 {
		t.Fatalf("active lists = %d, want 2", got)
	}
	if _, err := b.DeleteList(ctx, 999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing list err = %v", err)
	}
}

func TestReorderListSwapsOnly(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	before := s.Activities.Len()
	moved, err := b.ReorderList(ctx, 1, 3)
	if err != nil || moved == nil {
		t.Fatalf("ReorderList = %v, %v", moved, err)
	}
	want := map[int64]int{1: 3, 2: 2, 3: 1}
	for id, pos := range want {
		l, _ := s.Lists.ByID(id)
		if l.Position != pos {
			t.Errorf("list %d position = %d, want %d", id, l.Position, pos)
		}
	}
	if s.Activities.Len() != before {
		t.Fatal("reorder logged an activity")
	}
	if l, err := b.ReorderList(ctx, 1, 4); l != nil || err != nil {
		t.Fatalf("foreign list reorder = %v, %v", l, err)
	}
}

func TestArchiveAndRestoreList(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	if _, err := b.ArchiveList(ctx, 2, true); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Cards.ByID(2); c.Status != model.StatusArchived {
		t.Fatalf("card 2 status = %v", c.Status)
	}
	if got := b.ArchivedLists(1); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("ArchivedLists = %+v", got)
	}
	if got := b.ArchivedCards(1); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("ArchivedCards = %+v", got)
	}

	if _, err := b.RestoreList(ctx, 2, false); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Cards.ByID(2); c.Status != model.StatusArchived {
		t.Fatal("card restored without cascade")
	}
	if _, err := b.RestoreList(ctx, 2, true); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Cards.ByID(2); c.Status != model.StatusActive {
		t.Fatal("card not restored with cascade")
	}
	if l, err := b.ArchiveList(ctx, 999, true); l != nil || err != nil {
		t.Fatalf("missing list = %v, %v", l, err)
	}
}

func TestToggleCardComplete(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	c, err := b.ToggleCardComplete(ctx, 1)
	if err != nil || c == nil || !c.IsComplete {
		t.Fatalf("toggle = %+v, %v", c, err)
	}
	if a := latest(t, s, 1); a.Description != "Card completed" {
		t.Fatalf("activity = %q", a.Description)
	}
	c, _ = b.ToggleCardComplete(ctx, 1)
	if c.IsComplete {
		t.Fatal("second toggle left card complete")
	}
	if a := latest(t, s, 1); a.Description != "Card reopened" {
		t.Fatalf("activity = %q", a.Description)
	}
	if c, err := b.ToggleCardComplete(ctx, 999); c != nil || err != nil {
		t.Fatalf("missing card = %v, %v", c, err)
	}
}

func TestUpdateCardLogsTitleOnly(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	before := s.Activities.Len()
	desc := "new body"
	if _, err := b.UpdateCard(ctx, 1, CardPatch{Description: &desc}); err != nil {
		t.Fatal(err)
	}
	if s.Activities.Len() != before {
		t.Fatal("description change logged an activity")
	}

	title := "  Renamed "
	c, err := b.UpdateCard(ctx, 1, CardPatch{Title: &title})
	if err != nil || c.Title != "Renamed" || c.Description != "new body" {
		t.Fatalf("UpdateCard = %+v, %v", c, err)
	}
	if a := latest(t, s, 1); a.Description != `Updated card title to "Renamed"` {
		t.Fatalf("activity = %q", a.Description)
	}

	due := time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	c, _ = b.UpdateCard(ctx, 1, CardPatch{DueDate: &due})
	if c.DueDate == nil || !c.DueDate.Equal(due) {
		t.Fatalf("due = %v", c.DueDate)
	}
	c, _ = b.UpdateCard(ctx, 1, CardPatch{ClearDueDate: true})
	if c.DueDate != nil {
		t.Fatal("due date not cleared")
	}
	if _, err := b.UpdateCard(ctx, 999, CardPatch{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing card err = %v", err)
	}
}

func TestDeleteArchiveRestoreCard(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	if _, err := b.ArchiveCard(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if a := latest(t, s, 2); a.Description != `Archived card "Card in progress"` {
		t.Fatalf("activity = %q", a.Description)
	}
	if c, _ := b.RestoreCard(ctx, 2); c == nil || c.Status != model.StatusActive {
		t.Fatalf("RestoreCard = %+v", c)
	}
	if c, err := b.ArchiveCard(ctx, 999); c != nil || err != nil {
		t.Fatalf("missing card = %v, %v", c, err)
	}

	c, err := b.DeleteCard(ctx, 3)
	if err != nil || c.Status != model.StatusArchived {
		t.Fatalf("DeleteCard = %+v, %v", c, err)
	}
	if a := latest(t, s, 3); a.Type != model.ActivityDelete || a.Description != `Deleted card "Completed task"` {
		t.Fatalf("activity = %+v", a)
	}
}

func TestCardModal(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	if b.OpenCard(999) {
		t.Fatal("opened a missing card")
	}
	if !b.OpenCard(2) {
		t.Fatal("OpenCard(2) failed")
	}
	if got := b.CurrentListTitle(); got != "In Progress" {
		t.Fatalf("list title = %q", got)
	}

	b.StartEditingTitle()
	b.SetSelectedTitle("Draft")
	if c, _ := s.Cards.ByID(2); c.Title != "Card in progress" {
		t.Fatal("working copy leaked into the store")
	}
	b.CancelCardTitleEdit()
	if got := b.Selected().Title; got != "Card in progress" {
		t.Fatalf("title after cancel = %q", got)
	}

	b.StartEditingTitle()
	b.SetSelectedTitle("   ")
	if c, _ := b.SaveCardTitle(ctx); c != nil {
		t.Fatal("blank title saved")
	}
	if !b.ModalState().EditingTitle {
		t.Fatal("editing ended on blank save")
	}
	b.SetSelectedTitle(" Shipped ")
	if c, err := b.SaveCardTitle(ctx); err != nil || c.Title != "Shipped" {
		t.Fatalf("SaveCardTitle = %+v, %v", c, err)
	}
	if st := b.ModalState(); st.EditingTitle || !st.Open || st.CardID != 2 {
		t.Fatalf("modal = %+v", st)
	}

	if _, err := b.ToggleCardComplete(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if !b.Selected().IsComplete {
		t.Fatal("toggle not mirrored into the selected card")
	}
	if _, err := b.MoveCard(ctx, 2, 3, nil); err != nil {
		t.Fatal(err)
	}
	if got := b.CurrentListTitle(); got != "Done" {
		t.Fatalf("list title after move = %q", got)
	}

	b.CloseCard()
	if b.Selected() != nil || b.ModalState().Open {
		t.Fatal("modal still open")
	}
	if got := b.CurrentListTitle(); got != "Unknown List" {
		t.Fatalf("closed list title = %q", got)
	}
}

func TestCardDetails(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	cm, err := b.AddComment(ctx, 1, "  looks good ")
	if err != nil || cm.Comment != "looks good" || cm.UserID != 1 {
		t.Fatalf("AddComment = %+v, %v", cm, err)
	}
	if a := latest(t, s, 1); a.Type != model.ActivityComment {
		t.Fatalf("activity = %+v", a)
	}
	if got := b.CardComments(1); len(got) != 1 {
		t.Fatalf("comments = %+v", got)
	}

	c, err := b.AssignMember(ctx, 1, 3)
	if err != nil || !c.IsAssigned(3) {
		t.Fatalf("AssignMember = %+v, %v", c, err)
	}
	if a := latest(t, s, 1); a.Type != model.ActivityMemberAdd || a.Description != "added Jane Smith to this card" {
		t.Fatalf("activity = %+v", a)
	}
	before := s.Activities.Len()
	if _, err := b.AssignMember(ctx, 1, 3); err != nil || s.Activities.Len() != before {
		t.Fatal("repeated assign logged again")
	}
	c, _ = b.UnassignMember(ctx, 1, 3)
	if c.IsAssigned(3) {
		t.Fatal("still assigned")
	}
	if a := latest(t, s, 1); a.Type != model.ActivityMemberRemove {
		t.Fatalf("activity = %+v", a)
	}

	c, _ = b.AddChecklistItem(ctx, 1, "step one")
	if len(c.ChecklistItems) != 1 || c.ChecklistItems[0].ID != 1 {
		t.Fatalf("checklist = %+v", c.ChecklistItems)
	}
	c, _ = b.ToggleChecklistItem(ctx, 1, 1)
	if !c.ChecklistItems[0].IsComplete {
		t.Fatal("item not toggled")
	}
	if _, err := b.ToggleChecklistItem(ctx, 1, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing item err = %v", err)
	}

	var verr *ValidationError
	if _, err := b.AttachLabel(ctx, 1, 4); !errors.As(err, &verr) {
		t.Fatalf("foreign label err = %v", err)
	}
	c, _ = b.AttachLabel(ctx, 1, 3)
	if len(c.Labels) != 1 || c.Labels[0] != 3 {
		t.Fatalf("labels = %v", c.Labels)
	}
	c, _ = b.DetachLabel(ctx, 1, 3)
	if len(c.Labels) != 0 {
		t.Fatalf("labels = %v", c.Labels)
	}

	l, err := b.CreateLabel(ctx, "Docs", "#ffffff")
	if err != nil || l.BoardID != 1 || l.ID != 12 {
		t.Fatalf("CreateLabel = %+v, %v", l, err)
	}
	if got := len(b.BoardLabels(1)); got != 4 {
		t.Fatalf("board labels = %d, want 4", got)
	}

	due := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	c, _ = b.SetDueDate(ctx, 1, &due)
	if c.DueDate == nil || !c.DueDate.Equal(due) {
		t.Fatalf("due = %v", c.DueDate)
	}
	if a := latest(t, s, 1); a.Description != "set the due date to 2025-03-03" {
		t.Fatalf("activity = %q", a.Description)
	}
}

func TestCloseBoard(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	b, _ := boardAs(t, s, 1, 1)

	got, err := b.CloseBoard(ctx, 1)
	if err != nil || got.Status != model.StatusArchived {
		t.Fatalf("CloseBoard = %+v, %v", got, err)
	}
	if got := len(s.BoardsForUser(1)); got != 3 {
		t.Fatalf("boards for demo = %d, want 3", got)
	}
}
