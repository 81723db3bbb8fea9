package repository

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

// BoardMembership returns userID's membership on boardID.
func (s *Store) BoardMembership(userID, boardID int64) (model.BoardMembership, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.doc.BoardMembers {
		if m.UserID == userID && m.BoardID == boardID {
			return m, true
		}
	}
	return model.BoardMembership{}, false
}

// CanUserEditBoard reports whether userID is a member of boardID with
// edit rights.
func (s *Store) CanUserEditBoard(userID, boardID int64) bool {
	m, ok := s.BoardMembership(userID, boardID)
	return ok && m.CanEdit
}

func (s *Store) IsUserBoardOwner(userID, boardID int64) bool {
	m, ok := s.BoardMembership(userID, boardID)
	return ok && m.Role == model.BoardOwner
}

// BoardsForUser returns the active boards userID is a member of, in
// membership order.
func (s *Store) BoardsForUser(userID int64) []model.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Board
	for _, m := range s.doc.BoardMembers {
		if m.UserID != userID {
			continue
		}
		for _, b := range s.doc.Boards {
			if b.ID == m.BoardID && b.Status.Active() {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// BoardMemberViews returns the memberships of boardID with their users
// resolved. User is nil when the membership points at a missing user.
func (s *Store) BoardMemberViews(boardID int64) []model.BoardMemberView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.BoardMemberView
	for _, m := range s.doc.BoardMembers {
		if m.BoardID == boardID {
			out = append(out, model.BoardMemberView{BoardMembership: m, User: s.userLocked(m.UserID)})
		}
	}
	return out
}

func (s *Store) WorkspaceMembership(userID, workspaceID int64) (model.WorkspaceMembership, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.doc.WorkspaceMembers {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			return m, true
		}
	}
	return model.WorkspaceMembership{}, false
}

// CanUserCreateBoards reports whether userID owns workspaceID or is a
// member allowed to create boards in it.
func (s *Store) CanUserCreateBoards(userID, workspaceID int64) bool {
	if ws, ok := s.Workspaces.ByID(workspaceID); ok && ws.OwnerID == userID {
		return true
	}
	m, ok := s.WorkspaceMembership(userID, workspaceID)
	return ok && m.CanCreateBoards
}

// WorkspacesForUser returns the active workspaces userID owns or is a
// member of.
func (s *Store) WorkspacesForUser(userID int64) []model.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Workspace
	for _, ws := range s.doc.Workspaces {
		if !ws.Status.Active() {
			continue
		}
		if ws.OwnerID == userID || slices.ContainsFunc(s.doc.WorkspaceMembers, func(m model.WorkspaceMembership) bool {
			return m.WorkspaceID == ws.ID && m.UserID == userID
		}) {
			out = append(out, ws)
		}
	}
	return out
}

// WorkspaceMemberViews returns every membership of workspaceID with its user.
func (s *Store) WorkspaceMemberViews(workspaceID int64) []model.WorkspaceMemberView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.WorkspaceMemberView
	for _, m := range s.doc.WorkspaceMembers {
		if m.WorkspaceID == workspaceID {
			out = append(out, model.WorkspaceMemberView{WorkspaceMembership: m, User: s.userLocked(m.UserID)})
		}
	}
	return out
}

func (s *Store) BoardsForWorkspace(workspaceID int64) []model.Board {
	return s.Boards.Where(func(b model.Board) bool {
		return b.WorkspaceID == workspaceID && b.Status.Active()
	})
}

func (s *Store) userLocked(id int64) *model.User {
	for _, u := range s.doc.Users {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// UserByEmail finds a user by email, ignoring case and surrounding
// space. Archived users are returned too.
func (s *Store) UserByEmail(email string) (model.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	users := s.Users.Where(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
	if len(users) == 0 {
		return model.User{}, false
	}
	return users[0], true
}

// ActiveChildren returns the active records of t whose parent is
// parentID, ordered by ascending position. Equal positions keep
// insertion order.
func ActiveChildren[R any](t *SoftTable[R], parentOf func(R) int64, parentID int64, positionOf func(R) int) []R {
	out := t.Where(func(r R) bool { return parentOf(r) == parentID && t.IsActive(r) })
	slices.SortStableFunc(out, func(a, b R) int { return cmp.Compare(positionOf(a), positionOf(b)) })
	return out
}

func (s *Store) ListsForBoard(boardID int64) []model.List {
	return ActiveChildren(s.Lists, func(l model.List) int64 { return l.BoardID }, boardID, func(l model.List) int { return l.Position })
}

func (s *Store) CardsForList(listID int64) []model.Card {
	return ActiveChildren(s.Cards, func(c model.Card) int64 { return c.ListID }, listID, func(c model.Card) int { return c.Position })
}

func (s *Store) ArchivedListsForBoard(boardID int64) []model.List {
	return s.Lists.Where(func(l model.List) bool {
		return l.BoardID == boardID && l.Status == model.StatusArchived
	})
}

func (s *Store) ArchivedCardsForBoard(boardID int64) []model.Card {
	return s.Cards.Where(func(c model.Card) bool {
		return c.BoardID == boardID && c.Status == model.StatusArchived
	})
}

// LabelsForBoard returns the board's active labels.
func (s *Store) LabelsForBoard(boardID int64) []model.Label {
	return s.Labels.Where(func(l model.Label) bool { return l.BoardID == boardID && l.Status.Active() })
}

// CommentsForCard returns a card's active comments, oldest first.
func (s *Store) CommentsForCard(cardID int64) []model.Comment {
	out := s.Comments.Where(func(c model.Comment) bool { return c.CardID == cardID && c.Status.Active() })
	slices.SortStableFunc(out, func(a, b model.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// ActivitiesForCard returns a card's activity log, newest first. Entries
// stamped at the same instant are ordered by descending id.
func (s *Store) ActivitiesForCard(cardID int64) []model.Activity {
	out := s.Activities.Where(func(a model.Activity) bool { return a.CardID == cardID })
	slices.SortFunc(out, func(a, b model.Activity) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

// LogCardActivity appends an activity entry.
func (s *Store) LogCardActivity(ctx context.Context, cardID, userID int64, typ model.ActivityType, description string) model.Activity {
	return s.Activities.Create(ctx, model.Activity{CardID: cardID, UserID: userID, Type: typ, Description: description})
}

// BoardKanban projects a board into its rendered shape: active lists in
// position order, each with its active cards in position order.
func (s *Store) BoardKanban(boardID int64) []model.KanbanList {
	lists := s.ListsForBoard(boardID)
	out := make([]model.KanbanList, 0, len(lists))
	for _, l := range lists {
		cards := s.CardsForList(l.ID)
		kl := model.KanbanList{
			ID:    strconv.FormatInt(l.ID, 10),
			Title: l.Name,
			Cards: make([]model.KanbanCard, 0, len(cards)),
		}
		for _, c := range cards {
			kl.Cards = append(kl.Cards, model.KanbanCard{
				ID:          strconv.FormatInt(c.ID, 10),
				Title:       c.Title,
				IsComplete:  c.IsComplete,
				Description: c.Description,
			})
		}
		out = append(out, kl)
	}
	return out
}
