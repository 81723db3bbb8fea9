package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// BoardInput describes a new board.
type BoardInput struct {
	Name            string
	Description     string
	Color           string
	BackgroundImage string
	Visibility      model.Visibility
}

// Workspaces creates workspaces and boards and manages board membership.
type Workspaces struct {
	store *repository.Store
	log   *slog.Logger
}

func NewWorkspaces(store *repository.Store, log *slog.Logger) *Workspaces {
	if log == nil {
		log = slog.Default()
	}
	return &Workspaces{store: store, log: log}
}

// CreateWorkspace creates a private workspace owned by ownerID and makes
// the owner its admin.
func (w *Workspaces) CreateWorkspace(ctx context.Context, ownerID int64, name, description string) (model.Workspace, error) {
	defer w.store.BeginWrite()()
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Workspace{}, invalid("name", "is required")
	}
	if !w.store.Users.Exists(ownerID) {
		return model.Workspace{}, &repository.NotFoundError{Table: model.TableUsers, ID: ownerID}
	}
	ws := w.store.Workspaces.Create(ctx, model.Workspace{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Status:      model.StatusActive,
	})
	w.store.WorkspaceMembers.Create(ctx, model.WorkspaceMembership{
		WorkspaceID:      ws.ID,
		UserID:           ownerID,
		Role:             model.WorkspaceAdmin,
		CanCreateBoards:  true,
		CanInviteMembers: true,
		JoinedAt:         w.store.Now(),
	})
	w.log.Info("workspace created", "workspace_id", ws.ID, "owner_id", ownerID)
	return ws, nil
}

// CreateBoard creates a board in workspaceID and makes userID its owner.
// The user must own the workspace or be allowed to create boards in it.
func (w *Workspaces) CreateBoard(ctx context.Context, userID, workspaceID int64, in BoardInput) (model.Board, error) {
	defer w.store.BeginWrite()()
	ws, ok := w.store.Workspaces.ByID(workspaceID)
	if !ok || !ws.Status.Active() {
		return model.Board{}, &repository.NotFoundError{Table: model.TableWorkspaces, ID: workspaceID}
	}
	if !w.store.CanUserCreateBoards(userID, workspaceID) {
		return model.Board{}, fmt.Errorf("create board in workspace %d: %w", workspaceID, repository.ErrForbidden)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Board{}, invalid("name", "is required")
	}
	vis := in.Visibility
	switch vis {
	case "":
		vis = model.VisibilityPrivate
	case model.VisibilityPrivate, model.VisibilityWorkspace, model.VisibilityPublic:
	default:
		return model.Board{}, invalid("visibility", "must be private, workspace or public")
	}
	b := w.store.Boards.Create(ctx, model.Board{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Color:           in.Color,
		BackgroundImage: in.BackgroundImage,
		WorkspaceID:     workspaceID,
		OwnerID:         userID,
		Visibility:      vis,
		Status:          model.StatusActive,
	})
	w.store.BoardMembers.Create(ctx, model.BoardMembership{
		BoardID:   b.ID,
		UserID:    userID,
		Role:      model.BoardOwner,
		CanEdit:   true,
		CanInvite: true,
		JoinedAt:  w.store.Now(),
	})
	w.log.Info("board created", "board_id", b.ID, "workspace_id", workspaceID)
	return b, nil
}

// InviteBoardMember adds userID to boardID as a member. The inviter must
// hold invite rights on the board.
func (w *Workspaces) InviteBoardMember(ctx context.Context, inviterID, boardID, userID int64, canEdit bool) (model.BoardMembership, error) {
	defer w.store.BeginWrite()()
	if !w.store.Boards.Exists(boardID) {
		return model.BoardMembership{}, &repository.NotFoundError{Table: model.TableBoards, ID: boardID}
	}
	if !w.store.Users.Exists(userID) {
		return model.BoardMembership{}, &repository.NotFoundError{Table: model.TableUsers, ID: userID}
	}
	inviter, ok := w.store.BoardMembership(inviterID, boardID)
	if !ok || !inviter.CanInvite {
		return model.BoardMembership{}, fmt.Errorf("invite to board %d: %w", boardID, repository.ErrForbidden)
	}
	if _, exists := w.store.BoardMembership(userID, boardID); exists {
		return model.BoardMembership{}, fmt.Errorf("user %d on board %d: %w", userID, boardID, repository.ErrConflict)
	}
	m := w.store.BoardMembers.Create(ctx, model.BoardMembership{
		BoardID:  boardID,
		UserID:   userID,
		Role:     model.BoardMember,
		CanEdit:  canEdit,
		JoinedAt: w.store.Now(),
	})
	return m, nil
}

// WorkspaceSlug renders the path segment of a workspace: its id and its
// name joined by a dash, lower-cased, with runs of other characters
// collapsed into single dashes.
func WorkspaceSlug(ws model.Workspace) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(ws.ID, 10))
	dash := true
	for _, r := range strings.ToLower(ws.Name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if dash {
				b.WriteByte('-')
				dash = false
			}
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return url.PathEscape(b.String())
}

// ParseWorkspaceSlug extracts the workspace id from a slug.
func ParseWorkspaceSlug(slug string) (int64, bool) {
	head, _, _ := strings.Cut(slug, "-")
	id, err := strconv.ParseInt(head, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
