package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/service"
)

type WorkspaceHandler struct {
	Store      *repository.Store
	Workspaces *service.Workspaces
}

func NewWorkspaceHandler(store *repository.Store, ws *service.Workspaces) *WorkspaceHandler {
	return &WorkspaceHandler{Store: store, Workspaces: ws}
}

type workspaceView struct {
	model.Workspace
	Slug string `json:"slug"`
}

// ListWorkspaces returns the caller's workspaces with their path slugs.
func (h *WorkspaceHandler) ListWorkspaces(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	out := []workspaceView{}
	for _, ws := range h.Store.WorkspacesForUser(s.ID) {
		out = append(out, workspaceView{Workspace: ws, Slug: service.WorkspaceSlug(ws)})
	}
	return c.JSON(http.StatusOK, out)
}

type workspaceReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	var req workspaceReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ws, err := h.Workspaces.CreateWorkspace(c.Request().Context(), s.ID, req.Name, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, workspaceView{Workspace: ws, Slug: service.WorkspaceSlug(ws)})
}

// workspaceID accepts either a numeric id or a slug in the path.
func workspaceID(c echo.Context) (int64, bool) {
	return service.ParseWorkspaceSlug(c.Param("id"))
}

func (h *WorkspaceHandler) inWorkspace(c echo.Context) (model.Session, int64, error) {
	s, err := session(c)
	if err != nil {
		return s, 0, err
	}
	id, ok := workspaceID(c)
	if !ok {
		return s, 0, &service.ValidationError{Field: "id", Message: "invalid workspace id"}
	}
	if !h.Store.Workspaces.Exists(id) {
		return s, id, &repository.NotFoundError{Table: model.TableWorkspaces, ID: id}
	}
	if _, ok := h.Store.WorkspaceMembership(s.ID, id); !ok {
		return s, id, repository.ErrForbidden
	}
	return s, id, nil
}

// WorkspaceBoards lists the boards of a workspace the caller belongs to.
func (h *WorkspaceHandler) WorkspaceBoards(c echo.Context) error {
	_, id, err := h.inWorkspace(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(h.Store.BoardsForWorkspace(id)))
}

func (h *WorkspaceHandler) WorkspaceMembers(c echo.Context) error {
	_, id, err := h.inWorkspace(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(h.Store.WorkspaceMemberViews(id)))
}

type boardReq struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Color           string           `json:"color"`
	BackgroundImage string           `json:"backgroundImage"`
	Visibility      model.Visibility `json:"visibility"`
}

func (h *WorkspaceHandler) CreateBoard(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := workspaceID(c)
	if !ok {
		return badRequest(c, "invalid workspace id")
	}
	var req boardReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, err := h.Workspaces.CreateBoard(c.Request().Context(), s.ID, id, service.BoardInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

type inviteReq struct {
	UserID  int64 `json:"userId"`
	CanEdit bool  `json:"canEdit"`
}

// InviteMember adds a user to the board in the path.
func (h *WorkspaceHandler) InviteMember(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	boardID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid board id")
	}
	var req inviteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	m, err := h.Workspaces.InviteBoardMember(c.Request().Context(), s.ID, boardID, req.UserID, req.CanEdit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}
