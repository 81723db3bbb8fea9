package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/service"
)

// BoardHandler serves boards, lists and cards. Each request gets its own
// board service acting for the caller.
type BoardHandler struct {
	Store    *repository.Store
	Activity service.ActivitySink
	Changes  service.ChangeSink
	Log      *slog.Logger
	Now      func() time.Time
}

func NewBoardHandler(store *repository.Store, activity service.ActivitySink, changes service.ChangeSink, log *slog.Logger) *BoardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BoardHandler{Store: store, Activity: activity, Changes: changes, Log: log, Now: time.Now}
}

// editor returns a board service on boardID for a caller with edit rights.
func (h *BoardHandler) editor(c echo.Context, boardID int64) (*service.Board, error) {
	s, err := session(c)
	if err != nil {
		return nil, err
	}
	b := service.NewBoard(service.BoardDeps{
		Store:    h.Store,
		Session:  service.StaticSession{Session: &s},
		Activity: h.Activity,
		Changes:  h.Changes,
		Logger:   h.Log.With("user_id", s.ID),
	})
	b.SetBoard(boardID)
	if !b.CanEdit() {
		return nil, repository.ErrForbidden
	}
	return b, nil
}

// member checks that the caller may read boardID.
func (h *BoardHandler) member(c echo.Context, boardID int64) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	if _, ok := h.Store.BoardMembership(s.ID, boardID); !ok {
		return repository.ErrForbidden
	}
	return nil
}

func (h *BoardHandler) listBoard(id int64) (int64, error) {
	l, ok := h.Store.Lists.ByID(id)
	if !ok {
		return 0, &repository.NotFoundError{Table: model.TableLists, ID: id}
	}
	return l.BoardID, nil
}

// reply writes v, a 404 when the service returned nothing, or the error.
func reply[T any](c echo.Context, status int, v *T, err error) error {
	if err != nil {
		return fail(c, err)
	}
	if v == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(status, v)
}

// ----- boards -----

// ListBoards returns the caller's active boards.
func (h *BoardHandler) ListBoards(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(h.Store.BoardsForUser(s.ID)))
}

// GetBoard returns a board with its lists, members and labels. The route
// is expected to sit behind RequireBoardMember.
func (h *BoardHandler) GetBoard(c echo.Context) error {
	id, _ := pathID(c, "id")
	b, ok := h.Store.Boards.ByID(id)
	if !ok {
		return fail(c, &repository.NotFoundError{Table: model.TableBoards, ID: id})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"board":   b,
		"lists":   nonNil(h.Store.ListsForBoard(id)),
		"members": nonNil(h.Store.BoardMemberViews(id)),
		"labels":  nonNil(h.Store.LabelsForBoard(id)),
	})
}

// Kanban renders the board, filtered by the query parameters keyword,
// noMembers, assignedToMe, members (comma separated ids), cardStatus and
// activity.
func (h *BoardHandler) Kanban(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	id, _ := pathID(c, "id")
	crit, err := criteriaFrom(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	f := service.NewFilter()
	f.Update(crit)
	return c.JSON(http.StatusOK, f.Apply(h.Store, id, s.ID, h.Now().UTC()))
}

func criteriaFrom(c echo.Context) (model.FilterCriteria, error) {
	crit := model.FilterCriteria{
		Keyword:      c.QueryParam("keyword"),
		NoMembers:    c.QueryParam("noMembers") == "true",
		AssignedToMe: c.QueryParam("assignedToMe") == "true",
		CardStatus:   c.QueryParam("cardStatus"),
		Activity:     c.QueryParam("activity"),
	}
	if raw := c.QueryParam("members"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return crit, &service.ValidationError{Field: "members", Message: "must be a list of ids"}
			}
			crit.Members = append(crit.Members, id)
		}
	}
	switch crit.CardStatus {
	case "", model.CardStatusComplete, model.CardStatusIncomplete:
	default:
		return crit, &service.ValidationError{Field: "cardStatus", Message: "must be complete or incomplete"}
	}
	switch crit.Activity {
	case "", model.ActivityWeek, model.ActivityTwoWeeks, model.ActivityFourWeeks, model.ActivityInactive:
	default:
		return crit, &service.ValidationError{Field: "activity", Message: "unknown activity window"}
	}
	return crit, nil
}

// Archived returns the board's archived lists and cards.
func (h *BoardHandler) Archived(c echo.Context) error {
	id, _ := pathID(c, "id")
	return c.JSON(http.StatusOK, echo.Map{
		"lists": nonNil(h.Store.ArchivedListsForBoard(id)),
		"cards": nonNil(h.Store.ArchivedCardsForBoard(id)),
	})
}

// CloseBoard archives the board.
func (h *BoardHandler) CloseBoard(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid board id")
	}
	b, err := h.editor(c, id)
	if err != nil {
		return fail(c, err)
	}
	board, err := b.CloseBoard(c.Request().Context(), id)
	return reply(c, http.StatusOK, board, err)
}

// ----- lists -----

type nameReq struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *BoardHandler) CreateList(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid board id")
	}
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, err := h.editor(c, id)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.CreateList(c.Request().Context(), req.Name)
	return reply(c, http.StatusCreated, l, err)
}

type reorderReq struct {
	SourceID int64 `json:"sourceId"`
	TargetID int64 `json:"targetId"`
}

// ReorderLists swaps two lists of the board.
func (h *BoardHandler) ReorderLists(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid board id")
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, err := h.editor(c, id)
	if err != nil {
		return fail(c, err)
	}
	if _, err := b.ReorderList(c.Request().Context(), req.SourceID, req.TargetID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(b.CurrentLists()))
}

func (h *BoardHandler) CreateLabel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid board id")
	}
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, err := h.editor(c, id)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.CreateLabel(c.Request().Context(), req.Name, req.Color)
	return reply(c, http.StatusCreated, l, err)
}

// listEditor resolves the list's board and returns an editor on it.
func (h *BoardHandler) listEditor(c echo.Context) (*service.Board, int64, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, 0, &service.ValidationError{Field: "id", Message: "invalid list id"}
	}
	boardID, err := h.listBoard(id)
	if err != nil {
		return nil, id, err
	}
	b, err := h.editor(c, boardID)
	return b, id, err
}

type listPatchReq struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

func (h *BoardHandler) UpdateList(c echo.Context) error {
	var req listPatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.listEditor(c)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.UpdateList(c.Request().Context(), id, service.ListPatch{Name: req.Name, Position: req.Position})
	return reply(c, http.StatusOK, l, err)
}

// DeleteList archives the list and its cards.
func (h *BoardHandler) DeleteList(c echo.Context) error {
	b, id, err := h.listEditor(c)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.DeleteList(c.Request().Context(), id)
	return reply(c, http.StatusOK, l, err)
}

type cascadeReq struct {
	Cards *bool `json:"cards"`
}

// ArchiveList archives the list; its cards follow unless cards is false.
func (h *BoardHandler) ArchiveList(c echo.Context) error {
	var req cascadeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.listEditor(c)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.ArchiveList(c.Request().Context(), id, req.Cards == nil || *req.Cards)
	return reply(c, http.StatusOK, l, err)
}

// RestoreList restores the list; its cards follow only when cards is true.
func (h *BoardHandler) RestoreList(c echo.Context) error {
	var req cascadeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.listEditor(c)
	if err != nil {
		return fail(c, err)
	}
	l, err := b.RestoreList(c.Request().Context(), id, req.Cards != nil && *req.Cards)
	return reply(c, http.StatusOK, l, err)
}
