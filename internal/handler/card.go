package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/service"
)

type cardReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCard appends a card to the list in the path.
func (h *BoardHandler) CreateCard(c echo.Context) error {
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, listID, err := h.listEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.CreateCard(c.Request().Context(), listID, req.Title, req.Description)
	return reply(c, http.StatusCreated, card, err)
}

func (h *BoardHandler) card(c echo.Context) (model.Card, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return model.Card{}, &service.ValidationError{Field: "id", Message: "invalid card id"}
	}
	card, ok := h.Store.Cards.ByID(id)
	if !ok {
		return model.Card{}, &repository.NotFoundError{Table: model.TableCards, ID: id}
	}
	return card, nil
}

// cardEditor resolves the card's board and returns an editor on it.
func (h *BoardHandler) cardEditor(c echo.Context) (*service.Board, int64, error) {
	card, err := h.card(c)
	if err != nil {
		return nil, 0, err
	}
	b, err := h.editor(c, card.BoardID)
	return b, card.ID, err
}

// GetCard returns a card with its comments, activity log and list name.
func (h *BoardHandler) GetCard(c echo.Context) error {
	card, err := h.card(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.member(c, card.BoardID); err != nil {
		return fail(c, err)
	}
	listName := "Unknown List"
	if l, ok := h.Store.Lists.ByID(card.ListID); ok {
		listName = l.Name
	}
	return c.JSON(http.StatusOK, echo.Map{
		"card":       card,
		"listTitle":  listName,
		"comments":   nonNil(h.Store.CommentsForCard(card.ID)),
		"activities": nonNil(h.Store.ActivitiesForCard(card.ID)),
	})
}

// Activities returns the card's activity log, newest first.
func (h *BoardHandler) Activities(c echo.Context) error {
	card, err := h.card(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.member(c, card.BoardID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(h.Store.ActivitiesForCard(card.ID)))
}

type cardPatchReq struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	IsComplete   *bool      `json:"isComplete"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}

func (h *BoardHandler) UpdateCard(c echo.Context) error {
	var req cardPatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.UpdateCard(c.Request().Context(), id, service.CardPatch{
		Title:        req.Title,
		Description:  req.Description,
		IsComplete:   req.IsComplete,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	return reply(c, http.StatusOK, card, err)
}

type moveReq struct {
	ListID   int64 `json:"listId"`
	Position *int  `json:"position"`
}

// MoveCard moves a card to another list, optionally at a position.
func (h *BoardHandler) MoveCard(c echo.Context) error {
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ListID <= 0 {
		return badRequest(c, "listId required")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.MoveCard(c.Request().Context(), id, req.ListID, req.Position)
	if err == nil && card == nil {
		// the card exists, so a nil result means the destination board refused it
		return fail(c, repository.ErrForbidden)
	}
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) ToggleCard(c echo.Context) error {
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.ToggleCardComplete(c.Request().Context(), id)
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) DeleteCard(c echo.Context) error {
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.DeleteCard(c.Request().Context(), id)
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) ArchiveCard(c echo.Context) error {
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.ArchiveCard(c.Request().Context(), id)
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) RestoreCard(c echo.Context) error {
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.RestoreCard(c.Request().Context(), id)
	return reply(c, http.StatusOK, card, err)
}

type commentReq struct {
	Comment string `json:"comment"`
}

func (h *BoardHandler) AddComment(c echo.Context) error {
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	cm, err := b.AddComment(c.Request().Context(), id, req.Comment)
	return reply(c, http.StatusCreated, cm, err)
}

type memberReq struct {
	UserID int64 `json:"userId"`
}

func (h *BoardHandler) AssignMember(c echo.Context) error {
	var req memberReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.AssignMember(c.Request().Context(), id, req.UserID)
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) UnassignMember(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.UnassignMember(c.Request().Context(), id, userID)
	return reply(c, http.StatusOK, card, err)
}

type checklistReq struct {
	Text string `json:"text"`
}

func (h *BoardHandler) AddChecklistItem(c echo.Context) error {
	var req checklistReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.AddChecklistItem(c.Request().Context(), id, req.Text)
	return reply(c, http.StatusCreated, card, err)
}

func (h *BoardHandler) ToggleChecklistItem(c echo.Context) error {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return badRequest(c, "invalid item id")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.ToggleChecklistItem(c.Request().Context(), id, itemID)
	return reply(c, http.StatusOK, card, err)
}

type labelReq struct {
	LabelID int64 `json:"labelId"`
}

func (h *BoardHandler) AttachLabel(c echo.Context) error {
	var req labelReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.AttachLabel(c.Request().Context(), id, req.LabelID)
	return reply(c, http.StatusOK, card, err)
}

func (h *BoardHandler) DetachLabel(c echo.Context) error {
	labelID, ok := pathID(c, "labelId")
	if !ok {
		return badRequest(c, "invalid label id")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.DetachLabel(c.Request().Context(), id, labelID)
	return reply(c, http.StatusOK, card, err)
}

type dueReq struct {
	DueDate *time.Time `json:"dueDate"`
}

// SetDueDate sets the due date; a null dueDate clears it.
func (h *BoardHandler) SetDueDate(c echo.Context) error {
	var req dueReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	b, id, err := h.cardEditor(c)
	if err != nil {
		return fail(c, err)
	}
	card, err := b.SetDueDate(c.Request().Context(), id, req.DueDate)
	return reply(c, http.StatusOK, card, err)
}
