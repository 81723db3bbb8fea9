package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// editCard applies fn to the stored card and mirrors the result into the
// working copy. fn may veto the write by returning an error; it is tried
// on a copy first so that a vetoed edit leaves updatedAt alone. Callers
// hold b.lock() and have checked permissions.
func (b *Board) editCard(ctx context.Context, id int64, fn func(*model.Card) error) (model.Card, error) {
	probe, ok := b.store.Cards.ByID(id)
	if !ok {
		return model.Card{}, &repository.NotFoundError{Table: model.TableCards, ID: id}
	}
	if err := fn(&probe); err != nil {
		return model.Card{}, err
	}
	var ferr error
	c, err := b.store.Cards.Update(ctx, id, func(c *model.Card) {
		orig := *c
		orig.Detach()
		if ferr = fn(c); ferr != nil {
			*c = orig
		}
	})
	if err != nil {
		return model.Card{}, err
	}
	if ferr != nil {
		return model.Card{}, ferr
	}
	b.mirror(c)
	b.changed(c.BoardID, "card", "card.updated", c.ID)
	return c, nil
}

// AddComment attaches a note from the signed-in user to a card.
func (b *Board) AddComment(ctx context.Context, cardID int64, text string) (*model.Comment, error) {
	defer b.lock()()
	uid, ok := b.permit()
	if !ok {
		return nil, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment", "is required")
	}
	card, ok := b.store.Cards.ByID(cardID)
	if !ok {
		return nil, &repository.NotFoundError{Table: model.TableCards, ID: cardID}
	}
	cm := b.store.Comments.Create(ctx, model.Comment{
		CardID:  cardID,
		UserID:  uid,
		Comment: text,
		Status:  model.StatusActive,
	})
	b.logActivity(ctx, card, model.ActivityComment, "commented on this card")
	b.changed(card.BoardID, "comment", "comment.created", cm.ID)
	return &cm, nil
}

// CardComments returns the active comments of a card, oldest first.
func (b *Board) CardComments(cardID int64) []model.Comment {
	return b.store.CommentsForCard(cardID)
}

// AssignMember adds userID to the card's members. Assigning someone who
// is already a member changes nothing and logs nothing.
func (b *Board) AssignMember(ctx context.Context, cardID, userID int64) (*model.Card, error) {
	return b.changeMembers(ctx, cardID, userID, true)
}

// UnassignMember removes userID from the card's members.
func (b *Board) UnassignMember(ctx context.Context, cardID, userID int64) (*model.Card, error) {
	return b.changeMembers(ctx, cardID, userID, false)
}

func (b *Board) changeMembers(ctx context.Context, cardID, userID int64, add bool) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	u, ok := b.store.Users.ByID(userID)
	if !ok {
		return nil, &repository.NotFoundError{Table: model.TableUsers, ID: userID}
	}
	card, ok := b.store.Cards.ByID(cardID)
	if !ok {
		return nil, &repository.NotFoundError{Table: model.TableCards, ID: cardID}
	}
	if card.IsAssigned(userID) == add {
		return &card, nil
	}
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		if add {
			c.AssignedMembers = append(c.AssignedMembers, userID)
		} else {
			c.AssignedMembers = slices.DeleteFunc(c.AssignedMembers, func(id int64) bool { return id == userID })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if add {
		b.logActivity(ctx, c, model.ActivityMemberAdd, fmt.Sprintf("added %s to this card", u.FullName()))
	} else {
		b.logActivity(ctx, c, model.ActivityMemberRemove, fmt.Sprintf("removed %s from this card", u.FullName()))
	}
	return &c, nil
}

// AddChecklistItem appends an item to the card's checklist.
func (b *Board) AddChecklistItem(ctx context.Context, cardID int64, text string) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text", "is required")
	}
	now := b.store.Now()
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		var next int64 = 1
		for _, it := range c.ChecklistItems {
			if it.ID >= next {
				next = it.ID + 1
			}
		}
		c.ChecklistItems = append(c.ChecklistItems, model.ChecklistItem{ID: next, Text: text, CreatedAt: now})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleChecklistItem flips one checklist item.
func (b *Board) ToggleChecklistItem(ctx context.Context, cardID, itemID int64) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		i := slices.IndexFunc(c.ChecklistItems, func(it model.ChecklistItem) bool { return it.ID == itemID })
		if i < 0 {
			return fmt.Errorf("checklist item %d on card %d: %w", itemID, cardID, repository.ErrNotFound)
		}
		c.ChecklistItems[i].IsComplete = !c.ChecklistItems[i].IsComplete
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetDueDate sets the card's due date, or clears it when due is nil.
func (b *Board) SetDueDate(ctx context.Context, cardID int64, due *time.Time) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		if due == nil {
			c.DueDate = nil
			return nil
		}
		d := due.UTC()
		c.DueDate = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	if due == nil {
		b.logActivity(ctx, c, model.ActivityUpdate, "removed the due date")
	} else {
		b.logActivity(ctx, c, model.ActivityUpdate, "set the due date to "+c.DueDate.Format(time.DateOnly))
	}
	return &c, nil
}

// AttachLabel tags the card with a label of the same board.
func (b *Board) AttachLabel(ctx context.Context, cardID, labelID int64) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	label, ok := b.store.Labels.ByID(labelID)
	if !ok || !label.Status.Active() {
		return nil, &repository.NotFoundError{Table: model.TableCardLabels, ID: labelID}
	}
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		if label.BoardID != c.BoardID {
			return invalid("labelId", "belongs to another board")
		}
		if !slices.Contains(c.Labels, labelID) {
			c.Labels = append(c.Labels, labelID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *Board) DetachLabel(ctx context.Context, cardID, labelID int64) (*model.Card, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	c, err := b.editCard(ctx, cardID, func(c *model.Card) error {
		c.Labels = slices.DeleteFunc(c.Labels, func(id int64) bool { return id == labelID })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateLabel adds a label to the current board.
func (b *Board) CreateLabel(ctx context.Context, name, color string) (*model.Label, error) {
	defer b.lock()()
	if _, ok := b.permit(); !ok {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	l := b.store.Labels.Create(ctx, model.Label{
		BoardID: b.boardID,
		Name:    name,
		Color:   strings.TrimSpace(color),
		Status:  model.StatusActive,
	})
	b.changed(l.BoardID, "label", "label.created", l.ID)
	return &l, nil
}

// BoardLabels returns the active labels of a board.
func (b *Board) BoardLabels(boardID int64) []model.Label {
	return b.store.LabelsForBoard(boardID)
}
