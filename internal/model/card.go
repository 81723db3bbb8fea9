package model

import (
	"slices"
	"time"
)

// Card sits in a list. BoardID duplicates the owning list's board so that
// board-wide queries do not need a join; writers that change ListID are
// responsible for keeping it in step.
type Card struct {
	Meta
	ListID          int64           `json:"listId"`
	BoardID         int64           `json:"boardId"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Position        int             `json:"position"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	IsComplete      bool            `json:"isComplete"`
	CreatedByID     int64           `json:"createdById"`
	AssignedMembers []int64         `json:"assignedMembers,omitempty"`
	Labels          []int64         `json:"labels,omitempty"`
	Attachments     []string        `json:"attachments,omitempty"`
	ChecklistItems  []ChecklistItem `json:"checklistItems,omitempty"`
	Status          Status          `json:"status"`
}

func (c *Card) StatusRef() *Status { return &c.Status }

// Detach gives the card its own copies of every slice and pointer so the
// caller can edit it without touching the stored record.
func (c *Card) Detach() {
	c.AssignedMembers = slices.Clone(c.AssignedMembers)
	c.Labels = slices.Clone(c.Labels)
	c.Attachments = slices.Clone(c.Attachments)
	c.ChecklistItems = slices.Clone(c.ChecklistItems)
	if c.DueDate != nil {
		due := *c.DueDate
		c.DueDate = &due
	}
}

// IsAssigned reports whether userID is among the card's members.
func (c Card) IsAssigned(userID int64) bool {
	return slices.Contains(c.AssignedMembers, userID)
}

// ChecklistItem is an entry of a card's ordered checklist. Ids are local
// to the card.
type ChecklistItem struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	IsComplete bool      `json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// Comment is a user's note on a card.
type Comment struct {
	Meta
	CardID  int64  `json:"cardId"`
	UserID  int64  `json:"userId"`
	Comment string `json:"comment"`
	Status  Status `json:"status"`
}

func (c *Comment) StatusRef() *Status { return &c.Status }

// ActivityType classifies an activity entry.
type ActivityType string

const (
	ActivityCreate       ActivityType = "create"
	ActivityUpdate       ActivityType = "update"
	ActivityMove         ActivityType = "move"
	ActivityComment      ActivityType = "comment"
	ActivityMemberAdd    ActivityType = "member_add"
	ActivityMemberRemove ActivityType = "member_remove"
	ActivityDelete       ActivityType = "delete"
)

// Activity is an append-only audit entry for a card.
type Activity struct {
	Meta
	CardID      int64        `json:"cardId"`
	UserID      int64        `json:"userId"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
}
