package model

import "time"

// Visibility controls who may discover a board.
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityWorkspace Visibility = "workspace"
	VisibilityPublic    Visibility = "public"
)

// BoardRole is a member's role on a board.
type BoardRole string

const (
	BoardOwner  BoardRole = "owner"
	BoardMember BoardRole = "member"
)

// Board belongs to a workspace and an owner.
type Board struct {
	Meta
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Color           string     `json:"color,omitempty"`
	BackgroundImage string     `json:"backgroundImage,omitempty"`
	WorkspaceID     int64      `json:"workspaceId"`
	OwnerID         int64      `json:"ownerId"`
	Visibility      Visibility `json:"visibility,omitempty"`
	Status          Status     `json:"status"`
}

func (b *Board) StatusRef() *Status { return &b.Status }

// BoardMembership grants a user capabilities on a board.
type BoardMembership struct {
	Meta
	BoardID   int64     `json:"boardId"`
	UserID    int64     `json:"userId"`
	Role      BoardRole `json:"role"`
	CanEdit   bool      `json:"canEdit"`
	CanInvite bool      `json:"canInvite"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// BoardMemberView is a membership with its user resolved.
type BoardMemberView struct {
	BoardMembership
	User *User `json:"user"`
}

// List is a column on a board. Position orders sibling lists ascending.
type List struct {
	Meta
	BoardID  int64  `json:"boardId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Status   Status `json:"status"`
}

func (l *List) StatusRef() *Status { return &l.Status }

// Label is a board-scoped tag that cards reference by id.
type Label struct {
	Meta
	BoardID int64  `json:"boardId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Status  Status `json:"status"`
}

func (l *Label) StatusRef() *Status { return &l.Status }
