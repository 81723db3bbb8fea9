package model

import "time"

// WorkspaceRole is a member's role inside a workspace.
type WorkspaceRole string

const (
	WorkspaceAdmin  WorkspaceRole = "admin"
	WorkspaceMember WorkspaceRole = "member"
)

// Workspace groups boards under one owner.
type Workspace struct {
	Meta
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     int64  `json:"ownerId"`
	IsPublic    bool   `json:"isPublic"`
	Status      Status `json:"status"`
}

func (w *Workspace) StatusRef() *Status { return &w.Status }

// WorkspaceMembership joins a user to a workspace. Memberships have no
// soft-delete state.
type WorkspaceMembership struct {
	Meta
	WorkspaceID      int64         `json:"workspaceId"`
	UserID           int64         `json:"userId"`
	Role             WorkspaceRole `json:"role"`
	CanCreateBoards  bool          `json:"canCreateBoards"`
	CanInviteMembers bool          `json:"canInviteMembers"`
	JoinedAt         time.Time     `json:"joinedAt"`
}

// WorkspaceMemberView is a membership with its user resolved.
type WorkspaceMemberView struct {
	WorkspaceMembership
	User *User `json:"user"`
}
