package model

import "time"

// Seed returns the factory dataset: three demo users, their workspaces,
// four boards with lists, cards, labels, a few comments and activities.
// All timestamps are derived from now so that relative ages stay stable.
func Seed(now time.Time) Document {
	now = now.UTC()
	meta := func(id int64) Meta { return Meta{ID: id, CreatedAt: now} }
	due := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)

	doc := Document{
		Users: []User{
			{Meta: meta(1), Username: "demo", Email: "demo@example.com", Password: "password123", FirstName: "Demo", LastName: "User", Status: StatusActive},
			{Meta: meta(2), Username: "john", Email: "john@example.com", Password: "john123", FirstName: "John", LastName: "Doe", Status: StatusActive},
			{Meta: meta(3), Username: "jane", Email: "jane@example.com", Password: "jane123", FirstName: "Jane", LastName: "Smith", Status: StatusActive},
		},
		Workspaces: []Workspace{
			{Meta: meta(1), Name: "Demo Workspace", Description: "A sample workspace to get started", OwnerID: 1, Status: StatusActive},
			{Meta: meta(2), Name: "Team Collaboration", Description: "Workspace for team projects", OwnerID: 2, IsPublic: true, Status: StatusActive},
			{Meta: meta(3), Name: "Personal Projects", Description: "My personal workspace", OwnerID: 1, Status: StatusActive},
		},
		WorkspaceMembers: []WorkspaceMembership{
			{Meta: meta(1), WorkspaceID: 1, UserID: 1, Role: WorkspaceAdmin, CanCreateBoards: true, CanInviteMembers: true, JoinedAt: now},
			{Meta: meta(2), WorkspaceID: 1, UserID: 2, Role: WorkspaceMember, CanCreateBoards: true, JoinedAt: now},
			{Meta: meta(3), WorkspaceID: 1, UserID: 3, Role: WorkspaceMember, JoinedAt: now},
			{Meta: meta(4), WorkspaceID: 2, UserID: 2, Role: WorkspaceAdmin, CanCreateBoards: true, CanInviteMembers: true, JoinedAt: now},
			{Meta: meta(5), WorkspaceID: 2, UserID: 1, Role: WorkspaceAdmin, CanCreateBoards: true, CanInviteMembers: true, JoinedAt: now},
			{Meta: meta(6), WorkspaceID: 3, UserID: 1, Role: WorkspaceAdmin, CanCreateBoards: true, CanInviteMembers: true, JoinedAt: now},
		},
		Boards: []Board{
			{Meta: meta(1), Name: "My First Board", Description: "A sample board to get started", Color: "#0079bf", WorkspaceID: 1, OwnerID: 1, Visibility: VisibilityPrivate, Status: StatusActive},
			{Meta: meta(2), Name: "Marketing Campaign", Description: "Q1 Marketing campaign planning", Color: "#d29034", WorkspaceID: 2, OwnerID: 2, Visibility: VisibilityPublic, Status: StatusActive},
			{Meta: meta(3), Name: "Product Roadmap", Description: "2024 Product development roadmap", Color: "#519839", WorkspaceID: 2, OwnerID: 1, Visibility: VisibilityPrivate, Status: StatusActive},
			{Meta: meta(4), Name: "Personal Goals", Description: "My personal development goals", Color: "#89609e", WorkspaceID: 3, OwnerID: 1, Visibility: VisibilityPrivate, Status: StatusActive},
		},
		BoardMembers: []BoardMembership{
			{Meta: meta(1), BoardID: 1, UserID: 1, Role: BoardOwner, CanEdit: true, CanInvite: true, JoinedAt: now},
			{Meta: meta(2), BoardID: 1, UserID: 2, Role: BoardMember, CanEdit: true, JoinedAt: now},
			{Meta: meta(3), BoardID: 2, UserID: 2, Role: BoardOwner, CanEdit: true, CanInvite: true, JoinedAt: now},
			{Meta: meta(4), BoardID: 2, UserID: 1, Role: BoardMember, CanEdit: true, CanInvite: true, JoinedAt: now},
			{Meta: meta(5), BoardID: 3, UserID: 1, Role: BoardOwner, CanEdit: true, CanInvite: true, JoinedAt: now},
			{Meta: meta(6), BoardID: 3, UserID: 2, Role: BoardMember, CanEdit: true, JoinedAt: now},
			{Meta: meta(7), BoardID: 4, UserID: 1, Role: BoardOwner, CanEdit: true, CanInvite: true, JoinedAt: now},
		},
		Lists: []List{
			{Meta: meta(1), BoardID: 1, Name: "To Do", Position: 1, Status: StatusActive},
			{Meta: meta(2), BoardID: 1, Name: "In Progress", Position: 2, Status: StatusActive},
			{Meta: meta(3), BoardID: 1, Name: "Done", Position: 3, Status: StatusActive},
			{Meta: meta(4), BoardID: 2, Name: "Ideas", Position: 1, Status: StatusActive},
			{Meta: meta(5), BoardID: 2, Name: "In Review", Position: 2, Status: StatusActive},
			{Meta: meta(6), BoardID: 2, Name: "Approved", Position: 3, Status: StatusActive},
			{Meta: meta(7), BoardID: 2, Name: "Launched", Position: 4, Status: StatusActive},
			{Meta: meta(8), BoardID: 3, Name: "Backlog", Position: 1, Status: StatusActive},
			{Meta: meta(9), BoardID: 3, Name: "Q1 2024", Position: 2, Status: StatusActive},
			{Meta: meta(10), BoardID: 3, Name: "Q2 2024", Position: 3, Status: StatusActive},
			{Meta: meta(11), BoardID: 4, Name: "Goals", Position: 1, Status: StatusActive},
			{Meta: meta(12), BoardID: 4, Name: "In Progress", Position: 2, Status: StatusActive},
			{Meta: meta(13), BoardID: 4, Name: "Completed", Position: 3, Status: StatusActive},
		},
		Cards: []Card{
			{Meta: meta(1), ListID: 1, BoardID: 1, Title: "Welcome to your board!", Description: "This is a sample card. Click to edit and add more details, due dates, and assignments.", Position: 1, CreatedByID: 1, Status: StatusActive},
			{Meta: meta(2), ListID: 2, BoardID: 1, Title: "Card in progress", Description: "This card is being worked on by the team", Position: 1, CreatedByID: 1, AssignedMembers: []int64{1, 2}, Labels: []int64{1}, Status: StatusActive},
			{Meta: meta(3), ListID: 3, BoardID: 1, Title: "Completed task", Description: "This task has been completed successfully", Position: 1, IsComplete: true, CreatedByID: 2, AssignedMembers: []int64{2}, Labels: []int64{2}, Status: StatusActive},
			{Meta: meta(4), ListID: 4, BoardID: 2, Title: "Social Media Strategy", Description: "Develop comprehensive social media strategy for Q1", Position: 1, CreatedByID: 2, AssignedMembers: []int64{1, 2}, Status: StatusActive},
			{Meta: meta(5), ListID: 5, BoardID: 2, Title: "Content Calendar", Description: "Create content calendar for all platforms", Position: 1, CreatedByID: 1, AssignedMembers: []int64{1}, Status: StatusActive},
			{Meta: meta(6), ListID: 8, BoardID: 3, Title: "User Authentication System", Description: "Implement secure user login and registration", Position: 1, CreatedByID: 1, Status: StatusActive},
			{Meta: meta(7), ListID: 9, BoardID: 3, Title: "Dashboard Redesign", Description: "Redesign main dashboard for better UX", Position: 1, DueDate: &due, CreatedByID: 1, AssignedMembers: []int64{1, 2}, Status: StatusActive},
			{Meta: meta(8), ListID: 11, BoardID: 4, Title: "Learn Vue 3 Composition API", Description: "Complete Vue 3 course and build a project", Position: 1, CreatedByID: 1, Status: StatusActive},
			{Meta: meta(9), ListID: 12, BoardID: 4, Title: "Read 12 Books This Year", Description: "Currently on book 3/12", Position: 1, CreatedByID: 1, Status: StatusActive,
				ChecklistItems: []ChecklistItem{
					{ID: 1, Text: "Atomic Habits", IsComplete: true, CreatedAt: now},
					{ID: 2, Text: "Clean Code", IsComplete: true, CreatedAt: now},
					{ID: 3, Text: "You Don't Know JS", IsComplete: true, CreatedAt: now},
					{ID: 4, Text: "Designing Data-Intensive Applications", CreatedAt: now},
				}},
		},
		CardLabels: []Label{
			{Meta: meta(1), BoardID: 1, Name: "High Priority", Color: "#eb5a46", Status: StatusActive},
			{Meta: meta(2), BoardID: 1, Name: "Low Priority", Color: "#61bd4f", Status: StatusActive},
			{Meta: meta(3), BoardID: 1, Name: "Bug", Color: "#f2d600", Status: StatusActive},
			{Meta: meta(4), BoardID: 2, Name: "Social Media", Color: "#0079bf", Status: StatusActive},
			{Meta: meta(5), BoardID: 2, Name: "Content", Color: "#89609e", Status: StatusActive},
			{Meta: meta(6), BoardID: 2, Name: "Design", Color: "#ff9f1a", Status: StatusActive},
			{Meta: meta(7), BoardID: 3, Name: "Feature", Color: "#61bd4f", Status: StatusActive},
			{Meta: meta(8), BoardID: 3, Name: "Enhancement", Color: "#0079bf", Status: StatusActive},
			{Meta: meta(9), BoardID: 3, Name: "Critical", Color: "#eb5a46", Status: StatusActive},
			{Meta: meta(10), BoardID: 4, Name: "Learning", Color: "#0079bf", Status: StatusActive},
			{Meta: meta(11), BoardID: 4, Name: "Health", Color: "#61bd4f", Status: StatusActive},
		},
		CardComments: []Comment{
			{Meta: Meta{ID: 1, CreatedAt: now.Add(-2 * time.Hour)}, CardID: 2, UserID: 2, Comment: "I'll start working on this today!", Status: StatusActive},
			{Meta: Meta{ID: 2, CreatedAt: now.Add(-1 * time.Hour)}, CardID: 2, UserID: 1, Comment: "Great! Let me know if you need any help.", Status: StatusActive},
			{Meta: Meta{ID: 3, CreatedAt: now.Add(-30 * time.Minute)}, CardID: 7, UserID: 1, Comment: "The mockups look great! Ready to start development.", Status: StatusActive},
		},
		CardActivities: []Activity{
			{Meta: meta(1), CardID: 1, UserID: 1, Type: ActivityCreate, Description: "created this card"},
			{Meta: meta(2), CardID: 2, UserID: 1, Type: ActivityCreate, Description: "created this card"},
			{Meta: meta(3), CardID: 2, UserID: 1, Type: ActivityMemberAdd, Description: "added John Doe to this card"},
			{Meta: meta(4), CardID: 3, UserID: 2, Type: ActivityCreate, Description: "created this card"},
			{Meta: meta(5), CardID: 3, UserID: 2, Type: ActivityUpdate, Description: "marked this card as complete"},
		},
	}
	return doc
}
