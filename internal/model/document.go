package model

import "slices"

// TableName names one of the ten tables of a Document. The set is closed.
type TableName string

const (
	TableUsers            TableName = "users"
	TableWorkspaces       TableName = "workspaces"
	TableWorkspaceMembers TableName = "workspaceMembers"
	TableBoards           TableName = "boards"
	TableBoardMembers     TableName = "boardMembers"
	TableLists            TableName = "lists"
	TableCards            TableName = "cards"
	TableCardLabels       TableName = "cardLabels"
	TableCardComments     TableName = "cardComments"
	TableCardActivities   TableName = "cardActivities"
)

// TableNames lists every table in document order.
var TableNames = []TableName{
	TableUsers,
	TableWorkspaces,
	TableWorkspaceMembers,
	TableBoards,
	TableBoardMembers,
	TableLists,
	TableCards,
	TableCardLabels,
	TableCardComments,
	TableCardActivities,
}

// Valid reports whether n is one of the known tables.
func (n TableName) Valid() bool { return slices.Contains(TableNames, n) }

// Document is the whole dataset. It is persisted as a single JSON value
// with one top-level array per table.
type Document struct {
	Users            []User                `json:"users"`
	Boards           []Board               `json:"boards"`
	BoardMembers     []BoardMembership     `json:"boardMembers"`
	Workspaces       []Workspace           `json:"workspaces"`
	WorkspaceMembers []WorkspaceMembership `json:"workspaceMembers"`
	Lists            []List                `json:"lists"`
	Cards            []Card                `json:"cards"`
	CardLabels       []Label               `json:"cardLabels"`
	CardComments     []Comment             `json:"cardComments"`
	CardActivities   []Activity            `json:"cardActivities"`
}

// Normalize replaces nil tables with empty ones so that an exported
// document always lists all ten arrays.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Boards == nil {
		d.Boards = []Board{}
	}
	if d.BoardMembers == nil {
		d.BoardMembers = []BoardMembership{}
	}
	if d.Workspaces == nil {
		d.Workspaces = []Workspace{}
	}
	if d.WorkspaceMembers == nil {
		d.WorkspaceMembers = []WorkspaceMembership{}
	}
	if d.Lists == nil {
		d.Lists = []List{}
	}
	if d.Cards == nil {
		d.Cards = []Card{}
	}
	if d.CardLabels == nil {
		d.CardLabels = []Label{}
	}
	if d.CardComments == nil {
		d.CardComments = []Comment{}
	}
	if d.CardActivities == nil {
		d.CardActivities = []Activity{}
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{
		Users:            slices.Clone(d.Users),
		Boards:           slices.Clone(d.Boards),
		BoardMembers:     slices.Clone(d.BoardMembers),
		Workspaces:       slices.Clone(d.Workspaces),
		WorkspaceMembers: slices.Clone(d.WorkspaceMembers),
		Lists:            slices.Clone(d.Lists),
		Cards:            slices.Clone(d.Cards),
		CardLabels:       slices.Clone(d.CardLabels),
		CardComments:     slices.Clone(d.CardComments),
		CardActivities:   slices.Clone(d.CardActivities),
	}
	for i := range out.Cards {
		out.Cards[i].Detach()
	}
	out.Normalize()
	return out
}

// KanbanCard is the minimal card shape used to render a board.
type KanbanCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsComplete  bool   `json:"isComplete"`
	Description string `json:"description"`
}

// KanbanList is one rendered column with its ordered active cards.
type KanbanList struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Cards []KanbanCard `json:"cards"`
}

// StorageInfo reports the serialized size of a document.
type StorageInfo struct {
	SizeInBytes int    `json:"sizeInBytes"`
	SizeInKB    string `json:"sizeInKB"`
	SizeInMB    string `json:"sizeInMB"`
}
