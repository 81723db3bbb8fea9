package model

import "strings"

// FilterCriteria is the set of card filters a user can switch on for a
// board view. The zero value filters nothing.
type FilterCriteria struct {
	Keyword      string  `json:"keyword"`
	NoMembers    bool    `json:"noMembers"`
	AssignedToMe bool    `json:"assignedToMe"`
	Members      []int64 `json:"members"`
	CardStatus   string  `json:"cardStatus"`
	Activity     string  `json:"activity"`
}

// Card status selector values.
const (
	CardStatusComplete   = "complete"
	CardStatusIncomplete = "incomplete"
)

// Activity selector values. The window ones keep cards updated within the
// period; ActivityInactive keeps cards untouched for more than four weeks.
const (
	ActivityWeek      = "week"
	ActivityTwoWeeks  = "two_weeks"
	ActivityFourWeeks = "four_weeks"
	ActivityInactive  = "inactive"
)

// Empty reports whether every criterion is at its default.
func (f FilterCriteria) Empty() bool {
	return strings.TrimSpace(f.Keyword) == "" &&
		!f.NoMembers &&
		!f.AssignedToMe &&
		len(f.Members) == 0 &&
		f.CardStatus == "" &&
		f.Activity == ""
}
