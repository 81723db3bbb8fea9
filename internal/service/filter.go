package service

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

const day = 24 * time.Hour

var activityWindows = map[string]time.Duration{
	model.ActivityWeek:      7 * day,
	model.ActivityTwoWeeks:  14 * day,
	model.ActivityFourWeeks: 28 * day,
}

// Filter holds the card filter criteria of one board view.
type Filter struct {
	mu sync.RWMutex
	c  model.FilterCriteria
}

func NewFilter() *Filter { return &Filter{} }

// IsActive reports whether any criterion differs from its default.
func (f *Filter) IsActive() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.c.Empty()
}

// Update replaces the criteria.
func (f *Filter) Update(c model.FilterCriteria) {
	c.Members = slices.Clone(c.Members)
	f.mu.Lock()
	f.c = c
	f.mu.Unlock()
}

// Clear resets every criterion.
func (f *Filter) Clear() {
	f.mu.Lock()
	f.c = model.FilterCriteria{}
	f.mu.Unlock()
}

func (f *Filter) Criteria() model.FilterCriteria {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c := f.c
	c.Members = slices.Clone(c.Members)
	return c
}

// Matches reports whether card passes the criteria for currentUserID at
// time now. The member rules (no members, assigned to me, specific
// members) are alternatives: a card passes when it satisfies any one
// that is switched on. Every other criterion must hold.
func (f *Filter) Matches(card model.Card, currentUserID int64, now time.Time) bool {
	return MatchCard(f.Criteria(), card, currentUserID, now)
}

// MatchCard applies c to one card.
func MatchCard(c model.FilterCriteria, card model.Card, currentUserID int64, now time.Time) bool {
	if kw := strings.ToLower(strings.TrimSpace(c.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(card.Title), kw) &&
			!strings.Contains(strings.ToLower(card.Description), kw) {
			return false
		}
	}

	if c.NoMembers || c.AssignedToMe || len(c.Members) > 0 {
		ok := (c.NoMembers && len(card.AssignedMembers) == 0) ||
			(c.AssignedToMe && card.IsAssigned(currentUserID)) ||
			slices.ContainsFunc(c.Members, card.IsAssigned)
		if !ok {
			return false
		}
	}

	switch c.CardStatus {
	case model.CardStatusComplete:
		if !card.IsComplete {
			return false
		}
	case model.CardStatusIncomplete:
		if card.IsComplete {
			return false
		}
	}

	if c.Activity != "" {
		touched := card.UpdatedAt
		if touched.IsZero() {
			touched = card.CreatedAt
		}
		age := now.Sub(touched)
		if c.Activity == model.ActivityInactive {
			if age <= activityWindows[model.ActivityFourWeeks] {
				return false
			}
		} else if window, ok := activityWindows[c.Activity]; ok && age > window {
			return false
		}
	}
	return true
}

// Apply renders the board's kanban with only the cards that match.
// Lists are kept even when none of their cards match.
func (f *Filter) Apply(store *repository.Store, boardID, currentUserID int64, now time.Time) []model.KanbanList {
	c := f.Criteria()
	lists := store.ListsForBoard(boardID)
	out := make([]model.KanbanList, 0, len(lists))
	for _, l := range lists {
		kl := model.KanbanList{ID: strconv.FormatInt(l.ID, 10), Title: l.Name, Cards: []model.KanbanCard{}}
		for _, card := range store.CardsForList(l.ID) {
			if c.Empty() || MatchCard(c, card, currentUserID, now) {
				kl.Cards = append(kl.Cards, model.KanbanCard{
					ID:          strconv.FormatInt(card.ID, 10),
					Title:       card.Title,
					IsComplete:  card.IsComplete,
					Description: card.Description,
				})
			}
		}
		out = append(out, kl)
	}
	return out
}
