package engine

import (
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/roster"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

// State is a settled, independent view of a planner, safe to hand to other
// goroutines.
type State struct {
	Roster     []unit.Unit          `json:"roster"`
	View       []unit.Unit          `json:"view"`
	SearchTerm string               `json:"search_term,omitempty"`
	SortKeys   [3]roster.SortKey    `json:"sort_keys"`
	Formation  *formation.Formation `json:"formation"`
	CanUndo    bool                 `json:"can_undo"`
	CanRedo    bool                 `json:"can_redo"`
	UndoCount  int                  `json:"undo_count"`
	RedoCount  int                  `json:"redo_count"`
	Share      string               `json:"share"`
}

func (p *Planner) State() State {
	return State{
		Roster:     p.roster.Units(),
		View:       p.roster.View(),
		SearchTerm: p.roster.SearchTerm(),
		SortKeys:   p.roster.SortKeys(),
		Formation:  p.grid.Clone(),
		CanUndo:    p.history.CanUndo(),
		CanRedo:    p.history.CanRedo(),
		UndoCount:  p.history.UndoCount(),
		RedoCount:  p.history.RedoCount(),
		Share:      p.ShareQuery(),
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
