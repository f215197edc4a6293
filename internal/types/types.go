package types

import (
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/engine"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

type ClientMessage struct {
	Type      string      `json:"type"`
	UnitID    string      `json:"unit_id,omitempty"`
	Unit      *unit.Unit  `json:"unit,omitempty"`
	Units     []unit.Unit `json:"units,omitempty"`
	Row       int         `json:"row,omitempty"`
	Col       int         `json:"col,omitempty"`
	Row2      int         `json:"row2,omitempty"`
	Col2      int         `json:"col2,omitempty"`
	Name      string      `json:"name,omitempty"`
	Term      string      `json:"term,omitempty"`
	SortKeys  []string    `json:"sort_keys,omitempty"`
	UnitsText string      `json:"units_text,omitempty"`
	Formation string      `json:"formation_text,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type SessionResponse struct {
	Code  string        `json:"code"`
	State *engine.State `json:"state,omitempty"`
}

type LinkRequest struct {
	Units     string `json:"units"`
	Formation string `json:"formation"`
}

type LinkResponse struct {
	Code      string `json:"code"`
	Units     string `json:"units"`
	Formation string `json:"formation"`
	Query     string `json:"query"`
}
