package engine

import (
	"errors"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/roster"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrInvalidTile = errors.New("invalid tile")
var ErrUnknownUnit = errors.New("unknown unit")
var ErrInvalidUnit = errors.New("invalid unit")

type CommandType string

const (
	CmdAddUnit         CommandType = "AddUnit"
	CmdRemoveUnit      CommandType = "RemoveUnit"
	CmdUpdateUnit      CommandType = "UpdateUnit"
	CmdSetUnits        CommandType = "SetUnits"
	CmdSetSearchTerm   CommandType = "SetSearchTerm"
	CmdSetSortKeys     CommandType = "SetSortKeys"
	CmdPlaceUnit       CommandType = "PlaceUnit"
	CmdRemoveUnitAt    CommandType = "RemoveUnitAt"
	CmdSwapUnits       CommandType = "SwapUnits"
	CmdRenameFormation CommandType = "RenameFormation"
	CmdUndo            CommandType = "Undo"
	CmdRedo            CommandType = "Redo"
	CmdClearHistory    CommandType = "ClearHistory"
	CmdLoadLink        CommandType = "LoadLink"
)

/*
	CmdPlaceUnit       -> EvtUnitReturned (if the tile was taken) -> EvtSnapshotRecorded -> EvtUnitPlaced
	CmdRemoveUnitAt    -> EvtUnitReturned -> EvtSnapshotRecorded -> EvtUnitRemovedAt
	CmdSwapUnits       -> EvtSnapshotRecorded -> EvtUnitsSwapped
	CmdRenameFormation -> EvtSnapshotRecorded -> EvtFormationRenamed
	CmdUndo / CmdRedo  -> EvtUndone / EvtRedone
	Roster commands emit one event when they change something, none when a
	capacity bound turns them into a no-op.
*/

// Command is one UI intent. Row/Col address the target tile; Row2/Col2 the
// second tile of a swap. PlaceUnit takes Unit when set, otherwise the roster
// unit with UnitID.
type Command struct {
	Type          CommandType
	UnitID        string
	Unit          *unit.Unit
	Units         []unit.Unit
	Row, Col      int
	Row2, Col2    int
	Name          string
	Term          string
	SortKeys      [3]roster.SortKey
	UnitsText     string
	FormationText string
}

type EventType string

const (
	EvtUnitAdded        EventType = "UnitAdded"
	EvtUnitRemoved      EventType = "UnitRemoved"
	EvtUnitUpdated      EventType = "UnitUpdated"
	EvtUnitsReplaced    EventType = "UnitsReplaced"
	EvtViewChanged      EventType = "ViewChanged"
	EvtSnapshotRecorded EventType = "SnapshotRecorded"
	EvtUnitPlaced       EventType = "UnitPlaced"
	EvtUnitReturned     EventType = "UnitReturned"
	EvtUnitRemovedAt    EventType = "UnitRemovedAt"
	EvtUnitsSwapped     EventType = "UnitsSwapped"
	EvtFormationRenamed EventType = "FormationRenamed"
	EvtUndone           EventType = "Undone"
	EvtRedone           EventType = "Redone"
	EvtHistoryCleared   EventType = "HistoryCleared"
	EvtLinkLoaded       EventType = "LinkLoaded"
)

type Event struct {
	Type   EventType
	UnitID string
	Row    int
	Col    int
}

// Apply validates cmd at the UI boundary and runs it. Errors only report
// malformed commands; capacity refusals and empty undo/redo are silent and
// yield no events.
func (p *Planner) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdAddUnit:
		if cmd.Unit == nil {
			return nil, ErrInvalidUnit
		}
		u := *cmd.Unit
		if u.ID == "" {
			u.ID = unit.NewID()
		}
		if !p.AddUnit(u) {
			return nil, nil
		}
		return []Event{{Type: EvtUnitAdded, UnitID: u.ID}}, nil

	case CmdRemoveUnit:
		if !p.RemoveUnit(cmd.UnitID) {
			return nil, nil
		}
		return []Event{{Type: EvtUnitRemoved, UnitID: cmd.UnitID}}, nil

	case CmdUpdateUnit:
		if cmd.Unit == nil {
			return nil, ErrInvalidUnit
		}
		if !p.UpdateUnit(*cmd.Unit) {
			return nil, nil
		}
		return []Event{{Type: EvtUnitUpdated, UnitID: cmd.Unit.ID}}, nil

	case CmdSetUnits:
		p.SetUnits(cmd.Units)
		return []Event{{Type: EvtUnitsReplaced}}, nil

	case CmdSetSearchTerm:
		p.SetSearchTerm(cmd.Term)
		return []Event{{Type: EvtViewChanged}}, nil

	case CmdSetSortKeys:
		p.SetSortKeys(cmd.SortKeys[0], cmd.SortKeys[1], cmd.SortKeys[2])
		return []Event{{Type: EvtViewChanged}}, nil

	case CmdPlaceUnit:
		if !formation.InBounds(cmd.Row, cmd.Col) {
			return nil, ErrInvalidTile
		}
		u, err := p.resolveUnit(cmd)
		if err != nil {
			return nil, err
		}
		ok, returned := p.placeUnit(cmd.Row, cmd.Col, u)
		if !ok {
			return nil, ErrInvalidUnit
		}
		var events []Event
		if returned != nil {
			events = append(events, Event{Type: EvtUnitReturned, UnitID: returned.ID, Row: cmd.Row, Col: cmd.Col})
		}
		placed, _ := p.grid.At(cmd.Row, cmd.Col)
		events = append(events,
			Event{Type: EvtSnapshotRecorded},
			Event{Type: EvtUnitPlaced, UnitID: placed.ID, Row: cmd.Row, Col: cmd.Col},
		)
		return events, nil

	case CmdRemoveUnitAt:
		if !formation.InBounds(cmd.Row, cmd.Col) {
			return nil, ErrInvalidTile
		}
		prev, ok := p.grid.At(cmd.Row, cmd.Col)
		if !ok || !p.RemoveUnitAt(cmd.Row, cmd.Col) {
			return nil, nil
		}
		return []Event{
			{Type: EvtUnitReturned, UnitID: prev.ID, Row: cmd.Row, Col: cmd.Col},
			{Type: EvtSnapshotRecorded},
			{Type: EvtUnitRemovedAt, UnitID: prev.ID, Row: cmd.Row, Col: cmd.Col},
		}, nil

	case CmdSwapUnits:
		if !formation.InBounds(cmd.Row, cmd.Col) || !formation.InBounds(cmd.Row2, cmd.Col2) {
			return nil, ErrInvalidTile
		}
		if !p.SwapUnits(cmd.Row, cmd.Col, cmd.Row2, cmd.Col2) {
			return nil, nil
		}
		return []Event{{Type: EvtSnapshotRecorded}, {Type: EvtUnitsSwapped}}, nil

	case CmdRenameFormation:
		if !p.RenameFormation(cmd.Name) {
			return nil, nil
		}
		return []Event{{Type: EvtSnapshotRecorded}, {Type: EvtFormationRenamed}}, nil

	case CmdUndo:
		if !p.Undo() {
			return nil, nil
		}
		return []Event{{Type: EvtUndone}}, nil

	case CmdRedo:
		if !p.Redo() {
			return nil, nil
		}
		return []Event{{Type: EvtRedone}}, nil

	case CmdClearHistory:
		p.ClearHistory()
		return []Event{{Type: EvtHistoryCleared}}, nil

	case CmdLoadLink:
		p.Load(cmd.UnitsText, cmd.FormationText)
		return []Event{{Type: EvtLinkLoaded}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}

func (p *Planner) resolveUnit(cmd Command) (unit.Unit, error) {
	if cmd.Unit != nil {
		return *cmd.Unit, nil
	}
	u, ok := p.roster.Find(cmd.UnitID)
	if !ok {
		return unit.Unit{}, ErrUnknownUnit
	}
	return u, nil
}
