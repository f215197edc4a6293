package engine

import (
	"strings"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/codec"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/history"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/roster"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

// Planner owns the roster, the formation grid and the undo history, and is
// the only place units move between roster and grid. A unit id is never on
// both at once. Planner is not safe for concurrent use; callers serialize
// access (see package lobby).
type Planner struct {
	cat     *catalog.Catalog
	codec   *codec.Codec
	roster  *roster.Roster
	grid    *formation.Formation
	history *history.Buffer
}

// Option configures planner construction.
type Option func(*Planner)

// WithHistorySize bounds the undo history. Non-positive sizes keep the
// default.
func WithHistorySize(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.history.SetMaxSize(n)
		}
	}
}

func WithFormationName(name string) Option {
	return func(p *Planner) {
		p.grid = formation.New(name)
	}
}

func NewPlanner(cat *catalog.Catalog, opts ...Option) *Planner {
	p := &Planner{
		cat:     cat,
		codec:   codec.New(cat),
		roster:  roster.New(cat),
		grid:    formation.New(""),
		history: history.New(history.DefaultMaxSize),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Planner) Catalog() *catalog.Catalog { return p.cat }
func (p *Planner) Codec() *codec.Codec       { return p.codec }

// Roster operations. These never change the grid or the history; units
// whose id is already on the grid are refused.

func (p *Planner) AddUnit(u unit.Unit) bool {
	if u.ID != "" && p.grid.Contains(u.ID) {
		return false
	}
	return p.roster.Add(u)
}

func (p *Planner) RemoveUnit(id string) bool   { return p.roster.Remove(id) }
func (p *Planner) UpdateUnit(u unit.Unit) bool { return p.roster.Update(u) }

func (p *Planner) SetUnits(units []unit.Unit) {
	kept := make([]unit.Unit, 0, len(units))
	for _, u := range units {
		if u.ID == "" || !p.grid.Contains(u.ID) {
			kept = append(kept, u)
		}
	}
	p.roster.SetAll(kept)
}

func (p *Planner) SetSearchTerm(term string) { p.roster.SetSearchTerm(term) }
func (p *Planner) SetSortKeys(k1, k2, k3 roster.SortKey) {
	p.roster.SetSortKeys(k1, k2, k3)
}

// PlaceUnit puts u on a tile. A displaced occupant goes back to the roster
// and u leaves it. A unit already on another tile moves, so its old tile is
// cleared in the same step. Out-of-bounds tiles and invalid levels are ignored.
func (p *Planner) PlaceUnit(row, col int, u unit.Unit) bool {
	placed, _ := p.placeUnit(row, col, u)
	return placed
}

// placeUnit also returns the displaced occupant when the roster took it back.
func (p *Planner) placeUnit(row, col int, u unit.Unit) (bool, *unit.Unit) {
	if !formation.InBounds(row, col) {
		return false, nil
	}
	u = unit.Normalize(p.cat, u)
	if !u.Valid() {
		return false, nil
	}
	if u.ID == "" {
		u.ID = unit.NewID()
	}
	var returned *unit.Unit
	if prev, ok := p.grid.At(row, col); ok && prev.ID != u.ID {
		if p.roster.Add(prev) {
			returned = &prev
		}
	}
	p.roster.Remove(u.ID)
	fromRow, fromCol, onGrid := p.grid.Locate(u.ID)
	p.history.Record(p.grid)
	if onGrid && (fromRow != row || fromCol != col) {
		p.grid.RemoveAt(fromRow, fromCol)
	}
	p.grid.Place(row, col, u)
	return true, returned
}

// RemoveUnitAt clears a tile and hands its occupant back to the roster.
func (p *Planner) RemoveUnitAt(row, col int) bool {
	if !formation.InBounds(row, col) {
		return false
	}
	prev, ok := p.grid.At(row, col)
	if !ok {
		return false
	}
	p.roster.Add(prev)
	p.history.Record(p.grid)
	p.grid.RemoveAt(row, col)
	return true
}

// SwapUnits exchanges two tiles. The roster is not involved.
func (p *Planner) SwapUnits(r1, c1, r2, c2 int) bool {
	if !formation.InBounds(r1, c1) || !formation.InBounds(r2, c2) {
		return false
	}
	if r1 == r2 && c1 == c2 {
		return false
	}
	_, ok1 := p.grid.At(r1, c1)
	_, ok2 := p.grid.At(r2, c2)
	if !ok1 && !ok2 {
		return false
	}
	p.history.Record(p.grid)
	p.grid.Swap(r1, c1, r2, c2)
	return true
}

func (p *Planner) RenameFormation(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	p.history.Record(p.grid)
	return p.grid.Rename(name)
}

// Undo moves the history back one step and applies its present snapshot to
// the grid.
func (p *Planner) Undo() bool {
	before := p.grid.Clone()
	if !p.history.Undo() {
		return false
	}
	p.applyPresent(before)
	return true
}

func (p *Planner) Redo() bool {
	before := p.grid.Clone()
	if !p.history.Redo() {
		return false
	}
	p.applyPresent(before)
	return true
}

func (p *Planner) ClearHistory()        { p.history.Clear() }
func (p *Planner) SetHistorySize(n int) { p.history.SetMaxSize(n) }

// applyPresent installs the history present on the grid, then moves units
// that left the grid back to the roster and pulls units now on the grid out
// of it.
func (p *Planner) applyPresent(before *formation.Formation) {
	present := p.history.Present()
	if present == nil {
		return
	}
	p.grid.Restore(present)
	for _, pl := range p.grid.Occupied() {
		p.roster.Remove(pl.Unit.ID)
	}
	for _, pl := range before.Occupied() {
		if !p.grid.Contains(pl.Unit.ID) {
			p.roster.Add(pl.Unit)
		}
	}
}

// Load replaces roster and grid with the content of the two link blobs and
// starts a fresh history.
func (p *Planner) Load(unitsText, formationText string) {
	units := p.codec.DecodeUnits(unitsText)
	p.roster.SetAll(units)
	p.grid.Restore(p.codec.DecodeFormation(formationText))
	for _, pl := range p.grid.Occupied() {
		p.roster.Remove(pl.Unit.ID)
	}
	p.history.Clear()
}

// Reads.

func (p *Planner) CurrentRoster() []unit.Unit        { return p.roster.Units() }
func (p *Planner) FilteredSortedRoster() []unit.Unit { return p.roster.View() }
func (p *Planner) CurrentFormation() *formation.Formation {
	return p.grid.Clone()
}
func (p *Planner) CanUndo() bool  { return p.history.CanUndo() }
func (p *Planner) CanRedo() bool  { return p.history.CanRedo() }
func (p *Planner) UndoCount() int { return p.history.UndoCount() }
func (p *Planner) RedoCount() int { return p.history.RedoCount() }

func (p *Planner) FindUnit(id string) (unit.Unit, bool) { return p.roster.Find(id) }

// Link encoding.

func (p *Planner) EncodeUnits() string     { return p.codec.EncodeUnits(p.roster.Units()) }
func (p *Planner) EncodeFormation() string { return p.codec.EncodeFormation(p.grid) }

// ShareQuery is the query string of the share link for the current state.
func (p *Planner) ShareQuery() string {
	return p.codec.Link(p.roster.Units(), p.grid).Encode()
}
