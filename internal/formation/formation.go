// Package formation is the fixed 7x7 placement grid. It does not know about
// the roster: displaced occupants are simply overwritten, and handing them
// back is the caller's job.
package formation

import (
	"strings"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

const (
	Size  = 7
	Tiles = Size * Size
)

const DefaultName = "My Formation"

// Formation holds optional units by row and column. Power always equals the
// sum of the occupied tiles' power.
type Formation struct {
	Name  string                 `json:"name"`
	Tiles [Size][Size]*unit.Unit `json:"tiles"`
	Power int                    `json:"power"`
}

// New returns an empty grid. A blank name falls back to DefaultName.
func New(name string) *Formation {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return &Formation{Name: name}
}

// InBounds reports whether row and col address a tile.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns a copy of the occupant of a tile.
func (f *Formation) At(row, col int) (unit.Unit, bool) {
	u := f.Tiles[row][col]
	if u == nil {
		return unit.Unit{}, false
	}
	return *u, true
}

// Place overwrites the tile with u.
func (f *Formation) Place(row, col int, u unit.Unit) {
	f.Tiles[row][col] = &u
	f.recompute()
}

// RemoveAt clears the tile.
func (f *Formation) RemoveAt(row, col int) {
	f.Tiles[row][col] = nil
	f.recompute()
}

// Swap exchanges the contents of two tiles.
func (f *Formation) Swap(r1, c1, r2, c2 int) {
	f.Tiles[r1][c1], f.Tiles[r2][c2] = f.Tiles[r2][c2], f.Tiles[r1][c1]
	f.recompute()
}

// Rename sets the trimmed name; a blank name is ignored.
func (f *Formation) Rename(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	f.Name = name
	return true
}

// Placement is an occupied tile.
type Placement struct {
	Row  int       `json:"row"`
	Col  int       `json:"col"`
	Unit unit.Unit `json:"unit"`
}

// Occupied lists occupied tiles in row-major order.
func (f *Formation) Occupied() []Placement {
	var out []Placement
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if u := f.Tiles[row][col]; u != nil {
				out = append(out, Placement{Row: row, Col: col, Unit: *u})
			}
		}
	}
	return out
}

// Contains reports whether a unit with id occupies any tile.
func (f *Formation) Contains(id string) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if u := f.Tiles[row][col]; u != nil && u.ID == id {
				return true
			}
		}
	}
	return false
}

// Locate returns the tile holding id.
func (f *Formation) Locate(id string) (row, col int, ok bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if u := f.Tiles[row][col]; u != nil && u.ID == id {
				return row, col, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns an independent deep copy, used for history snapshots.
func (f *Formation) Clone() *Formation {
	if f == nil {
		return nil
	}
	out := &Formation{Name: f.Name, Power: f.Power}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if u := f.Tiles[row][col]; u != nil {
				cp := *u
				out.Tiles[row][col] = &cp
			}
		}
	}
	return out
}

// Restore replaces this grid's contents with a deep copy of src.
func (f *Formation) Restore(src *Formation) {
	cp := src.Clone()
	f.Name = cp.Name
	f.Tiles = cp.Tiles
	f.recompute()
}

func (f *Formation) recompute() {
	total := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if u := f.Tiles[row][col]; u != nil {
				total += u.Power
			}
		}
	}
	f.Power = total
}
