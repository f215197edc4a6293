package types

// Client -> Server (websocket /ws?code=XXXXXX, one JSON object per frame)
//
// AddUnit / UpdateUnit:
//   unit: { id?: string, name: string, level: 1..10, rarity?: string, power?: number }
//
// RemoveUnit:
//   unit_id: string
//
// SetUnits:
//   units: Unit[] // replaces the roster, grid ids are skipped
//
// SetSearchTerm:
//   term: string
//
// SetSortKeys:
//   sort_keys: ("level" | "rarity" | "name" | "")[] // up to three
//
// PlaceUnit:
//   row, col: 0..6
//   unit_id: string // a roster unit, or
//   unit: Unit      // a unit from outside the roster
//
// RemoveUnitAt:
//   row, col: 0..6
//
// SwapUnits:
//   row, col, row2, col2: 0..6
//
// RenameFormation:
//   name: string // blank is ignored
//
// Undo / Redo / ClearHistory: {}
//
// LoadLink:
//   units_text: string     // "index,level,count;..."
//   formation_text: string // "name;tile;...;tile" with 49 tiles, "_" empty

// Server -> Client
// StateSnapshot:
//   version: number // bumps on every command that changed something
//   state: see snapshot.go
//
// Error:
//   error: string // "bad json" | "unknown type" | engine error text
