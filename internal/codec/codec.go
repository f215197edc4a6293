// Package codec turns the roster and the formation into the compact text
// carried in share links, and back.
//
// Units grammar:     group (";" group)*   where group = index "," level "," count
// Formation grammar: name (";" tile){49}  where tile  = "_" | index "," level
//
// Decoding is total: malformed tokens are skipped (units) or read as empty
// tiles (formation), so any input yields a usable state.
package codec

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/roster"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

const (
	groupSep   = ";"
	fieldSep   = ","
	EmptyTile  = "_"
	tileFields = 2
	unitFields = 3
)

type Codec struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Codec {
	return &Codec{cat: cat}
}

type group struct {
	entry catalog.Entry
	level int
	count int
}

// EncodeUnits collapses units into (index, level, count) groups ordered by
// level descending, rarity descending, then name. Units whose name is not in
// the catalog are skipped.
func (c *Codec) EncodeUnits(units []unit.Unit) string {
	type key struct{ index, level int }
	groups := make(map[key]*group)
	for _, u := range units {
		e, ok := c.cat.Lookup(unit.NormalizeName(u.Name))
		if !ok || !catalog.ValidLevel(u.Level) {
			continue
		}
		k := key{index: e.Index, level: u.Level}
		if g, ok := groups[k]; ok {
			g.count++
			continue
		}
		groups[k] = &group{entry: e, level: u.Level, count: 1}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(a, b *group) int {
		return cmp.Or(
			cmp.Compare(b.level, a.level),
			cmp.Compare(b.entry.Rarity.Rank(), a.entry.Rarity.Rank()),
			strings.Compare(a.entry.Name, b.entry.Name),
			cmp.Compare(a.entry.Index, b.entry.Index),
		)
	})

	tokens := make([]string, len(ordered))
	for i, g := range ordered {
		tokens[i] = strconv.Itoa(g.entry.Index) + fieldSep + strconv.Itoa(g.level) + fieldSep + strconv.Itoa(g.count)
	}
	return strings.Join(tokens, groupSep)
}

// DecodeUnits expands groups into fresh units, honouring the roster's
// per-(name, level) and total capacity. Decoding stops at the total cap,
// even in the middle of a group.
func (c *Codec) DecodeUnits(text string) []unit.Unit {
	out := make([]unit.Unit, 0)
	perKey := make(map[unit.Key]int)
	for _, token := range strings.Split(text, groupSep) {
		if len(out) >= roster.MaxUnits {
			break
		}
		fields, ok := parseInts(token, unitFields)
		if !ok {
			continue
		}
		index, level, count := fields[0], fields[1], fields[2]
		e, ok := c.cat.LookupIndex(index)
		if !ok || !catalog.ValidLevel(level) {
			continue
		}
		k := unit.Key{Name: e.Name, Level: level}
		n := min(count, roster.MaxPerNameLevel-perKey[k], roster.MaxUnits-len(out))
		for i := 0; i < n; i++ {
			out = append(out, unit.New(c.cat, e, level))
		}
		if n > 0 {
			perKey[k] += n
		}
	}
	return out
}

// EncodeFormation writes the name followed by exactly 49 row-major tiles. A
// nil formation encodes to the empty string. Separators are removed from the
// name so it cannot shift the tiles.
func (c *Codec) EncodeFormation(f *formation.Formation) string {
	if f == nil {
		return ""
	}
	tokens := make([]string, 0, formation.Tiles+1)
	tokens = append(tokens, strings.ReplaceAll(f.Name, groupSep, ""))
	for row := 0; row < formation.Size; row++ {
		for col := 0; col < formation.Size; col++ {
			tokens = append(tokens, c.encodeTile(f.Tiles[row][col]))
		}
	}
	return strings.Join(tokens, groupSep)
}

func (c *Codec) encodeTile(u *unit.Unit) string {
	if u == nil || !catalog.ValidLevel(u.Level) {
		return EmptyTile
	}
	e, ok := c.cat.Lookup(unit.NormalizeName(u.Name))
	if !ok {
		return EmptyTile
	}
	return strconv.Itoa(e.Index) + fieldSep + strconv.Itoa(u.Level)
}

// DecodeFormation rebuilds a formation from text. Missing or unreadable
// tiles are empty; a missing name falls back to formation.DefaultName.
func (c *Codec) DecodeFormation(text string) *formation.Formation {
	tokens := strings.Split(text, groupSep)
	f := formation.New(tokens[0])
	for i := 1; i < len(tokens) && i <= formation.Tiles; i++ {
		u, ok := c.decodeTile(tokens[i])
		if !ok {
			continue
		}
		f.Place((i-1)/formation.Size, (i-1)%formation.Size, u)
	}
	return f
}

func (c *Codec) decodeTile(token string) (unit.Unit, bool) {
	token = strings.TrimSpace(token)
	if token == "" || token == EmptyTile {
		return unit.Unit{}, false
	}
	fields, ok := parseInts(token, tileFields)
	if !ok {
		return unit.Unit{}, false
	}
	e, ok := c.cat.LookupIndex(fields[0])
	if !ok || !catalog.ValidLevel(fields[1]) {
		return unit.Unit{}, false
	}
	return unit.New(c.cat, e, fields[1]), true
}

// parseInts splits token on commas and requires exactly n integer fields.
func parseInts(token string, n int) ([]int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	parts := strings.Split(token, fieldSep)
	if len(parts) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		// Fields are bare digits; Atoi alone would take a sign.
		if p == "" || p[0] == '+' || p[0] == '-' {
			return nil, false
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
