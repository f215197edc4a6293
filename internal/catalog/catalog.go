// Package catalog holds the static unit configuration: the canonical unit
// names, their stable wire indexes and rarities, and the power table keyed by
// rarity and level. A Catalog is immutable once built.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrDuplicateName = errors.New("catalog: duplicate unit name")
var ErrDuplicateIndex = errors.New("catalog: duplicate unit index")
var ErrUnknownRarity = errors.New("catalog: unknown rarity")
var ErrPowerTable = errors.New("catalog: invalid power table")
var ErrInvalidEntry = errors.New("catalog: invalid entry")

const (
	MinLevel = 1
	MaxLevel = 10
)

type Rarity string

const (
	Common    Rarity = "Common"
	Rare      Rarity = "Rare"
	Epic      Rarity = "Epic"
	Legendary Rarity = "Legendary"
)

// Rarities lists every rarity from lowest to highest rank.
var Rarities = []Rarity{Common, Rare, Epic, Legendary}

// Rank orders rarities, Legendary highest. Unknown rarities rank 0.
func (r Rarity) Rank() int {
	switch r {
	case Common:
		return 1
	case Rare:
		return 2
	case Epic:
		return 3
	case Legendary:
		return 4
	default:
		return 0
	}
}

func (r Rarity) Valid() bool { return r.Rank() > 0 }

// ParseRarity matches a rarity name case-insensitively.
func ParseRarity(s string) (Rarity, bool) {
	for _, r := range Rarities {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Index  int    `json:"index" yaml:"index"`
	Rarity Rarity `json:"rarity" yaml:"rarity"`
}

// PowerTable maps a rarity to the power of levels 1..10, in order.
type PowerTable map[Rarity][]int

type Catalog struct {
	byName  map[string]Entry
	byIndex map[int]Entry
	power   PowerTable
}

// New validates entries and the power table and builds both lookup
// directions.
func New(entries []Entry, power PowerTable) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]Entry, len(entries)),
		byIndex: make(map[int]Entry, len(entries)),
		power:   make(PowerTable, len(power)),
	}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || e.Index < 0 {
			return nil, fmt.Errorf("%w: %q index %d", ErrInvalidEntry, e.Name, e.Index)
		}
		if !e.Rarity.Valid() {
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownRarity, e.Rarity, e.Name)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
		}
		if prev, dup := c.byIndex[e.Index]; dup {
			return nil, fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateIndex, e.Index, prev.Name, e.Name)
		}
		c.byName[e.Name] = e
		c.byIndex[e.Index] = e
	}
	for _, r := range Rarities {
		levels, ok := power[r]
		if !ok || len(levels) != MaxLevel {
			return nil, fmt.Errorf("%w: %s needs %d levels", ErrPowerTable, r, MaxLevel)
		}
		for _, p := range levels {
			if p < 0 {
				return nil, fmt.Errorf("%w: negative power for %s", ErrPowerTable, r)
			}
		}
		c.power[r] = append([]int(nil), levels...)
	}
	return c, nil
}

// Lookup finds an entry by its canonical name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// LookupIndex finds an entry by its wire index.
func (c *Catalog) LookupIndex(index int) (Entry, bool) {
	e, ok := c.byIndex[index]
	return e, ok
}

// Power returns the table value for rarity and level, or 0 when either is
// out of range.
func (c *Catalog) Power(r Rarity, level int) int {
	levels, ok := c.power[r]
	if !ok || !ValidLevel(level) {
		return 0
	}
	return levels[level-MinLevel]
}

func (c *Catalog) Len() int { return len(c.byIndex) }

// Entries returns all entries ordered by index.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.byIndex))
	for _, e := range c.byIndex {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
