// Package unit defines the roster/grid entity and the rules that keep it
// canonical: name normalization and power derivation from the catalog.
package unit

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
)

type Unit struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Level  int            `json:"level"`
	Rarity catalog.Rarity `json:"rarity"`
	Power  int            `json:"power"`
}

// Matches "Archers 2", "Archers #2" and "Archers (2)".
var suffix = regexp.MustCompile(`(?:\s*\(\d+\)|\s*#\d+|\s+\d+)$`)

// NormalizeName strips surrounding whitespace and a trailing numeric
// disambiguator so display copies collapse to one canonical name.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if stripped := strings.TrimSpace(suffix.ReplaceAllString(name, "")); stripped != "" {
		return stripped
	}
	return name
}

func NewID() string { return uuid.NewString() }

// New builds a fresh unit of a catalog entry at level.
func New(cat *catalog.Catalog, e catalog.Entry, level int) Unit {
	return Unit{
		ID:     NewID(),
		Name:   e.Name,
		Level:  level,
		Rarity: e.Rarity,
		Power:  cat.Power(e.Rarity, level),
	}
}

// Normalize canonicalizes the name, fills a missing rarity from the catalog
// and derives power when it is missing or zero.
func Normalize(cat *catalog.Catalog, u Unit) Unit {
	u.Name = NormalizeName(u.Name)
	if e, ok := cat.Lookup(u.Name); ok && !u.Rarity.Valid() {
		u.Rarity = e.Rarity
	}
	if u.Power <= 0 {
		u.Power = cat.Power(u.Rarity, u.Level)
	}
	return u
}

// Valid reports whether the unit satisfies the level invariant.
func (u Unit) Valid() bool { return catalog.ValidLevel(u.Level) }

// Key groups units by canonical name and level.
type Key struct {
	Name  string
	Level int
}

func (u Unit) Key() Key { return Key{Name: u.Name, Level: u.Level} }
