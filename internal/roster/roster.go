// Package roster is the capacity-bounded collection of units that are not
// placed on the formation grid, together with its filtered and sorted view.
package roster

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

const (
	MaxUnits        = 1000
	MaxPerNameLevel = 49
)

type SortKey string

const (
	SortNone   SortKey = ""
	SortLevel  SortKey = "level"
	SortRarity SortKey = "rarity"
	SortName   SortKey = "name"
)

// ParseSortKey accepts the wire names of the sort keys; anything else is
// SortNone.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortLevel, SortRarity, SortName:
		return k
	default:
		return SortNone
	}
}

// Option configures roster construction.
type Option func(*Roster)

// WithUnits seeds the roster the same way SetAll does.
func WithUnits(units []unit.Unit) Option {
	return func(r *Roster) {
		r.setAll(units)
	}
}

// WithSortKeys sets the initial view ordering.
func WithSortKeys(k1, k2, k3 SortKey) Option {
	return func(r *Roster) {
		r.keys = [3]SortKey{k1, k2, k3}
	}
}

type Roster struct {
	cat   *catalog.Catalog
	units []unit.Unit
	term  string
	keys  [3]SortKey
	view  []unit.Unit
}

func New(cat *catalog.Catalog, opts ...Option) *Roster {
	r := &Roster{
		cat:   cat,
		units: make([]unit.Unit, 0),
		keys:  [3]SortKey{SortLevel, SortRarity, SortName},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.refresh()
	return r
}

// Add inserts u when both capacity bounds still hold afterwards and its id
// is not already held. A rejected unit is dropped without error; the result
// only reports whether it landed.
func (r *Roster) Add(u unit.Unit) bool {
	u = unit.Normalize(r.cat, u)
	if u.ID == "" {
		u.ID = unit.NewID()
	}
	if r.indexOf(u.ID) >= 0 || !r.fits(u, "") {
		return false
	}
	r.units = append(r.units, u)
	r.refresh()
	return true
}

// Remove deletes the unit with id, if present.
func (r *Roster) Remove(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.units = slices.Delete(r.units, i, i+1)
	r.refresh()
	return true
}

// Update replaces the unit sharing u's id. Unknown ids and replacements that
// would break a capacity bound are ignored.
func (r *Roster) Update(u unit.Unit) bool {
	i := r.indexOf(u.ID)
	if i < 0 {
		return false
	}
	u = unit.Normalize(r.cat, u)
	if !r.fits(u, u.ID) {
		return false
	}
	r.units[i] = u
	r.refresh()
	return true
}

// SetAll replaces the whole collection. No capacity filtering is applied;
// units with an out-of-range level are dropped.
func (r *Roster) SetAll(units []unit.Unit) {
	r.setAll(units)
	r.refresh()
}

func (r *Roster) setAll(units []unit.Unit) {
	r.units = make([]unit.Unit, 0, len(units))
	for _, u := range units {
		u = unit.Normalize(r.cat, u)
		if !u.Valid() {
			continue
		}
		if u.ID == "" {
			u.ID = unit.NewID()
		}
		if r.indexOf(u.ID) >= 0 {
			continue
		}
		r.units = append(r.units, u)
	}
}

func (r *Roster) SetSearchTerm(term string) {
	r.term = term
	r.refresh()
}

func (r *Roster) SetSortKeys(k1, k2, k3 SortKey) {
	r.keys = [3]SortKey{k1, k2, k3}
	r.refresh()
}

func (r *Roster) SearchTerm() string   { return r.term }
func (r *Roster) SortKeys() [3]SortKey { return r.keys }
func (r *Roster) Len() int             { return len(r.units) }

// Units returns a copy of the collection in insertion order.
func (r *Roster) Units() []unit.Unit { return slices.Clone(r.units) }

// View returns a copy of the filtered, sorted view.
func (r *Roster) View() []unit.Unit { return slices.Clone(r.view) }

func (r *Roster) Find(id string) (unit.Unit, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return unit.Unit{}, false
	}
	return r.units[i], true
}

// Count returns how many units share the name and level of key.
func (r *Roster) Count(key unit.Key) int {
	n := 0
	for _, u := range r.units {
		if u.Key() == key {
			n++
		}
	}
	return n
}

// fits checks the level invariant and both capacity bounds for u, ignoring
// the unit with id skip (the one being replaced).
func (r *Roster) fits(u unit.Unit, skip string) bool {
	if !u.Valid() {
		return false
	}
	total, same := 0, 0
	for _, have := range r.units {
		if skip != "" && have.ID == skip {
			continue
		}
		total++
		if have.Key() == u.Key() {
			same++
		}
	}
	return total+1 <= MaxUnits && same+1 <= MaxPerNameLevel
}

func (r *Roster) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(r.units, func(u unit.Unit) bool { return u.ID == id })
}

func (r *Roster) refresh() {
	r.view = Filter(r.units, r.term)
	SortUnits(r.view, r.keys[0], r.keys[1], r.keys[2])
}

// Filter keeps units whose name or rarity contains term, ignoring case.
// An empty term keeps everything. The result is a new slice.
func Filter(units []unit.Unit, term string) []unit.Unit {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(units)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]unit.Unit, 0, len(units))
	for _, u := range units {
		if strings.Contains(fold.String(u.Name), needle) || strings.Contains(fold.String(string(u.Rarity)), needle) {
			out = append(out, u)
		}
	}
	return out
}

// SortUnits orders units in place by up to three keys; ties that survive
// every key keep their input order.
func SortUnits(units []unit.Unit, keys ...SortKey) {
	slices.SortStableFunc(units, func(a, b unit.Unit) int {
		for _, k := range keys {
			if c := compare(k, a, b); c != 0 {
				return c
			}
		}
		return 0
	})
}

func compare(k SortKey, a, b unit.Unit) int {
	switch k {
	case SortLevel:
		return b.Level - a.Level
	case SortRarity:
		return b.Rarity.Rank() - a.Rarity.Rank()
	case SortName:
		return strings.Compare(a.Name, b.Name)
	default:
		return 0
	}
}
