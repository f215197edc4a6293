package roster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

func names(units []unit.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = fmt.Sprintf("%s/%d", u.Name, u.Level)
	}
	return out
}

func TestAdd_NormalizesAndDerivesPower(t *testing.T) {
	cat := catalog.Default()
	r := New(cat)

	require.True(t, r.Add(unit.Unit{ID: "u1", Name: "Archers 3", Level: 5}))
	got, ok := r.Find("u1")
	require.True(t, ok)
	assert.Equal(t, "Archers", got.Name)
	assert.Equal(t, catalog.Common, got.Rarity)
	assert.Equal(t, cat.Power(catalog.Common, 5), got.Power)

	assert.True(t, r.Add(unit.Unit{Name: "Knights", Level: 2}), "missing id gets a fresh one")
	assert.Equal(t, 2, r.Len())
}

func TestAdd_RejectsInvalidLevel(t *testing.T) {
	r := New(catalog.Default())
	assert.False(t, r.Add(unit.Unit{ID: "a", Name: "Archers", Level: 0}))
	assert.False(t, r.Add(unit.Unit{ID: "b", Name: "Archers", Level: 11}))
	assert.Equal(t, 0, r.Len())
}

func TestAdd_PerNameLevelCap(t *testing.T) {
	r := New(catalog.Default())
	for i := 0; i < MaxPerNameLevel+5; i++ {
		r.Add(unit.Unit{Name: "Archers", Level: 5})
	}
	assert.Equal(t, MaxPerNameLevel, r.Count(unit.Key{Name: "Archers", Level: 5}))

	// display suffixes collapse onto the same group
	assert.False(t, r.Add(unit.Unit{Name: "Archers 2", Level: 5}))
	assert.True(t, r.Add(unit.Unit{Name: "Archers", Level: 6}))
}

func TestAdd_TotalCap(t *testing.T) {
	cat := catalog.Default()
	r := New(cat)
	for _, e := range cat.Entries() {
		for level := catalog.MinLevel; level <= catalog.MaxLevel; level++ {
			for i := 0; i < 5; i++ {
				r.Add(unit.Unit{Name: e.Name, Level: level})
			}
		}
	}
	assert.Equal(t, MaxUnits, r.Len())
	assert.False(t, r.Add(unit.Unit{Name: "Titan", Level: 1}))
}

func TestRemoveAndUpdate(t *testing.T) {
	cat := catalog.Default()
	r := New(cat)
	r.Add(unit.Unit{ID: "a", Name: "Archers", Level: 5})

	assert.False(t, r.Remove("missing"))
	assert.False(t, r.Update(unit.Unit{ID: "missing", Name: "Titan", Level: 1}))

	require.True(t, r.Update(unit.Unit{ID: "a", Name: "Knights (2)", Level: 7}))
	got, _ := r.Find("a")
	assert.Equal(t, "Knights", got.Name)
	assert.Equal(t, cat.Power(catalog.Rare, 7), got.Power)

	assert.False(t, r.Update(unit.Unit{ID: "a", Name: "Knights", Level: 12}))

	require.True(t, r.Remove("a"))
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.View())
}

func TestUpdate_RespectsGroupCap(t *testing.T) {
	r := New(catalog.Default())
	for i := 0; i < MaxPerNameLevel; i++ {
		r.Add(unit.Unit{Name: "Archers", Level: 5})
	}
	r.Add(unit.Unit{ID: "x", Name: "Archers", Level: 4})

	assert.False(t, r.Update(unit.Unit{ID: "x", Name: "Archers", Level: 5}))
	got, _ := r.Find("x")
	assert.Equal(t, 4, got.Level)
}

func TestAdd_RefusesDuplicateID(t *testing.T) {
	r := New(catalog.Default())
	require.True(t, r.Add(unit.Unit{ID: "u1", Name: "Archers", Level: 5}))
	assert.False(t, r.Add(unit.Unit{ID: "u1", Name: "Knights", Level: 2}))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Find("u1")
	require.True(t, ok)
	assert.Equal(t, "Archers", got.Name, "first copy kept")

	require.True(t, r.Remove("u1"))
	_, ok = r.Find("u1")
	assert.False(t, ok)
}

func TestSetAll_IsAuthoritative(t *testing.T) {
	r := New(catalog.Default())
	units := make([]unit.Unit, 0, MaxPerNameLevel+1)
	for i := 0; i < MaxPerNameLevel+1; i++ {
		units = append(units, unit.Unit{Name: "Archers #1", Level: 5})
	}
	units = append(units, unit.Unit{Name: "Archers", Level: 0})

	r.SetAll(units)
	assert.Equal(t, MaxPerNameLevel+1, r.Len(), "bulk replace skips capacity filtering")
	for _, u := range r.Units() {
		assert.Equal(t, "Archers", u.Name)
		assert.NotEmpty(t, u.ID)
	}
}

func TestSetAll_DropsRepeatedIDs(t *testing.T) {
	r := New(catalog.Default())
	r.SetAll([]unit.Unit{
		{ID: "a", Name: "Archers", Level: 5},
		{ID: "a", Name: "Knights", Level: 2},
		{ID: "b", Name: "Knights", Level: 2},
	})
	assert.Equal(t, 2, r.Len())
	got, ok := r.Find("a")
	require.True(t, ok)
	assert.Equal(t, "Archers", got.Name)
}

func TestView_FilterAndSort(t *testing.T) {
	r := New(catalog.Default(), WithUnits([]unit.Unit{
		{ID: "1", Name: "Archers", Level: 3},
		{ID: "2", Name: "Titan", Level: 3},
		{ID: "3", Name: "Knights", Level: 8},
		{ID: "4", Name: "Horse Archers", Level: 3},
		{ID: "5", Name: "Archers", Level: 8},
	}))

	// default keys: level desc, rarity desc, name asc
	assert.Equal(t, []string{"Knights/8", "Archers/8", "Titan/3", "Horse Archers/3", "Archers/3"}, names(r.View()))

	r.SetSearchTerm("ARCH")
	assert.Equal(t, []string{"Archers/8", "Horse Archers/3", "Archers/3"}, names(r.View()))

	r.SetSearchTerm("legend")
	assert.Equal(t, []string{"Titan/3"}, names(r.View()), "term also matches rarity")

	r.SetSearchTerm("")
	r.SetSortKeys(SortName, SortNone, SortNone)
	assert.Equal(t, []string{"Archers/3", "Archers/8", "Horse Archers/3", "Knights/8", "Titan/3"}, names(r.View()))

	r.SetSortKeys(SortNone, SortNone, SortNone)
	assert.Equal(t, names(r.Units()), names(r.View()), "no keys keeps input order")

	r.Add(unit.Unit{ID: "6", Name: "Phoenix", Level: 1})
	assert.Len(t, r.View(), 6, "view follows mutations")
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortLevel, ParseSortKey(" Level "))
	assert.Equal(t, SortRarity, ParseSortKey("rarity"))
	assert.Equal(t, SortName, ParseSortKey("NAME"))
	assert.Equal(t, SortNone, ParseSortKey("power"))
}
