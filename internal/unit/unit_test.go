package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/catalog"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Archers", want: "Archers"},
		{in: "  Archers  ", want: "Archers"},
		{in: "Archers 2", want: "Archers"},
		{in: "Archers #12", want: "Archers"},
		{in: "Archers (3)", want: "Archers"},
		{in: "Horse Archers 4", want: "Horse Archers"},
		{in: "42", want: "42"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeName(tc.in))
		})
	}
}

func TestNormalize_DerivesPowerAndRarity(t *testing.T) {
	cat := catalog.Default()

	u := Normalize(cat, Unit{ID: "a", Name: "Archers 2", Level: 5})
	assert.Equal(t, "Archers", u.Name)
	assert.Equal(t, catalog.Common, u.Rarity)
	assert.Equal(t, cat.Power(catalog.Common, 5), u.Power)

	kept := Normalize(cat, Unit{ID: "b", Name: "Archers", Level: 5, Rarity: catalog.Common, Power: 100})
	assert.Equal(t, 100, kept.Power, "explicit power is kept")

	unknown := Normalize(cat, Unit{ID: "c", Name: "Ghost", Level: 3, Rarity: catalog.Epic})
	assert.Equal(t, cat.Power(catalog.Epic, 3), unknown.Power)
}

func TestNew(t *testing.T) {
	cat := catalog.Default()
	e, _ := cat.LookupIndex(2)

	a := New(cat, e, 5)
	b := New(cat, e, 5)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, Key{Name: "Archers", Level: 5}, a.Key())
	assert.True(t, a.Valid())
	assert.False(t, Unit{Level: 0}.Valid())
}
