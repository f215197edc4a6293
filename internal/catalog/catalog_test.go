package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatPower() PowerTable {
	p := PowerTable{}
	for _, r := range Rarities {
		p[r] = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	}
	return p
}

func TestDefaultCatalog_Lookups(t *testing.T) {
	c := Default()

	e, ok := c.Lookup("Archers")
	require.True(t, ok)
	assert.Equal(t, 2, e.Index)
	assert.Equal(t, Common, e.Rarity)

	byIdx, ok := c.LookupIndex(2)
	require.True(t, ok)
	assert.Equal(t, e, byIdx)

	_, ok = c.Lookup("archers")
	assert.False(t, ok, "lookup is exact on canonical names")
	_, ok = c.LookupIndex(9999)
	assert.False(t, ok)

	entries := c.Entries()
	require.Len(t, entries, c.Len())
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Index, entries[i].Index)
	}
}

func TestPower(t *testing.T) {
	c := Default()
	cases := []struct {
		name   string
		rarity Rarity
		level  int
		want   int
	}{
		{name: "common level 1", rarity: Common, level: 1, want: 100},
		{name: "legendary level 10", rarity: Legendary, level: 10, want: 2730},
		{name: "level 0", rarity: Common, level: 0, want: 0},
		{name: "level 11", rarity: Epic, level: 11, want: 0},
		{name: "unknown rarity", rarity: Rarity("Mythic"), level: 3, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Power(tc.rarity, tc.level))
		})
	}
}

func TestRarityRank(t *testing.T) {
	assert.Greater(t, Legendary.Rank(), Epic.Rank())
	assert.Greater(t, Epic.Rank(), Rare.Rank())
	assert.Greater(t, Rare.Rank(), Common.Rank())
	assert.Equal(t, 0, Rarity("").Rank())

	r, ok := ParseRarity(" legendary ")
	require.True(t, ok)
	assert.Equal(t, Legendary, r)
	_, ok = ParseRarity("mythic")
	assert.False(t, ok)
}

func TestNew_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
		power   PowerTable
		wantErr error
	}{
		{
			name:    "duplicate name",
			entries: []Entry{{Name: "A", Index: 0, Rarity: Common}, {Name: "A", Index: 1, Rarity: Rare}},
			power:   flatPower(),
			wantErr: ErrDuplicateName,
		},
		{
			name:    "duplicate index",
			entries: []Entry{{Name: "A", Index: 0, Rarity: Common}, {Name: "B", Index: 0, Rarity: Rare}},
			power:   flatPower(),
			wantErr: ErrDuplicateIndex,
		},
		{
			name:    "unknown rarity",
			entries: []Entry{{Name: "A", Index: 0, Rarity: "Mythic"}},
			power:   flatPower(),
			wantErr: ErrUnknownRarity,
		},
		{
			name:    "short power row",
			entries: []Entry{{Name: "A", Index: 0, Rarity: Common}},
			power:   PowerTable{Common: {1, 2}},
			wantErr: ErrPowerTable,
		},
		{
			name:    "negative index",
			entries: []Entry{{Name: "A", Index: -1, Rarity: Common}},
			power:   flatPower(),
			wantErr: ErrInvalidEntry,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entries, tc.power)
			if err == nil || !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`units:
  - {index: 7, name: Slingers, rarity: common}
  - {index: 3, name: Golem, rarity: LEGENDARY}
power:
  common:    [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]
  rare:      [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]
  epic:      [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]
  legendary: [10, 20, 30, 40, 50, 60, 70, 80, 90, 100]
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	e, ok := c.LookupIndex(3)
	require.True(t, ok)
	assert.Equal(t, "Golem", e.Name)
	assert.Equal(t, Legendary, e.Rarity)
	assert.Equal(t, 40, c.Power(Legendary, 4))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
