package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var defaultCatalog = mustParse(defaultYAML)

// file is the on-disk shape of a catalog.
type file struct {
	Units []Entry          `yaml:"units"`
	Power map[string][]int `yaml:"power"`
}

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	power := make(PowerTable, len(f.Power))
	for name, levels := range f.Power {
		r, ok := ParseRarity(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in power table", ErrUnknownRarity, name)
		}
		power[r] = levels
	}
	for i := range f.Units {
		if r, ok := ParseRarity(string(f.Units[i].Rarity)); ok {
			f.Units[i].Rarity = r
		}
	}
	return New(f.Units, power)
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}
