package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PrefabDef is one shape kind a factory builds.
type PrefabDef struct {
	Name       string `yaml:"name"`
	ColorSlots int    `yaml:"color_slots"`
	Prewarm    int    `yaml:"prewarm"` // inactive instances pooled at startup
}

// FactoryDef defines a shape factory. The position in the file is the
// factory id written to saves, so entries must only ever be appended.
type FactoryDef struct {
	Name      string      `yaml:"name"`
	Recycle   bool        `yaml:"recycle"`
	Prefabs   []PrefabDef `yaml:"prefabs"`
	Materials []string    `yaml:"materials"`
}

// FactoryTable holds the factory definitions in save-id order.
type FactoryTable struct {
	defs   []FactoryDef
	byName map[string]int
}

// LoadFactoryTable loads factories.yaml.
func LoadFactoryTable(path string) (*FactoryTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read factory list: %w", err)
	}
	var file struct {
		Factories []FactoryDef `yaml:"factories"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse factory list: %w", err)
	}
	return NewFactoryTable(file.Factories)
}

// NewFactoryTable validates defs and indexes them by name.
func NewFactoryTable(defs []FactoryDef) (*FactoryTable, error) {
	t := &FactoryTable{
		defs:   defs,
		byName: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("factory %d: missing name", i)
		}
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("factory %q defined twice", d.Name)
		}
		if len(d.Prefabs) == 0 || len(d.Materials) == 0 {
			return nil, fmt.Errorf("factory %q: needs at least one prefab and one material", d.Name)
		}
		t.byName[d.Name] = i
	}
	return t, nil
}

// Index returns the save id of the named factory.
func (t *FactoryTable) Index(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// All returns the definitions in save-id order.
func (t *FactoryTable) All() []FactoryDef {
	return t.defs
}

// Count returns the total number of factories loaded.
func (t *FactoryTable) Count() int {
	return len(t.defs)
}
