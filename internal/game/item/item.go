// Package item provides item definitions and the item-effect resolver the
// battle engine delegates to. Effects are computed by per-item Lua hooks when
// present, with a numeric fallback from the definition.
package item

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies how an item is used.
type Kind string

const (
	// KindHealing restores HP and/or MP to a combatant.
	KindHealing Kind = "healing"
	// KindCapture is a capture device usable against capturable enemies.
	KindCapture Kind = "capture"
	// KindBattle is any other in-battle consumable (buffs, cures).
	KindBattle Kind = "battle"
)

// Definition is a static item definition loaded from YAML.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
	// Power is the fallback numeric effect: HP restored for healing items.
	Power int `yaml:"power"`
	// DeviceMultiplier scales capture probability for capture devices.
	DeviceMultiplier float64 `yaml:"device_multiplier"`
	// Script names the Lua hook for this item, defined in the items script
	// collection. Empty means the numeric fallback applies.
	Script string `yaml:"script"`
}

// Validate checks that the definition satisfies its invariants.
//
// Postcondition: returns nil iff ID and Name are non-empty, Kind is known,
// Power >= 0, and capture devices have DeviceMultiplier > 0.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("item definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", d.ID)
	}
	switch d.Kind {
	case KindHealing, KindCapture, KindBattle:
	default:
		return fmt.Errorf("item %q: unknown kind %q", d.ID, d.Kind)
	}
	if d.Power < 0 {
		return fmt.Errorf("item %q: power must be >= 0, got %d", d.ID, d.Power)
	}
	if d.Kind == KindCapture && d.DeviceMultiplier <= 0 {
		return fmt.Errorf("item %q: capture devices need device_multiplier > 0, got %f", d.ID, d.DeviceMultiplier)
	}
	return nil
}

// Registry holds all known item Definitions keyed by ID.
// It is read-only after loading.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Definitions.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
