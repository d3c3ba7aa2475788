// Package status provides status-effect definitions and the per-turn
// bookkeeping applied to combatants at the start of their turn.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies what a status effect does to its bearer each turn.
type Kind string

const (
	// KindDamage deals Magnitude damage at the start of the bearer's turn.
	KindDamage Kind = "damage"
	// KindHeal restores Magnitude HP at the start of the bearer's turn.
	KindHeal Kind = "heal"
	// KindSkipTurn makes the bearer lose their turn while active.
	KindSkipTurn Kind = "skip_turn"
)

// Definition is the static definition of a status effect, loaded from YAML.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
}

// Validate checks that the definition satisfies its invariants.
//
// Postcondition: returns nil iff ID and Name are non-empty and Kind is one of
// the known kinds.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("status definition %q: name must not be empty", d.ID)
	}
	switch d.Kind {
	case KindDamage, KindHeal, KindSkipTurn:
		return nil
	default:
		return fmt.Errorf("status definition %q: unknown kind %q", d.ID, d.Kind)
	}
}

// Registry holds all known status Definitions keyed by ID.
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
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
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
