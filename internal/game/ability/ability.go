// Package ability provides static ability definitions loaded from YAML.
// Abilities are immutable reference data; the battle engine looks them up by
// id through a Registry injected at construction.
package ability

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TargetType determines which combatants an ability can affect.
type TargetType string

const (
	TargetSingleEnemy TargetType = "single_enemy"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetSelf        TargetType = "self"
)

// Category classifies the damage or healing formula the ability uses.
type Category string

const (
	CategoryPhysical Category = "physical"
	CategoryMagical  Category = "magical"
	CategoryHealing  Category = "healing"
)

// Infliction is an optional status effect attached to an ability.
type Infliction struct {
	// StatusID references a status.Definition.
	StatusID string `yaml:"status"`
	// Chance is the application probability in (0, 1].
	Chance float64 `yaml:"chance"`
	// Duration is the number of turns the effect lasts.
	Duration int `yaml:"duration"`
	// Magnitude is the per-turn amount for damage/heal statuses.
	Magnitude int `yaml:"magnitude"`
}

// Definition is a static ability definition loaded from YAML.
type Definition struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	Power         int         `yaml:"power"`
	MPCost        int         `yaml:"mp_cost"`
	Accuracy      int         `yaml:"accuracy"` // 0-100
	TargetType    TargetType  `yaml:"target_type"`
	Category      Category    `yaml:"category"`
	Element       string      `yaml:"element"`
	Inflicts      *Infliction `yaml:"inflicts"`
	CooldownTurns int         `yaml:"cooldown_turns"` // 0 = no cooldown
}

// IsDamaging reports whether the ability deals damage (physical or magical
// with positive power).
func (d *Definition) IsDamaging() bool {
	return (d.Category == CategoryPhysical || d.Category == CategoryMagical) && d.Power > 0
}

// IsHealing reports whether the ability restores HP.
func (d *Definition) IsHealing() bool {
	return d.Category == CategoryHealing
}

// Validate checks that the definition satisfies its invariants.
//
// Postcondition: returns nil iff ID and Name are non-empty, Accuracy is in
// [0, 100], MPCost and CooldownTurns are >= 0, TargetType and Category are
// known values, and any Infliction has a status id and chance in (0, 1].
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability definition: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", d.ID)
	}
	if d.Accuracy < 0 || d.Accuracy > 100 {
		return fmt.Errorf("ability %q: accuracy must be 0-100, got %d", d.ID, d.Accuracy)
	}
	if d.MPCost < 0 {
		return fmt.Errorf("ability %q: mp_cost must be >= 0, got %d", d.ID, d.MPCost)
	}
	if d.CooldownTurns < 0 {
		return fmt.Errorf("ability %q: cooldown_turns must be >= 0, got %d", d.ID, d.CooldownTurns)
	}
	switch d.TargetType {
	case TargetSingleEnemy, TargetSingleAlly, TargetAllEnemies, TargetSelf:
	default:
		return fmt.Errorf("ability %q: unknown target_type %q", d.ID, d.TargetType)
	}
	switch d.Category {
	case CategoryPhysical, CategoryMagical, CategoryHealing:
	default:
		return fmt.Errorf("ability %q: unknown category %q", d.ID, d.Category)
	}
	if d.Inflicts != nil {
		if d.Inflicts.StatusID == "" {
			return fmt.Errorf("ability %q: inflicts.status must not be empty", d.ID)
		}
		if d.Inflicts.Chance <= 0 || d.Inflicts.Chance > 1.0 {
			return fmt.Errorf("ability %q: inflicts.chance must be in (0, 1.0], got %f", d.ID, d.Inflicts.Chance)
		}
		if d.Inflicts.Duration < 1 {
			return fmt.Errorf("ability %q: inflicts.duration must be >= 1, got %d", d.ID, d.Inflicts.Duration)
		}
	}
	return nil
}

// Registry holds all known ability Definitions keyed by ID.
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
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
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
