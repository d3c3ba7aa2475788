// Package species provides monster species templates and reward/loot data.
// Templates are immutable reference data loaded from YAML; the battle engine
// and simulator construct live combatants from them.
package species

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCaptureDifficulty is used when a species id cannot be resolved.
// Capture math must degrade gracefully rather than fail on unknown ids.
const DefaultCaptureDifficulty = 0.5

// BaseStats holds a species' level-1 stat block.
type BaseStats struct {
	MaxHP        int `yaml:"max_hp"`
	MaxMP        int `yaml:"max_mp"`
	Attack       int `yaml:"attack"`
	Defense      int `yaml:"defense"`
	MagicAttack  int `yaml:"magic_attack"`
	MagicDefense int `yaml:"magic_defense"`
	Speed        int `yaml:"speed"`
	Luck         int `yaml:"luck"`
}

// Growth holds per-level stat gains applied above level 1.
type Growth struct {
	MaxHP        int `yaml:"max_hp"`
	MaxMP        int `yaml:"max_mp"`
	Attack       int `yaml:"attack"`
	Defense      int `yaml:"defense"`
	MagicAttack  int `yaml:"magic_attack"`
	MagicDefense int `yaml:"magic_defense"`
	Speed        int `yaml:"speed"`
	Luck         int `yaml:"luck"`
}

// Template defines a monster species loaded from YAML.
type Template struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Element     string    `yaml:"element"`
	BaseStats   BaseStats `yaml:"base_stats"`
	Growth      Growth    `yaml:"growth"`
	AbilityIDs  []string  `yaml:"abilities"`
	// CaptureDifficulty is in [0, 1); higher is harder to capture.
	CaptureDifficulty float64 `yaml:"capture_difficulty"`
	Capturable        bool    `yaml:"capturable"`
	XPYield           int     `yaml:"xp_yield"`
	GoldYield         int     `yaml:"gold_yield"`
	Loot              *LootTable `yaml:"loot"`
}

// StatsAtLevel returns the stat block for a member of this species at the
// given level, applying Growth once per level above 1.
//
// Precondition: level >= 1.
func (t *Template) StatsAtLevel(level int) BaseStats {
	s := t.BaseStats
	for i := 1; i < level; i++ {
		s.MaxHP += t.Growth.MaxHP
		s.MaxMP += t.Growth.MaxMP
		s.Attack += t.Growth.Attack
		s.Defense += t.Growth.Defense
		s.MagicAttack += t.Growth.MagicAttack
		s.MagicDefense += t.Growth.MagicDefense
		s.Speed += t.Growth.Speed
		s.Luck += t.Growth.Luck
	}
	return s
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: returns nil iff ID and Name are non-empty, MaxHP >= 1,
// CaptureDifficulty is in [0, 1), yields are >= 0, and any loot table is valid.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("species template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("species template %q: name must not be empty", t.ID)
	}
	if t.BaseStats.MaxHP < 1 {
		return fmt.Errorf("species template %q: base_stats.max_hp must be >= 1", t.ID)
	}
	if t.CaptureDifficulty < 0 || t.CaptureDifficulty >= 1 {
		return fmt.Errorf("species template %q: capture_difficulty must be in [0, 1), got %f", t.ID, t.CaptureDifficulty)
	}
	if t.XPYield < 0 {
		return fmt.Errorf("species template %q: xp_yield must be >= 0, got %d", t.ID, t.XPYield)
	}
	if t.GoldYield < 0 {
		return fmt.Errorf("species template %q: gold_yield must be >= 0, got %d", t.ID, t.GoldYield)
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("species template %q: %w", t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single species template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing species template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Registry holds all known species Templates keyed by ID.
// It is read-only after loading.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds tmpl to the registry, overwriting any existing entry with the same ID.
//
// Precondition: tmpl must not be nil and tmpl.ID must not be empty.
func (r *Registry) Register(tmpl *Template) {
	r.templates[tmpl.ID] = tmpl
}

// Get returns the Template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// CaptureDifficulty returns the capture difficulty for id, or
// DefaultCaptureDifficulty when the species is unknown.
func (r *Registry) CaptureDifficulty(id string) float64 {
	if t, ok := r.templates[id]; ok {
		return t.CaptureDifficulty
	}
	return DefaultCaptureDifficulty
}

// All returns a snapshot slice of all registered Templates.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Template,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
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
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		reg.Register(tmpl)
	}
	return reg, nil
}
