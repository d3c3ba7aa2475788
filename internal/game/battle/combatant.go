// Package battle implements the turn-based battle engine for Menagerie.
package battle

import (
	"github.com/google/uuid"

	"github.com/halcyon-games/menagerie/internal/game/species"
	"github.com/halcyon-games/menagerie/internal/game/status"
)

// Stats is a combatant's full stat block.
//
// Invariant: 0 <= CurrentHP <= MaxHP; 0 <= CurrentMP <= MaxMP.
type Stats struct {
	MaxHP        int
	CurrentHP    int
	MaxMP        int
	CurrentMP    int
	Attack       int
	Defense      int
	MagicAttack  int
	MagicDefense int
	Speed        int
	Luck         int
}

// Combatant represents one participant in a battle — the player character, a
// squad monster, or an enemy.
type Combatant struct {
	ID        string
	Name      string
	// IsPlayer is true for the human-controlled player character.
	IsPlayer bool
	// IsMonster is true for monster combatants (squad or enemy).
	IsMonster bool
	SpeciesID string
	Level     int
	Stats     Stats
	// AbilityIDs is the ordered list of abilities this combatant can select.
	AbilityIDs []string
	// Statuses holds the active status effects on this combatant.
	Statuses []status.Effect
	// Cooldowns maps ability id to turns remaining before reuse.
	// Invariant: values are always >= 1; entries are removed at zero.
	Cooldowns map[string]int
	// Capturable marks an enemy monster as a legal capture target.
	Capturable bool
	// Defending halves incoming damage until the combatant's next turn starts.
	Defending bool
}

// IsDead reports whether this combatant is out of the battle.
//
// Postcondition: returns true iff CurrentHP == 0.
func (c *Combatant) IsDead() bool {
	return c.Stats.CurrentHP <= 0
}

// HPRatio returns CurrentHP / MaxHP in [0, 1].
//
// Precondition: MaxHP >= 1.
func (c *Combatant) HPRatio() float64 {
	return float64(c.Stats.CurrentHP) / float64(c.Stats.MaxHP)
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.Stats.CurrentHP -= amount
	if c.Stats.CurrentHP < 0 {
		c.Stats.CurrentHP = 0
	}
}

// Heal restores CurrentHP by amount, capped at MaxHP, and returns the amount
// actually restored.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHP <= MaxHP.
func (c *Combatant) Heal(amount int) int {
	before := c.Stats.CurrentHP
	c.Stats.CurrentHP += amount
	if c.Stats.CurrentHP > c.Stats.MaxHP {
		c.Stats.CurrentHP = c.Stats.MaxHP
	}
	return c.Stats.CurrentHP - before
}

// SpendMP deducts cost from CurrentMP, reporting false (and leaving MP
// untouched) when insufficient.
//
// Precondition: cost >= 0.
// Postcondition: CurrentMP >= 0.
func (c *Combatant) SpendMP(cost int) bool {
	if c.Stats.CurrentMP < cost {
		return false
	}
	c.Stats.CurrentMP -= cost
	return true
}

// RestoreMP restores CurrentMP by amount, capped at MaxMP, and returns the
// amount actually restored.
//
// Precondition: amount >= 0.
func (c *Combatant) RestoreMP(amount int) int {
	before := c.Stats.CurrentMP
	c.Stats.CurrentMP += amount
	if c.Stats.CurrentMP > c.Stats.MaxMP {
		c.Stats.CurrentMP = c.Stats.MaxMP
	}
	return c.Stats.CurrentMP - before
}

// Clone returns a deep copy of the combatant. Engine operations never mutate
// a caller's Combatant; they clone and return new values.
func (c Combatant) Clone() Combatant {
	cp := c
	cp.AbilityIDs = append([]string(nil), c.AbilityIDs...)
	cp.Statuses = append([]status.Effect(nil), c.Statuses...)
	cp.Cooldowns = make(map[string]int, len(c.Cooldowns))
	for k, v := range c.Cooldowns {
		cp.Cooldowns[k] = v
	}
	return cp
}

// NewCombatantFromSpecies constructs a fresh combatant of the given species at
// the given level, with full HP/MP and no statuses or cooldowns.
//
// Precondition: tmpl must not be nil; level >= 1.
func NewCombatantFromSpecies(tmpl *species.Template, level int, isPlayerSide bool) Combatant {
	s := tmpl.StatsAtLevel(level)
	return Combatant{
		ID:        uuid.New().String(),
		Name:      tmpl.Name,
		IsMonster: true,
		SpeciesID: tmpl.ID,
		Level:     level,
		Stats: Stats{
			MaxHP:        s.MaxHP,
			CurrentHP:    s.MaxHP,
			MaxMP:        s.MaxMP,
			CurrentMP:    s.MaxMP,
			Attack:       s.Attack,
			Defense:      s.Defense,
			MagicAttack:  s.MagicAttack,
			MagicDefense: s.MagicDefense,
			Speed:        s.Speed,
			Luck:         s.Luck,
		},
		AbilityIDs: append([]string(nil), tmpl.AbilityIDs...),
		Cooldowns:  make(map[string]int),
		Capturable: tmpl.Capturable && !isPlayerSide,
	}
}
