package battle

import "github.com/halcyon-games/menagerie/internal/game/ability"

// IsAbilityOnCooldown reports whether the combatant must wait before using
// the ability again.
func IsAbilityOnCooldown(c Combatant, abilityID string) bool {
	return c.Cooldowns[abilityID] > 0
}

// AbilityCooldown returns the turns remaining before the ability is usable,
// or 0 when it is not on cooldown.
func AbilityCooldown(c Combatant, abilityID string) int {
	return c.Cooldowns[abilityID]
}

// StartCooldown returns a copy of c with the ability's cooldown started.
// Abilities with CooldownTurns == 0 never enter the cooldown set.
//
// Precondition: def must not be nil.
func StartCooldown(c Combatant, def *ability.Definition) Combatant {
	if def.CooldownTurns <= 0 {
		return c
	}
	cp := c.Clone()
	cp.Cooldowns[def.ID] = def.CooldownTurns
	return cp
}

// TickCooldowns returns a copy of c with every cooldown entry decremented by
// one and entries reaching zero removed. Called once per combatant per round,
// symmetric with turn-order recomputation.
//
// Postcondition: no cooldown entry is ever negative or zero.
func TickCooldowns(c Combatant) Combatant {
	cp := c.Clone()
	for id, turns := range cp.Cooldowns {
		turns--
		if turns <= 0 {
			delete(cp.Cooldowns, id)
		} else {
			cp.Cooldowns[id] = turns
		}
	}
	return cp
}

// UsableAbilities returns the abilities the combatant can currently select:
// known to reg, not on cooldown, and affordable with current MP. Order follows
// the combatant's ability list.
func UsableAbilities(reg *ability.Registry, c Combatant) []*ability.Definition {
	var usable []*ability.Definition
	for _, id := range c.AbilityIDs {
		def, ok := reg.Get(id)
		if !ok {
			continue
		}
		if IsAbilityOnCooldown(c, id) {
			continue
		}
		if c.Stats.CurrentMP < def.MPCost {
			continue
		}
		usable = append(usable, def)
	}
	return usable
}
