package battle

import "github.com/halcyon-games/menagerie/internal/game/species"

// SpawnWave builds an enemy squad for the given wave: one combatant per
// species id, leveled with the species' growth via LevelForWave. Unknown
// species ids are skipped.
func SpawnWave(reg *species.Registry, speciesIDs []string, baseLevel, wave int) []Combatant {
	var squad []Combatant
	level := species.LevelForWave(baseLevel, wave)
	for _, id := range speciesIDs {
		tmpl, ok := reg.Get(id)
		if !ok {
			continue
		}
		squad = append(squad, NewCombatantFromSpecies(tmpl, level, false))
	}
	return squad
}
