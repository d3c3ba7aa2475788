package battle

import (
	"github.com/halcyon-games/menagerie/internal/game/species"
)

// Rewards is the payout for winning a battle.
type Rewards struct {
	Experience int
	Gold       int
}

// CalculateBattleRewards sums the species yields of every defeated enemy.
// Enemies that were captured (removed from the squad) or are still alive
// contribute nothing, as do enemies of unknown species.
func (e *Engine) CalculateBattleRewards(b Battle) Rewards {
	var r Rewards
	for i := range b.EnemySquad {
		enemy := &b.EnemySquad[i]
		if !enemy.IsDead() {
			continue
		}
		tmpl, ok := e.species.Get(enemy.SpeciesID)
		if !ok {
			continue
		}
		r.Experience += tmpl.XPYield
		r.Gold += tmpl.GoldYield
	}
	return r
}

// GenerateBattleLoot rolls the loot table of every encountered species id and
// returns the combined drops. Loot is independent of reward computation;
// unknown species and species without loot tables contribute nothing.
func (e *Engine) GenerateBattleLoot(speciesIDs []string) []species.LootItem {
	var items []species.LootItem
	for _, id := range speciesIDs {
		tmpl, ok := e.species.Get(id)
		if !ok || tmpl.Loot == nil {
			continue
		}
		items = append(items, species.GenerateLoot(*tmpl.Loot, e.src)...)
	}
	return items
}
