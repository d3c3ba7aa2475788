package battle_test

import (
	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/game/ability"
	"github.com/halcyon-games/menagerie/internal/game/battle"
	"github.com/halcyon-games/menagerie/internal/game/dice"
	"github.com/halcyon-games/menagerie/internal/game/species"
	"github.com/halcyon-games/menagerie/internal/game/status"
)

// seqSource replays a fixed sequence of draw values, cycling when exhausted.
// Each value is reduced modulo the requested bound, so tests can express
// intended raw draws directly.
type seqSource struct {
	values []int
	idx    int
}

func (s *seqSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return v % n
}

// zeroSource always draws 0: every chance roll hits, variance lands on the
// low end, crits always trigger (draw 0 < any positive threshold).
type zeroSource struct{}

func (zeroSource) Intn(n int) int { return 0 }

// stubItems is a minimal battle.ItemResolver for engine tests.
type stubItems struct {
	effects     map[string]battle.ItemEffect
	multipliers map[string]float64
}

func (s *stubItems) Resolve(itemID string, _ battle.ItemTarget) (battle.ItemEffect, bool) {
	e, ok := s.effects[itemID]
	return e, ok
}

func (s *stubItems) DeviceMultiplier(itemID string) (float64, bool) {
	m, ok := s.multipliers[itemID]
	return m, ok
}

func testAbilities() *ability.Registry {
	reg := ability.NewRegistry()
	reg.Register(&ability.Definition{
		ID: "ember", Name: "Ember", Power: 20, MPCost: 4, Accuracy: 100,
		TargetType: ability.TargetSingleEnemy, Category: ability.CategoryMagical, Element: "fire",
	})
	reg.Register(&ability.Definition{
		ID: "venom_fang", Name: "Venom Fang", Power: 15, MPCost: 3, Accuracy: 100,
		TargetType: ability.TargetSingleEnemy, Category: ability.CategoryPhysical,
		Inflicts:   &ability.Infliction{StatusID: "poison", Chance: 1.0, Duration: 3, Magnitude: 4},
	})
	reg.Register(&ability.Definition{
		ID: "gust", Name: "Gust", Power: 12, MPCost: 5, Accuracy: 100,
		TargetType: ability.TargetAllEnemies, Category: ability.CategoryMagical, Element: "wind",
	})
	reg.Register(&ability.Definition{
		ID: "mend", Name: "Mend", Power: 15, MPCost: 4, Accuracy: 100,
		TargetType: ability.TargetSingleAlly, Category: ability.CategoryHealing,
	})
	reg.Register(&ability.Definition{
		ID: "guard_stance", Name: "Guard Stance", Power: 0, MPCost: 2, Accuracy: 100,
		TargetType: ability.TargetSelf, Category: ability.CategoryHealing, CooldownTurns: 3,
	})
	return reg
}

func testStatuses() *status.Registry {
	reg := status.NewRegistry()
	reg.Register(&status.Definition{ID: "poison", Name: "Poison", Kind: status.KindDamage})
	reg.Register(&status.Definition{ID: "regen", Name: "Regeneration", Kind: status.KindHeal})
	reg.Register(&status.Definition{ID: "sleep", Name: "Sleep", Kind: status.KindSkipTurn})
	return reg
}

func testSpecies() *species.Registry {
	reg := species.NewRegistry()
	reg.Register(&species.Template{
		ID: "emberfox", Name: "Emberfox",
		BaseStats:         species.BaseStats{MaxHP: 28, MaxMP: 12, Attack: 11, Defense: 8, MagicAttack: 13, MagicDefense: 9, Speed: 14, Luck: 7},
		Growth:            species.Growth{MaxHP: 4, Attack: 2, Speed: 1},
		AbilityIDs:        []string{"ember"},
		CaptureDifficulty: 0.35,
		Capturable:        true,
		XPYield:           18,
		GoldYield:         12,
		Loot: &species.LootTable{Items: []species.ItemDrop{
			{ItemID: "fire_shard", Chance: 1.0, MinQty: 1, MaxQty: 1},
		}},
	})
	reg.Register(&species.Template{
		ID: "mossling", Name: "Mossling",
		BaseStats:  species.BaseStats{MaxHP: 35, MaxMP: 8, Attack: 9, Defense: 11, MagicAttack: 7, MagicDefense: 10, Speed: 8, Luck: 5},
		Capturable: true,
		XPYield:    14,
		GoldYield:  9,
	})
	return reg
}

func newTestEngine(src dice.Source) *battle.Engine {
	return battle.NewEngine(testAbilities(), testStatuses(), testSpecies(), &stubItems{
		effects: map[string]battle.ItemEffect{
			"tonic": {HPDelta: 20, Message: "The tonic restores 20 HP."},
		},
		multipliers: map[string]float64{"cage": 1.0, "gilded_cage": 1.5},
	}, src, zap.NewNop())
}

// makeCombatant builds a living monster combatant with sensible defaults.
func makeCombatant(id, name string, hp, speed int) battle.Combatant {
	return battle.Combatant{
		ID:        id,
		Name:      name,
		IsMonster: true,
		Level:     5,
		Stats: battle.Stats{
			MaxHP: hp, CurrentHP: hp,
			MaxMP: 20, CurrentMP: 20,
			Attack: 12, Defense: 8,
			MagicAttack: 10, MagicDefense: 8,
			Speed: speed, Luck: 5,
		},
		AbilityIDs: []string{"ember", "venom_fang", "mend"},
		Cooldowns:  map[string]int{},
	}
}
