package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-games/menagerie/internal/game/battle"
	"github.com/halcyon-games/menagerie/internal/game/status"
)

func TestProcessStatusEffectsPoisonTick(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	b.Combatant("fox").Statuses = []status.Effect{
		{StatusID: "poison", Remaining: 2, Magnitude: 4},
	}

	nb, ticks := eng.ProcessStatusEffects(b, "fox")

	require.Len(t, ticks, 1)
	assert.Equal(t, 4, ticks[0].Damage)
	assert.False(t, ticks[0].Expired)
	assert.Contains(t, ticks[0].Message, "takes 4 damage from Poison")

	fox := nb.Combatant("fox")
	assert.Equal(t, 26, fox.Stats.CurrentHP)
	require.Len(t, fox.Statuses, 1)
	assert.Equal(t, 1, fox.Statuses[0].Remaining)

	// Input battle untouched.
	assert.Equal(t, 30, b.Combatant("fox").Stats.CurrentHP)
}

func TestProcessStatusEffectsFinalTickStillApplies(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	b.Combatant("fox").Statuses = []status.Effect{
		{StatusID: "poison", Remaining: 1, Magnitude: 4},
	}

	nb, ticks := eng.ProcessStatusEffects(b, "fox")

	require.Len(t, ticks, 1)
	assert.Equal(t, 4, ticks[0].Damage)
	assert.True(t, ticks[0].Expired)
	assert.Contains(t, ticks[0].Message, "wore off")

	fox := nb.Combatant("fox")
	assert.Equal(t, 26, fox.Stats.CurrentHP, "the expiring tick still deals damage")
	assert.Empty(t, fox.Statuses)
}

func TestProcessStatusEffectsRegenHealsAndCaps(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	fox := b.Combatant("fox")
	fox.Stats.CurrentHP = 28
	fox.Statuses = []status.Effect{
		{StatusID: "regen", Remaining: 3, Magnitude: 5},
	}

	nb, ticks := eng.ProcessStatusEffects(b, "fox")

	require.Len(t, ticks, 1)
	assert.Equal(t, 2, ticks[0].Healing, "healing reports the amount actually restored")
	assert.Equal(t, 30, nb.Combatant("fox").Stats.CurrentHP)
}

func TestProcessStatusEffectsCanKill(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	fox := b.Combatant("fox")
	fox.Stats.CurrentHP = 3
	fox.Statuses = []status.Effect{
		{StatusID: "poison", Remaining: 5, Magnitude: 10},
	}

	nb, _ := eng.ProcessStatusEffects(b, "fox")

	assert.True(t, nb.Combatant("fox").IsDead())
	assert.Zero(t, nb.Combatant("fox").Stats.CurrentHP, "HP floors at zero")
	assert.Equal(t, battle.StateDefeat, eng.CheckBattleEnd(nb),
		"a status tick alone can end the battle")
}

func TestProcessStatusEffectsClearsDefending(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	b.Combatant("fox").Defending = true

	nb, _ := eng.ProcessStatusEffects(b, "fox")

	assert.False(t, nb.Combatant("fox").Defending,
		"defend protects until the defender's next turn starts")
}

func TestProcessStatusEffectsMultipleInOrder(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	fox := b.Combatant("fox")
	fox.Stats.CurrentHP = 20
	fox.Statuses = []status.Effect{
		{StatusID: "poison", Remaining: 2, Magnitude: 4},
		{StatusID: "regen", Remaining: 2, Magnitude: 6},
	}

	nb, ticks := eng.ProcessStatusEffects(b, "fox")

	require.Len(t, ticks, 2)
	assert.Equal(t, "poison", ticks[0].StatusID)
	assert.Equal(t, "regen", ticks[1].StatusID)
	assert.Equal(t, 22, nb.Combatant("fox").Stats.CurrentHP)
}

func TestProcessStatusEffectsUnknownCombatant(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()

	nb, ticks := eng.ProcessStatusEffects(b, "ghost")

	assert.Nil(t, ticks)
	assert.Equal(t, b.Combatant("fox").Stats, nb.Combatant("fox").Stats)
}

func TestIsSleeping(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	c := makeCombatant("c1", "Fox", 30, 10)
	assert.False(t, eng.IsSleeping(c))

	c.Statuses = []status.Effect{{StatusID: "sleep", Remaining: 2}}
	assert.True(t, eng.IsSleeping(c))

	c.Statuses = []status.Effect{{StatusID: "poison", Remaining: 2, Magnitude: 3}}
	assert.False(t, eng.IsSleeping(c))
}

func TestAdvanceRound(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	b.Combatant("fox").Cooldowns = map[string]int{"guard_stance": 2}
	b.Combatant("slime").Cooldowns = map[string]int{"ember": 1}

	nb := eng.AdvanceRound(b)

	assert.Equal(t, 2, nb.Round)
	assert.Equal(t, 1, nb.Combatant("fox").Cooldowns["guard_stance"])
	assert.NotContains(t, nb.Combatant("slime").Cooldowns, "ember")
	assert.Equal(t, []string{"fox", "slime"}, nb.TurnOrder)

	// Input untouched.
	assert.Equal(t, 1, b.Round)
	assert.Equal(t, 2, b.Combatant("fox").Cooldowns["guard_stance"])
}

func TestAdvanceRoundSkipsDeadCooldowns(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	slime := b.Combatant("slime")
	slime.Stats.CurrentHP = 0
	slime.Cooldowns = map[string]int{"ember": 2}

	nb := eng.AdvanceRound(b)

	assert.Equal(t, 2, nb.Combatant("slime").Cooldowns["ember"],
		"dead combatants do not tick cooldowns")
	assert.NotContains(t, nb.TurnOrder, "slime")
}

func TestAdvanceRoundRecomputesOrderAfterSpeedChange(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newDuel()
	require.Equal(t, []string{"fox", "slime"}, b.TurnOrder)

	b.Combatant("slime").Stats.Speed = 99
	nb := eng.AdvanceRound(b)

	assert.Equal(t, []string{"slime", "fox"}, nb.TurnOrder)
}

func TestCheckBattleEnd(t *testing.T) {
	eng := newTestEngine(zeroSource{})

	t.Run("ongoing", func(t *testing.T) {
		assert.Equal(t, battle.StateOngoing, eng.CheckBattleEnd(newDuel()))
	})

	t.Run("victory when all enemies dead", func(t *testing.T) {
		b := newDuel()
		b.Combatant("slime").Stats.CurrentHP = 0
		assert.Equal(t, battle.StateVictory, eng.CheckBattleEnd(b))
	})

	t.Run("defeat when player side dead", func(t *testing.T) {
		b := newDuel()
		b.Combatant("fox").Stats.CurrentHP = 0
		assert.Equal(t, battle.StateDefeat, eng.CheckBattleEnd(b))
	})

	t.Run("victory checked before defeat", func(t *testing.T) {
		// Both sides wiped: no living enemies reads as victory first.
		b := newDuel()
		b.Combatant("fox").Stats.CurrentHP = 0
		b.Combatant("slime").Stats.CurrentHP = 0
		assert.Equal(t, battle.StateVictory, eng.CheckBattleEnd(b))
	})

	t.Run("fled is sticky", func(t *testing.T) {
		b := newDuel()
		b.State = battle.StateFled
		b.Combatant("slime").Stats.CurrentHP = 0
		assert.Equal(t, battle.StateFled, eng.CheckBattleEnd(b))
	})
}

func TestKillingBlowEndsOneOnOne(t *testing.T) {
	// A full-round walkthrough: fox attacks until the slime drops, checking
	// the end condition after each action as the orchestrator does.
	eng := newTestEngine(&seqSource{values: []int{0, 15, 99}})
	b := newDuel()
	b.Combatant("slime").Stats.CurrentHP = 20

	res := eng.ExecuteAction(b, battle.Action{Type: battle.ActionAttack, ActorID: "fox", TargetID: "slime"})
	require.Equal(t, battle.StateOngoing, eng.CheckBattleEnd(res.Battle))

	res = eng.ExecuteAction(res.Battle, battle.Action{Type: battle.ActionAttack, ActorID: "fox", TargetID: "slime"})
	assert.Contains(t, res.Message, "Slime is defeated!")
	assert.Equal(t, battle.StateVictory, eng.CheckBattleEnd(res.Battle))
}
