package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/halcyon-games/menagerie/internal/game/battle"
)

func TestCaptureChance(t *testing.T) {
	tests := []struct {
		name       string
		difficulty float64
		multiplier float64
		hpRatio    float64
		luck       int
		want       float64
	}{
		{"baseline at full hp", 0.5, 1.0, 1.0, 10, 0.275},
		{"wounded target", 0.5, 1.0, 0.25, 10, 0.48125},
		{"no luck no device bonus", 0.5, 1.0, 1.0, 0, 0.25},
		{"trivial species at zero hp", 0.0, 1.0, 0.0, 0, 0.95},
		{"impossible species", 1.0, 1.0, 0.5, 50, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := battle.CaptureChance(tt.difficulty, tt.multiplier, tt.hpRatio, tt.luck)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCaptureChanceCeiling(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		difficulty := rapid.Float64Range(0, 1).Draw(rt, "difficulty")
		multiplier := rapid.Float64Range(0.5, 3).Draw(rt, "multiplier")
		hpRatio := rapid.Float64Range(0, 1).Draw(rt, "hpRatio")
		luck := rapid.IntRange(0, 100).Draw(rt, "luck")

		chance := battle.CaptureChance(difficulty, multiplier, hpRatio, luck)
		assert.GreaterOrEqual(rt, chance, 0.0)
		assert.LessOrEqual(rt, chance, 0.95)
	})
}

func TestCaptureChanceLowerHPIsEasier(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		difficulty := rapid.Float64Range(0, 1).Draw(rt, "difficulty")
		multiplier := rapid.Float64Range(0.5, 2).Draw(rt, "multiplier")
		luck := rapid.IntRange(0, 50).Draw(rt, "luck")
		high := rapid.Float64Range(0, 1).Draw(rt, "high")
		low := rapid.Float64Range(0, high).Draw(rt, "low")

		atHigh := battle.CaptureChance(difficulty, multiplier, high, luck)
		atLow := battle.CaptureChance(difficulty, multiplier, low, luck)
		assert.GreaterOrEqual(rt, atLow, atHigh)
	})
}

// newCaptureBattle builds a battle whose single enemy is a capturable
// emberfox at full HP.
func newCaptureBattle() battle.Battle {
	fox := makeCombatant("fox", "Fox", 30, 12)
	fox.IsPlayer = true
	fox.IsMonster = false
	wild := makeCombatant("wild", "Wild Emberfox", 30, 10)
	wild.SpeciesID = "emberfox"
	wild.Capturable = true
	return battle.New([]battle.Combatant{fox}, []battle.Combatant{wild}, "meadow")
}

func TestAttemptCaptureSuccess(t *testing.T) {
	// Emberfox difficulty 0.35, cage multiplier 1.0, full HP, luck 5:
	// 0.65 * 0.5 * 1.05 = 0.34125. A roll of 0.3412 lands just under.
	eng := newTestEngine(&seqSource{values: []int{3412}})
	b := newCaptureBattle()

	nb, attempt := eng.AttemptCapture(b, "wild", "cage", 5)

	assert.True(t, attempt.Succeeded)
	assert.InDelta(t, 0.34125, attempt.Chance, 1e-9)
	assert.InDelta(t, 0.3412, attempt.Roll, 1e-9)
	assert.Empty(t, nb.EnemySquad, "captured enemy leaves the squad")
	require.Len(t, b.EnemySquad, 1)
	assert.Equal(t, "wild", b.EnemySquad[0].ID)
}

func TestAttemptCaptureFailureLeavesTargetUnharmed(t *testing.T) {
	eng := newTestEngine(&seqSource{values: []int{3413}})
	b := newCaptureBattle()

	nb, attempt := eng.AttemptCapture(b, "wild", "cage", 5)

	assert.False(t, attempt.Succeeded)
	require.Len(t, nb.EnemySquad, 1)
	assert.Equal(t, 30, nb.EnemySquad[0].Stats.CurrentHP)
}

func TestAttemptCaptureBetterDeviceRaisesChance(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newCaptureBattle()

	_, withCage := eng.AttemptCapture(b, "wild", "cage", 5)
	_, withGilded := eng.AttemptCapture(b, "wild", "gilded_cage", 5)

	assert.Greater(t, withGilded.Chance, withCage.Chance)
}

func TestAttemptCaptureUnknownDeviceDefaultsToBaseMultiplier(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newCaptureBattle()

	_, attempt := eng.AttemptCapture(b, "wild", "rusty_bucket", 5)

	assert.InDelta(t, 0.34125, attempt.Chance, 1e-9)
}

func TestAttemptCaptureInvalidTargets(t *testing.T) {
	eng := newTestEngine(zeroSource{})

	t.Run("not capturable", func(t *testing.T) {
		b := newCaptureBattle()
		b.EnemySquad[0].Capturable = false
		nb, attempt := eng.AttemptCapture(b, "wild", "cage", 5)
		assert.False(t, attempt.Succeeded)
		assert.Zero(t, attempt.Chance)
		assert.Len(t, nb.EnemySquad, 1)
	})

	t.Run("dead target", func(t *testing.T) {
		b := newCaptureBattle()
		b.EnemySquad[0].Stats.CurrentHP = 0
		_, attempt := eng.AttemptCapture(b, "wild", "cage", 5)
		assert.False(t, attempt.Succeeded)
		assert.Zero(t, attempt.Chance)
	})

	t.Run("missing target", func(t *testing.T) {
		b := newCaptureBattle()
		_, attempt := eng.AttemptCapture(b, "nobody", "cage", 5)
		assert.False(t, attempt.Succeeded)
		assert.Zero(t, attempt.Chance)
	})

	t.Run("player-side target", func(t *testing.T) {
		b := newCaptureBattle()
		_, attempt := eng.AttemptCapture(b, "fox", "cage", 5)
		assert.False(t, attempt.Succeeded)
		assert.Zero(t, attempt.Chance)
	})
}

func TestExecuteActionCapture(t *testing.T) {
	eng := newTestEngine(zeroSource{})
	b := newCaptureBattle()

	res := eng.ExecuteAction(b, battle.Action{
		Type: battle.ActionCapture, ActorID: "fox", TargetID: "wild", ItemID: "cage",
	})

	assert.Contains(t, res.Message, "gotcha")
	assert.Empty(t, res.Battle.EnemySquad)
	assert.Equal(t, battle.StateVictory, eng.CheckBattleEnd(res.Battle),
		"capturing the last enemy ends the battle")
}

func TestShakeCount(t *testing.T) {
	tests := []struct {
		name    string
		attempt battle.CaptureAttempt
		want    int
	}{
		{"success", battle.CaptureAttempt{Chance: 0.3, Roll: 0.1, Succeeded: true}, 3},
		{"near miss", battle.CaptureAttempt{Chance: 0.3, Roll: 0.35}, 2},
		{"moderate miss", battle.CaptureAttempt{Chance: 0.3, Roll: 0.55}, 1},
		{"wide miss", battle.CaptureAttempt{Chance: 0.3, Roll: 0.9}, 0},
		{"hopeless attempt", battle.CaptureAttempt{Chance: 0, Roll: 0.01}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, battle.ShakeCount(tt.attempt))
		})
	}
}

func TestCreateCapturedMonster(t *testing.T) {
	eng := newTestEngine(zeroSource{})

	c := eng.CreateCapturedMonster("emberfox", 7)
	require.NotNil(t, c)
	assert.Equal(t, "Emberfox", c.Name)
	assert.Equal(t, 7, c.Level)
	assert.Equal(t, c.Stats.MaxHP, c.Stats.CurrentHP, "captured monsters join at full HP")
	assert.False(t, c.Capturable, "squad monsters cannot be captured back")
	assert.NotEmpty(t, c.ID)

	assert.Nil(t, eng.CreateCapturedMonster("chimera", 7), "unknown species yields nil")
}
