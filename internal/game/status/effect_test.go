package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/halcyon-games/menagerie/internal/game/status"
)

func testRegistry() *status.Registry {
	reg := status.NewRegistry()
	reg.Register(&status.Definition{ID: "poison", Name: "Poison", Kind: status.KindDamage})
	reg.Register(&status.Definition{ID: "regen", Name: "Regeneration", Kind: status.KindHeal})
	reg.Register(&status.Definition{ID: "sleep", Name: "Sleep", Kind: status.KindSkipTurn})
	return reg
}

func TestAdvance_PoisonDealsDamage(t *testing.T) {
	reg := testRegistry()
	effects := []status.Effect{{StatusID: "poison", Remaining: 3, Magnitude: 4}}
	survivors, results := status.Advance(reg, effects)
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Damage)
	assert.Equal(t, 0, results[0].Healing)
	assert.False(t, results[0].Expired)
	require.Len(t, survivors, 1)
	assert.Equal(t, 2, survivors[0].Remaining)
}

func TestAdvance_RegenHeals(t *testing.T) {
	reg := testRegistry()
	effects := []status.Effect{{StatusID: "regen", Remaining: 2, Magnitude: 3}}
	_, results := status.Advance(reg, effects)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Healing)
	assert.Equal(t, 0, results[0].Damage)
}

func TestAdvance_ExpiresAtZero(t *testing.T) {
	reg := testRegistry()
	effects := []status.Effect{{StatusID: "poison", Remaining: 1, Magnitude: 2}}
	survivors, results := status.Advance(reg, effects)
	assert.Empty(t, survivors)
	require.Len(t, results, 1)
	assert.True(t, results[0].Expired)
	// The final tick still applies its damage.
	assert.Equal(t, 2, results[0].Damage)
}

func TestAdvance_UnknownStatusExpiresSilently(t *testing.T) {
	reg := testRegistry()
	effects := []status.Effect{{StatusID: "nonexistent", Remaining: 1, Magnitude: 9}}
	survivors, results := status.Advance(reg, effects)
	assert.Empty(t, survivors)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Damage)
	assert.Equal(t, 0, results[0].Healing)
}

func TestAdvance_Property_SurvivorsHavePositiveRemaining(t *testing.T) {
	reg := testRegistry()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		effects := make([]status.Effect, n)
		for i := range effects {
			effects[i] = status.Effect{
				StatusID:  rapid.SampledFrom([]string{"poison", "regen", "sleep"}).Draw(rt, "id"),
				Remaining: rapid.IntRange(1, 5).Draw(rt, "remaining"),
				Magnitude: rapid.IntRange(0, 20).Draw(rt, "magnitude"),
			}
		}
		survivors, results := status.Advance(reg, effects)
		assert.Len(rt, results, n)
		for _, s := range survivors {
			assert.GreaterOrEqual(rt, s.Remaining, 1)
		}
	})
}

func TestIsSleeping(t *testing.T) {
	reg := testRegistry()
	assert.True(t, status.IsSleeping(reg, []status.Effect{{StatusID: "sleep", Remaining: 2}}))
	assert.False(t, status.IsSleeping(reg, []status.Effect{{StatusID: "poison", Remaining: 2}}))
	assert.False(t, status.IsSleeping(reg, nil))
}

func TestHas(t *testing.T) {
	effects := []status.Effect{{StatusID: "poison", Remaining: 1}}
	assert.True(t, status.Has(effects, "poison"))
	assert.False(t, status.Has(effects, "sleep"))
}

func TestDefinition_Validate(t *testing.T) {
	valid := &status.Definition{ID: "poison", Name: "Poison", Kind: status.KindDamage}
	assert.NoError(t, valid.Validate())

	missingID := &status.Definition{Name: "Poison", Kind: status.KindDamage}
	assert.Error(t, missingID.Validate())

	badKind := &status.Definition{ID: "x", Name: "X", Kind: "explode"}
	assert.Error(t, badKind.Validate())
}
