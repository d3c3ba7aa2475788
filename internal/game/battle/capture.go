package battle

import (
	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/game/dice"
)

// captureCeiling is the hard cap on capture probability; a capture is never
// certain.
const captureCeiling = 0.95

// CaptureAttempt is the result of one capture computation.
type CaptureAttempt struct {
	// Chance is the final probability the draw was made against.
	Chance float64
	// Roll is the random draw in [0, 1).
	Roll float64
	// Succeeded is true when Roll < Chance.
	Succeeded bool
}

// CaptureChance computes the capture probability without drawing:
//
//	baseChance   = (1 - baseDifficulty) * deviceMultiplier
//	hpModifier   = (1 - hpRatio) * 0.5 + 0.5   (0.5 at full HP, 1.0 at 0 HP)
//	luckModifier = 1 + luck * 0.01
//	chance       = min(baseChance * hpModifier * luckModifier, 0.95)
//
// Lower HP is strictly easier; the ceiling keeps captures uncertain.
func CaptureChance(baseDifficulty, deviceMultiplier, hpRatio float64, luck int) float64 {
	baseChance := (1 - baseDifficulty) * deviceMultiplier
	hpModifier := (1-hpRatio)*0.5 + 0.5
	luckModifier := 1 + float64(luck)*0.01
	chance := baseChance * hpModifier * luckModifier
	if chance > captureCeiling {
		chance = captureCeiling
	}
	if chance < 0 {
		chance = 0
	}
	return chance
}

// AttemptCapture resolves a capture attempt against the enemy with targetID
// using the named capture device. On success the target is removed from the
// enemy squad; on failure it remains, undamaged by the attempt. A target that
// is missing, dead, or not capturable yields an attempt with Chance 0.
//
// Returns a new Battle; the input battle is not mutated.
func (e *Engine) AttemptCapture(b Battle, targetID, deviceItemID string, actorLuck int) (Battle, CaptureAttempt) {
	nb := b.Clone()
	target := nb.Combatant(targetID)
	if target == nil || target.IsDead() || !target.Capturable || !nb.IsEnemy(targetID) {
		return nb, CaptureAttempt{}
	}

	multiplier := 1.0
	if m, ok := e.items.DeviceMultiplier(deviceItemID); ok {
		multiplier = m
	}
	difficulty := e.species.CaptureDifficulty(target.SpeciesID)

	chance := CaptureChance(difficulty, multiplier, target.HPRatio(), actorLuck)
	roll := dice.Float(e.src)
	attempt := CaptureAttempt{
		Chance:    chance,
		Roll:      roll,
		Succeeded: roll < chance,
	}

	if attempt.Succeeded {
		nb.removeEnemy(targetID)
	}

	e.logger.Debug("capture attempt",
		zap.String("target", targetID),
		zap.Float64("chance", chance),
		zap.Float64("roll", roll),
		zap.Bool("succeeded", attempt.Succeeded),
	)
	return nb, attempt
}

// ShakeCount maps an attempt to a cosmetic device-shake count in [0, 3] for
// presentation pacing. It never affects the outcome: a success always shakes
// three times; failures shake more the closer the roll came to succeeding.
func ShakeCount(attempt CaptureAttempt) int {
	if attempt.Succeeded {
		return 3
	}
	if attempt.Chance <= 0 {
		return 0
	}
	// Roll >= Chance here; the margin determines how long the device held on.
	margin := attempt.Roll - attempt.Chance
	switch {
	case margin < 0.1:
		return 2
	case margin < 0.3:
		return 1
	default:
		return 0
	}
}

// CreateCapturedMonster constructs a squad-eligible combatant for a newly
// captured monster. Returns nil when the species id is unknown; callers must
// handle that explicitly.
func (e *Engine) CreateCapturedMonster(speciesID string, level int) *Combatant {
	tmpl, ok := e.species.Get(speciesID)
	if !ok {
		return nil
	}
	c := NewCombatantFromSpecies(tmpl, level, true)
	return &c
}
