// Package ai chooses battle actions for combatants that are not
// human-controlled: enemy monsters and the player's squad monsters. Both
// policies are pure functions of the battle state and the injected random
// source, and always return a legal action.
package ai

import (
	"github.com/halcyon-games/menagerie/internal/game/ability"
	"github.com/halcyon-games/menagerie/internal/game/battle"
	"github.com/halcyon-games/menagerie/internal/game/dice"
)

// lowHPRatio is the threshold below which a combatant counts as wounded for
// healing priority and kill targeting.
const lowHPRatio = 0.3

// Policy holds the shared lookups both heuristics need.
type Policy struct {
	abilities *ability.Registry
	src       dice.Source
}

// New creates a Policy.
//
// Precondition: abilities and src must be non-nil.
func New(abilities *ability.Registry, src dice.Source) *Policy {
	return &Policy{abilities: abilities, src: src}
}

// EnemyAction chooses an action for an enemy-side combatant: the
// highest-power usable damaging ability against the weakest player-side
// target, falling back to a basic attack on a random living player-side
// target, and defending when no targets remain.
func (p *Policy) EnemyAction(b battle.Battle, actorID string) battle.Action {
	actor := b.Combatant(actorID)
	if actor == nil || actor.IsDead() {
		return battle.Action{Type: battle.ActionDefend, ActorID: actorID}
	}

	targets := b.LivingPlayerSide()
	if len(targets) == 0 {
		return battle.Action{Type: battle.ActionDefend, ActorID: actorID}
	}

	if best := bestDamagingAbility(p.abilities, *actor); best != nil {
		target := weakest(targets)
		return battle.Action{
			Type:      battle.ActionAbility,
			ActorID:   actorID,
			TargetID:  target.ID,
			AbilityID: best.ID,
		}
	}

	target := targets[p.src.Intn(len(targets))]
	return battle.Action{Type: battle.ActionAttack, ActorID: actorID, TargetID: target.ID}
}

// SquadMonsterAction chooses an action for one of the player's squad
// monsters. Priority order:
//  1. self-heal when own HP ratio is below 0.3 and a usable self or
//     ally-target healing ability exists
//  2. heal the first living ally below 0.3 with a usable ally-target heal
//  3. the highest-power usable damaging ability, aimed at an enemy below 0.3
//     HP ratio when one exists, otherwise a uniformly random living enemy
//  4. a basic attack on a uniformly random living enemy
//  5. defend when no living enemies exist
func (p *Policy) SquadMonsterAction(b battle.Battle, actorID string) battle.Action {
	actor := b.Combatant(actorID)
	if actor == nil || actor.IsDead() {
		return battle.Action{Type: battle.ActionDefend, ActorID: actorID}
	}

	usable := battle.UsableAbilities(p.abilities, *actor)

	if actor.HPRatio() < lowHPRatio {
		if heal := firstHealing(usable, true); heal != nil {
			return battle.Action{
				Type:      battle.ActionAbility,
				ActorID:   actorID,
				TargetID:  actorID,
				AbilityID: heal.ID,
			}
		}
	}

	if heal := firstHealing(usable, false); heal != nil {
		for _, ally := range b.LivingPlayerSide() {
			if ally.ID != actorID && ally.HPRatio() < lowHPRatio {
				return battle.Action{
					Type:      battle.ActionAbility,
					ActorID:   actorID,
					TargetID:  ally.ID,
					AbilityID: heal.ID,
				}
			}
		}
	}

	enemies := b.LivingEnemies()
	if len(enemies) == 0 {
		return battle.Action{Type: battle.ActionDefend, ActorID: actorID}
	}

	if best := bestDamagingAbility(p.abilities, *actor); best != nil {
		target := likelyKill(enemies)
		if target == nil {
			target = enemies[p.src.Intn(len(enemies))]
		}
		return battle.Action{
			Type:      battle.ActionAbility,
			ActorID:   actorID,
			TargetID:  target.ID,
			AbilityID: best.ID,
		}
	}

	target := enemies[p.src.Intn(len(enemies))]
	return battle.Action{Type: battle.ActionAttack, ActorID: actorID, TargetID: target.ID}
}

// bestDamagingAbility returns the highest-power usable damaging ability, or
// nil when none is usable. Earlier abilities win power ties, matching the
// combatant's ability order.
func bestDamagingAbility(reg *ability.Registry, c battle.Combatant) *ability.Definition {
	var best *ability.Definition
	for _, def := range battle.UsableAbilities(reg, c) {
		if !def.IsDamaging() {
			continue
		}
		if best == nil || def.Power > best.Power {
			best = def
		}
	}
	return best
}

// firstHealing returns the first usable healing ability. When selfOnly is
// true, self-target heals qualify too; otherwise only ally-target heals do.
func firstHealing(usable []*ability.Definition, selfOnly bool) *ability.Definition {
	for _, def := range usable {
		if !def.IsHealing() {
			continue
		}
		switch def.TargetType {
		case ability.TargetSelf:
			if selfOnly {
				return def
			}
		case ability.TargetSingleAlly:
			return def
		}
	}
	return nil
}

// weakest returns the combatant with the lowest HP ratio.
//
// Precondition: targets must be non-empty.
func weakest(targets []*battle.Combatant) *battle.Combatant {
	best := targets[0]
	for _, t := range targets[1:] {
		if t.HPRatio() < best.HPRatio() {
			best = t
		}
	}
	return best
}

// likelyKill returns the first enemy below the low-HP threshold, or nil.
func likelyKill(enemies []*battle.Combatant) *battle.Combatant {
	for _, e := range enemies {
		if e.HPRatio() < lowHPRatio {
			return e
		}
	}
	return nil
}
