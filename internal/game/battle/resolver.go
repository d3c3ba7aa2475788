package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/game/ability"
	"github.com/halcyon-games/menagerie/internal/game/dice"
	"github.com/halcyon-games/menagerie/internal/game/status"
)

const (
	// attackAccuracy is the hit chance of a basic attack, in percent.
	attackAccuracy = 90
	// baseCritChance is the critical-hit floor in percent; Luck adds
	// Luck/4 percentage points on top.
	baseCritChance = 5
	// fleeBaseChance is the flee probability with no speed advantage.
	fleeBaseChance = 0.5
	// fleePerSpeed is the flee probability gained per point of speed
	// advantage over the fastest living enemy.
	fleePerSpeed = 0.1
	fleeMin      = 0.10
	fleeMax      = 0.95
)

// ExecuteAction resolves one action and returns the resulting battle state.
// Expected failures — missing actor, dead or missing target, unknown ability
// or item — produce a no-op Result with an explanatory message rather than an
// error, so the orchestrator's turn loop never aborts.
func (e *Engine) ExecuteAction(b Battle, a Action) Result {
	nb := b.Clone()
	actor := nb.Combatant(a.ActorID)
	if actor == nil || actor.IsDead() {
		return Result{Battle: nb, Message: "Nothing happens."}
	}

	switch a.Type {
	case ActionAttack:
		return e.resolveAttack(nb, actor, a)
	case ActionAbility:
		return e.resolveAbility(nb, actor, a)
	case ActionItem:
		return e.resolveItem(nb, actor, a)
	case ActionDefend:
		actor.Defending = true
		return Result{Battle: nb, Message: fmt.Sprintf("%s braces for impact.", actor.Name)}
	case ActionFlee:
		return e.resolveFlee(nb, actor)
	case ActionCapture:
		nb, attempt := e.AttemptCapture(nb, a.TargetID, a.ItemID, actor.Stats.Luck)
		msg := fmt.Sprintf("%s throws a capture device... it breaks free!", actor.Name)
		if attempt.Succeeded {
			msg = fmt.Sprintf("%s throws a capture device... gotcha!", actor.Name)
		}
		return Result{Battle: nb, Message: msg}
	default:
		return Result{Battle: nb, Message: "Nothing happens."}
	}
}

// critChance returns the critical-hit probability in percent for a combatant
// with the given luck.
func critChance(luck int) int {
	return baseCritChance + luck/4
}

// physicalDamage computes basic-attack damage before crit and defend
// adjustments: (2*Attack - Defense) scaled by a variance band of 85-100%,
// never below 1.
func (e *Engine) physicalDamage(actor, target *Combatant, power int) int {
	raw := actor.Stats.Attack*2 + power - target.Stats.Defense
	return e.applyVariance(raw)
}

// magicalDamage mirrors physicalDamage using the magic stats.
func (e *Engine) magicalDamage(actor, target *Combatant, power int) int {
	raw := actor.Stats.MagicAttack*2 + power - target.Stats.MagicDefense
	return e.applyVariance(raw)
}

func (e *Engine) applyVariance(raw int) int {
	dmg := raw * dice.Between(e.src, 85, 100) / 100
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// applyDefenses applies crit and defend modifiers to a damage figure and
// reports whether the hit was critical.
func (e *Engine) applyDefenses(dmg int, actor, target *Combatant) (int, bool) {
	crit := dice.PercentChance(e.src, critChance(actor.Stats.Luck))
	if crit {
		dmg = dmg * 3 / 2
	}
	if target.Defending {
		dmg /= 2
		if dmg < 1 {
			dmg = 1
		}
	}
	return dmg, crit
}

func (e *Engine) resolveAttack(nb Battle, actor *Combatant, a Action) Result {
	target := nb.Combatant(a.TargetID)
	if target == nil || target.IsDead() {
		return Result{Battle: nb, Message: fmt.Sprintf("%s attacks but hits nothing.", actor.Name)}
	}
	if !dice.PercentChance(e.src, attackAccuracy) {
		return Result{Battle: nb, Message: fmt.Sprintf("%s attacks %s but misses!", actor.Name, target.Name)}
	}

	dmg := e.physicalDamage(actor, target, 0)
	dmg, crit := e.applyDefenses(dmg, actor, target)
	target.ApplyDamage(dmg)

	msg := fmt.Sprintf("%s attacks %s for %d damage.", actor.Name, target.Name, dmg)
	if crit {
		msg += " A critical hit!"
	}
	if target.IsDead() {
		msg += fmt.Sprintf(" %s is defeated!", target.Name)
	}
	e.logger.Debug("attack resolved",
		zap.String("actor", actor.ID),
		zap.String("target", target.ID),
		zap.Int("damage", dmg),
		zap.Bool("critical", crit),
	)
	return Result{Battle: nb, Damage: dmg, IsCritical: crit, Message: msg}
}

// abilityTargets resolves the concrete target list for an ability use.
// Dead combatants are never returned.
func (nb *Battle) abilityTargets(actor *Combatant, def *ability.Definition, a Action) []*Combatant {
	ids := a.TargetIDs
	if len(ids) == 0 && a.TargetID != "" {
		ids = []string{a.TargetID}
	}

	switch def.TargetType {
	case ability.TargetSelf:
		return []*Combatant{actor}
	case ability.TargetAllEnemies:
		if nb.IsEnemy(actor.ID) {
			return nb.LivingPlayerSide()
		}
		return nb.LivingEnemies()
	default:
		var targets []*Combatant
		for _, id := range ids {
			if t := nb.Combatant(id); t != nil && !t.IsDead() {
				targets = append(targets, t)
			}
		}
		return targets
	}
}

func (e *Engine) resolveAbility(nb Battle, actor *Combatant, a Action) Result {
	def, ok := e.abilities.Get(a.AbilityID)
	if !ok {
		return Result{Battle: nb, Message: fmt.Sprintf("%s fumbles, and nothing happens.", actor.Name)}
	}
	// Callers are expected to filter with UsableAbilities; these checks make
	// an unfiltered call a no-op instead of a corrupt state.
	if IsAbilityOnCooldown(*actor, def.ID) {
		return Result{Battle: nb, Message: fmt.Sprintf("%s is not ready yet.", def.Name)}
	}
	targets := nb.abilityTargets(actor, def, a)
	if len(targets) == 0 {
		return Result{Battle: nb, Message: fmt.Sprintf("%s uses %s, but there is no target.", actor.Name, def.Name)}
	}
	if !actor.SpendMP(def.MPCost) {
		return Result{Battle: nb, Message: fmt.Sprintf("%s doesn't have enough MP for %s.", actor.Name, def.Name)}
	}

	if def.CooldownTurns > 0 {
		actor.Cooldowns[def.ID] = def.CooldownTurns
	}

	totalDamage := 0
	anyCrit := false
	msg := fmt.Sprintf("%s uses %s!", actor.Name, def.Name)

	for _, target := range targets {
		if def.IsHealing() {
			healed := target.Heal(def.Power + actor.Stats.MagicAttack/2)
			msg += fmt.Sprintf(" %s recovers %d HP.", target.Name, healed)
			continue
		}
		if !dice.PercentChance(e.src, def.Accuracy) {
			msg += fmt.Sprintf(" It misses %s!", target.Name)
			continue
		}
		var dmg int
		if def.Category == ability.CategoryPhysical {
			dmg = e.physicalDamage(actor, target, def.Power)
		} else {
			dmg = e.magicalDamage(actor, target, def.Power)
		}
		dmg, crit := e.applyDefenses(dmg, actor, target)
		target.ApplyDamage(dmg)
		totalDamage += dmg
		anyCrit = anyCrit || crit

		msg += fmt.Sprintf(" %s takes %d damage.", target.Name, dmg)
		if crit {
			msg += " A critical hit!"
		}
		if target.IsDead() {
			msg += fmt.Sprintf(" %s is defeated!", target.Name)
			continue
		}
		if inf := def.Inflicts; inf != nil && dice.Chance(e.src, inf.Chance) && !status.Has(target.Statuses, inf.StatusID) {
			target.Statuses = append(target.Statuses, status.Effect{
				StatusID:  inf.StatusID,
				Remaining: inf.Duration,
				Magnitude: inf.Magnitude,
			})
			name := inf.StatusID
			if sd, ok := e.statuses.Get(inf.StatusID); ok {
				name = sd.Name
			}
			msg += fmt.Sprintf(" %s is afflicted with %s!", target.Name, name)
		}
	}

	e.logger.Debug("ability resolved",
		zap.String("actor", actor.ID),
		zap.String("ability", def.ID),
		zap.Int("targets", len(targets)),
		zap.Int("damage", totalDamage),
	)
	return Result{Battle: nb, Damage: totalDamage, IsCritical: anyCrit, Message: msg}
}

func (e *Engine) resolveItem(nb Battle, actor *Combatant, a Action) Result {
	target := actor
	if a.TargetID != "" {
		if t := nb.Combatant(a.TargetID); t != nil && !t.IsDead() {
			target = t
		}
	}

	effect, ok := e.items.Resolve(a.ItemID, ItemTarget{
		HP:    target.Stats.CurrentHP,
		MaxHP: target.Stats.MaxHP,
		MP:    target.Stats.CurrentMP,
		MaxMP: target.Stats.MaxMP,
	})
	if !ok {
		return Result{Battle: nb, Message: fmt.Sprintf("%s rummages for an item, but finds nothing useful.", actor.Name)}
	}

	if effect.HPDelta > 0 {
		target.Heal(effect.HPDelta)
	} else if effect.HPDelta < 0 {
		target.ApplyDamage(-effect.HPDelta)
	}
	if effect.MPDelta > 0 {
		target.RestoreMP(effect.MPDelta)
	}

	msg := effect.Message
	if msg == "" {
		msg = fmt.Sprintf("%s uses an item on %s.", actor.Name, target.Name)
	}
	return Result{Battle: nb, Message: msg}
}

func (e *Engine) resolveFlee(nb Battle, actor *Combatant) Result {
	fastest := 0
	for _, enemy := range nb.LivingEnemies() {
		if enemy.Stats.Speed > fastest {
			fastest = enemy.Stats.Speed
		}
	}
	chance := fleeBaseChance + fleePerSpeed*float64(actor.Stats.Speed-fastest)
	if chance < fleeMin {
		chance = fleeMin
	}
	if chance > fleeMax {
		chance = fleeMax
	}

	if dice.Chance(e.src, chance) {
		nb.State = StateFled
		return Result{Battle: nb, Message: fmt.Sprintf("%s flees from battle!", actor.Name)}
	}
	return Result{Battle: nb, Message: fmt.Sprintf("%s tries to flee, but can't get away!", actor.Name)}
}
