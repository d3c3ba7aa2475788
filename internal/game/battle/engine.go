package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/game/ability"
	"github.com/halcyon-games/menagerie/internal/game/dice"
	"github.com/halcyon-games/menagerie/internal/game/species"
	"github.com/halcyon-games/menagerie/internal/game/status"
)

// Engine resolves battle operations. It holds read-only registries and an
// injected random source; it keeps no per-battle state, so one Engine can
// serve any number of concurrent battles.
type Engine struct {
	abilities *ability.Registry
	statuses  *status.Registry
	species   *species.Registry
	items     ItemResolver
	src       dice.Source
	logger    *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: all registries, items, src, and logger must be non-nil.
func NewEngine(
	abilities *ability.Registry,
	statuses *status.Registry,
	speciesReg *species.Registry,
	items ItemResolver,
	src dice.Source,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		abilities: abilities,
		statuses:  statuses,
		species:   speciesReg,
		items:     items,
		src:       src,
		logger:    logger,
	}
}

// UsableAbilities returns the abilities c can currently select.
func (e *Engine) UsableAbilities(c Combatant) []*ability.Definition {
	return UsableAbilities(e.abilities, c)
}

// IsSleeping reports whether c's turn should be skipped due to a skip-turn
// status. The orchestrator emits a message and advances the turn index
// without consuming an action.
func (e *Engine) IsSleeping(c Combatant) bool {
	return status.IsSleeping(e.statuses, c.Statuses)
}

// StatusTick describes one status effect's contribution at a turn start.
type StatusTick struct {
	StatusID string
	Damage   int
	Healing  int
	Expired  bool
	Message  string
}

// ProcessStatusEffects advances the status effects on one combatant at the
// start of their turn: damage statuses deal their magnitude (HP floors at 0),
// heal statuses restore (capped at MaxHP), durations tick down, expired
// effects drop. The combatant's Defending flag is also cleared here, since a
// defend bonus protects until the defender next acts.
//
// Returns a new Battle; the input battle is not mutated. Unknown combatant
// ids return the battle unchanged.
func (e *Engine) ProcessStatusEffects(b Battle, combatantID string) (Battle, []StatusTick) {
	nb := b.Clone()
	c := nb.Combatant(combatantID)
	if c == nil || c.IsDead() {
		return nb, nil
	}

	c.Defending = false

	survivors, results := status.Advance(e.statuses, c.Statuses)
	c.Statuses = survivors

	ticks := make([]StatusTick, 0, len(results))
	for _, r := range results {
		tick := StatusTick{
			StatusID: r.StatusID,
			Damage:   r.Damage,
			Healing:  r.Healing,
			Expired:  r.Expired,
		}
		name := r.StatusID
		if def, ok := e.statuses.Get(r.StatusID); ok {
			name = def.Name
		}
		switch {
		case r.Damage > 0:
			c.ApplyDamage(r.Damage)
			tick.Message = fmt.Sprintf("%s takes %d damage from %s.", c.Name, r.Damage, name)
		case r.Healing > 0:
			healed := c.Heal(r.Healing)
			tick.Healing = healed
			tick.Message = fmt.Sprintf("%s recovers %d HP from %s.", c.Name, healed, name)
		}
		if r.Expired {
			if tick.Message != "" {
				tick.Message += " "
			}
			tick.Message += fmt.Sprintf("%s wore off.", name)
		}
		ticks = append(ticks, tick)
	}

	e.logger.Debug("status effects processed",
		zap.String("combatant", combatantID),
		zap.Int("ticks", len(ticks)),
		zap.Int("hp", c.Stats.CurrentHP),
	)
	return nb, ticks
}

// AdvanceRound ends the current round: ticks every living combatant's
// cooldowns, increments the round counter, and recomputes turn order.
// Returns a new Battle.
func (e *Engine) AdvanceRound(b Battle) Battle {
	nb := b.Clone()
	for i := range nb.PlayerSquad {
		if !nb.PlayerSquad[i].IsDead() {
			nb.PlayerSquad[i] = TickCooldowns(nb.PlayerSquad[i])
		}
	}
	for i := range nb.EnemySquad {
		if !nb.EnemySquad[i].IsDead() {
			nb.EnemySquad[i] = TickCooldowns(nb.EnemySquad[i])
		}
	}
	nb.Round++
	nb.TurnOrder = CalculateTurnOrder(nb)
	return nb
}

// CheckBattleEnd evaluates the end conditions: victory iff every enemy is
// dead, defeat iff every player-side combatant is dead, otherwise ongoing.
// Callers must re-evaluate after every HP-affecting operation, including
// status ticks and capture removals, since a single effect can end the battle
// mid-round. An already-fled battle stays fled.
func (e *Engine) CheckBattleEnd(b Battle) State {
	if b.State == StateFled {
		return StateFled
	}
	if len(b.LivingEnemies()) == 0 {
		return StateVictory
	}
	if len(b.LivingPlayerSide()) == 0 {
		return StateDefeat
	}
	return StateOngoing
}
