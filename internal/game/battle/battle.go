package battle

// State is the battle lifecycle phase.
type State int

const (
	StateOngoing State = iota
	StateVictory
	StateDefeat
	StateFled
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Battle is the aggregate state of one encounter. Engine operations treat it
// as a value: every operation clones the battle and returns the clone, so a
// caller's Battle is never mutated underneath them. The orchestrator advances
// the encounter by replacing its Battle with each returned one.
type Battle struct {
	PlayerSquad []Combatant
	EnemySquad  []Combatant
	// TurnOrder holds combatant ids, recomputed at each round start.
	TurnOrder []string
	State     State
	// BackgroundKey names the backdrop the presentation layer should show.
	BackgroundKey string
	// Round counts full rounds, starting at 1.
	Round int
}

// New creates a Battle in StateOngoing with the initial turn order computed.
//
// Precondition: playerSquad and enemySquad must each have at least one living
// combatant.
func New(playerSquad, enemySquad []Combatant, backgroundKey string) Battle {
	b := Battle{
		PlayerSquad:   cloneSquad(playerSquad),
		EnemySquad:    cloneSquad(enemySquad),
		State:         StateOngoing,
		BackgroundKey: backgroundKey,
		Round:         1,
	}
	b.TurnOrder = CalculateTurnOrder(b)
	return b
}

func cloneSquad(squad []Combatant) []Combatant {
	out := make([]Combatant, len(squad))
	for i, c := range squad {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the battle.
func (b Battle) Clone() Battle {
	cp := b
	cp.PlayerSquad = cloneSquad(b.PlayerSquad)
	cp.EnemySquad = cloneSquad(b.EnemySquad)
	cp.TurnOrder = append([]string(nil), b.TurnOrder...)
	return cp
}

// Combatant returns a pointer to the combatant with the given id, or nil.
// The pointer aliases the battle's own storage; engine operations use it on
// clones only.
func (b *Battle) Combatant(id string) *Combatant {
	for i := range b.PlayerSquad {
		if b.PlayerSquad[i].ID == id {
			return &b.PlayerSquad[i]
		}
	}
	for i := range b.EnemySquad {
		if b.EnemySquad[i].ID == id {
			return &b.EnemySquad[i]
		}
	}
	return nil
}

// IsEnemy reports whether the combatant with the given id is on the enemy side.
func (b *Battle) IsEnemy(id string) bool {
	for i := range b.EnemySquad {
		if b.EnemySquad[i].ID == id {
			return true
		}
	}
	return false
}

// LivingPlayerSide returns the player-side combatants with CurrentHP > 0.
func (b *Battle) LivingPlayerSide() []*Combatant {
	var alive []*Combatant
	for i := range b.PlayerSquad {
		if !b.PlayerSquad[i].IsDead() {
			alive = append(alive, &b.PlayerSquad[i])
		}
	}
	return alive
}

// LivingEnemies returns the enemy-side combatants with CurrentHP > 0.
func (b *Battle) LivingEnemies() []*Combatant {
	var alive []*Combatant
	for i := range b.EnemySquad {
		if !b.EnemySquad[i].IsDead() {
			alive = append(alive, &b.EnemySquad[i])
		}
	}
	return alive
}

// removeEnemy deletes the enemy with the given id from EnemySquad, preserving
// the order of the rest. No-op when the id is not an enemy.
func (b *Battle) removeEnemy(id string) {
	for i := range b.EnemySquad {
		if b.EnemySquad[i].ID == id {
			b.EnemySquad = append(b.EnemySquad[:i], b.EnemySquad[i+1:]...)
			return
		}
	}
}
