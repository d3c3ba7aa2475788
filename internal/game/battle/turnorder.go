package battle

import "sort"

// CalculateTurnOrder returns the ids of all living combatants sorted by Speed
// descending. The sort is stable: combatants with equal Speed keep their
// declaration order (player squad before enemy squad), making round order
// reproducible. Recomputed once at the start of each full round, not per
// action.
//
// Postcondition: every returned id belongs to a combatant with CurrentHP > 0;
// speeds along the returned order are non-increasing.
func CalculateTurnOrder(b Battle) []string {
	type entry struct {
		id    string
		speed int
	}
	var entries []entry
	for i := range b.PlayerSquad {
		if !b.PlayerSquad[i].IsDead() {
			entries = append(entries, entry{b.PlayerSquad[i].ID, b.PlayerSquad[i].Stats.Speed})
		}
	}
	for i := range b.EnemySquad {
		if !b.EnemySquad[i].IsDead() {
			entries = append(entries, entry{b.EnemySquad[i].ID, b.EnemySquad[i].Stats.Speed})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].speed > entries[j].speed
	})
	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.id
	}
	return order
}
