package status

// Effect is one active status instance on a combatant.
type Effect struct {
	// StatusID references a Definition in the Registry.
	StatusID string
	// Remaining is the number of turn starts left before the effect expires.
	// Invariant: Remaining >= 1 while the effect is active.
	Remaining int
	// Magnitude is the per-turn damage or healing amount. Unused for
	// skip-turn effects.
	Magnitude int
}

// TickResult records what one effect did when it was advanced.
type TickResult struct {
	StatusID string
	Damage   int
	Healing  int
	Expired  bool
}

// Advance decrements the duration of every effect, dropping those that reach
// zero. It returns the surviving effects and one TickResult per input effect,
// in input order, with Damage/Healing filled in from the effect's Definition
// kind. Effect application to combatant HP is the caller's job; Advance only
// reports what each effect wants to do.
//
// Unknown status ids tick down and expire without any damage or healing.
//
// Postcondition: every surviving effect has Remaining >= 1.
func Advance(reg *Registry, effects []Effect) ([]Effect, []TickResult) {
	var survivors []Effect
	results := make([]TickResult, 0, len(effects))
	for _, e := range effects {
		res := TickResult{StatusID: e.StatusID}
		if def, ok := reg.Get(e.StatusID); ok {
			switch def.Kind {
			case KindDamage:
				res.Damage = e.Magnitude
			case KindHeal:
				res.Healing = e.Magnitude
			}
		}
		e.Remaining--
		if e.Remaining <= 0 {
			res.Expired = true
		} else {
			survivors = append(survivors, e)
		}
		results = append(results, res)
	}
	return survivors, results
}

// IsSleeping reports whether any active effect is a skip-turn status.
// A sleeping combatant's turn is skipped without consuming an action.
func IsSleeping(reg *Registry, effects []Effect) bool {
	for _, e := range effects {
		if def, ok := reg.Get(e.StatusID); ok && def.Kind == KindSkipTurn {
			return true
		}
	}
	return false
}

// Has reports whether an effect with the given status id is active.
func Has(effects []Effect, statusID string) bool {
	for _, e := range effects {
		if e.StatusID == statusID {
			return true
		}
	}
	return false
}
