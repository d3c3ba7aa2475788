// Package dice provides the core randomness abstraction for the Menagerie
// battle engine. Every probability-dependent operation (accuracy, criticals,
// capture attempts, AI target picks, loot rolls) draws from an injected Source
// so that tests can supply a deterministic one.
package dice

// Source is the randomness provider for all engine rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// chanceGranularity is the resolution of fractional probability draws.
// A draw is an integer in [0, chanceGranularity); probabilities finer than
// 1/chanceGranularity collapse to the nearest step.
const chanceGranularity = 10_000

// Chance performs a single draw against probability p in [0, 1].
//
// Postcondition: always false for p <= 0; always true for p >= 1.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Intn(chanceGranularity) < int(p*chanceGranularity)
}

// PercentChance performs a single draw against a whole-number percentage.
//
// Postcondition: always false for pct <= 0; always true for pct >= 100.
func PercentChance(src Source, pct int) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	return src.Intn(100) < pct
}

// Between returns a uniformly random int in [min, max].
//
// Precondition: min <= max.
// Postcondition: min <= result <= max.
func Between(src Source, min, max int) int {
	if min >= max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Float returns a uniformly random float64 in [0, 1).
func Float(src Source) float64 {
	return float64(src.Intn(chanceGranularity)) / chanceGranularity
}
