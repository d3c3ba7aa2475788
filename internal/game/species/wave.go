package species

// LevelForWave returns the effective level of an enemy spawned in the given
// wave. Wave 1 spawns at baseLevel; each later wave adds one level.
//
// Precondition: baseLevel >= 1; wave >= 1.
// Postcondition: returns >= baseLevel.
func LevelForWave(baseLevel, wave int) int {
	if wave < 1 {
		wave = 1
	}
	return baseLevel + wave - 1
}

// StatsForWave returns the scaled stat block for an enemy of this species
// spawned in the given wave.
//
// Precondition: baseLevel >= 1; wave >= 1.
func (t *Template) StatsForWave(baseLevel, wave int) BaseStats {
	return t.StatsAtLevel(LevelForWave(baseLevel, wave))
}
