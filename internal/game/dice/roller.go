package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so that every probability draw is logged
// at debug level with the probability used and the outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn returns a random int in [0, n), satisfying Source so a Roller can be
// injected anywhere a plain Source is expected.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}

// Chance performs a logged draw against probability p in [0, 1].
func (r *Roller) Chance(p float64) bool {
	hit := Chance(r.src, p)
	r.logger.Debug("chance roll",
		zap.Float64("probability", p),
		zap.Bool("hit", hit),
	)
	return hit
}
