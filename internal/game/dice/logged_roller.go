package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to mint fight seeds.
// Every minted seed is logged at debug level so a fight can be replayed from logs.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each seed to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Seed draws a fresh fight seed in [0, MaxSeed).
//
// Postcondition: 0 <= result < MaxSeed; the draw is logged with purpose.
func (r *Roller) Seed(purpose string) int64 {
	seed := int64(r.src.Intn(MaxSeed))
	r.logger.Debug("seed minted",
		zap.String("purpose", purpose),
		zap.Int64("seed", seed),
	)
	return seed
}
