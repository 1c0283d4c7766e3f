// Package economy maintains per-player electron balances and ledgers.
package economy

import (
	"time"

	"github.com/isotopelab/isotope/internal/domain/model"
)

// Option applies a configuration option to the InMemoryLedger.
type Option func(*InMemoryLedger)

// WithBaseReward sets the base electron payout for puzzle completions.
func WithBaseReward(reward int) Option {
	return func(l *InMemoryLedger) {
		if reward > 0 {
			l.baseReward = reward
		}
	}
}

// WithPerfectMultiplier sets the perfect-solve payout multiplier.
func WithPerfectMultiplier(multiplier float64) Option {
	return func(l *InMemoryLedger) {
		if multiplier >= 1 {
			l.perfectMultiplier = multiplier
		}
	}
}

// WithDifficultyFactor overrides the payout factor for a difficulty level.
func WithDifficultyFactor(difficulty model.Difficulty, factor float64) Option {
	return func(l *InMemoryLedger) {
		if difficulty.Valid() && factor > 0 {
			l.difficultyFactors[difficulty] = factor
		}
	}
}

// WithClock sets the time source used for transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *InMemoryLedger) {
		if now != nil {
			l.now = now
		}
	}
}
