// Package scoring computes atomic-weight points for completed puzzles.
package scoring

import "github.com/isotopelab/isotope/internal/domain/model"

func toMode(s string) model.GameMode { return model.GameMode(s) }

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithElementMultiplier sets the per-atomic-number scaling factor.
func WithElementMultiplier(multiplier float64) Option {
	return func(e *Engine) {
		if multiplier >= 0 {
			e.elementMultiplier = multiplier
		}
	}
}

// WithTimeBonusFactor sets the maximum fractional time bonus.
func WithTimeBonusFactor(factor float64) Option {
	return func(e *Engine) {
		if factor >= 0 {
			e.timeBonusFactor = factor
		}
	}
}

// WithBasePoints overrides base points for known modes. Entries for
// unknown modes or non-positive values are ignored so the table always
// covers every mode.
func WithBasePoints(points map[string]int) Option {
	return func(e *Engine) {
		for mode, value := range points {
			m := toMode(mode)
			if _, known := e.basePoints[m]; known && value > 0 {
				e.basePoints[m] = value
			}
		}
	}
}

// WithPerfectMultipliers overrides perfect-solve multipliers for known
// modes. Entries for unknown modes or multipliers below 1 are ignored.
func WithPerfectMultipliers(multipliers map[string]float64) Option {
	return func(e *Engine) {
		for mode, value := range multipliers {
			m := toMode(mode)
			if _, known := e.perfectMultiplier[m]; known && value >= 1 {
				e.perfectMultiplier[m] = value
			}
		}
	}
}
