// Package scoring computes atomic-weight points for completed puzzles.
package scoring

import (
	"math"

	"github.com/isotopelab/isotope/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultElementMultiplier = 0.1
	defaultTimeBonusFactor   = 0.5 // up to +50% for an instantaneous solve
	maxStreakBonusLength     = 5
	firstCompletionBonus     = 0.25
	streakBonusPerWin        = 0.10
)

// Puzzle describes the puzzle that was played.
type Puzzle struct {
	ID               string
	Mode             model.GameMode
	Difficulty       model.Difficulty
	TimeLimitSeconds float64 // 0 means untimed
}

// Result describes how the puzzle was solved.
type Result struct {
	Perfect          bool
	TimeTakenSeconds float64
}

// Bonuses are the additive completion bonuses applied on top of base points.
type Bonuses struct {
	FirstCompletion bool
	FlawlessStreak  bool
	StreakLength    int
}

// Engine computes puzzle points from mode tables and scaling rules.
// The default tables cover every game mode; options merge onto them and
// ignore unknown modes, so a lookup can never silently miss.
type Engine struct {
	basePoints        map[model.GameMode]int
	perfectMultiplier map[model.GameMode]float64
	elementMultiplier float64
	timeBonusFactor   float64
}

// defaultBasePoints orders modes roughly by conceptual difficulty.
func defaultBasePoints() map[model.GameMode]int {
	return map[model.GameMode]int{
		model.ModeTutorial:       1,
		model.ModeElementMatch:   2,
		model.ModeSymbolQuiz:     2,
		model.ModeMemoryPairs:    3,
		model.ModeGroupSort:      3,
		model.ModeElectronConfig: 3,
		model.ModeBondBuilder:    4,
		model.ModeReactionRace:   4,
		model.ModeIsotopeHunt:    4,
		model.ModePeriodicMaster: 5,
		model.ModeLabMaster:      5,
	}
}

func defaultPerfectMultipliers() map[model.GameMode]float64 {
	return map[model.GameMode]float64{
		model.ModeTutorial:       1.5,
		model.ModeElementMatch:   1.6,
		model.ModeSymbolQuiz:     1.6,
		model.ModeMemoryPairs:    1.7,
		model.ModeGroupSort:      1.7,
		model.ModeElectronConfig: 1.7,
		model.ModeBondBuilder:    1.8,
		model.ModeReactionRace:   1.8,
		model.ModeIsotopeHunt:    1.9,
		model.ModePeriodicMaster: 2.0,
		model.ModeLabMaster:      2.0,
	}
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		basePoints:        defaultBasePoints(),
		perfectMultiplier: defaultPerfectMultipliers(),
		elementMultiplier: defaultElementMultiplier,
		timeBonusFactor:   defaultTimeBonusFactor,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BasePoints returns the per-mode base point value.
func (e *Engine) BasePoints(mode model.GameMode) int {
	return e.basePoints[mode]
}

// PerfectMultiplier returns the per-mode perfect-solve multiplier.
func (e *Engine) PerfectMultiplier(mode model.GameMode) float64 {
	return e.perfectMultiplier[mode]
}

// CalculatePuzzlePoints computes the points awarded for a completed puzzle.
//
// Base points scale with the player's atomic number, multiply on a perfect
// solve, gain a time bonus for beating the limit, and never fall below the
// mode's base value however poorly the puzzle was scored.
func (e *Engine) CalculatePuzzlePoints(puzzle Puzzle, result Result, currentAtomicNumber int) int {
	base := e.basePoints[puzzle.Mode]
	points := float64(base)

	// Clamp to defend against non-positive atomic numbers.
	an := currentAtomicNumber
	if an < 1 {
		an = 1
	}
	if an > 1 {
		points *= 1 + float64(an-1)*e.elementMultiplier
	}

	if result.Perfect {
		points *= e.perfectMultiplier[puzzle.Mode]
	}

	if puzzle.TimeLimitSeconds > 0 && result.TimeTakenSeconds >= 0 && result.TimeTakenSeconds < puzzle.TimeLimitSeconds {
		timePercent := (puzzle.TimeLimitSeconds - result.TimeTakenSeconds) / puzzle.TimeLimitSeconds
		points *= 1 + timePercent*e.timeBonusFactor
	}

	rounded := int(math.Round(points))
	if rounded < base {
		return base
	}
	return rounded
}

// CalculateBonusPoints applies additive percentage bonuses to base points:
// +25% for a first completion, +10% per flawless-streak win up to +50%.
// The percentages are summed and applied once; the result is never below 1.
func (e *Engine) CalculateBonusPoints(basePoints int, b Bonuses) int {
	percent := 0.0
	if b.FirstCompletion {
		percent += firstCompletionBonus
	}
	if b.FlawlessStreak {
		streak := b.StreakLength
		if streak > maxStreakBonusLength {
			streak = maxStreakBonusLength
		}
		if streak > 0 {
			percent += float64(streak) * streakBonusPerWin
		}
	}

	total := int(math.Round(float64(basePoints) * (1 + percent)))
	if total < 1 {
		return 1
	}
	return total
}
