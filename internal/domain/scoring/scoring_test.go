package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/isotopelab/isotope/internal/domain/model"
	scoring "github.com/isotopelab/isotope/internal/domain/scoring"
)

func TestEngine_CalculatePuzzlePoints(t *testing.T) {
	Convey("Given a scoring engine with default tables", t, func() {
		engine := scoring.NewEngine()

		Convey("When a first-element player solves an element match", func() {
			puzzle := scoring.Puzzle{ID: "p1", Mode: model.ModeElementMatch, Difficulty: model.DifficultyEasy}

			Convey("Then an imperfect untimed solve earns the base points", func() {
				points := engine.CalculatePuzzlePoints(puzzle, scoring.Result{}, 1)
				So(points, ShouldEqual, engine.BasePoints(model.ModeElementMatch))
			})

			Convey("Then a perfect solve multiplies the base points", func() {
				points := engine.CalculatePuzzlePoints(puzzle, scoring.Result{Perfect: true}, 1)
				So(points, ShouldEqual, 3) // 2 * 1.6 = 3.2, rounded
			})
		})

		Convey("When the player has advanced to atomic number 11", func() {
			puzzle := scoring.Puzzle{ID: "p2", Mode: model.ModeElementMatch, Difficulty: model.DifficultyEasy}

			Convey("Then points scale with the atomic number", func() {
				points := engine.CalculatePuzzlePoints(puzzle, scoring.Result{}, 11)
				So(points, ShouldEqual, 4) // 2 * (1 + 10*0.1) = 4
			})
		})

		Convey("When the atomic number is out of range", func() {
			puzzle := scoring.Puzzle{ID: "p3", Mode: model.ModeElementMatch, Difficulty: model.DifficultyEasy}

			Convey("Then zero and negative behave like the first element", func() {
				So(engine.CalculatePuzzlePoints(puzzle, scoring.Result{}, 0), ShouldEqual, 2)
				So(engine.CalculatePuzzlePoints(puzzle, scoring.Result{}, -7), ShouldEqual, 2)
			})
		})

		Convey("When the puzzle is timed", func() {
			puzzle := scoring.Puzzle{
				ID:               "p4",
				Mode:             model.ModeElementMatch,
				Difficulty:       model.DifficultyEasy,
				TimeLimitSeconds: 60,
			}

			Convey("Then beating the limit earns a time bonus", func() {
				instant := engine.CalculatePuzzlePoints(puzzle, scoring.Result{TimeTakenSeconds: 0}, 1)
				So(instant, ShouldEqual, 3) // 2 * 1.5 = 3

				half := engine.CalculatePuzzlePoints(puzzle, scoring.Result{TimeTakenSeconds: 30}, 1)
				So(half, ShouldEqual, 3) // 2 * 1.25 = 2.5, rounded up
			})

			Convey("Then exceeding the limit earns no bonus", func() {
				points := engine.CalculatePuzzlePoints(puzzle, scoring.Result{TimeTakenSeconds: 90}, 1)
				So(points, ShouldEqual, 2)
			})
		})

		Convey("When the multiplier table would reduce points", func() {
			engine := scoring.NewEngine(scoring.WithElementMultiplier(0))
			puzzle := scoring.Puzzle{ID: "p5", Mode: model.ModePeriodicMaster, Difficulty: model.DifficultyHard}

			Convey("Then points never fall below the mode's base value", func() {
				points := engine.CalculatePuzzlePoints(puzzle, scoring.Result{}, 1)
				So(points, ShouldBeGreaterThanOrEqualTo, engine.BasePoints(model.ModePeriodicMaster))
			})
		})
	})
}

func TestEngine_CalculateBonusPoints(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When a first completion bonus applies", func() {
			So(engine.CalculateBonusPoints(100, scoring.Bonuses{FirstCompletion: true}), ShouldEqual, 125)
		})

		Convey("When a three-win flawless streak applies", func() {
			So(engine.CalculateBonusPoints(100, scoring.Bonuses{FlawlessStreak: true, StreakLength: 3}), ShouldEqual, 130)
		})

		Convey("When both bonuses apply they stack additively", func() {
			bonuses := scoring.Bonuses{FirstCompletion: true, FlawlessStreak: true, StreakLength: 3}
			So(engine.CalculateBonusPoints(100, bonuses), ShouldEqual, 155)
		})

		Convey("When the streak is very long the bonus caps at five wins", func() {
			So(engine.CalculateBonusPoints(100, scoring.Bonuses{FlawlessStreak: true, StreakLength: 10}), ShouldEqual, 150)
		})

		Convey("When no bonuses apply the points pass through", func() {
			So(engine.CalculateBonusPoints(100, scoring.Bonuses{}), ShouldEqual, 100)
		})

		Convey("When the base points are nonsense the result is still at least 1", func() {
			So(engine.CalculateBonusPoints(-100, scoring.Bonuses{FirstCompletion: true}), ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given option overrides", t, func() {
		Convey("When overriding base points for a known mode", func() {
			engine := scoring.NewEngine(scoring.WithBasePoints(map[string]int{
				"tutorial": 7,
			}))
			So(engine.BasePoints(model.ModeTutorial), ShouldEqual, 7)
		})

		Convey("When overriding an unknown mode it is ignored", func() {
			engine := scoring.NewEngine(scoring.WithBasePoints(map[string]int{
				"chess": 9,
			}))
			So(engine.BasePoints(model.ModeTutorial), ShouldEqual, 1)
		})

		Convey("When a multiplier below one is supplied it is ignored", func() {
			engine := scoring.NewEngine(scoring.WithPerfectMultipliers(map[string]float64{
				"tutorial": 0.5,
			}))
			So(engine.PerfectMultiplier(model.ModeTutorial), ShouldEqual, 1.5)
		})
	})
}
