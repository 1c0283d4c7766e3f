package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/isotopelab/isotope/internal/adapters/storage"
	"github.com/isotopelab/isotope/internal/adapters/transition"
	service "github.com/isotopelab/isotope/internal/app"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/progression"
	"github.com/isotopelab/isotope/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{
		service.WithStore(storage.NewMemoryStore()),
		service.WithClock(func() time.Time {
			return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		}),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestCompletePuzzleValidation(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithStore(storage.NewMemoryStore()))

		Convey("Then completions are refused", func() {
			_, err := svc.CompletePuzzle(context.Background(), service.PuzzleCompletion{
				PuzzleID: "p1", Mode: model.ModeTutorial, Difficulty: model.DifficultyEasy,
			})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("Then a completion without a puzzle id is invalid", func() {
			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				Mode: model.ModeTutorial, Difficulty: model.DifficultyEasy,
			})
			So(errors.Is(err, service.ErrInvalidCompletion), ShouldBeTrue)
		})

		Convey("Then an unknown mode is invalid", func() {
			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID: "p1", Mode: "chess", Difficulty: model.DifficultyEasy,
			})
			So(errors.Is(err, service.ErrInvalidCompletion), ShouldBeTrue)
		})

		Convey("Then an unknown difficulty is invalid", func() {
			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID: "p1", Mode: model.ModeTutorial, Difficulty: "brutal",
			})
			So(errors.Is(err, service.ErrInvalidCompletion), ShouldBeTrue)
		})

		Convey("Then a locked mode is refused", func() {
			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID: "p1", Mode: model.ModeSymbolQuiz, Difficulty: model.DifficultyEasy,
			})
			So(errors.Is(err, service.ErrModeLocked), ShouldBeTrue)
		})
	})
}

func TestCompletePuzzlePipeline(t *testing.T) {
	Convey("Given a fresh player", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("When an ordinary tutorial puzzle is completed", func() {
			res, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID:   "tut-1",
				Mode:       model.ModeTutorial,
				Difficulty: model.DifficultyEasy,
			})
			So(err, ShouldBeNil)

			Convey("Then the first-completion bonus applies but the streak stays cold", func() {
				So(res.BasePoints, ShouldEqual, 1)
				So(res.Points, ShouldEqual, 1) // round(1 * 1.25)
				So(res.FirstCompletion, ShouldBeTrue)
				So(res.Streak, ShouldEqual, 0)
			})

			Convey("Then the electron payout lands on the balance", func() {
				So(res.Reward.Electrons, ShouldEqual, 10)
				So(res.Reward.PerfectApplied, ShouldBeFalse)
				So(res.Balance, ShouldEqual, 10)
				So(svc.Balance(ctx), ShouldEqual, 10)
			})

			Convey("Then the atomic weight accrued and was announced", func() {
				So(res.Profile.Level.AtomicWeight, ShouldEqual, 1)
				So(res.Events, ShouldHaveLength, 1)
				So(res.Events[0].Type, ShouldEqual, progression.EventAtomicWeightAwarded)
				So(res.Transitions, ShouldHaveLength, 1)
				So(res.Saved, ShouldBeTrue)
			})

			Convey("Then replaying the same puzzle is no longer a first completion", func() {
				again, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
					PuzzleID:   "tut-1",
					Mode:       model.ModeTutorial,
					Difficulty: model.DifficultyEasy,
				})
				So(err, ShouldBeNil)
				So(again.FirstCompletion, ShouldBeFalse)
			})
		})

		Convey("When a perfect element match is completed", func() {
			res, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID:   "match-1",
				Mode:       model.ModeElementMatch,
				Difficulty: model.DifficultyEasy,
				Perfect:    true,
			})
			So(err, ShouldBeNil)

			Convey("Then the streak and first-completion bonuses stack", func() {
				So(res.BasePoints, ShouldEqual, 3) // round(2 * 1.6)
				So(res.Streak, ShouldEqual, 1)
				So(res.Points, ShouldEqual, 4) // round(3 * 1.35)
			})

			Convey("Then four points advance hydrogen to helium", func() {
				So(res.Profile.CurrentElement, ShouldEqual, "He")
				So(res.Profile.Level.AtomicNumber, ShouldEqual, 2)
				So(res.Profile.Level.AtomicWeight, ShouldEqual, 0)

				So(res.Events, ShouldHaveLength, 2)
				So(res.Events[1].Type, ShouldEqual, progression.EventElementAdvance)
				So(res.Events[1].ToElement, ShouldEqual, "He")
				So(res.Transitions, ShouldHaveLength, 2)
			})

			Convey("Then the perfect payout is larger", func() {
				So(res.Reward.Electrons, ShouldEqual, 15)
				So(res.Reward.PerfectApplied, ShouldBeTrue)
			})

			Convey("Then the advance waits in the transition queue", func() {
				active := svc.ActiveTransitions(ctx)
				So(active, ShouldHaveLength, 2)
				So(active[0].State, ShouldEqual, transition.StatePending)

				svc.StartTransition(ctx, active[0].ID)
				svc.CompleteTransition(ctx, active[0].ID)
				svc.CompleteTransition(ctx, active[1].ID)
				So(svc.ActiveTransitions(ctx), ShouldBeEmpty)
			})
		})

		Convey("When a subscriber is attached it sees every announcement", func() {
			var seen []transition.Transition
			unsubscribe := svc.OnTransition(func(tr transition.Transition) {
				seen = append(seen, tr)
			})
			defer unsubscribe()

			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID:   "tut-2",
				Mode:       model.ModeTutorial,
				Difficulty: model.DifficultyEasy,
			})
			So(err, ShouldBeNil)
			So(seen, ShouldHaveLength, 1)
			So(seen[0].Event.Type, ShouldEqual, progression.EventAtomicWeightAwarded)
		})
	})

	Convey("Given a service with reduced motion", t, func() {
		ctx := context.Background()
		svc := startService(t, service.WithReducedMotion(true))

		Convey("Then completions leave no pending transitions behind", func() {
			res, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID:   "tut-1",
				Mode:       model.ModeTutorial,
				Difficulty: model.DifficultyEasy,
			})
			So(err, ShouldBeNil)
			So(res.Transitions[0].State, ShouldEqual, transition.StateCompleted)
			So(svc.ActiveTransitions(ctx), ShouldBeEmpty)
		})
	})
}

func TestEconomyFacade(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("Then a fresh player cannot spend", func() {
			_, ok := svc.SpendElectrons(ctx, 5, "hint")
			So(ok, ShouldBeFalse)
			So(svc.Balance(ctx), ShouldEqual, 0)
		})

		Convey("When electrons are awarded out of band", func() {
			p, ok := svc.AwardElectrons(ctx, 12, "daily bonus")
			So(ok, ShouldBeTrue)
			So(p.Electrons, ShouldEqual, 12)
			So(svc.Balance(ctx), ShouldEqual, 12)

			Convey("And a non-positive award is refused", func() {
				_, ok := svc.AwardElectrons(ctx, 0, "nothing")
				So(ok, ShouldBeFalse)
				So(svc.Balance(ctx), ShouldEqual, 12)
			})

			Convey("And the adjustment shows up in the history", func() {
				history := svc.TransactionHistory(ctx, 0)
				So(history, ShouldHaveLength, 1)
				So(history[0].Source, ShouldEqual, model.SourceAdjustment)
			})
		})

		Convey("When an achievement with a reward is granted", func() {
			p, granted := svc.GrantAchievement(ctx, model.Achievement{
				ID:             "first-steps",
				Name:           "First Steps",
				Category:       model.CategoryProgression,
				ElectronReward: 5,
			})
			So(granted, ShouldBeTrue)

			Convey("Then the reward is paid and persisted", func() {
				So(p.Electrons, ShouldEqual, 5)
				So(svc.Balance(ctx), ShouldEqual, 5)
				So(svc.Profile(ctx).HasAchievement("first-steps"), ShouldBeTrue)
			})

			Convey("Then granting it again pays nothing", func() {
				_, granted := svc.GrantAchievement(ctx, model.Achievement{
					ID: "first-steps", Name: "First Steps", ElectronReward: 5,
				})
				So(granted, ShouldBeFalse)
				So(svc.Balance(ctx), ShouldEqual, 5)
			})

			Convey("Then spending within the balance works", func() {
				p, ok := svc.SpendElectrons(ctx, 3, "hint")
				So(ok, ShouldBeTrue)
				So(p.Electrons, ShouldEqual, 2)

				Convey("And overdrafts are refused without side effects", func() {
					_, ok := svc.SpendElectrons(ctx, 10, "skin")
					So(ok, ShouldBeFalse)
					So(svc.Balance(ctx), ShouldEqual, 2)
				})
			})
		})
	})
}

func TestTransactionHistory(t *testing.T) {
	Convey("Given a service with a short history cap", t, func() {
		ctx := context.Background()
		svc := startService(t, service.WithMaxHistoryLimit(2))

		for i := 0; i < 3; i++ {
			_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
				PuzzleID:   fmt.Sprintf("tut-%d", i),
				Mode:       model.ModeTutorial,
				Difficulty: model.DifficultyEasy,
			})
			So(err, ShouldBeNil)
		}

		Convey("Then an unbounded request returns the capped tail", func() {
			history := svc.TransactionHistory(ctx, 0)
			So(history, ShouldHaveLength, 2)
			So(history[0].Description, ShouldContainSubstring, "tut-1")
			So(history[1].Description, ShouldContainSubstring, "tut-2")
		})

		Convey("Then a smaller limit is honored", func() {
			history := svc.TransactionHistory(ctx, 1)
			So(history, ShouldHaveLength, 1)
			So(history[0].Description, ShouldContainSubstring, "tut-2")
		})

		Convey("Then an oversized limit falls back to the cap", func() {
			So(svc.TransactionHistory(ctx, 999), ShouldHaveLength, 2)
		})
	})
}

func TestResetProfile(t *testing.T) {
	Convey("Given a player with some progress", t, func() {
		ctx := context.Background()
		svc := startService(t, service.WithStartingElectrons(25))

		_, err := svc.CompletePuzzle(ctx, service.PuzzleCompletion{
			PuzzleID:   "match-1",
			Mode:       model.ModeElementMatch,
			Difficulty: model.DifficultyEasy,
			Perfect:    true,
		})
		So(err, ShouldBeNil)
		So(svc.Profile(ctx).CurrentElement, ShouldEqual, "He")

		Convey("When the profile is reset", func() {
			p := svc.ResetProfile(ctx)

			Convey("Then the player starts over with the seed balance", func() {
				So(p.CurrentElement, ShouldEqual, "H")
				So(p.Level.AtomicWeight, ShouldEqual, 0)
				So(p.Electrons, ShouldEqual, 25)
				So(svc.Balance(ctx), ShouldEqual, 25)
			})
		})
	})
}

func TestProjections(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("Then the catalog is exposed whole", func() {
			elements := svc.Elements(ctx)
			So(elements, ShouldHaveLength, 36)
			So(elements[0].Symbol, ShouldEqual, "H")
		})

		Convey("Then the progress projection starts at zero", func() {
			progress, err := svc.Progress(ctx)
			So(err, ShouldBeNil)
			So(progress.CurrentElement.Symbol, ShouldEqual, "H")
			So(progress.Percent, ShouldEqual, 0)
			So(progress.PuzzlesRequired, ShouldEqual, 4)
		})

		Convey("Then the period projection covers period one", func() {
			period := svc.PeriodProgress(ctx, 1)
			So(period.TotalElements, ShouldEqual, 2)
			So(period.CompletedElements, ShouldEqual, 0)
		})

		Convey("Then jumping elements announces the change", func() {
			var seen []transition.Transition
			defer svc.OnTransition(func(tr transition.Transition) { seen = append(seen, tr) })()

			p, ok := svc.SetCurrentElement(ctx, "Be")
			So(ok, ShouldBeTrue)
			So(p.CurrentElement, ShouldEqual, "Be")
			So(p.Level.AtomicNumber, ShouldEqual, 4)
			So(seen, ShouldHaveLength, 1)
			So(seen[0].Event.Type, ShouldEqual, progression.EventElementAdvance)
			So(seen[0].Event.ToElement, ShouldEqual, "Be")

			Convey("And jumping to the same element stays quiet", func() {
				_, ok := svc.SetCurrentElement(ctx, "Be")
				So(ok, ShouldBeTrue)
				So(seen, ShouldHaveLength, 1)
			})
		})

		Convey("Then a level overwrite sticks", func() {
			p, ok := svc.UpdateLevel(ctx, model.PlayerLevel{AtomicNumber: 1, AtomicWeight: 2})
			So(ok, ShouldBeTrue)
			So(p.Level.AtomicWeight, ShouldEqual, 2)
		})

		Convey("Then the stats snapshot reflects the fresh state", func() {
			stats := svc.GetStats(ctx)
			So(stats.CurrentElement, ShouldEqual, "H")
			So(stats.AtomicNumber, ShouldEqual, 1)
			So(stats.ElementsInCatalog, ShouldEqual, 36)
			So(stats.ProfileSchema, ShouldEqual, model.CurrentSchemaVersion)
			So(stats.TrackedPuzzles, ShouldEqual, 0)
			So(stats.UnlockedGames, ShouldEqual, 2)
			So(stats.ReducedMotionMode, ShouldBeFalse)
		})
	})
}
