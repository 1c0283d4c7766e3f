package economy_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	economy "github.com/isotopelab/isotope/internal/domain/economy"
	"github.com/isotopelab/isotope/internal/domain/model"
)

func TestInMemoryLedger(t *testing.T) {
	Convey("Given a fresh ledger", t, func() {
		ctx := context.Background()
		ledger := economy.NewInMemoryLedger()

		Convey("Then unknown players have a zero balance and empty history", func() {
			So(ledger.Balance(ctx, "nobody"), ShouldEqual, 0)
			So(ledger.History(ctx, "nobody"), ShouldBeEmpty)
			So(ledger.History(ctx, "nobody"), ShouldNotBeNil)
		})

		Convey("When a player is initialized", func() {
			ledger.Initialize(ctx, "p1", 50)

			Convey("Then the balance is set and history is clean", func() {
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 50)
				So(ledger.History(ctx, "p1"), ShouldBeEmpty)
			})

			Convey("Then reinitializing resets the slot", func() {
				So(ledger.Add(ctx, "p1", 10, model.SourcePuzzleReward, ""), ShouldBeTrue)
				ledger.Initialize(ctx, "p1", 5)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 5)
				So(ledger.History(ctx, "p1"), ShouldBeEmpty)
			})
		})

		Convey("When initializing with a negative amount it clamps to zero", func() {
			ledger.Initialize(ctx, "p1", -20)
			So(ledger.Balance(ctx, "p1"), ShouldEqual, 0)
		})

		Convey("When adding electrons", func() {
			So(ledger.Add(ctx, "p1", 30, model.SourcePuzzleReward, "puzzle x"), ShouldBeTrue)
			So(ledger.Balance(ctx, "p1"), ShouldEqual, 30)

			Convey("Then non-positive amounts are refused without mutation", func() {
				So(ledger.Add(ctx, "p1", 0, model.SourcePuzzleReward, ""), ShouldBeFalse)
				So(ledger.Add(ctx, "p1", -5, model.SourcePuzzleReward, ""), ShouldBeFalse)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 30)
				So(ledger.History(ctx, "p1"), ShouldHaveLength, 1)
			})

			Convey("Then the history entry carries the running balance", func() {
				So(ledger.Add(ctx, "p1", 20, model.SourceAchievementReward, "badge"), ShouldBeTrue)
				history := ledger.History(ctx, "p1")
				So(history, ShouldHaveLength, 2)
				So(history[0].Amount, ShouldEqual, 30)
				So(history[0].Balance, ShouldEqual, 30)
				So(history[1].Amount, ShouldEqual, 20)
				So(history[1].Balance, ShouldEqual, 50)
				So(history[1].ID, ShouldNotBeEmpty)
				So(history[1].ID, ShouldNotEqual, history[0].ID)
			})
		})

		Convey("When removing electrons", func() {
			ledger.Initialize(ctx, "p1", 40)

			Convey("Then a covered debit succeeds", func() {
				So(ledger.Remove(ctx, "p1", 15, model.SourcePurchase, "hint"), ShouldBeTrue)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 25)
				history := ledger.History(ctx, "p1")
				So(history, ShouldHaveLength, 1)
				So(history[0].Amount, ShouldEqual, -15)
			})

			Convey("Then an overdraft is refused and the balance stays put", func() {
				So(ledger.Remove(ctx, "p1", 41, model.SourcePurchase, "too much"), ShouldBeFalse)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 40)
				So(ledger.History(ctx, "p1"), ShouldBeEmpty)
			})

			Convey("Then the balance can reach exactly zero but never below", func() {
				So(ledger.Remove(ctx, "p1", 40, model.SourcePurchase, "all in"), ShouldBeTrue)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 0)
				So(ledger.Remove(ctx, "p1", 1, model.SourcePurchase, "one more"), ShouldBeFalse)
				So(ledger.Balance(ctx, "p1"), ShouldEqual, 0)
			})

			Convey("Then non-positive debits are refused", func() {
				So(ledger.Remove(ctx, "p1", 0, model.SourcePurchase, ""), ShouldBeFalse)
				So(ledger.Remove(ctx, "p1", -3, model.SourcePurchase, ""), ShouldBeFalse)
			})
		})

		Convey("Then player slots never leak into each other", func() {
			ledger.Initialize(ctx, "p1", 100)
			ledger.Initialize(ctx, "p2", 1)
			So(ledger.Add(ctx, "p2", 9, model.SourcePuzzleReward, ""), ShouldBeTrue)
			So(ledger.Balance(ctx, "p1"), ShouldEqual, 100)
			So(ledger.Balance(ctx, "p2"), ShouldEqual, 10)
			So(ledger.History(ctx, "p1"), ShouldBeEmpty)
		})
	})
}

func TestCalculatePuzzleReward(t *testing.T) {
	Convey("Given the default reward table", t, func() {
		ledger := economy.NewInMemoryLedger()

		Convey("Then difficulty scales the base payout", func() {
			So(ledger.CalculatePuzzleReward(false, model.DifficultyEasy).Electrons, ShouldEqual, 10)
			So(ledger.CalculatePuzzleReward(false, model.DifficultyMedium).Electrons, ShouldEqual, 15)
			So(ledger.CalculatePuzzleReward(false, model.DifficultyHard).Electrons, ShouldEqual, 20)
		})

		Convey("Then a perfect solve multiplies the payout", func() {
			So(ledger.CalculatePuzzleReward(true, model.DifficultyEasy).Electrons, ShouldEqual, 15)
			So(ledger.CalculatePuzzleReward(true, model.DifficultyHard).Electrons, ShouldEqual, 30)
		})

		Convey("Then an unknown difficulty falls back to the base factor", func() {
			r := ledger.CalculatePuzzleReward(false, model.Difficulty("nightmare"))
			So(r.Electrons, ShouldEqual, 10)
			So(r.DifficultyMultiplier, ShouldEqual, 1.0)
		})
	})

	Convey("Given reward option overrides", t, func() {
		ledger := economy.NewInMemoryLedger(
			economy.WithBaseReward(100),
			economy.WithPerfectMultiplier(2),
			economy.WithDifficultyFactor(model.DifficultyHard, 3),
		)

		Convey("Then the overridden table is used", func() {
			r := ledger.CalculatePuzzleReward(true, model.DifficultyHard)
			So(r.Electrons, ShouldEqual, 600)
			So(r.Base, ShouldEqual, 100)
			So(r.PerfectApplied, ShouldBeTrue)
		})
	})
}

func TestLedgerClock(t *testing.T) {
	Convey("Given a ledger with a fixed clock", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		ledger := economy.NewInMemoryLedger(economy.WithClock(func() time.Time { return fixed }))

		Convey("Then transactions are stamped with it", func() {
			So(ledger.Add(ctx, "p1", 10, model.SourceInitialGrant, ""), ShouldBeTrue)
			history := ledger.History(ctx, "p1")
			So(history[0].Timestamp.Equal(fixed), ShouldBeTrue)
		})
	})
}
