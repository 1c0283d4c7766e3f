package completions_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	completions "github.com/isotopelab/isotope/internal/domain/completions"
)

func TestFirstCompletion(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		ctx := context.Background()
		tracker := completions.NewInMemoryTracker()

		Convey("Then the first completion of a puzzle reports true", func() {
			So(tracker.FirstCompletion(ctx, "puzzle-1"), ShouldBeTrue)
			So(tracker.Size(), ShouldEqual, 1)
		})

		Convey("Then repeats of the same puzzle report false", func() {
			So(tracker.FirstCompletion(ctx, "puzzle-1"), ShouldBeTrue)
			So(tracker.FirstCompletion(ctx, "puzzle-1"), ShouldBeFalse)
			So(tracker.FirstCompletion(ctx, "puzzle-1"), ShouldBeFalse)
			So(tracker.Size(), ShouldEqual, 1)
		})

		Convey("Then distinct puzzles are tracked independently", func() {
			So(tracker.FirstCompletion(ctx, "puzzle-1"), ShouldBeTrue)
			So(tracker.FirstCompletion(ctx, "puzzle-2"), ShouldBeTrue)
			So(tracker.Size(), ShouldEqual, 2)
		})

		Convey("Then an empty puzzle id is never a first completion", func() {
			So(tracker.FirstCompletion(ctx, ""), ShouldBeFalse)
			So(tracker.Size(), ShouldEqual, 0)
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a tracker bounded to three puzzles", t, func() {
		ctx := context.Background()
		tracker := completions.NewInMemoryTracker(completions.WithMaxSize(3))

		for i := 0; i < 3; i++ {
			So(tracker.FirstCompletion(ctx, fmt.Sprintf("puzzle-%d", i)), ShouldBeTrue)
		}

		Convey("When a fourth puzzle arrives the oldest is evicted", func() {
			So(tracker.FirstCompletion(ctx, "puzzle-3"), ShouldBeTrue)
			So(tracker.Size(), ShouldEqual, 3)

			// puzzle-0 was forgotten, so it counts as first again.
			So(tracker.FirstCompletion(ctx, "puzzle-0"), ShouldBeTrue)
			// the newer ones are still remembered.
			So(tracker.FirstCompletion(ctx, "puzzle-2"), ShouldBeFalse)
			So(tracker.FirstCompletion(ctx, "puzzle-3"), ShouldBeFalse)
		})
	})
}

func TestFlawlessStreak(t *testing.T) {
	Convey("Given a fresh tracker", t, func() {
		ctx := context.Background()
		tracker := completions.NewInMemoryTracker()

		Convey("Then the streak starts at zero", func() {
			So(tracker.Streak(), ShouldEqual, 0)
		})

		Convey("When flawless solves accumulate the streak grows", func() {
			tracker.RecordOutcome(ctx, true)
			tracker.RecordOutcome(ctx, true)
			tracker.RecordOutcome(ctx, true)
			So(tracker.Streak(), ShouldEqual, 3)
		})

		Convey("When a flawed solve lands the streak resets", func() {
			tracker.RecordOutcome(ctx, true)
			tracker.RecordOutcome(ctx, true)
			tracker.RecordOutcome(ctx, false)
			So(tracker.Streak(), ShouldEqual, 0)

			tracker.RecordOutcome(ctx, true)
			So(tracker.Streak(), ShouldEqual, 1)
		})
	})
}
