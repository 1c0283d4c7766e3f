// Command isotope-sim drives the progression engine in process: it
// completes a configurable number of simulated puzzles against an
// in-memory profile and prints what the player earned. Useful for
// tuning thresholds and reward tables without a UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/isotopelab/isotope/internal/adapters/transition"
	app "github.com/isotopelab/isotope/internal/app"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/progression"
	"github.com/isotopelab/isotope/pkg/logger"
)

func main() {
	var (
		puzzles     = flag.Int("puzzles", 100, "number of puzzles to simulate")
		perfectRate = flag.Float64("perfect-rate", 0.3, "fraction of puzzles solved perfectly")
		seed        = flag.Int64("seed", 1, "random seed")
		verbose     = flag.Bool("verbose", false, "print every transition")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	ctx := context.Background()
	svc := app.New(
		app.WithStorageDriver("memory"),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	if *verbose {
		unsubscribe := svc.OnTransition(func(t transition.Transition) {
			fmt.Printf("  transition %s %s %s->%s\n", t.State, t.Event.Type, t.Event.FromElement, t.Event.ToElement)
		})
		defer unsubscribe()
	}

	rng := rand.New(rand.NewSource(*seed))
	difficulties := []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}

	advances := 0
	for i := 0; i < *puzzles; i++ {
		p := svc.Profile(ctx)

		// Play a random unlocked mode; the set grows as periods complete.
		mode := p.UnlockedGames[rng.Intn(len(p.UnlockedGames))]
		completion := app.PuzzleCompletion{
			PuzzleID:         fmt.Sprintf("sim-%d", i),
			Mode:             mode,
			Difficulty:       difficulties[rng.Intn(len(difficulties))],
			Perfect:          rng.Float64() < *perfectRate,
			TimeLimitSeconds: 60,
			TimeTakenSeconds: 10 + rng.Float64()*50,
		}

		result, err := svc.CompletePuzzle(ctx, completion)
		if err != nil {
			os.Stderr.WriteString("completion failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		for _, e := range result.Events {
			if e.Type == progression.EventElementAdvance {
				advances++
				fmt.Printf("puzzle %3d: advanced %s -> %s\n", i, e.FromElement, e.ToElement)
			}
		}

		// Completed transitions don't need a UI to drain them here.
		for _, t := range result.Transitions {
			svc.CompleteTransition(ctx, t.ID)
		}
	}

	final := svc.Profile(ctx)
	progress, err := svc.Progress(ctx)
	if err != nil {
		os.Stderr.WriteString("progress read failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("puzzles played:    %d\n", *puzzles)
	fmt.Printf("element advances:  %d\n", advances)
	fmt.Printf("current element:   %s (%s, #%d)\n", final.CurrentElement, progress.CurrentElement.Name, final.Level.AtomicNumber)
	fmt.Printf("atomic weight:     %d/%d (%.0f%%)\n", progress.PuzzlesCompleted, progress.PuzzlesRequired, progress.Percent)
	fmt.Printf("game lab:          %d\n", final.Level.GameLab)
	fmt.Printf("electrons:         %d\n", svc.Balance(ctx))
	fmt.Printf("unlocked modes:    %d\n", len(final.UnlockedGames))
}
