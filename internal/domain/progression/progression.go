// Package progression implements the element advancement state machine.
//
// The engine is pure over the catalog: every operation takes a profile
// value and returns a modified copy plus the ordered events describing
// what happened. Persistence and announcement are the caller's job.
package progression

import (
	"fmt"

	"github.com/isotopelab/isotope/internal/domain/catalog"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// Engine advances players through the element catalog.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a progression engine over a validated catalog.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// CanAdvanceElement reports whether the profile has enough atomic weight
// to advance past its current element. The last catalog element is
// terminal: advancement from it is always false.
func (e *Engine) CanAdvanceElement(p model.PlayerProfile) (bool, error) {
	cur, err := e.catalog.BySymbol(p.CurrentElement)
	if err != nil {
		return false, err
	}
	if cur.AtomicNumber >= e.catalog.MaxAtomicNumber() {
		return false, nil
	}

	threshold, ok := e.catalog.ThresholdFrom(cur.Symbol)
	if !ok {
		// Validated catalogs always have the threshold; a miss means the
		// engine was built around a different table than the profile.
		return false, fmt.Errorf("%w: no threshold from %q", catalog.ErrUnknownElement, cur.Symbol)
	}
	return p.Level.AtomicWeight >= threshold.PuzzlesRequired, nil
}

// AdvanceElement performs a single advancement step when the profile is
// eligible. Ineligible profiles are returned unchanged with no events.
//
// Advancing consumes the threshold's puzzle requirement from the atomic
// weight, so excess weight carries toward the next element. Crossing a
// period boundary additionally completes the old period, increments the
// game lab, and unlocks the new period's game modes.
func (e *Engine) AdvanceElement(p model.PlayerProfile) (model.PlayerProfile, []Event, error) {
	ok, err := e.CanAdvanceElement(p)
	if err != nil {
		return p, nil, err
	}
	if !ok {
		return p, nil, nil
	}

	cur, err := e.catalog.BySymbol(p.CurrentElement)
	if err != nil {
		return p, nil, err
	}
	threshold, _ := e.catalog.ThresholdFrom(cur.Symbol)
	next, hasNext, err := e.catalog.Next(cur.Symbol)
	if err != nil || !hasNext {
		return p, nil, err
	}

	out := p.Clone()
	out.CurrentElement = next.Symbol
	out.Level.AtomicNumber = next.AtomicNumber
	out.Level.AtomicWeight = p.Level.AtomicWeight - threshold.PuzzlesRequired
	if out.Level.AtomicWeight < 0 {
		out.Level.AtomicWeight = 0
	}

	events := []Event{{
		Type:        EventElementAdvance,
		FromElement: cur.Symbol,
		ToElement:   next.Symbol,
	}}
	metrics.RecordElementAdvance()

	if next.Period > cur.Period {
		out.Level.GameLab++
		events = append(events, Event{
			Type:   EventPeriodComplete,
			Period: cur.Period,
			Modes:  e.catalog.PeriodGames(next.Period),
		})
		metrics.RecordPeriodCompletion()

		unlocked, unlockEvents := e.unlockPeriodGames(out, next.Period)
		out = unlocked
		events = append(events, unlockEvents...)
	}

	return out, events, nil
}

// AwardAtomicWeight credits puzzle points and runs the advancement
// cascade: as long as the accumulated weight clears the next threshold,
// the profile keeps advancing. Non-positive amounts are a silent no-op.
func (e *Engine) AwardAtomicWeight(p model.PlayerProfile, amount int) (model.PlayerProfile, []Event, error) {
	if amount <= 0 {
		return p, nil, nil
	}

	out := p.Clone()
	out.Level.AtomicWeight += amount
	events := []Event{{
		Type:   EventAtomicWeightAwarded,
		Amount: amount,
	}}

	for {
		ok, err := e.CanAdvanceElement(out)
		if err != nil {
			return p, nil, err
		}
		if !ok {
			break
		}
		advanced, advanceEvents, err := e.AdvanceElement(out)
		if err != nil {
			return p, nil, err
		}
		out = advanced
		events = append(events, advanceEvents...)
	}

	return out, events, nil
}

// UnlockPeriodGames adds the given period's game modes to the profile.
// Periods outside the unlock table and already-unlocked modes are silent
// no-ops, so replays never duplicate entries.
func (e *Engine) UnlockPeriodGames(p model.PlayerProfile, period int) (model.PlayerProfile, []Event) {
	return e.unlockPeriodGames(p.Clone(), period)
}

// unlockPeriodGames mutates the given copy in place. Callers own the copy.
func (e *Engine) unlockPeriodGames(out model.PlayerProfile, period int) (model.PlayerProfile, []Event) {
	var events []Event
	for _, mode := range e.catalog.PeriodGames(period) {
		if out.HasGameMode(mode) {
			continue
		}
		out.UnlockedGames = append(out.UnlockedGames, mode)
		events = append(events, Event{
			Type:   EventGameModeUnlock,
			Period: period,
			Mode:   mode,
		})
		metrics.RecordGameModeUnlock()
	}
	return out, events
}

// PlayerProgress is the projection shown on the progression screen.
type PlayerProgress struct {
	CurrentElement        catalog.Element  `json:"currentElement"`
	NextElement           *catalog.Element `json:"nextElement,omitempty"`
	PuzzlesCompleted      int              `json:"puzzlesCompleted"`
	PuzzlesRequired       int              `json:"puzzlesRequired"`
	Percent               float64          `json:"percent"`
	TotalPuzzlesCompleted int              `json:"totalPuzzlesCompleted"`
	GameLab               int              `json:"gameLab"`
	MaxAtomicNumber       int              `json:"maxAtomicNumber"`
	PeriodElements        []string         `json:"periodElements"`
	HighestPeriod         int              `json:"highestPeriod"`
}

// Progress computes the current-element progress projection.
//
// Percent is clamped to [0, 100] and reads 100 at the terminal element,
// where there is no next threshold to work toward.
func (e *Engine) Progress(p model.PlayerProfile) (PlayerProgress, error) {
	cur, err := e.catalog.BySymbol(p.CurrentElement)
	if err != nil {
		return PlayerProgress{}, err
	}

	completed := p.Level.AtomicWeight
	if completed < 0 {
		completed = 0
	}
	// RequiredBefore counts targets strictly below the argument, so pass
	// the next atomic number to include the threshold consumed entering
	// the current element.
	total := e.catalog.RequiredBefore(cur.AtomicNumber+1) + completed
	if total < 0 {
		total = 0
	}

	periodElements := e.catalog.PeriodElements(cur.Period)
	symbols := make([]string, 0, len(periodElements))
	for _, el := range periodElements {
		symbols = append(symbols, el.Symbol)
	}

	out := PlayerProgress{
		CurrentElement:        cur,
		PuzzlesCompleted:      completed,
		TotalPuzzlesCompleted: total,
		GameLab:               p.Level.GameLab,
		MaxAtomicNumber:       e.catalog.MaxAtomicNumber(),
		PeriodElements:        symbols,
		HighestPeriod:         e.catalog.HighestPeriodUpTo(cur.AtomicNumber),
	}

	next, hasNext, err := e.catalog.Next(cur.Symbol)
	if err != nil {
		return PlayerProgress{}, err
	}
	if !hasNext {
		out.Percent = 100
		return out, nil
	}
	out.NextElement = &next

	threshold, ok := e.catalog.ThresholdFrom(cur.Symbol)
	if !ok || threshold.PuzzlesRequired <= 0 {
		out.Percent = 100
		return out, nil
	}
	out.PuzzlesRequired = threshold.PuzzlesRequired

	percent := float64(completed) / float64(threshold.PuzzlesRequired) * 100
	if percent > 100 {
		percent = 100
	}
	out.Percent = percent
	return out, nil
}

// PeriodProgress is the per-period completion projection.
type PeriodProgress struct {
	Period            int     `json:"period"`
	TotalElements     int     `json:"totalElements"`
	CompletedElements int     `json:"completedElements"`
	Percent           float64 `json:"percent"`
}

// PeriodProgressFor computes completion for one period. An element
// counts as completed once the player has advanced past it.
func (e *Engine) PeriodProgressFor(p model.PlayerProfile, period int) PeriodProgress {
	elements := e.catalog.PeriodElements(period)
	out := PeriodProgress{
		Period:        period,
		TotalElements: len(elements),
	}
	for _, el := range elements {
		if el.AtomicNumber < p.Level.AtomicNumber {
			out.CompletedElements++
		}
	}
	if out.TotalElements > 0 {
		out.Percent = float64(out.CompletedElements) / float64(out.TotalElements) * 100
	}
	return out
}
