// Package catalog holds the static element table, the progression
// threshold chain, and the per-period game-mode unlock table.
//
// All three are validated together at construction time so that lookups
// never have to defend against gaps at runtime.
package catalog

import (
	"fmt"
	"sort"

	"github.com/isotopelab/isotope/internal/domain/model"
)

// Element is an immutable catalog record.
type Element struct {
	Symbol       string  `yaml:"symbol" json:"symbol"`
	Name         string  `yaml:"name" json:"name"`
	AtomicNumber int     `yaml:"atomic_number" json:"atomicNumber"`
	AtomicWeight float64 `yaml:"atomic_weight" json:"atomicWeight"` // display only
	Period       int     `yaml:"period" json:"period"`
	Group        int     `yaml:"group" json:"group"`
	Description  string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Threshold is an immutable advancement rule between consecutive elements.
type Threshold struct {
	From            string `yaml:"from"`
	To              string `yaml:"to"`
	PuzzlesRequired int    `yaml:"puzzles_required"`
	UnlocksFeature  string `yaml:"unlocks_feature,omitempty"`
}

// Catalog bundles the validated static data.
type Catalog struct {
	elements    []Element
	bySymbol    map[string]Element
	byFrom      map[string]Threshold
	periodGames map[int][]model.GameMode
}

// New validates the raw data and builds a Catalog. Validation rules:
// atomic numbers are contiguous from 1, periods are non-decreasing,
// thresholds form a single chain covering every consecutive pair, and the
// unlock table covers periods 1..MaxPeriod with known, non-duplicate modes.
func New(elements []Element, thresholds []Threshold, periodGames map[int][]model.GameMode) (*Catalog, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: empty element table", ErrBadCatalog)
	}

	sorted := make([]Element, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AtomicNumber < sorted[j].AtomicNumber })

	bySymbol := make(map[string]Element, len(sorted))
	for i, e := range sorted {
		if e.AtomicNumber != i+1 {
			return nil, fmt.Errorf("%w: atomic numbers not contiguous at %q (got %d, want %d)",
				ErrBadCatalog, e.Symbol, e.AtomicNumber, i+1)
		}
		if e.Symbol == "" {
			return nil, fmt.Errorf("%w: element %d has no symbol", ErrBadCatalog, e.AtomicNumber)
		}
		if _, dup := bySymbol[e.Symbol]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrBadCatalog, e.Symbol)
		}
		if i > 0 && e.Period < sorted[i-1].Period {
			return nil, fmt.Errorf("%w: period decreases at %q", ErrBadCatalog, e.Symbol)
		}
		bySymbol[e.Symbol] = e
	}

	byFrom := make(map[string]Threshold, len(thresholds))
	for _, t := range thresholds {
		from, ok := bySymbol[t.From]
		if !ok {
			return nil, fmt.Errorf("%w: threshold from unknown element %q", ErrBadCatalog, t.From)
		}
		to, ok := bySymbol[t.To]
		if !ok {
			return nil, fmt.Errorf("%w: threshold to unknown element %q", ErrBadCatalog, t.To)
		}
		if to.AtomicNumber != from.AtomicNumber+1 {
			return nil, fmt.Errorf("%w: threshold %s->%s is not a consecutive pair", ErrBadCatalog, t.From, t.To)
		}
		if t.PuzzlesRequired <= 0 {
			return nil, fmt.Errorf("%w: threshold %s->%s requires %d puzzles", ErrBadCatalog, t.From, t.To, t.PuzzlesRequired)
		}
		if _, dup := byFrom[t.From]; dup {
			return nil, fmt.Errorf("%w: duplicate threshold from %q", ErrBadCatalog, t.From)
		}
		byFrom[t.From] = t
	}
	// The chain must cover every consecutive pair up to the last element.
	for _, e := range sorted[:len(sorted)-1] {
		if _, ok := byFrom[e.Symbol]; !ok {
			return nil, fmt.Errorf("%w: missing threshold from %q", ErrBadCatalog, e.Symbol)
		}
	}

	maxPeriod := sorted[len(sorted)-1].Period
	games := make(map[int][]model.GameMode, len(periodGames))
	for period, modes := range periodGames {
		seen := make(map[model.GameMode]bool, len(modes))
		for _, m := range modes {
			if !m.Valid() {
				return nil, fmt.Errorf("%w: unknown game mode %q for period %d", ErrBadCatalog, m, period)
			}
			if seen[m] {
				return nil, fmt.Errorf("%w: duplicate game mode %q for period %d", ErrBadCatalog, m, period)
			}
			seen[m] = true
		}
		games[period] = append([]model.GameMode(nil), modes...)
	}
	for p := 1; p <= maxPeriod; p++ {
		if len(games[p]) == 0 {
			return nil, fmt.Errorf("%w: no game modes configured for period %d", ErrBadCatalog, p)
		}
	}

	return &Catalog{
		elements:    sorted,
		bySymbol:    bySymbol,
		byFrom:      byFrom,
		periodGames: games,
	}, nil
}

// First returns the first catalog entry.
func (c *Catalog) First() Element {
	return c.elements[0]
}

// MaxAtomicNumber returns the last catalog entry's atomic number.
func (c *Catalog) MaxAtomicNumber() int {
	return c.elements[len(c.elements)-1].AtomicNumber
}

// BySymbol looks up an element by its symbol. Unknown symbols are a
// programmer/data error and surface as ErrUnknownElement.
func (c *Catalog) BySymbol(symbol string) (Element, error) {
	e, ok := c.bySymbol[symbol]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}
	return e, nil
}

// ByAtomicNumber looks up an element by atomic number.
func (c *Catalog) ByAtomicNumber(n int) (Element, bool) {
	if n < 1 || n > len(c.elements) {
		return Element{}, false
	}
	return c.elements[n-1], true
}

// Next returns the element following the given symbol, or ok=false when
// the symbol names the last catalog entry.
func (c *Catalog) Next(symbol string) (Element, bool, error) {
	cur, err := c.BySymbol(symbol)
	if err != nil {
		return Element{}, false, err
	}
	next, ok := c.ByAtomicNumber(cur.AtomicNumber + 1)
	return next, ok, nil
}

// ThresholdFrom returns the advancement rule leaving the given element.
// ok=false means advancement is blocked by missing configuration.
func (c *Catalog) ThresholdFrom(symbol string) (Threshold, bool) {
	t, ok := c.byFrom[symbol]
	return t, ok
}

// RequiredBefore sums puzzles_required over every threshold whose target
// element sits below the given atomic number. Only meaningful for the
// strict linear chain enforced by New.
func (c *Catalog) RequiredBefore(atomicNumber int) int {
	total := 0
	for _, t := range c.byFrom {
		if to, ok := c.bySymbol[t.To]; ok && to.AtomicNumber < atomicNumber {
			total += t.PuzzlesRequired
		}
	}
	return total
}

// PeriodElements returns all elements sharing a period, in catalog order.
func (c *Catalog) PeriodElements(period int) []Element {
	var out []Element
	for _, e := range c.elements {
		if e.Period == period {
			out = append(out, e)
		}
	}
	return out
}

// PeriodGames returns the game modes unlocked at a period. Unknown periods
// yield nil; callers treat that as "nothing to unlock".
func (c *Catalog) PeriodGames(period int) []model.GameMode {
	modes, ok := c.periodGames[period]
	if !ok {
		return nil
	}
	return append([]model.GameMode(nil), modes...)
}

// HighestPeriodUpTo scans the catalog up to the given atomic number and
// returns the highest period value seen.
func (c *Catalog) HighestPeriodUpTo(atomicNumber int) int {
	highest := 0
	for _, e := range c.elements {
		if e.AtomicNumber > atomicNumber {
			break
		}
		if e.Period > highest {
			highest = e.Period
		}
	}
	return highest
}

// Elements returns the full ordered element table.
func (c *Catalog) Elements() []Element {
	return append([]Element(nil), c.elements...)
}
