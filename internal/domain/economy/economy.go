// Package economy maintains per-player electron balances and an
// append-only transaction ledger.
//
// Policy violations (non-positive amounts, overdrafts) are not errors:
// they are refused with a false result and no mutation.
package economy

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// Default reward configuration constants.
const (
	defaultBaseReward        = 10
	defaultPerfectMultiplier = 1.5
)

// Reward is the computed electron payout for a puzzle completion.
type Reward struct {
	Electrons            int     `json:"electrons"`
	Base                 int     `json:"base"`
	DifficultyMultiplier float64 `json:"difficultyMultiplier"`
	PerfectApplied       bool    `json:"perfectApplied"`
}

// Ledger provides balance and transaction history access per player.
// Each player's slot is fully isolated from every other player's.
type Ledger interface {
	// Balance returns the current balance, 0 for unknown players.
	Balance(ctx context.Context, playerID string) int

	// Initialize sets a player's balance, clamping negative input to 0,
	// and resets the player's transaction history.
	Initialize(ctx context.Context, playerID string, amount int)

	// Add credits electrons. Returns false without mutation when the
	// amount is not positive.
	Add(ctx context.Context, playerID string, amount int, source model.TransactionSource, description string) bool

	// Remove debits electrons. Returns false without mutation when the
	// amount is not positive or exceeds the current balance.
	Remove(ctx context.Context, playerID string, amount int, source model.TransactionSource, description string) bool

	// History returns the player's transactions in chronological order.
	// Unknown players yield an empty list, never nil or an error.
	History(ctx context.Context, playerID string) []model.ElectronTransaction

	// CalculatePuzzleReward computes the payout for a puzzle completion.
	CalculatePuzzleReward(isPerfect bool, difficulty model.Difficulty) Reward
}

// account holds one player's balance and ledger.
type account struct {
	balance int
	history []model.ElectronTransaction
}

// InMemoryLedger implements Ledger with a mutex-guarded map store.
type InMemoryLedger struct {
	mu       sync.RWMutex
	accounts map[string]*account

	baseReward        int
	perfectMultiplier float64
	difficultyFactors map[model.Difficulty]float64
	now               func() time.Time
}

// NewInMemoryLedger creates a new in-memory ledger with configuration options.
func NewInMemoryLedger(opts ...Option) *InMemoryLedger {
	l := &InMemoryLedger{
		accounts:          make(map[string]*account),
		baseReward:        defaultBaseReward,
		perfectMultiplier: defaultPerfectMultiplier,
		difficultyFactors: map[model.Difficulty]float64{
			model.DifficultyEasy:   1.0,
			model.DifficultyMedium: 1.5,
			model.DifficultyHard:   2.0,
		},
		now: time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Balance returns the current balance, 0 for unknown players.
func (l *InMemoryLedger) Balance(_ context.Context, playerID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[playerID]
	if !ok {
		return 0
	}
	return acct.balance
}

// Initialize sets a player's balance and resets the ledger slot.
func (l *InMemoryLedger) Initialize(_ context.Context, playerID string, amount int) {
	if amount < 0 {
		amount = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts[playerID] = &account{balance: amount}
}

// Add credits electrons and appends an earn entry.
func (l *InMemoryLedger) Add(_ context.Context, playerID string, amount int, source model.TransactionSource, description string) bool {
	if amount <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.account(playerID)
	acct.balance += amount
	acct.history = append(acct.history, model.ElectronTransaction{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Amount:      amount,
		Source:      source,
		Timestamp:   l.now(),
		Balance:     acct.balance,
		Description: description,
	})

	metrics.RecordElectronsEarned(amount)
	return true
}

// Remove debits electrons and appends a spend entry. Overdrafts are
// refused: the balance never goes negative.
func (l *InMemoryLedger) Remove(_ context.Context, playerID string, amount int, source model.TransactionSource, description string) bool {
	if amount <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.account(playerID)
	if amount > acct.balance {
		metrics.RecordOverdraftRefused()
		return false
	}

	acct.balance -= amount
	acct.history = append(acct.history, model.ElectronTransaction{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Amount:      -amount,
		Source:      source,
		Timestamp:   l.now(),
		Balance:     acct.balance,
		Description: description,
	})

	metrics.RecordElectronsSpent(amount)
	return true
}

// History returns the player's transactions in chronological order.
func (l *InMemoryLedger) History(_ context.Context, playerID string) []model.ElectronTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[playerID]
	if !ok {
		return []model.ElectronTransaction{}
	}
	out := make([]model.ElectronTransaction, len(acct.history))
	copy(out, acct.history)
	return out
}

// CalculatePuzzleReward computes the payout: base reward scaled by the
// difficulty factor, times the perfect multiplier when applicable.
func (l *InMemoryLedger) CalculatePuzzleReward(isPerfect bool, difficulty model.Difficulty) Reward {
	factor, ok := l.difficultyFactors[difficulty]
	if !ok {
		factor = 1.0
	}

	electrons := float64(l.baseReward) * factor
	if isPerfect {
		electrons *= l.perfectMultiplier
	}

	return Reward{
		Electrons:            int(math.Round(electrons)),
		Base:                 l.baseReward,
		DifficultyMultiplier: factor,
		PerfectApplied:       isPerfect,
	}
}

// account returns the player's slot, creating it on first touch.
// Must be called with l.mu held.
func (l *InMemoryLedger) account(playerID string) *account {
	acct, ok := l.accounts[playerID]
	if !ok {
		acct = &account{}
		l.accounts[playerID] = acct
	}
	return acct
}
