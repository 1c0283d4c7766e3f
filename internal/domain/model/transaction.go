package model

import "time"

// TransactionSource is the closed set of electron transaction origins.
type TransactionSource string

const (
	SourcePuzzleReward      TransactionSource = "puzzle_reward"
	SourceAchievementReward TransactionSource = "achievement_reward"
	SourcePurchase          TransactionSource = "purchase"
	SourceInitialGrant      TransactionSource = "initial_grant"
	SourceAdjustment        TransactionSource = "adjustment"
)

// Valid reports whether the source is one of the closed set.
func (s TransactionSource) Valid() bool {
	switch s {
	case SourcePuzzleReward, SourceAchievementReward, SourcePurchase, SourceInitialGrant, SourceAdjustment:
		return true
	}
	return false
}

// ElectronTransaction is an immutable ledger entry. Amount is signed:
// positive is an earn, negative is a spend. Balance is the resulting
// balance after the transaction was applied.
type ElectronTransaction struct {
	ID          string            `json:"id"`
	PlayerID    string            `json:"playerId"`
	Amount      int               `json:"amount"`
	Source      TransactionSource `json:"source"`
	Timestamp   time.Time         `json:"timestamp"`
	Balance     int               `json:"balance"`
	Description string            `json:"description,omitempty"`
}
