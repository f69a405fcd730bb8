package models

import "github.com/shopspring/decimal"

// SettlementRound records one "settle everything" action on a ledger.
// All bills unsettled at that moment were marked settled together.
type SettlementRound struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// LedgerID is the ledger that was settled.
	LedgerID string

	// BillsSettled is how many bills the round closed.
	BillsSettled int

	// AmountSettled is the sum of the amounts of the closed bills.
	AmountSettled decimal.Decimal

	// CreatedBy is the participant who settled up.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the round was recorded.
	CreatedAt int64
}
