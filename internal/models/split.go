package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill represents one recorded expense in a ledger.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// LedgerID is the ledger this bill belongs to.
	LedgerID string

	// Title is the human-readable name for the bill (e.g., "Rent", "Groceries run").
	Title string

	// Amount is the full bill amount paid by the payer. Always positive.
	Amount decimal.Decimal

	// Category classifies the bill for spending stats.
	Category Category

	// PayerID is the participant who paid the bill.
	PayerID string

	// OccurredAt is when the expense happened. Monthly stats are bucketed on it.
	OccurredAt time.Time

	// Splits distribute the bill amount over participants.
	// For an equal split every roster participant gets a share.
	Splits []Split

	// IsSettled marks the bill as resolved. Settled bills are excluded from balances.
	IsSettled bool

	// CreatedBy is the participant who recorded the bill.
	CreatedBy string
}

// Split is one participant's owed share of a bill.
type Split struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// SplitTotal returns the sum of all split amounts.
func (b *Bill) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Splits {
		total = total.Add(s.Amount)
	}
	return total
}
