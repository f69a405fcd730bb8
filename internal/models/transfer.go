package models

import "github.com/shopspring/decimal"

// Transfer is one recommended payment: From owes To this Amount.
// From and To are never equal.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SpendingStats are the aggregate numbers shown next to the balances.
type SpendingStats struct {
	// TotalSpent sums every bill, settled or not.
	TotalSpent decimal.Decimal

	// MonthlyTotal sums bills that occurred in the reference month.
	MonthlyTotal decimal.Decimal

	// CategoryTotals has an entry for every category, zero when unused.
	CategoryTotals map[Category]decimal.Decimal
}

// ParticipantSummary is one participant's view of the ledger.
type ParticipantSummary struct {
	ParticipantID string
	Balance       decimal.Decimal // Positive = owed money, Negative = owes money
	Owed          decimal.Decimal // Sum of transfers to this participant
	Owes          decimal.Decimal // Sum of transfers from this participant
	Net           decimal.Decimal // Owed - Owes
}
