package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// SummarizeParticipant builds one participant's view of the suggested
// transfers: what others will pay them, what they will pay others, and the net.
func SummarizeParticipant(balances map[string]decimal.Decimal, transfers []models.Transfer, participantID string) models.ParticipantSummary {
	summary := models.ParticipantSummary{
		ParticipantID: participantID,
		Balance:       balances[participantID],
		Owed:          decimal.Zero,
		Owes:          decimal.Zero,
	}
	for _, t := range transfers {
		if t.To == participantID {
			summary.Owed = summary.Owed.Add(t.Amount)
		}
		if t.From == participantID {
			summary.Owes = summary.Owes.Add(t.Amount)
		}
	}
	summary.Net = summary.Owed.Sub(summary.Owes)
	return summary
}

// UnsettledTotals counts the unsettled bills and sums their amounts.
// This is what a "settle all" action closes.
func UnsettledTotals(bills []models.Bill) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, bill := range bills {
		if bill.IsSettled {
			continue
		}
		count++
		total = total.Add(bill.Amount)
	}
	return count, total
}
