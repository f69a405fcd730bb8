package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// ComputeSpendingStats aggregates bill amounts for display.
//
// Settlement status is ignored here. The monthly total covers bills whose
// OccurredAt falls in the calendar month of referenceDate, compared in
// referenceDate's location.
func ComputeSpendingStats(bills []models.Bill, referenceDate time.Time) models.SpendingStats {
	stats := models.SpendingStats{
		TotalSpent:     decimal.Zero,
		MonthlyTotal:   decimal.Zero,
		CategoryTotals: make(map[models.Category]decimal.Decimal),
	}
	for _, c := range models.AllCategories() {
		stats.CategoryTotals[c] = decimal.Zero
	}

	refYear, refMonth, _ := referenceDate.Date()
	loc := referenceDate.Location()

	for _, bill := range bills {
		stats.TotalSpent = stats.TotalSpent.Add(bill.Amount)
		stats.CategoryTotals[bill.Category] = stats.CategoryTotals[bill.Category].Add(bill.Amount)

		year, month, _ := bill.OccurredAt.In(loc).Date()
		if year == refYear && month == refMonth {
			stats.MonthlyTotal = stats.MonthlyTotal.Add(bill.Amount)
		}
	}

	return stats
}
