package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// epsilon absorbs rounding noise when deciding whether someone still owes or
// is owed money. It is fixed, not configurable.
var epsilon = decimal.New(1, -2)

// MemberBalance represents the balance information for one ledger participant.
type MemberBalance struct {
	ParticipantID string
	NetBalance    decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid     decimal.Decimal // Total paid across unsettled bills
	TotalOwed     decimal.Decimal // Total of this participant's unsettled splits
}

// ComputeBalances returns the net balance of every roster participant across
// all unsettled bills.
//
// The payer of a bill is credited the full bill amount and every split
// participant is debited their share. Settled bills are skipped entirely.
// Payers or splits that reference someone outside the roster are dropped
// without creating a balance entry for them.
func ComputeBalances(participants []models.Participant, bills []models.Bill) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		balances[p.ID] = decimal.Zero
	}

	for _, bill := range bills {
		if bill.IsSettled {
			continue
		}

		// Payer gets the credit
		if bal, ok := balances[bill.PayerID]; ok {
			balances[bill.PayerID] = bal.Add(bill.Amount)
		}

		// Everyone who partakes gets the debit
		for _, split := range bill.Splits {
			if bal, ok := balances[split.ParticipantID]; ok {
				balances[split.ParticipantID] = bal.Sub(split.Amount)
			}
		}
	}

	return balances
}

// CalculateMemberBalances breaks the net balance of every roster participant
// into what they paid and what they owe. The result follows roster order.
func CalculateMemberBalances(participants []models.Participant, bills []models.Bill) []MemberBalance {
	index := make(map[string]int, len(participants))
	members := make([]MemberBalance, len(participants))
	for i, p := range participants {
		index[p.ID] = i
		members[i] = MemberBalance{ParticipantID: p.ID}
	}

	for _, bill := range bills {
		if bill.IsSettled {
			continue
		}
		if i, ok := index[bill.PayerID]; ok {
			members[i].TotalPaid = members[i].TotalPaid.Add(bill.Amount)
		}
		for _, split := range bill.Splits {
			if i, ok := index[split.ParticipantID]; ok {
				members[i].TotalOwed = members[i].TotalOwed.Add(split.Amount)
			}
		}
	}

	for i := range members {
		members[i].NetBalance = members[i].TotalPaid.Sub(members[i].TotalOwed)
	}

	return members
}

type pending struct {
	id      string
	balance decimal.Decimal
}

// SimplifyDebts reduces net balances to a short list of transfers.
//
// Algorithm:
//   - Creditors have balance > 0.01, debtors balance < -0.01
//   - Creditors sorted largest first, debtors most negative first; ties keep roster order
//   - Greedy: match the current largest creditor with the current largest debtor,
//     settle min(credit, |debt|), advance whichever side drops below 0.01
//
// The greedy matching is a heuristic and is not guaranteed to produce the
// globally smallest number of transfers.
func SimplifyDebts(balances map[string]decimal.Decimal, participants []models.Participant) []models.Transfer {
	var creditors, debtors []pending
	negEpsilon := epsilon.Neg()
	for _, p := range participants {
		bal, ok := balances[p.ID]
		if !ok {
			continue
		}
		if bal.GreaterThan(epsilon) {
			creditors = append(creditors, pending{id: p.ID, balance: bal})
		} else if bal.LessThan(negEpsilon) {
			debtors = append(debtors, pending{id: p.ID, balance: bal})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance.GreaterThan(creditors[j].balance)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance.LessThan(debtors[j].balance)
	})

	transfers := make([]models.Transfer, 0, len(creditors)+len(debtors))
	c, d := 0, 0
	for c < len(creditors) && d < len(debtors) {
		creditor := &creditors[c]
		debtor := &debtors[d]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(creditor.balance, debtor.balance.Abs())
		transfers = append(transfers, models.Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		creditor.balance = creditor.balance.Sub(amount)
		debtor.balance = debtor.balance.Add(amount)

		if creditor.balance.LessThan(epsilon) {
			c++
		}
		if debtor.balance.Abs().LessThan(epsilon) {
			d++
		}
	}

	return transfers
}
