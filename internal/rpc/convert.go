package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// FromLedger converts a stored ledger to its wire form. The passcode hash never leaves the server.
func FromLedger(l *models.Ledger) Ledger {
	out := Ledger{
		ID:           l.ID,
		Name:         l.Name,
		Participants: make([]Participant, len(l.Participants)),
		HasPasscode:  l.PasscodeHash != "",
		CreatedAt:    l.CreatedAt,
	}
	for i, p := range l.Participants {
		out.Participants[i] = FromParticipant(p)
	}
	return out
}

func FromParticipant(p models.Participant) Participant {
	return Participant{ID: p.ID, DisplayName: p.DisplayName, Icon: p.Icon}
}

func FromBill(b *models.Bill) Bill {
	return Bill{
		ID:         b.ID,
		LedgerID:   b.LedgerID,
		Title:      b.Title,
		Amount:     b.Amount,
		Category:   string(b.Category),
		PayerID:    b.PayerID,
		OccurredAt: b.OccurredAt,
		Splits:     FromSplits(b.Splits),
		IsSettled:  b.IsSettled,
		CreatedBy:  b.CreatedBy,
	}
}

func FromBills(bills []*models.Bill) []Bill {
	out := make([]Bill, len(bills))
	for i, b := range bills {
		out[i] = FromBill(b)
	}
	return out
}

func FromSplits(splits []models.Split) []Split {
	out := make([]Split, len(splits))
	for i, s := range splits {
		out[i] = Split{ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	return out
}

// ToSplits converts wire splits back to the model.
func ToSplits(splits []Split) []models.Split {
	out := make([]models.Split, len(splits))
	for i, s := range splits {
		out[i] = models.Split{ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	return out
}

func FromTransfers(transfers []models.Transfer) []Transfer {
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

// ToTransfers converts wire transfers back to the model.
func ToTransfers(transfers []Transfer) []models.Transfer {
	out := make([]models.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = models.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

func FromStats(s models.SpendingStats) SpendingStats {
	totals := make(map[string]decimal.Decimal, len(s.CategoryTotals))
	for c, v := range s.CategoryTotals {
		totals[string(c)] = v
	}
	return SpendingStats{
		TotalSpent:     s.TotalSpent,
		MonthlyTotal:   s.MonthlyTotal,
		CategoryTotals: totals,
	}
}

func FromParticipantSummary(s models.ParticipantSummary) ParticipantSummary {
	return ParticipantSummary{
		ParticipantID: s.ParticipantID,
		Balance:       s.Balance,
		Owed:          s.Owed,
		Owes:          s.Owes,
		Net:           s.Net,
	}
}

func FromSettlementRound(r *models.SettlementRound) SettlementRound {
	return SettlementRound{
		ID:            r.ID,
		LedgerID:      r.LedgerID,
		BillsSettled:  r.BillsSettled,
		AmountSettled: r.AmountSettled,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	}
}
