package rpc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Participant is a roster member as seen by clients.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon,omitempty"`
}

// Ledger is a shared ledger and its roster in roster order.
type Ledger struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	HasPasscode  bool          `json:"has_passcode"`
	CreatedAt    int64         `json:"created_at"`
}

// Split is one participant's share of a bill.
type Split struct {
	ParticipantID string          `json:"participant_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"nonneg_amount,cents"`
}

// Bill is a recorded expense.
type Bill struct {
	ID         string          `json:"id"`
	LedgerID   string          `json:"ledger_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	PayerID    string          `json:"payer_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Splits     []Split         `json:"splits"`
	IsSettled  bool            `json:"is_settled"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

// Balance is a participant's position across unsettled bills.
type Balance struct {
	ParticipantID string          `json:"participant_id"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
}

// Transfer is a suggested payment from one participant to another.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SpendingStats summarizes spending across all bills.
type SpendingStats struct {
	TotalSpent     decimal.Decimal            `json:"total_spent"`
	MonthlyTotal   decimal.Decimal            `json:"monthly_total"`
	CategoryTotals map[string]decimal.Decimal `json:"category_totals"`
}

// ParticipantSummary is the caller's own view of the settlement plan.
type ParticipantSummary struct {
	ParticipantID string          `json:"participant_id"`
	Balance       decimal.Decimal `json:"balance"`
	Owed          decimal.Decimal `json:"owed"`
	Owes          decimal.Decimal `json:"owes"`
	Net           decimal.Decimal `json:"net"`
}

// SettlementRound records one settle-up of a ledger.
type SettlementRound struct {
	ID            string          `json:"id"`
	LedgerID      string          `json:"ledger_id"`
	BillsSettled  int             `json:"bills_settled"`
	AmountSettled decimal.Decimal `json:"amount_settled"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     int64           `json:"created_at"`
}

// AccessService

type NewParticipant struct {
	DisplayName string `json:"display_name" validate:"required,max=32"`
	Icon        string `json:"icon,omitempty" validate:"max=16"`
}

type CreateLedgerRequest struct {
	Name         string           `json:"name" validate:"required,max=64"`
	Participants []NewParticipant `json:"participants" validate:"min=2,max=5,dive"`
	Passcode     string           `json:"passcode,omitempty"`
}

type CreateLedgerResponse struct {
	Ledger        Ledger `json:"ledger"`
	ParticipantID string `json:"participant_id"`
	Token         string `json:"token"`
}

type OpenLedgerRequest struct {
	LedgerID      string `json:"ledger_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
	Passcode      string `json:"passcode,omitempty"`
}

type OpenLedgerResponse struct {
	Ledger Ledger `json:"ledger"`
	Token  string `json:"token"`
}

// LedgerService

type GetLedgerRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
}

type GetLedgerResponse struct {
	Ledger Ledger `json:"ledger"`
}

type RenameLedgerRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=64"`
}

type RenameLedgerResponse struct {
	Ledger Ledger `json:"ledger"`
}

type AddParticipantRequest struct {
	LedgerID    string `json:"ledger_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=32"`
	Icon        string `json:"icon,omitempty" validate:"max=16"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
	Ledger      Ledger      `json:"ledger"`
}

type RenameParticipantRequest struct {
	LedgerID      string `json:"ledger_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
	DisplayName   string `json:"display_name" validate:"required,max=32"`
}

type RenameParticipantResponse struct {
	Ledger Ledger `json:"ledger"`
}

type GetSummaryRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
}

type GetSummaryResponse struct {
	Month           string              `json:"month"`
	Balances        []Balance           `json:"balances"`
	Transfers       []Transfer          `json:"transfers"`
	Stats           SpendingStats       `json:"stats"`
	Caller          *ParticipantSummary `json:"caller,omitempty"`
	UnsettledBills  int                 `json:"unsettled_bills"`
	UnsettledAmount decimal.Decimal     `json:"unsettled_amount"`
}

type SettleAllRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
}

type SettleAllResponse struct {
	Round SettlementRound `json:"round"`
}

type ListSettlementRoundsRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
}

type ListSettlementRoundsResponse struct {
	Rounds []SettlementRound `json:"rounds"`
}

// BillService

type PreviewSplitRequest struct {
	LedgerID       string          `json:"ledger_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"positive_amount,cents"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
}

type PreviewSplitResponse struct {
	Splits []Split `json:"splits"`
}

// CreateBillRequest records a bill. Without Splits the amount is divided
// equally among ParticipantIDs, or the whole roster when that is empty too.
type CreateBillRequest struct {
	LedgerID       string          `json:"ledger_id" validate:"required"`
	Title          string          `json:"title" validate:"max=100"`
	Amount         decimal.Decimal `json:"amount" validate:"positive_amount,cents"`
	Category       string          `json:"category" validate:"required,category"`
	PayerID        string          `json:"payer_id" validate:"required"`
	OccurredAt     time.Time       `json:"occurred_at,omitzero"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	Splits         []Split         `json:"splits,omitempty" validate:"dive"`
}

type CreateBillResponse struct {
	Bill Bill `json:"bill"`
}

type GetBillRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
	BillID   string `json:"bill_id" validate:"required"`
}

type GetBillResponse struct {
	Bill Bill `json:"bill"`
}

type ListBillsRequest struct {
	LedgerID      string `json:"ledger_id" validate:"required"`
	UnsettledOnly bool   `json:"unsettled_only,omitempty"`
}

type ListBillsResponse struct {
	Bills []Bill `json:"bills"`
}

type DeleteBillRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
	BillID   string `json:"bill_id" validate:"required"`
}

type DeleteBillResponse struct{}

type SetBillSettledRequest struct {
	LedgerID string `json:"ledger_id" validate:"required"`
	BillID   string `json:"bill_id" validate:"required"`
	Settled  bool   `json:"settled"`
}

type SetBillSettledResponse struct {
	Bill Bill `json:"bill"`
}
