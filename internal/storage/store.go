// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a ledger, participant or bill does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNothingToSettle is returned by SettleAll when every bill is already settled.
	ErrNothingToSettle = errors.New("no unsettled bills")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateLedger persists a new ledger with its roster.
	// Empty ledger and participant IDs are generated by the store.
	CreateLedger(ctx context.Context, ledger *models.Ledger) error

	// GetLedger retrieves a ledger and its roster in roster order.
	// Every write below that changes the roster or bills increments the
	// ledger's Revision in the same transaction.
	GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error)

	// ListLedgers retrieves all ledgers, newest first.
	ListLedgers(ctx context.Context) ([]*models.Ledger, error)

	// RenameLedger changes the display name of a ledger.
	RenameLedger(ctx context.Context, ledgerID, name string) error

	// AddParticipant appends a participant to the end of the roster.
	// The participant ID is generated when empty.
	AddParticipant(ctx context.Context, ledgerID string, participant *models.Participant) error

	// RenameParticipant changes a participant's display name.
	RenameParticipant(ctx context.Context, ledgerID, participantID, displayName string) error

	// CreateBill persists a new bill with its splits.
	// The bill.ID field will be populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID, including splits.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills retrieves all bills of a ledger, most recent first.
	ListBills(ctx context.Context, ledgerID string) ([]*models.Bill, error)

	// DeleteBill removes a bill and its splits.
	DeleteBill(ctx context.Context, billID string) error

	// SetBillSettled flags a single bill as settled or unsettled.
	SetBillSettled(ctx context.Context, billID string, settled bool) error

	// SettleAll marks every unsettled bill of the ledger as settled and
	// records the round. Returns ErrNothingToSettle when there is nothing to do.
	SettleAll(ctx context.Context, ledgerID, createdBy string) (*models.SettlementRound, error)

	// ListSettlementRounds retrieves the settle-up history of a ledger, newest first.
	ListSettlementRounds(ctx context.Context, ledgerID string) ([]*models.SettlementRound, error)

	// Close releases any resources held by the store.
	Close() error
}
