package service

import (
	"context"

	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
)

// authorize checks that the session in ctx was issued for ledgerID.
func authorize(ctx context.Context, ledgerID string) error {
	if middleware.GetLedgerID(ctx) != ledgerID {
		return ErrWrongLedger
	}
	return nil
}

// loadLedger authorizes the session and fetches the ledger it addresses.
func loadLedger(ctx context.Context, store storage.Store, ledgerID string) (*models.Ledger, error) {
	if err := authorize(ctx, ledgerID); err != nil {
		return nil, err
	}
	return store.GetLedger(ctx, ledgerID)
}

// loadBill fetches a bill and hides bills belonging to other ledgers.
func loadBill(ctx context.Context, store storage.Store, ledgerID, billID string) (*models.Bill, error) {
	if err := authorize(ctx, ledgerID); err != nil {
		return nil, err
	}
	bill, err := store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.LedgerID != ledgerID {
		return nil, storage.ErrNotFound
	}
	return bill, nil
}
