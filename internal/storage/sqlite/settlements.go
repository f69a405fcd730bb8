package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
)

// SettleAll marks every unsettled bill of the ledger as settled and records
// the round in a single transaction.
func (s *SQLiteStore) SettleAll(ctx context.Context, ledgerID, createdBy string) (*models.SettlementRound, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT amount FROM bills WHERE ledger_id = ? AND is_settled = 0",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled bills: %w", err)
	}

	round := &models.SettlementRound{
		ID:            uuid.New().String(),
		LedgerID:      ledgerID,
		AmountSettled: decimal.Zero,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().Unix(),
	}
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill amount: %w", err)
		}
		round.BillsSettled++
		round.AmountSettled = round.AmountSettled.Add(amount)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate unsettled bills: %w", err)
	}
	rows.Close()

	if round.BillsSettled == 0 {
		return nil, storage.ErrNothingToSettle
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE bills SET is_settled = 1 WHERE ledger_id = ? AND is_settled = 0",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle bills: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlement_rounds (id, ledger_id, bills_settled, amount_settled, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		round.ID, round.LedgerID, round.BillsSettled, round.AmountSettled.String(), round.CreatedBy, round.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert settlement round: %w", err)
	}
	if err := bumpRevision(ctx, tx, ledgerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return round, nil
}

// ListSettlementRounds retrieves the settle-up history of a ledger, newest first.
func (s *SQLiteStore) ListSettlementRounds(ctx context.Context, ledgerID string) ([]*models.SettlementRound, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ledger_id, bills_settled, amount_settled, created_by, created_at
		 FROM settlement_rounds WHERE ledger_id = ? ORDER BY created_at DESC, rowid DESC`,
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*models.SettlementRound
	for rows.Next() {
		round := &models.SettlementRound{}
		if err := rows.Scan(&round.ID, &round.LedgerID, &round.BillsSettled, &round.AmountSettled,
			&round.CreatedBy, &round.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement round: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement rounds: %w", err)
	}

	return rounds, nil
}
