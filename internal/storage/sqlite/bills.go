package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

const billColumns = "id, ledger_id, title, amount, category, payer_id, occurred_at, is_settled, created_by"

// CreateBill persists a new bill and its splits to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.OccurredAt.IsZero() {
		bill.OccurredAt = time.Now()
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.Category, bill.OccurredAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.LedgerID, bill.Title, bill.Amount.String(), string(bill.Category),
		bill.PayerID, bill.OccurredAt.Unix(), bill.IsSettled, bill.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, split := range bill.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_splits (bill_id, position, participant_id, amount) VALUES (?, ?, ?, ?)",
			bill.ID, i, split.ParticipantID, split.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	if err := bumpRevision(ctx, tx, bill.LedgerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including its splits.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := scanBill(s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?",
		billID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("bill", billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, amount FROM bill_splits WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.ParticipantID, &split.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		bill.Splits = append(bill.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return bill, nil
}

// ListBills retrieves all bills of a ledger, most recent first.
func (s *SQLiteStore) ListBills(ctx context.Context, ledgerID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE ledger_id = ? ORDER BY occurred_at DESC, id",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	byID := make(map[string]*models.Bill)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
		byID[bill.ID] = bill
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	rows.Close()

	if len(bills) == 0 {
		return bills, nil
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT s.bill_id, s.participant_id, s.amount
		 FROM bill_splits s JOIN bills b ON b.id = s.bill_id
		 WHERE b.ledger_id = ? ORDER BY s.bill_id, s.position`,
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var billID string
		var split models.Split
		if err := splitRows.Scan(&billID, &split.ParticipantID, &split.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if bill, ok := byID[billID]; ok {
			bill.Splits = append(bill.Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return bills, nil
}

// DeleteBill removes a bill. Splits are removed by the foreign key cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	return s.changeBill(ctx, billID, "DELETE FROM bills WHERE id = ?", billID)
}

// SetBillSettled flags a single bill as settled or unsettled.
func (s *SQLiteStore) SetBillSettled(ctx context.Context, billID string, settled bool) error {
	return s.changeBill(ctx, billID, "UPDATE bills SET is_settled = ? WHERE id = ?", settled, billID)
}

// changeBill runs one statement against an existing bill and bumps the
// revision of the bill's ledger in the same transaction.
func (s *SQLiteStore) changeBill(ctx context.Context, billID, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ledgerID string
	err = tx.QueryRowContext(ctx, "SELECT ledger_id FROM bills WHERE id = ?", billID).Scan(&ledgerID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("bill", billID)
	}
	if err != nil {
		return fmt.Errorf("failed to get bill ledger: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to change bill %s: %w", billID, err)
	}
	if err := bumpRevision(ctx, tx, ledgerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var category string
	var occurredAt int64
	if err := row.Scan(&bill.ID, &bill.LedgerID, &bill.Title, &bill.Amount, &category,
		&bill.PayerID, &occurredAt, &bill.IsSettled, &bill.CreatedBy); err != nil {
		return nil, err
	}
	bill.Category = models.NormalizeCategory(models.Category(category))
	bill.OccurredAt = time.Unix(occurredAt, 0).UTC()
	return bill, nil
}

// generateTitle creates an auto-generated title from the category and date.
func generateTitle(category models.Category, occurredAt time.Time) string {
	return fmt.Sprintf("%s - %s", models.NormalizeCategory(category), occurredAt.Format("Jan 2, 2006"))
}
