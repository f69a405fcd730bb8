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

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// bumpRevision marks a change to the ledger inside the caller's transaction.
func bumpRevision(ctx context.Context, tx *sql.Tx, ledgerID string) error {
	if _, err := tx.ExecContext(ctx, "UPDATE ledgers SET revision = revision + 1 WHERE id = ?", ledgerID); err != nil {
		return fmt.Errorf("failed to bump ledger revision: %w", err)
	}
	return nil
}

// CreateLedger persists a new ledger and its roster.
func (s *SQLiteStore) CreateLedger(ctx context.Context, ledger *models.Ledger) error {
	if ledger.ID == "" {
		ledger.ID = uuid.New().String()
	}
	if ledger.CreatedAt == 0 {
		ledger.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO ledgers (id, name, passcode_hash, created_at) VALUES (?, ?, ?, ?)",
		ledger.ID, ledger.Name, ledger.PasscodeHash, ledger.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	for i := range ledger.Participants {
		p := &ledger.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (ledger_id, id, position, display_name, icon) VALUES (?, ?, ?, ?, ?)",
			ledger.ID, p.ID, i, p.DisplayName, p.Icon,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLedger retrieves a ledger by ID with its roster in roster order.
func (s *SQLiteStore) GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, passcode_hash, created_at, revision FROM ledgers WHERE id = ?",
		ledgerID,
	).Scan(&ledger.ID, &ledger.Name, &ledger.PasscodeHash, &ledger.CreatedAt, &ledger.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("ledger", ledgerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	ledger.Participants, err = loadParticipants(ctx, s.db, ledgerID)
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

// ListLedgers retrieves all ledgers, newest first.
func (s *SQLiteStore) ListLedgers(ctx context.Context) ([]*models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, passcode_hash, created_at, revision FROM ledgers ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []*models.Ledger
	for rows.Next() {
		ledger := &models.Ledger{}
		if err := rows.Scan(&ledger.ID, &ledger.Name, &ledger.PasscodeHash, &ledger.CreatedAt, &ledger.Revision); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		ledgers = append(ledgers, ledger)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledgers: %w", err)
	}
	rows.Close()

	for _, ledger := range ledgers {
		ledger.Participants, err = loadParticipants(ctx, s.db, ledger.ID)
		if err != nil {
			return nil, err
		}
	}

	return ledgers, nil
}

// RenameLedger changes the display name of a ledger.
func (s *SQLiteStore) RenameLedger(ctx context.Context, ledgerID, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE ledgers SET name = ?, revision = revision + 1 WHERE id = ?",
		name, ledgerID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename ledger: %w", err)
	}
	return checkAffected(res, "ledger", ledgerID)
}

// AddParticipant appends a participant to the end of the ledger's roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, ledgerID string, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM ledgers WHERE id = ?", ledgerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("ledger", ledgerID)
	}
	if err != nil {
		return fmt.Errorf("failed to check ledger existence: %w", err)
	}

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM participants WHERE ledger_id = ?",
		ledgerID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to get roster position: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (ledger_id, id, position, display_name, icon) VALUES (?, ?, ?, ?, ?)",
		ledgerID, participant.ID, next, participant.DisplayName, participant.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	if err := bumpRevision(ctx, tx, ledgerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RenameParticipant changes a participant's display name.
func (s *SQLiteStore) RenameParticipant(ctx context.Context, ledgerID, participantID, displayName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE participants SET display_name = ? WHERE ledger_id = ? AND id = ?",
		displayName, ledgerID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename participant: %w", err)
	}
	if err := checkAffected(res, "participant", participantID); err != nil {
		return err
	}
	if err := bumpRevision(ctx, tx, ledgerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func loadParticipants(ctx context.Context, q queryer, ledgerID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, display_name, icon FROM participants WHERE ledger_id = ? ORDER BY position",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}
