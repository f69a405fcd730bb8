package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestLedger(t *testing.T, store *SQLiteStore, names ...string) *models.Ledger {
	t.Helper()
	ledger := &models.Ledger{Name: "Flat 4B"}
	for _, name := range names {
		ledger.Participants = append(ledger.Participants, models.Participant{DisplayName: name})
	}
	require.NoError(t, store.CreateLedger(context.Background(), ledger))
	return ledger
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore_Ledgers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateLedger generates IDs and keeps roster order", func(t *testing.T) {
		ledger := newTestLedger(t, store, "Chloe", "Alice", "Bob")

		assert.NotEmpty(t, ledger.ID)
		assert.NotZero(t, ledger.CreatedAt)
		for _, p := range ledger.Participants {
			assert.NotEmpty(t, p.ID)
		}

		got, err := store.GetLedger(ctx, ledger.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat 4B", got.Name)
		require.Len(t, got.Participants, 3)
		assert.Equal(t, []string{"Chloe", "Alice", "Bob"}, []string{
			got.Participants[0].DisplayName,
			got.Participants[1].DisplayName,
			got.Participants[2].DisplayName,
		})
		assert.Equal(t, ledger.ParticipantIDs(), got.ParticipantIDs())
	})

	t.Run("GetLedger returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetLedger(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("AddParticipant appends to roster", func(t *testing.T) {
		ledger := newTestLedger(t, store, "A", "B")
		p := &models.Participant{DisplayName: "C", Icon: "🐱"}
		require.NoError(t, store.AddParticipant(ctx, ledger.ID, p))
		assert.NotEmpty(t, p.ID)

		got, err := store.GetLedger(ctx, ledger.ID)
		require.NoError(t, err)
		require.Len(t, got.Participants, 3)
		assert.Equal(t, *p, got.Participants[2])
	})

	t.Run("AddParticipant to unknown ledger", func(t *testing.T) {
		err := store.AddParticipant(ctx, "missing", &models.Participant{DisplayName: "X"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Rename ledger and participant", func(t *testing.T) {
		ledger := newTestLedger(t, store, "A", "B")
		require.NoError(t, store.RenameLedger(ctx, ledger.ID, "Beach trip"))
		require.NoError(t, store.RenameParticipant(ctx, ledger.ID, ledger.Participants[1].ID, "Bea"))

		got, err := store.GetLedger(ctx, ledger.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beach trip", got.Name)
		assert.Equal(t, "Bea", got.Participants[1].DisplayName)

		assert.ErrorIs(t, store.RenameLedger(ctx, "missing", "x"), storage.ErrNotFound)
		assert.ErrorIs(t, store.RenameParticipant(ctx, ledger.ID, "missing", "x"), storage.ErrNotFound)
	})

	t.Run("ListLedgers includes rosters", func(t *testing.T) {
		ledgers, err := store.ListLedgers(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(ledgers), 3)
		for _, l := range ledgers {
			assert.NotEmpty(t, l.Participants, "ledger %s has no participants", l.ID)
		}
	})
}

func TestSQLiteStore_Bills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ledger := newTestLedger(t, store, "A", "B", "C")
	a, b, c := ledger.Participants[0].ID, ledger.Participants[1].ID, ledger.Participants[2].ID

	t.Run("CreateBill generates ID and title", func(t *testing.T) {
		bill := &models.Bill{
			LedgerID:   ledger.ID,
			Amount:     d("30"),
			Category:   models.CategoryDining,
			PayerID:    a,
			OccurredAt: time.Date(2024, 3, 5, 19, 0, 0, 0, time.UTC),
			Splits:     []models.Split{{ParticipantID: a, Amount: d("10")}, {ParticipantID: b, Amount: d("20")}},
		}
		require.NoError(t, store.CreateBill(ctx, bill))
		assert.NotEmpty(t, bill.ID)
		assert.Equal(t, "Dining - Mar 5, 2024", bill.Title)
	})

	t.Run("GetBill retrieves complete bill", func(t *testing.T) {
		original := &models.Bill{
			LedgerID:   ledger.ID,
			Title:      "Weekly shop",
			Amount:     d("47.35"),
			Category:   models.CategoryGroceries,
			PayerID:    c,
			OccurredAt: time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC),
			Splits: []models.Split{
				{ParticipantID: c, Amount: d("15.79")},
				{ParticipantID: a, Amount: d("15.78")},
				{ParticipantID: b, Amount: d("15.78")},
			},
			CreatedBy: c,
		}
		require.NoError(t, store.CreateBill(ctx, original))

		got, err := store.GetBill(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, original.Title, got.Title)
		assert.True(t, original.Amount.Equal(got.Amount), "amount %s", got.Amount)
		assert.Equal(t, original.Category, got.Category)
		assert.Equal(t, c, got.PayerID)
		assert.True(t, original.OccurredAt.Equal(got.OccurredAt))
		assert.False(t, got.IsSettled)
		assert.Equal(t, c, got.CreatedBy)
		require.Len(t, got.Splits, 3)
		for i := range original.Splits {
			assert.Equal(t, original.Splits[i].ParticipantID, got.Splits[i].ParticipantID)
			assert.True(t, original.Splits[i].Amount.Equal(got.Splits[i].Amount))
		}
	})

	t.Run("GetBill returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetBill(ctx, "non-existent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListBills is newest first with splits", func(t *testing.T) {
		bills, err := store.ListBills(ctx, ledger.ID)
		require.NoError(t, err)
		require.Len(t, bills, 2)
		assert.Equal(t, "Weekly shop", bills[0].Title)
		assert.Len(t, bills[0].Splits, 3)
		assert.Len(t, bills[1].Splits, 2)

		empty, err := store.ListBills(ctx, "other-ledger")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("SetBillSettled and DeleteBill", func(t *testing.T) {
		bill := &models.Bill{LedgerID: ledger.ID, Title: "Tmp", Amount: d("5"), Category: models.CategoryFun, PayerID: a,
			Splits: []models.Split{{ParticipantID: b, Amount: d("5")}}}
		require.NoError(t, store.CreateBill(ctx, bill))

		require.NoError(t, store.SetBillSettled(ctx, bill.ID, true))
		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.True(t, got.IsSettled)

		require.NoError(t, store.DeleteBill(ctx, bill.ID))
		_, err = store.GetBill(ctx, bill.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.ErrorIs(t, store.DeleteBill(ctx, bill.ID), storage.ErrNotFound)
		assert.ErrorIs(t, store.SetBillSettled(ctx, bill.ID, false), storage.ErrNotFound)
	})
}

func TestSQLiteStore_LegacyCategoryReadsAsOther(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ledger := newTestLedger(t, store, "A", "B")

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO bills (id, ledger_id, title, amount, payer_id, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"legacy", ledger.ID, "Old bill", "12.00", ledger.Participants[0].ID, time.Now().Unix(),
	)
	require.NoError(t, err)

	got, err := store.GetBill(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, got.Category)
}

func TestSQLiteStore_SettleAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ledger := newTestLedger(t, store, "A", "B")
	a, b := ledger.Participants[0].ID, ledger.Participants[1].ID

	for _, amount := range []string{"10.50", "20.25"} {
		require.NoError(t, store.CreateBill(ctx, &models.Bill{
			LedgerID: ledger.ID, Title: "Bill", Amount: d(amount), Category: models.CategoryRent, PayerID: a,
			Splits: []models.Split{{ParticipantID: b, Amount: d(amount)}},
		}))
	}
	settled := &models.Bill{LedgerID: ledger.ID, Title: "Paid", Amount: d("99"), Category: models.CategoryRent,
		PayerID: a, IsSettled: true, Splits: []models.Split{{ParticipantID: b, Amount: d("99")}}}
	require.NoError(t, store.CreateBill(ctx, settled))

	round, err := store.SettleAll(ctx, ledger.ID, a)
	require.NoError(t, err)
	assert.Equal(t, 2, round.BillsSettled)
	assert.True(t, d("30.75").Equal(round.AmountSettled), "amount settled %s", round.AmountSettled)
	assert.Equal(t, a, round.CreatedBy)

	bills, err := store.ListBills(ctx, ledger.ID)
	require.NoError(t, err)
	for _, bill := range bills {
		assert.True(t, bill.IsSettled, "bill %s should be settled", bill.ID)
	}

	_, err = store.SettleAll(ctx, ledger.ID, a)
	assert.ErrorIs(t, err, storage.ErrNothingToSettle)

	rounds, err := store.ListSettlementRounds(ctx, ledger.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, round.ID, rounds[0].ID)
	assert.True(t, round.AmountSettled.Equal(rounds[0].AmountSettled))
}

func TestSQLiteStore_RevisionBumpsOnEveryWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ledger := newTestLedger(t, store, "A", "B")
	other := newTestLedger(t, store, "X", "Y")
	a, b := ledger.Participants[0].ID, ledger.Participants[1].ID

	revision := func() int64 {
		t.Helper()
		got, err := store.GetLedger(ctx, ledger.ID)
		require.NoError(t, err)
		return got.Revision
	}
	require.Zero(t, revision())

	bill := &models.Bill{LedgerID: ledger.ID, Title: "Rent", Amount: d("10"), Category: models.CategoryRent, PayerID: a,
		Splits: []models.Split{{ParticipantID: b, Amount: d("10")}}}

	writes := []struct {
		name  string
		write func() error
	}{
		{"CreateBill", func() error { return store.CreateBill(ctx, bill) }},
		{"SetBillSettled", func() error { return store.SetBillSettled(ctx, bill.ID, true) }},
		{"SetBillSettled undo", func() error { return store.SetBillSettled(ctx, bill.ID, false) }},
		{"SettleAll", func() error { _, err := store.SettleAll(ctx, ledger.ID, a); return err }},
		{"DeleteBill", func() error { return store.DeleteBill(ctx, bill.ID) }},
		{"AddParticipant", func() error {
			return store.AddParticipant(ctx, ledger.ID, &models.Participant{DisplayName: "C"})
		}},
		{"RenameParticipant", func() error { return store.RenameParticipant(ctx, ledger.ID, b, "Bea") }},
		{"RenameLedger", func() error { return store.RenameLedger(ctx, ledger.ID, "Flat 5C") }},
	}
	for i, w := range writes {
		require.NoError(t, w.write(), w.name)
		assert.Equal(t, int64(i+1), revision(), w.name)
	}

	t.Run("failed writes leave the revision alone", func(t *testing.T) {
		before := revision()
		assert.ErrorIs(t, store.DeleteBill(ctx, bill.ID), storage.ErrNotFound)
		assert.ErrorIs(t, store.RenameParticipant(ctx, ledger.ID, "missing", "Zed"), storage.ErrNotFound)
		_, err := store.SettleAll(ctx, ledger.ID, a)
		assert.ErrorIs(t, err, storage.ErrNothingToSettle)
		assert.Equal(t, before, revision())
	})

	t.Run("other ledgers are untouched", func(t *testing.T) {
		got, err := store.GetLedger(ctx, other.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Revision)
	})
}

func TestGenerateTitle(t *testing.T) {
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Rent - Jan 15, 2024", generateTitle(models.CategoryRent, at))
	assert.Equal(t, "Other - Jan 15, 2024", generateTitle("", at))
}
