package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
)

func (s *ServiceSuite) TestRenameLedgerAndParticipant() {
	ctx := context.Background()
	created := s.createLedger("A", "B")
	ledgerID := created.Ledger.ID

	renamed, err := s.ledgers.RenameLedger(ctx, withToken(&rpc.RenameLedgerRequest{LedgerID: ledgerID, Name: "Cabin"}, created.Token))
	s.Require().NoError(err)
	s.Equal("Cabin", renamed.Msg.Ledger.Name)

	bob := created.Ledger.Participants[1].ID
	resp, err := s.ledgers.RenameParticipant(ctx, withToken(&rpc.RenameParticipantRequest{
		LedgerID: ledgerID, ParticipantID: bob, DisplayName: "Bobby",
	}, created.Token))
	s.Require().NoError(err)
	s.Equal("Bobby", resp.Msg.Ledger.Participants[1].DisplayName)

	_, err = s.ledgers.RenameParticipant(ctx, withToken(&rpc.RenameParticipantRequest{
		LedgerID: ledgerID, ParticipantID: "ghost", DisplayName: "Casper",
	}, created.Token))
	s.requireCode(err, connect.CodeNotFound)
}

func (s *ServiceSuite) TestAddParticipant_RosterLimit() {
	ctx := context.Background()
	created := s.createLedger("A", "B", "C")
	ledgerID := created.Ledger.ID

	for _, name := range []string{"D", "E"} {
		resp, err := s.ledgers.AddParticipant(ctx, withToken(&rpc.AddParticipantRequest{LedgerID: ledgerID, DisplayName: name}, created.Token))
		s.Require().NoError(err)
		s.Equal(name, resp.Msg.Participant.DisplayName)
		s.Equal(resp.Msg.Participant, resp.Msg.Ledger.Participants[len(resp.Msg.Ledger.Participants)-1])
	}

	_, err := s.ledgers.AddParticipant(ctx, withToken(&rpc.AddParticipantRequest{LedgerID: ledgerID, DisplayName: "F"}, created.Token))
	s.requireCode(err, connect.CodeFailedPrecondition)
}

func (s *ServiceSuite) TestGetSummary_SettlementPlan() {
	ctx := context.Background()
	created := s.createLedger("A", "B", "C")
	ids := s.ids(created.Ledger)
	a, b, c := ids[0], ids[1], ids[2]

	// A pays 90 split equally; B pays 30 on behalf of C.
	for _, req := range []*rpc.CreateBillRequest{
		{LedgerID: created.Ledger.ID, Amount: d("90"), Category: "Groceries", PayerID: a, OccurredAt: fixedNow},
		{LedgerID: created.Ledger.ID, Amount: d("30"), Category: "Dining", PayerID: b, OccurredAt: fixedNow.AddDate(0, -1, 0),
			Splits: []rpc.Split{{ParticipantID: c, Amount: d("30")}}},
	} {
		_, err := s.bills.CreateBill(ctx, withToken(req, created.Token))
		s.Require().NoError(err)
	}

	resp, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: created.Ledger.ID}, created.Token))
	s.Require().NoError(err)
	summary := resp.Msg

	s.Equal("2024-03", summary.Month)
	s.Require().Len(summary.Balances, 3)
	s.Equal(a, summary.Balances[0].ParticipantID)
	s.assertAmount("60", summary.Balances[0].NetBalance)
	s.assertAmount("0", summary.Balances[1].NetBalance)
	s.assertAmount("-60", summary.Balances[2].NetBalance)

	s.Require().Len(summary.Transfers, 1)
	s.Equal(c, summary.Transfers[0].From)
	s.Equal(a, summary.Transfers[0].To)
	s.assertAmount("60", summary.Transfers[0].Amount)

	s.assertAmount("120", summary.Stats.TotalSpent)
	s.assertAmount("90", summary.Stats.MonthlyTotal)
	s.assertAmount("90", summary.Stats.CategoryTotals["Groceries"])
	s.assertAmount("30", summary.Stats.CategoryTotals["Dining"])
	s.assertAmount("0", summary.Stats.CategoryTotals["Rent"])

	s.Equal(2, summary.UnsettledBills)
	s.assertAmount("120", summary.UnsettledAmount)

	s.Require().NotNil(summary.Caller)
	s.Equal(a, summary.Caller.ParticipantID)
	s.assertAmount("60", summary.Caller.Owed)
	s.assertAmount("0", summary.Caller.Owes)
}

func (s *ServiceSuite) TestGetSummary_CachedUntilWrite() {
	ctx := context.Background()
	created := s.createLedger("A", "B")
	ledgerID := created.Ledger.ID

	_, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Equal(1, s.cache.Len())

	_, err = s.bills.CreateBill(ctx, withToken(&rpc.CreateBillRequest{
		LedgerID: ledgerID, Amount: d("8"), Category: "Fun", PayerID: created.ParticipantID,
	}, created.Token))
	s.Require().NoError(err)

	resp, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Require().Len(resp.Msg.Transfers, 1, "writes move the summary to a new cache key")
	s.assertAmount("4", resp.Msg.Transfers[0].Amount)
	s.Equal(1, s.cache.Len(), "the previous revision's entry is dropped")
	_, hit, err := s.cache.Get(ctx, cache.SummaryKey(ledgerID, 1, fixedNow))
	s.Require().NoError(err)
	s.True(hit)

	cached, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Equal(resp.Msg.Month, cached.Msg.Month)
	s.Require().Len(cached.Msg.Transfers, 1)
	s.assertAmount("4", cached.Msg.Transfers[0].Amount)
	s.Require().NotNil(cached.Msg.Caller)
	s.assertAmount("4", cached.Msg.Caller.Owed)
}

// billHookStore runs afterListBills once, right after the first ListBills.
type billHookStore struct {
	storage.Store
	afterListBills func()
}

func (h *billHookStore) ListBills(ctx context.Context, ledgerID string) ([]*models.Bill, error) {
	bills, err := h.Store.ListBills(ctx, ledgerID)
	if hook := h.afterListBills; hook != nil {
		h.afterListBills = nil
		hook()
	}
	return bills, err
}

func (s *ServiceSuite) TestGetSummary_WriteDuringRebuildIsNotServedStale() {
	created := s.createLedger("A", "B")
	ledgerID := created.Ledger.ID
	a, b := created.Ledger.Participants[0].ID, created.Ledger.Participants[1].ID

	store := &billHookStore{Store: s.store}
	store.afterListBills = func() {
		s.Require().NoError(s.store.CreateBill(context.Background(), &models.Bill{
			LedgerID: ledgerID, Title: "Rent", Amount: d("100"), Category: models.CategoryRent, PayerID: a,
			OccurredAt: fixedNow,
			Splits:     []models.Split{{ParticipantID: a, Amount: d("50")}, {ParticipantID: b, Amount: d("50")}},
		}))
	}

	svc := NewLedgerService(store, s.cache, validation.New(), NewMetrics(prometheus.NewRegistry()),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return fixedNow }
	ctx := middleware.WithSession(context.Background(), ledgerID, a)

	first, err := svc.GetSummary(ctx, connect.NewRequest(&rpc.GetSummaryRequest{LedgerID: ledgerID}))
	s.Require().NoError(err)
	s.Empty(first.Msg.Transfers, "built from the bills read before the write")

	second, err := svc.GetSummary(ctx, connect.NewRequest(&rpc.GetSummaryRequest{LedgerID: ledgerID}))
	s.Require().NoError(err)
	s.assertAmount("100", second.Msg.Stats.TotalSpent)
	s.Require().Len(second.Msg.Transfers, 1)
	s.Equal(b, second.Msg.Transfers[0].From)
	s.assertAmount("50", second.Msg.Transfers[0].Amount)
}

func (s *ServiceSuite) TestSettleAll() {
	ctx := context.Background()
	created := s.createLedger("A", "B")
	ledgerID := created.Ledger.ID

	for _, amount := range []string{"12.50", "7.50"} {
		_, err := s.bills.CreateBill(ctx, withToken(&rpc.CreateBillRequest{
			LedgerID: ledgerID, Amount: d(amount), Category: "Utilities", PayerID: created.ParticipantID,
			OccurredAt: fixedNow.Add(-time.Hour),
		}, created.Token))
		s.Require().NoError(err)
	}

	resp, err := s.ledgers.SettleAll(ctx, withToken(&rpc.SettleAllRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Equal(2, resp.Msg.Round.BillsSettled)
	s.assertAmount("20", resp.Msg.Round.AmountSettled)
	s.Equal(created.ParticipantID, resp.Msg.Round.CreatedBy)

	summary, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Empty(summary.Msg.Transfers)
	s.Equal(0, summary.Msg.UnsettledBills)
	s.assertAmount("20", summary.Msg.Stats.TotalSpent)

	_, err = s.ledgers.SettleAll(ctx, withToken(&rpc.SettleAllRequest{LedgerID: ledgerID}, created.Token))
	s.requireCode(err, connect.CodeFailedPrecondition)

	rounds, err := s.ledgers.ListSettlementRounds(ctx, withToken(&rpc.ListSettlementRoundsRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Require().Len(rounds.Msg.Rounds, 1)
	s.Equal(resp.Msg.Round.ID, rounds.Msg.Rounds[0].ID)
}
