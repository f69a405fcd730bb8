package service

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (s *ServiceSuite) TestPreviewSplit_EqualSplit() {
	ctx := context.Background()
	created := s.createLedger("A", "B", "C")

	resp, err := s.bills.PreviewSplit(ctx, withToken(&rpc.PreviewSplitRequest{
		LedgerID: created.Ledger.ID,
		Amount:   d("100"),
	}, created.Token))
	s.Require().NoError(err)

	s.Require().Len(resp.Msg.Splits, 3)
	s.assertAmount("33.34", resp.Msg.Splits[0].Amount)
	s.assertAmount("33.33", resp.Msg.Splits[1].Amount)
	s.assertAmount("33.33", resp.Msg.Splits[2].Amount)
	s.Equal(s.ids(created.Ledger), []string{
		resp.Msg.Splits[0].ParticipantID,
		resp.Msg.Splits[1].ParticipantID,
		resp.Msg.Splits[2].ParticipantID,
	})
}

func (s *ServiceSuite) TestPreviewSplit_UnknownParticipant() {
	created := s.createLedger("A", "B")

	_, err := s.bills.PreviewSplit(context.Background(), withToken(&rpc.PreviewSplitRequest{
		LedgerID:       created.Ledger.ID,
		Amount:         d("10"),
		ParticipantIDs: []string{"ghost"},
	}, created.Token))
	s.requireCode(err, connect.CodeInvalidArgument)
}

func (s *ServiceSuite) TestCreateBill_And_GetBill() {
	ctx := context.Background()
	created := s.createLedger("A", "B", "C")
	ids := s.ids(created.Ledger)
	occurred := time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC)

	resp, err := s.bills.CreateBill(ctx, withToken(&rpc.CreateBillRequest{
		LedgerID:   created.Ledger.ID,
		Title:      "Pizza night",
		Amount:     d("45.00"),
		Category:   "Dining",
		PayerID:    ids[1],
		OccurredAt: occurred,
		Splits: []rpc.Split{
			{ParticipantID: ids[0], Amount: d("20")},
			{ParticipantID: ids[1], Amount: d("25")},
		},
	}, created.Token))
	s.Require().NoError(err)

	bill := resp.Msg.Bill
	s.NotEmpty(bill.ID)
	s.Equal(created.ParticipantID, bill.CreatedBy)

	got, err := s.bills.GetBill(ctx, withToken(&rpc.GetBillRequest{LedgerID: created.Ledger.ID, BillID: bill.ID}, created.Token))
	s.Require().NoError(err)
	s.Equal("Pizza night", got.Msg.Bill.Title)
	s.Equal("Dining", got.Msg.Bill.Category)
	s.Equal(ids[1], got.Msg.Bill.PayerID)
	s.True(occurred.Equal(got.Msg.Bill.OccurredAt))
	s.assertAmount("45", got.Msg.Bill.Amount)
	s.Require().Len(got.Msg.Bill.Splits, 2)
	s.assertAmount("20", got.Msg.Bill.Splits[0].Amount)
	s.assertAmount("25", got.Msg.Bill.Splits[1].Amount)
}

func (s *ServiceSuite) TestCreateBill_DefaultsToEqualSplitOverRoster() {
	created := s.createLedger("A", "B", "C")

	resp, err := s.bills.CreateBill(context.Background(), withToken(&rpc.CreateBillRequest{
		LedgerID: created.Ledger.ID,
		Amount:   d("10"),
		Category: "Groceries",
		PayerID:  created.ParticipantID,
	}, created.Token))
	s.Require().NoError(err)

	bill := resp.Msg.Bill
	s.Require().Len(bill.Splits, 3)
	s.assertAmount("3.34", bill.Splits[0].Amount)
	s.assertAmount("3.33", bill.Splits[1].Amount)
	s.assertAmount("3.33", bill.Splits[2].Amount)
	s.True(fixedNow.Equal(bill.OccurredAt), "occurred_at defaults to now")
	s.Equal("Groceries - Mar 15, 2024", bill.Title)
}

func (s *ServiceSuite) TestCreateBill_Rejects() {
	created := s.createLedger("A", "B")
	ids := s.ids(created.Ledger)

	valid := func() *rpc.CreateBillRequest {
		return &rpc.CreateBillRequest{
			LedgerID: created.Ledger.ID,
			Amount:   d("30"),
			Category: "Rent",
			PayerID:  ids[0],
		}
	}

	tests := []struct {
		name   string
		mutate func(r *rpc.CreateBillRequest)
	}{
		{"zero amount", func(r *rpc.CreateBillRequest) { r.Amount = d("0") }},
		{"negative amount", func(r *rpc.CreateBillRequest) { r.Amount = d("-5") }},
		{"fractional cents", func(r *rpc.CreateBillRequest) { r.Amount = d("1.001") }},
		{"unknown category", func(r *rpc.CreateBillRequest) { r.Category = "Travel" }},
		{"payer not on roster", func(r *rpc.CreateBillRequest) { r.PayerID = "ghost" }},
		{"split participant not on roster", func(r *rpc.CreateBillRequest) {
			r.Splits = []rpc.Split{{ParticipantID: "ghost", Amount: d("30")}}
		}},
		{"splits do not add up", func(r *rpc.CreateBillRequest) {
			r.Splits = []rpc.Split{{ParticipantID: ids[0], Amount: d("10")}, {ParticipantID: ids[1], Amount: d("10")}}
		}},
		{"duplicate split participant", func(r *rpc.CreateBillRequest) {
			r.Splits = []rpc.Split{{ParticipantID: ids[1], Amount: d("15")}, {ParticipantID: ids[1], Amount: d("15")}}
		}},
		{"negative split", func(r *rpc.CreateBillRequest) {
			r.Splits = []rpc.Split{{ParticipantID: ids[0], Amount: d("40")}, {ParticipantID: ids[1], Amount: d("-10")}}
		}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := valid()
			tt.mutate(req)
			_, err := s.bills.CreateBill(context.Background(), withToken(req, created.Token))
			s.requireCode(err, connect.CodeInvalidArgument)
		})
	}
}

func (s *ServiceSuite) TestCreateBill_SplitWithinTolerance() {
	created := s.createLedger("A", "B")
	ids := s.ids(created.Ledger)

	_, err := s.bills.CreateBill(context.Background(), withToken(&rpc.CreateBillRequest{
		LedgerID: created.Ledger.ID,
		Amount:   d("10.00"),
		Category: "Fun",
		PayerID:  ids[0],
		Splits: []rpc.Split{
			{ParticipantID: ids[0], Amount: d("5.00")},
			{ParticipantID: ids[1], Amount: d("4.99")},
		},
	}, created.Token))
	s.NoError(err)
}

func (s *ServiceSuite) TestGetBill_NotFound() {
	ctx := context.Background()
	first := s.createLedger("A", "B")
	other := s.createLedger("C", "D")

	_, err := s.bills.GetBill(ctx, withToken(&rpc.GetBillRequest{LedgerID: first.Ledger.ID, BillID: "missing"}, first.Token))
	s.requireCode(err, connect.CodeNotFound)

	resp, err := s.bills.CreateBill(ctx, withToken(&rpc.CreateBillRequest{
		LedgerID: other.Ledger.ID, Amount: d("5"), Category: "Fun", PayerID: other.ParticipantID,
	}, other.Token))
	s.Require().NoError(err)

	// A bill from another ledger is invisible.
	_, err = s.bills.GetBill(ctx, withToken(&rpc.GetBillRequest{LedgerID: first.Ledger.ID, BillID: resp.Msg.Bill.ID}, first.Token))
	s.requireCode(err, connect.CodeNotFound)
}

func (s *ServiceSuite) TestListBills_DeleteBill_SetBillSettled() {
	ctx := context.Background()
	created := s.createLedger("A", "B")
	ledgerID := created.Ledger.ID

	var billIDs []string
	for i, amount := range []string{"10", "20", "30"} {
		resp, err := s.bills.CreateBill(ctx, withToken(&rpc.CreateBillRequest{
			LedgerID:   ledgerID,
			Amount:     d(amount),
			Category:   "Utilities",
			PayerID:    created.ParticipantID,
			OccurredAt: fixedNow.AddDate(0, 0, -i),
		}, created.Token))
		s.Require().NoError(err)
		billIDs = append(billIDs, resp.Msg.Bill.ID)
	}

	list, err := s.bills.ListBills(ctx, withToken(&rpc.ListBillsRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Require().Len(list.Msg.Bills, 3)
	s.Equal(billIDs[0], list.Msg.Bills[0].ID, "most recent first")

	settled, err := s.bills.SetBillSettled(ctx, withToken(&rpc.SetBillSettledRequest{
		LedgerID: ledgerID, BillID: billIDs[1], Settled: true,
	}, created.Token))
	s.Require().NoError(err)
	s.True(settled.Msg.Bill.IsSettled)

	unsettled, err := s.bills.ListBills(ctx, withToken(&rpc.ListBillsRequest{LedgerID: ledgerID, UnsettledOnly: true}, created.Token))
	s.Require().NoError(err)
	s.Len(unsettled.Msg.Bills, 2)

	_, err = s.bills.DeleteBill(ctx, withToken(&rpc.DeleteBillRequest{LedgerID: ledgerID, BillID: billIDs[2]}, created.Token))
	s.Require().NoError(err)

	_, err = s.bills.DeleteBill(ctx, withToken(&rpc.DeleteBillRequest{LedgerID: ledgerID, BillID: billIDs[2]}, created.Token))
	s.requireCode(err, connect.CodeNotFound)

	list, err = s.bills.ListBills(ctx, withToken(&rpc.ListBillsRequest{LedgerID: ledgerID}, created.Token))
	s.Require().NoError(err)
	s.Len(list.Msg.Bills, 2)
}
