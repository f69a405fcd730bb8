package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

func (s *ServiceSuite) TestCreateLedger() {
	created := s.createLedger("Alice", "Bob", "Chloe")

	s.NotEmpty(created.Ledger.ID)
	s.NotEmpty(created.Token)
	s.Len(created.Ledger.Participants, 3)
	s.Equal(created.Ledger.Participants[0].ID, created.ParticipantID)
	s.False(created.Ledger.HasPasscode)

	got, err := s.ledgers.GetLedger(context.Background(),
		withToken(&rpc.GetLedgerRequest{LedgerID: created.Ledger.ID}, created.Token))
	s.Require().NoError(err)
	s.Equal(created.Ledger, got.Msg.Ledger)
}

func (s *ServiceSuite) TestCreateLedger_InvalidRoster() {
	tests := []struct {
		name string
		req  *rpc.CreateLedgerRequest
	}{
		{"one participant", &rpc.CreateLedgerRequest{Name: "Solo", Participants: []rpc.NewParticipant{{DisplayName: "A"}}}},
		{"six participants", &rpc.CreateLedgerRequest{Name: "Crowd", Participants: []rpc.NewParticipant{
			{DisplayName: "A"}, {DisplayName: "B"}, {DisplayName: "C"},
			{DisplayName: "D"}, {DisplayName: "E"}, {DisplayName: "F"},
		}}},
		{"blank name", &rpc.CreateLedgerRequest{Participants: []rpc.NewParticipant{{DisplayName: "A"}, {DisplayName: "B"}}}},
		{"blank participant", &rpc.CreateLedgerRequest{Name: "X", Participants: []rpc.NewParticipant{{DisplayName: "A"}, {}}}},
		{"weak passcode", &rpc.CreateLedgerRequest{Name: "X", Passcode: "12",
			Participants: []rpc.NewParticipant{{DisplayName: "A"}, {DisplayName: "B"}}}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.access.CreateLedger(context.Background(), connect.NewRequest(tt.req))
			s.requireCode(err, connect.CodeInvalidArgument)
		})
	}
}

func (s *ServiceSuite) TestOpenLedger() {
	ctx := context.Background()
	created, err := s.access.CreateLedger(ctx, connect.NewRequest(&rpc.CreateLedgerRequest{
		Name:         "Locked",
		Passcode:     "hunter22",
		Participants: []rpc.NewParticipant{{DisplayName: "A"}, {DisplayName: "B"}},
	}))
	s.Require().NoError(err)
	ledger := created.Msg.Ledger
	s.True(ledger.HasPasscode)
	bob := ledger.Participants[1].ID

	s.Run("correct passcode", func() {
		resp, err := s.access.OpenLedger(ctx, connect.NewRequest(&rpc.OpenLedgerRequest{
			LedgerID: ledger.ID, ParticipantID: bob, Passcode: "hunter22",
		}))
		s.Require().NoError(err)
		s.NotEmpty(resp.Msg.Token)

		summary, err := s.ledgers.GetSummary(ctx, withToken(&rpc.GetSummaryRequest{LedgerID: ledger.ID}, resp.Msg.Token))
		s.Require().NoError(err)
		s.Require().NotNil(summary.Msg.Caller)
		s.Equal(bob, summary.Msg.Caller.ParticipantID)
	})

	s.Run("wrong passcode", func() {
		_, err := s.access.OpenLedger(ctx, connect.NewRequest(&rpc.OpenLedgerRequest{
			LedgerID: ledger.ID, ParticipantID: bob, Passcode: "nope",
		}))
		s.requireCode(err, connect.CodeUnauthenticated)
	})

	s.Run("unknown participant", func() {
		_, err := s.access.OpenLedger(ctx, connect.NewRequest(&rpc.OpenLedgerRequest{
			LedgerID: ledger.ID, ParticipantID: "stranger", Passcode: "hunter22",
		}))
		s.requireCode(err, connect.CodeInvalidArgument)
	})

	s.Run("unknown ledger", func() {
		_, err := s.access.OpenLedger(ctx, connect.NewRequest(&rpc.OpenLedgerRequest{
			LedgerID: "missing", ParticipantID: bob,
		}))
		s.requireCode(err, connect.CodeNotFound)
	})
}

func (s *ServiceSuite) TestSessionScoping() {
	ctx := context.Background()
	first := s.createLedger("A", "B")
	second := s.createLedger("C", "D")

	_, err := s.ledgers.GetLedger(ctx, connect.NewRequest(&rpc.GetLedgerRequest{LedgerID: first.Ledger.ID}))
	s.requireCode(err, connect.CodeUnauthenticated)

	_, err = s.ledgers.GetLedger(ctx, withToken(&rpc.GetLedgerRequest{LedgerID: first.Ledger.ID}, "garbage"))
	s.requireCode(err, connect.CodeUnauthenticated)

	_, err = s.ledgers.GetLedger(ctx, withToken(&rpc.GetLedgerRequest{LedgerID: first.Ledger.ID}, second.Token))
	s.requireCode(err, connect.CodePermissionDenied)

	_, err = s.bills.ListBills(ctx, withToken(&rpc.ListBillsRequest{LedgerID: first.Ledger.ID}, second.Token))
	s.requireCode(err, connect.CodePermissionDenied)
}

func (s *ServiceSuite) TestMetricsRegistered() {
	s.createLedger("A", "B")

	families, err := s.registry.Gather()
	s.Require().NoError(err)

	var created float64
	for _, mf := range families {
		if mf.GetName() == "splitzy_ledgers_created_total" {
			created = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	s.Equal(float64(1), created)
}
