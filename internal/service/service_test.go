package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage/sqlite"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	server   *httptest.Server
	store    *sqlite.SQLiteStore
	cache    *cache.Memory
	registry *prometheus.Registry

	access  *rpc.AccessServiceClient
	ledgers *rpc.LedgerServiceClient
	bills   *rpc.BillServiceClient
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	store, err := sqlite.New(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.store = store

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.registry = prometheus.NewRegistry()
	metrics := NewMetrics(s.registry)
	v := validation.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	s.cache = cache.NewMemory(100, time.Minute)

	accessSvc := NewAccessService(store, auth.NewPasscodeAuthenticator(bcrypt.MinCost), jwtManager, v, metrics, logger)
	ledgerSvc := NewLedgerService(store, s.cache, v, metrics, logger)
	billSvc := NewBillService(store, v, metrics, logger)
	ledgerSvc.now = func() time.Time { return fixedNow }
	billSvc.now = func() time.Time { return fixedNow }

	authInterceptor := connect.WithInterceptors(middleware.RequireAuth(jwtManager))
	mux := http.NewServeMux()
	mux.Handle(rpc.NewAccessServiceHandler(accessSvc))
	mux.Handle(rpc.NewLedgerServiceHandler(ledgerSvc, authInterceptor))
	mux.Handle(rpc.NewBillServiceHandler(billSvc, authInterceptor))
	s.server = httptest.NewServer(mux)

	s.access = rpc.NewAccessServiceClient(http.DefaultClient, s.server.URL)
	s.ledgers = rpc.NewLedgerServiceClient(http.DefaultClient, s.server.URL)
	s.bills = rpc.NewBillServiceClient(http.DefaultClient, s.server.URL)
}

func (s *ServiceSuite) TearDownTest() {
	s.server.Close()
	s.store.Close()
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *ServiceSuite) requireCode(err error, code connect.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(code, connect.CodeOf(err), "unexpected error: %v", err)
}

func (s *ServiceSuite) assertAmount(want string, got decimal.Decimal) {
	s.T().Helper()
	s.Truef(d(want).Equal(got), "want %s, got %s", want, got.String())
}

// createLedger creates a ledger whose session belongs to the first participant.
func (s *ServiceSuite) createLedger(names ...string) *rpc.CreateLedgerResponse {
	s.T().Helper()
	req := &rpc.CreateLedgerRequest{Name: "Flat 4B"}
	for _, n := range names {
		req.Participants = append(req.Participants, rpc.NewParticipant{DisplayName: n})
	}
	resp, err := s.access.CreateLedger(context.Background(), connect.NewRequest(req))
	s.Require().NoError(err)
	return resp.Msg
}

func (s *ServiceSuite) ids(l rpc.Ledger) []string {
	out := make([]string, len(l.Participants))
	for i, p := range l.Participants {
		out[i] = p.ID
	}
	return out
}
