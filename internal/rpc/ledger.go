package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitzy.v1.LedgerService"

// Procedure paths, as sent on the wire.
const (
	LedgerServiceGetLedgerProcedure            = "/" + LedgerServiceName + "/GetLedger"
	LedgerServiceRenameLedgerProcedure         = "/" + LedgerServiceName + "/RenameLedger"
	LedgerServiceAddParticipantProcedure       = "/" + LedgerServiceName + "/AddParticipant"
	LedgerServiceRenameParticipantProcedure    = "/" + LedgerServiceName + "/RenameParticipant"
	LedgerServiceGetSummaryProcedure           = "/" + LedgerServiceName + "/GetSummary"
	LedgerServiceSettleAllProcedure            = "/" + LedgerServiceName + "/SettleAll"
	LedgerServiceListSettlementRoundsProcedure = "/" + LedgerServiceName + "/ListSettlementRounds"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService, which
// manages a ledger's roster, summary and settle-ups.
type LedgerServiceHandler interface {
	GetLedger(context.Context, *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error)
	RenameLedger(context.Context, *connect.Request[RenameLedgerRequest]) (*connect.Response[RenameLedgerResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	RenameParticipant(context.Context, *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
	SettleAll(context.Context, *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error)
	ListSettlementRounds(context.Context, *connect.Request[ListSettlementRoundsRequest]) (*connect.Response[ListSettlementRoundsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService procedure.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	getLedgerHandler := connect.NewUnaryHandler(LedgerServiceGetLedgerProcedure, svc.GetLedger, opts...)
	renameLedgerHandler := connect.NewUnaryHandler(LedgerServiceRenameLedgerProcedure, svc.RenameLedger, opts...)
	addParticipantHandler := connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...)
	renameParticipantHandler := connect.NewUnaryHandler(LedgerServiceRenameParticipantProcedure, svc.RenameParticipant, opts...)
	getSummaryHandler := connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, opts...)
	settleAllHandler := connect.NewUnaryHandler(LedgerServiceSettleAllProcedure, svc.SettleAll, opts...)
	listSettlementRoundsHandler := connect.NewUnaryHandler(LedgerServiceListSettlementRoundsProcedure, svc.ListSettlementRounds, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceGetLedgerProcedure:
			getLedgerHandler.ServeHTTP(w, r)
		case LedgerServiceRenameLedgerProcedure:
			renameLedgerHandler.ServeHTTP(w, r)
		case LedgerServiceAddParticipantProcedure:
			addParticipantHandler.ServeHTTP(w, r)
		case LedgerServiceRenameParticipantProcedure:
			renameParticipantHandler.ServeHTTP(w, r)
		case LedgerServiceGetSummaryProcedure:
			getSummaryHandler.ServeHTTP(w, r)
		case LedgerServiceSettleAllProcedure:
			settleAllHandler.ServeHTTP(w, r)
		case LedgerServiceListSettlementRoundsProcedure:
			listSettlementRoundsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a typed client for the LedgerService.
type LedgerServiceClient struct {
	getLedger *connect.Client[GetLedgerRequest, GetLedgerResponse]
	renameLedger *connect.Client[RenameLedgerRequest, RenameLedgerResponse]
	addParticipant *connect.Client[AddParticipantRequest, AddParticipantResponse]
	renameParticipant *connect.Client[RenameParticipantRequest, RenameParticipantResponse]
	getSummary *connect.Client[GetSummaryRequest, GetSummaryResponse]
	settleAll *connect.Client[SettleAllRequest, SettleAllResponse]
	listSettlementRounds *connect.Client[ListSettlementRoundsRequest, ListSettlementRoundsResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &LedgerServiceClient{
		getLedger: connect.NewClient[GetLedgerRequest, GetLedgerResponse](httpClient, baseURL+LedgerServiceGetLedgerProcedure, opts...),
		renameLedger: connect.NewClient[RenameLedgerRequest, RenameLedgerResponse](httpClient, baseURL+LedgerServiceRenameLedgerProcedure, opts...),
		addParticipant: connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		renameParticipant: connect.NewClient[RenameParticipantRequest, RenameParticipantResponse](httpClient, baseURL+LedgerServiceRenameParticipantProcedure, opts...),
		getSummary: connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
		settleAll: connect.NewClient[SettleAllRequest, SettleAllResponse](httpClient, baseURL+LedgerServiceSettleAllProcedure, opts...),
		listSettlementRounds: connect.NewClient[ListSettlementRoundsRequest, ListSettlementRoundsResponse](httpClient, baseURL+LedgerServiceListSettlementRoundsProcedure, opts...),
	}
}

func (c *LedgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RenameLedger(ctx context.Context, req *connect.Request[RenameLedgerRequest]) (*connect.Response[RenameLedgerResponse], error) {
	return c.renameLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RenameParticipant(ctx context.Context, req *connect.Request[RenameParticipantRequest]) (*connect.Response[RenameParticipantResponse], error) {
	return c.renameParticipant.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleAll(ctx context.Context, req *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error) {
	return c.settleAll.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSettlementRounds(ctx context.Context, req *connect.Request[ListSettlementRoundsRequest]) (*connect.Response[ListSettlementRoundsResponse], error) {
	return c.listSettlementRounds.CallUnary(ctx, req)
}
