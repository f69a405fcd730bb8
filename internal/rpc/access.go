package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AccessServiceName is the fully-qualified name of the AccessService.
const AccessServiceName = "splitzy.v1.AccessService"

// Procedure paths, as sent on the wire.
const (
	AccessServiceCreateLedgerProcedure = "/" + AccessServiceName + "/CreateLedger"
	AccessServiceOpenLedgerProcedure   = "/" + AccessServiceName + "/OpenLedger"
)

// AccessServiceHandler is implemented by the server side of the AccessService, which
// creates ledgers and opens sessions on them.
type AccessServiceHandler interface {
	CreateLedger(context.Context, *connect.Request[CreateLedgerRequest]) (*connect.Response[CreateLedgerResponse], error)
	OpenLedger(context.Context, *connect.Request[OpenLedgerRequest]) (*connect.Response[OpenLedgerResponse], error)
}

// NewAccessServiceHandler builds an HTTP handler for every AccessService procedure.
// It returns the path prefix to mount the handler on.
func NewAccessServiceHandler(svc AccessServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	createLedgerHandler := connect.NewUnaryHandler(AccessServiceCreateLedgerProcedure, svc.CreateLedger, opts...)
	openLedgerHandler := connect.NewUnaryHandler(AccessServiceOpenLedgerProcedure, svc.OpenLedger, opts...)
	return "/" + AccessServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AccessServiceCreateLedgerProcedure:
			createLedgerHandler.ServeHTTP(w, r)
		case AccessServiceOpenLedgerProcedure:
			openLedgerHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AccessServiceClient is a typed client for the AccessService.
type AccessServiceClient struct {
	createLedger *connect.Client[CreateLedgerRequest, CreateLedgerResponse]
	openLedger *connect.Client[OpenLedgerRequest, OpenLedgerResponse]
}

// NewAccessServiceClient constructs a client for the AccessService at baseURL.
func NewAccessServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AccessServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &AccessServiceClient{
		createLedger: connect.NewClient[CreateLedgerRequest, CreateLedgerResponse](httpClient, baseURL+AccessServiceCreateLedgerProcedure, opts...),
		openLedger: connect.NewClient[OpenLedgerRequest, OpenLedgerResponse](httpClient, baseURL+AccessServiceOpenLedgerProcedure, opts...),
	}
}

func (c *AccessServiceClient) CreateLedger(ctx context.Context, req *connect.Request[CreateLedgerRequest]) (*connect.Response[CreateLedgerResponse], error) {
	return c.createLedger.CallUnary(ctx, req)
}

func (c *AccessServiceClient) OpenLedger(ctx context.Context, req *connect.Request[OpenLedgerRequest]) (*connect.Response[OpenLedgerResponse], error) {
	return c.openLedger.CallUnary(ctx, req)
}
