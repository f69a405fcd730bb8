package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "splitzy.v1.BillService"

// Procedure paths, as sent on the wire.
const (
	BillServicePreviewSplitProcedure   = "/" + BillServiceName + "/PreviewSplit"
	BillServiceCreateBillProcedure     = "/" + BillServiceName + "/CreateBill"
	BillServiceGetBillProcedure        = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure      = "/" + BillServiceName + "/ListBills"
	BillServiceDeleteBillProcedure     = "/" + BillServiceName + "/DeleteBill"
	BillServiceSetBillSettledProcedure = "/" + BillServiceName + "/SetBillSettled"
)

// BillServiceHandler is implemented by the server side of the BillService, which
// records and queries bills.
type BillServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
	SetBillSettled(context.Context, *connect.Request[SetBillSettledRequest]) (*connect.Response[SetBillSettledResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for every BillService procedure.
// It returns the path prefix to mount the handler on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	previewSplitHandler := connect.NewUnaryHandler(BillServicePreviewSplitProcedure, svc.PreviewSplit, opts...)
	createBillHandler := connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...)
	getBillHandler := connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...)
	listBillsHandler := connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...)
	deleteBillHandler := connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...)
	setBillSettledHandler := connect.NewUnaryHandler(BillServiceSetBillSettledProcedure, svc.SetBillSettled, opts...)
	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServicePreviewSplitProcedure:
			previewSplitHandler.ServeHTTP(w, r)
		case BillServiceCreateBillProcedure:
			createBillHandler.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			getBillHandler.ServeHTTP(w, r)
		case BillServiceListBillsProcedure:
			listBillsHandler.ServeHTTP(w, r)
		case BillServiceDeleteBillProcedure:
			deleteBillHandler.ServeHTTP(w, r)
		case BillServiceSetBillSettledProcedure:
			setBillSettledHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BillServiceClient is a typed client for the BillService.
type BillServiceClient struct {
	previewSplit *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	createBill *connect.Client[CreateBillRequest, CreateBillResponse]
	getBill *connect.Client[GetBillRequest, GetBillResponse]
	listBills *connect.Client[ListBillsRequest, ListBillsResponse]
	deleteBill *connect.Client[DeleteBillRequest, DeleteBillResponse]
	setBillSettled *connect.Client[SetBillSettledRequest, SetBillSettledResponse]
}

// NewBillServiceClient constructs a client for the BillService at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &BillServiceClient{
		previewSplit: connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](httpClient, baseURL+BillServicePreviewSplitProcedure, opts...),
		createBill: connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill: connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills: connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		deleteBill: connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		setBillSettled: connect.NewClient[SetBillSettledRequest, SetBillSettledResponse](httpClient, baseURL+BillServiceSetBillSettledProcedure, opts...),
	}
}

func (c *BillServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetBillSettled(ctx context.Context, req *connect.Request[SetBillSettledRequest]) (*connect.Response[SetBillSettledResponse], error) {
	return c.setBillSettled.CallUnary(ctx, req)
}
