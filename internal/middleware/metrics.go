package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPCMetrics holds the request counters and latency histogram for the RPC surface.
type RPCMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRPCMetrics registers RPC metrics with reg.
func NewRPCMetrics(reg prometheus.Registerer) *RPCMetrics {
	factory := promauto.With(reg)
	return &RPCMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitzy_rpc_requests_total",
				Help: "Total number of RPC requests by procedure and result code",
			},
			[]string{"procedure", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitzy_rpc_duration_seconds",
				Help:    "RPC handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
	}
}

// Interceptor records a request count and latency for every unary call.
func (m *RPCMetrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.requests.WithLabelValues(procedure, code).Inc()
			m.duration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
