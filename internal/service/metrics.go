package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
)

// Metrics records ledger activity.
type Metrics struct {
	ledgersCreated   prometheus.Counter
	billsCreated     *prometheus.CounterVec
	billAmount       prometheus.Histogram
	settlementRounds prometheus.Counter
	settledAmount    prometheus.Histogram
	summaryCache     *prometheus.CounterVec
}

// NewMetrics registers the ledger metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ledgersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "splitzy_ledgers_created_total",
				Help: "Total number of ledgers created",
			},
		),
		billsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitzy_bills_created_total",
				Help: "Total number of bills recorded by category",
			},
			[]string{"category"},
		),
		billAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitzy_bill_amount",
				Help:    "Bill amount in currency units",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		settlementRounds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "splitzy_settlement_rounds_total",
				Help: "Total number of settle-up rounds",
			},
		),
		settledAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitzy_settled_amount",
				Help:    "Amount cleared per settle-up round in currency units",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		summaryCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitzy_summary_cache_requests_total",
				Help: "Summary cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) LedgerCreated() {
	m.ledgersCreated.Inc()
}

func (m *Metrics) BillCreated(category models.Category, amount decimal.Decimal) {
	m.billsCreated.WithLabelValues(string(category)).Inc()
	m.billAmount.Observe(amount.InexactFloat64())
}

func (m *Metrics) SettlementRecorded(amount decimal.Decimal) {
	m.settlementRounds.Inc()
	m.settledAmount.Observe(amount.InexactFloat64())
}

func (m *Metrics) SummaryCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.summaryCache.WithLabelValues(result).Inc()
}
