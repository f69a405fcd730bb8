package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/calculator"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/rpc"
)

// BuildSummary runs the settlement engine over a ledger's bills.
// Monthly stats are for the calendar month of now. Caller is left empty.
func BuildSummary(ledger *models.Ledger, bills []*models.Bill, now time.Time) *rpc.GetSummaryResponse {
	values := make([]models.Bill, len(bills))
	for i, b := range bills {
		values[i] = *b
	}

	memberBalances := calculator.CalculateMemberBalances(ledger.Participants, values)
	balances := make([]rpc.Balance, len(memberBalances))
	for i, mb := range memberBalances {
		balances[i] = rpc.Balance{
			ParticipantID: mb.ParticipantID,
			NetBalance:    mb.NetBalance,
			TotalPaid:     mb.TotalPaid,
			TotalOwed:     mb.TotalOwed,
		}
	}

	net := calculator.ComputeBalances(ledger.Participants, values)
	transfers := calculator.SimplifyDebts(net, ledger.Participants)
	unsettledCount, unsettledAmount := calculator.UnsettledTotals(values)

	return &rpc.GetSummaryResponse{
		Month:           now.Format("2006-01"),
		Balances:        balances,
		Transfers:       rpc.FromTransfers(transfers),
		Stats:           rpc.FromStats(calculator.ComputeSpendingStats(values, now)),
		UnsettledBills:  unsettledCount,
		UnsettledAmount: unsettledAmount,
	}
}

// CallerSummary derives participantID's own position from a built summary.
// Returns nil when the participant is not on the roster.
func CallerSummary(summary *rpc.GetSummaryResponse, participantID string) *rpc.ParticipantSummary {
	net := make(map[string]decimal.Decimal, len(summary.Balances))
	for _, b := range summary.Balances {
		net[b.ParticipantID] = b.NetBalance
	}
	if _, ok := net[participantID]; !ok {
		return nil
	}
	s := rpc.FromParticipantSummary(calculator.SummarizeParticipant(net, rpc.ToTransfers(summary.Transfers), participantID))
	return &s
}

// summaryCache wraps a cache.Cache for encoded summaries.
// Cache failures are logged and treated as misses.
type summaryCache struct {
	cache   cache.Cache
	metrics *Metrics
	logger  *slog.Logger
}

func (c summaryCache) load(ctx context.Context, ledger *models.Ledger, now time.Time) (*rpc.GetSummaryResponse, bool) {
	key := cache.SummaryKey(ledger.ID, ledger.Revision, now)
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Summary cache read failed", "key", key, "error", err)
	}
	if err != nil || !ok {
		c.metrics.SummaryCacheResult(false)
		return nil, false
	}

	var summary rpc.GetSummaryResponse
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("Discarding undecodable cached summary", "key", key, "error", err)
		c.metrics.SummaryCacheResult(false)
		return nil, false
	}
	c.metrics.SummaryCacheResult(true)
	return &summary, true
}

// store caches summary under the revision it was built from and drops the
// entry for the revision before it.
func (c summaryCache) store(ctx context.Context, ledger *models.Ledger, now time.Time, summary *rpc.GetSummaryResponse) {
	key := cache.SummaryKey(ledger.ID, ledger.Revision, now)
	data, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("Failed to encode summary for cache", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, data); err != nil {
		c.logger.Warn("Summary cache write failed", "key", key, "error", err)
	}

	if ledger.Revision > 0 {
		stale := cache.SummaryKey(ledger.ID, ledger.Revision-1, now)
		if err := c.cache.Delete(ctx, stale); err != nil {
			c.logger.Warn("Summary cache cleanup failed", "key", stale, "error", err)
		}
	}
}
