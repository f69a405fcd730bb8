// Package cache stores encoded ledger summaries between requests.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines a byte-value cache keyed by string.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for the cache's TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// SummaryKey is the key a ledger's summary is cached under at the given
// ledger revision, for the month of at. A write to the ledger moves readers
// to a new key, so a summary built from older data is never served again.
func SummaryKey(ledgerID string, revision int64, at time.Time) string {
	return fmt.Sprintf("summary:%s:r%d:%s", ledgerID, revision, at.Format("2006-01"))
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error { return nil }
func (Noop) Delete(context.Context, string) error { return nil }
