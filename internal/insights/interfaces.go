package insights

import (
	"context"
	"time"

	"github.com/eakarsu/parapilot/internal/model"
)

// RemoteAnalyzer invokes the opaque remote analysis function. The production
// implementation lives in the remote package; tests supply a mock.
type RemoteAnalyzer interface {
	// Analyze computes a fresh snapshot for the requested user and period.
	Analyze(ctx context.Context, req RemoteRequest) (*AnalysisSnapshot, error)
}

// SnapshotCache holds the most recent analysis snapshot per (user, period).
type SnapshotCache interface {
	// Get returns the cached snapshot for the key, if any.
	Get(ctx context.Context, userID string, period model.PeriodKey) (*AnalysisSnapshot, bool, error)
	// Put overwrites the slot for the key. Last writer wins.
	Put(ctx context.Context, userID string, period model.PeriodKey, snapshot *AnalysisSnapshot) error
	// IsStale reports whether the snapshot should be refreshed. Staleness
	// is advisory: it never evicts.
	IsStale(snapshot *AnalysisSnapshot, now time.Time) bool
}

// KVStore is the minimal key-value contract the snapshot cache is built on.
// An in-memory implementation backs tests; the storage package provides a
// durable SQLite-backed one.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
