package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/eakarsu/parapilot/internal/model"
)

// CacheStore implements SnapshotCache on top of an injected KVStore. One
// slot exists per (user, period); each Put overwrites the previous snapshot.
// Nothing is ever evicted implicitly.
type CacheStore struct {
	kv KVStore
}

// NewCacheStore creates a snapshot cache backed by the given key-value store.
func NewCacheStore(kv KVStore) (*CacheStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	return &CacheStore{kv: kv}, nil
}

func cacheKey(userID string, period model.PeriodKey) string {
	return fmt.Sprintf("snapshot:%s:%s", userID, period)
}

// Get returns the cached snapshot for the key, if any.
func (c *CacheStore) Get(ctx context.Context, userID string, period model.PeriodKey) (*AnalysisSnapshot, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("user ID is required")
	}

	data, ok, err := c.kv.Get(ctx, cacheKey(userID, period))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot cache: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var snapshot AnalysisSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt entry behaves like a miss; the next recompute
		// overwrites it.
		return nil, false, nil
	}

	return &snapshot, true, nil
}

// Put overwrites the slot for the key. Last writer wins.
func (c *CacheStore) Put(ctx context.Context, userID string, period model.PeriodKey, snapshot *AnalysisSnapshot) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := c.kv.Set(ctx, cacheKey(userID, period), data); err != nil {
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}

	return nil
}

// IsStale reports whether a snapshot is older than the TTL or carries an
// outdated schema version.
func (c *CacheStore) IsStale(snapshot *AnalysisSnapshot, now time.Time) bool {
	if snapshot == nil {
		return true
	}
	if snapshot.Version < CurrentSnapshotVersion {
		return true
	}
	return now.Sub(snapshot.ComputedAt) > SnapshotTTL
}

// MemoryKVStore is a thread-safe in-memory KVStore. It backs the snapshot
// cache in tests and single-process deployments.
type MemoryKVStore struct {
	entries map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryKVStore creates an empty in-memory key-value store.
func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{entries: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (m *MemoryKVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Set stores a value under the key, replacing any previous value.
func (m *MemoryKVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Delete removes the key if present.
func (m *MemoryKVStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
