package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
)

// defaultRemoteTimeout bounds a single remote analysis call.
const defaultRemoteTimeout = 30 * time.Second

// Client decides when a cached snapshot is reused versus recomputed and
// normalizes the remote response. Concurrent recomputes for the same
// (user, period) are coalesced into a single remote call.
type Client struct {
	deps    Deps
	group   singleflight.Group
	timeout time.Duration
}

// NewClient creates an analysis client from the shared deps.
func NewClient(deps Deps) *Client {
	return &Client{
		deps:    deps,
		timeout: defaultRemoteTimeout,
	}
}

// Analyze returns the snapshot for (userID, period) under the given cache
// policy. On remote failure the cache is left untouched and the error wraps
// common.ErrAnalysisUnavailable so callers can degrade instead of blanking
// already-rendered data.
func (c *Client) Analyze(ctx context.Context, userID string, period model.PeriodKey, opts AnalyzeOptions) (*AnalysisSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if period == "" {
		return nil, fmt.Errorf("period is required")
	}

	if !opts.ForceRecompute && opts.UseCache {
		cached, ok, err := c.deps.Cache.Get(ctx, userID, period)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
		}
		if ok && !c.deps.Cache.IsStale(cached, time.Now()) {
			hit := *cached
			hit.Meta.CacheHit = true
			slog.Debug("snapshot cache hit",
				"user_id", userID,
				"period", period,
				"computed_at", cached.ComputedAt)
			return &hit, nil
		}
	}

	return c.recompute(ctx, userID, period, opts.ForceRecompute)
}

// recompute runs the remote analysis exactly once per in-flight
// (user, period) key; concurrent callers share the same result.
func (c *Client) recompute(ctx context.Context, userID string, period model.PeriodKey, force bool) (*AnalysisSnapshot, error) {
	key := userID + "|" + period.String()

	result, err, shared := c.group.Do(key, func() (any, error) {
		return c.recomputeLocked(ctx, userID, period, force)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("coalesced concurrent analyze call", "key", key)
	}

	snapshot, ok := result.(*AnalysisSnapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected recompute result type %T", result)
	}
	return snapshot, nil
}

func (c *Client) recomputeLocked(ctx context.Context, userID string, period model.PeriodKey, force bool) (*AnalysisSnapshot, error) {
	// A month with nothing to analyze gets a canned snapshot instead of a
	// remote round trip. It is cached like any other snapshot.
	txCount, err := c.deps.Storage.CountTransactions(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	if txCount == 0 {
		snapshot := insufficientDataSnapshot(period, time.Now())
		if err := c.deps.Cache.Put(ctx, userID, period, snapshot); err != nil {
			return nil, fmt.Errorf("failed to cache empty-month snapshot: %w", err)
		}
		slog.Info("analysis skipped, no data for period",
			"user_id", userID,
			"period", period)
		return snapshot, nil
	}

	remoteCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	snapshot, err := c.deps.Remote.Analyze(remoteCtx, RemoteRequest{
		UserID:         userID,
		PeriodKey:      period,
		ForceRecompute: force,
	})
	if err != nil {
		// The stale or absent cache entry is deliberately left alone.
		slog.Warn("remote analysis failed",
			"user_id", userID,
			"period", period,
			"error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrAnalysisUnavailable, err)
	}

	c.normalize(snapshot, period)
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid remote response: %v", common.ErrAnalysisUnavailable, err)
	}

	if err := c.deps.Cache.Put(ctx, userID, period, snapshot); err != nil {
		return nil, fmt.Errorf("failed to cache snapshot: %w", err)
	}

	slog.Info("analysis recomputed",
		"user_id", userID,
		"period", period,
		"insights", len(snapshot.Insights),
		"actions", len(snapshot.NextActions),
		"health_score", snapshot.HealthScore.Score)

	return snapshot, nil
}

// normalize fills the fields the remote function is allowed to omit so that
// every snapshot entering the cache has the same shape.
func (c *Client) normalize(s *AnalysisSnapshot, period model.PeriodKey) {
	if s.PeriodKey == "" {
		s.PeriodKey = period
	}
	if s.ComputedAt.IsZero() {
		s.ComputedAt = time.Now()
	}
	if s.Version == 0 {
		s.Version = CurrentSnapshotVersion
	}
	if s.Forecast.Trend == "" {
		s.Forecast.Trend = TrendStable
	}
	if s.Meta.GeneratedAt.IsZero() {
		s.Meta.GeneratedAt = s.ComputedAt
	}
	s.Meta.CacheHit = false
	for i := range s.Insights {
		s.Insights[i].Priority = model.NormalizePriority(string(s.Insights[i].Priority))
	}
	for i := range s.NextActions {
		s.NextActions[i].Priority = model.NormalizePriority(string(s.NextActions[i].Priority))
	}
	s.SortInsights()
}
