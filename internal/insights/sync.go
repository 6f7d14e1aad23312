package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eakarsu/parapilot/internal/common"
	"github.com/eakarsu/parapilot/internal/model"
	"github.com/eakarsu/parapilot/internal/service"
)

// maxDueInDays caps how far out a synced action's due date may land.
const maxDueInDays = 90

// Synchronizer reconciles a snapshot's recommended actions with the
// persisted, user-editable action list for a month. The merge is idempotent:
// actions are matched by source hash, existing items are never overwritten,
// and items the user deleted are not re-inserted within the same snapshot
// generation.
type Synchronizer struct {
	storage service.Storage
	months  map[string]*monthState
	mu      sync.Mutex
}

// monthState serializes merges for one (user, month) and tracks which
// source hashes the user deleted under the current snapshot generation.
type monthState struct {
	generation time.Time
	tombstones map[string]struct{}
	mu         sync.Mutex
}

// NewSynchronizer creates an action synchronizer over the given storage.
func NewSynchronizer(storage service.Storage) *Synchronizer {
	return &Synchronizer{
		storage: storage,
		months:  make(map[string]*monthState),
	}
}

func (s *Synchronizer) monthStateFor(userID string, month model.PeriodKey) *monthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + "|" + month.String()
	st, ok := s.months[key]
	if !ok {
		st = &monthState{tombstones: make(map[string]struct{})}
		s.months[key] = st
	}
	return st
}

// Merge folds the snapshot's recommended actions into the persisted list and
// returns the reconciled result.
//
// Rules:
//   - a recommendation whose hash is unknown becomes a new pending item
//   - a recommendation whose hash already exists is left untouched, so the
//     user's status and due-date edits survive re-syncs
//   - persisted items whose hash no longer appears are kept, not deleted
//   - hashes the user deleted stay gone until the next recompute generation
func (s *Synchronizer) Merge(ctx context.Context, userID string, month model.PeriodKey, snapshot *AnalysisSnapshot) ([]model.ActionItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if snapshot == nil {
		return s.storage.GetActionItems(ctx, userID, month)
	}

	st := s.monthStateFor(userID, month)
	st.mu.Lock()
	defer st.mu.Unlock()

	// A new recompute starts a new generation: deletions from the previous
	// snapshot no longer suppress re-inserts.
	if !snapshot.ComputedAt.Equal(st.generation) {
		st.generation = snapshot.ComputedAt
		st.tombstones = make(map[string]struct{})
	}

	persisted, err := s.storage.GetActionItems(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load action items: %w", err)
	}

	existing := make(map[string]struct{}, len(persisted))
	for _, item := range persisted {
		existing[item.SourceHash] = struct{}{}
	}

	created := 0
	now := time.Now()
	for _, action := range snapshot.NextActions {
		title := strings.TrimSpace(action.Title)
		if title == "" {
			continue
		}

		hash := action.SourceHash()
		if _, ok := existing[hash]; ok {
			continue
		}
		if _, deleted := st.tombstones[hash]; deleted {
			continue
		}

		item := &model.ActionItem{
			ID:         uuid.New().String(),
			UserID:     userID,
			Month:      month,
			Title:      title,
			Priority:   action.Priority,
			Status:     model.ActionPending,
			SourceHash: hash,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if action.DueInDays > 0 {
			days := action.DueInDays
			if days > maxDueInDays {
				days = maxDueInDays
			}
			due := now.AddDate(0, 0, days)
			item.DueDate = &due
		}

		if err := s.storage.SaveActionItem(ctx, item); err != nil {
			if errors.Is(err, common.ErrDuplicateEntry) {
				// Another merge inserted the same hash between our read
				// and this write.
				return nil, fmt.Errorf("%w: action %q", common.ErrSyncConflict, title)
			}
			return nil, fmt.Errorf("failed to save action item: %w", err)
		}
		existing[hash] = struct{}{}
		created++
	}

	if created > 0 {
		slog.Info("synced recommended actions",
			"user_id", userID,
			"month", month,
			"created", created)
	}

	return s.storage.GetActionItems(ctx, userID, month)
}

// ToggleStatus flips an action between pending and done.
func (s *Synchronizer) ToggleStatus(ctx context.Context, actionID string) (*model.ActionItem, error) {
	item, err := s.storage.GetActionItem(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load action item: %w", err)
	}

	now := time.Now()
	if item.Status == model.ActionDone {
		item.Status = model.ActionPending
		item.DoneAt = nil
	} else {
		item.Status = model.ActionDone
		item.DoneAt = &now
	}
	item.UpdatedAt = now

	if err := s.storage.UpdateActionItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update action item: %w", err)
	}
	return item, nil
}

// Delete removes an action item and tombstones its hash so the current
// snapshot generation cannot silently re-insert it.
func (s *Synchronizer) Delete(ctx context.Context, actionID string) error {
	item, err := s.storage.GetActionItem(ctx, actionID)
	if err != nil {
		return fmt.Errorf("failed to load action item: %w", err)
	}

	st := s.monthStateFor(item.UserID, item.Month)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.storage.DeleteActionItem(ctx, actionID); err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}

	if item.SourceHash != "" {
		st.tombstones[item.SourceHash] = struct{}{}
	}

	slog.Info("deleted action item",
		"user_id", item.UserID,
		"month", item.Month,
		"action_id", actionID)
	return nil
}

// ApplyType identifies the side effect an action apply performs.
type ApplyType string

const (
	// ApplySetBudget creates or updates a category budget.
	ApplySetBudget ApplyType = "set_budget"
	// ApplyCreateGoal creates a new active financial goal.
	ApplyCreateGoal ApplyType = "create_goal"
	// ApplyCancelSubscription removes a subscription by name.
	ApplyCancelSubscription ApplyType = "cancel_subscription"
)

// ApplyRequest describes the side effect to perform when applying an action.
type ApplyRequest struct {
	Type             ApplyType
	CategoryName     string
	SubscriptionName string
	GoalTitle        string
	MetricType       model.GoalMetric
	Amount           decimal.Decimal
	TargetAmount     decimal.Decimal
}

// ApplyAction performs the requested side effect and marks the action done.
func (s *Synchronizer) ApplyAction(ctx context.Context, actionID string, req ApplyRequest) error {
	item, err := s.storage.GetActionItem(ctx, actionID)
	if err != nil {
		return fmt.Errorf("failed to load action item: %w", err)
	}

	switch req.Type {
	case ApplySetBudget:
		if req.CategoryName == "" || req.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("set_budget requires a category name and a positive amount")
		}
		budget := &model.Budget{
			ID:       uuid.New().String(),
			UserID:   item.UserID,
			Category: req.CategoryName,
			Amount:   req.Amount,
		}
		if err := s.storage.UpsertBudget(ctx, budget); err != nil {
			return fmt.Errorf("failed to set budget: %w", err)
		}

	case ApplyCreateGoal:
		if req.GoalTitle == "" || req.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("create_goal requires a title and a positive target amount")
		}
		metric := req.MetricType
		if metric == "" {
			metric = model.GoalMetricSavings
		}
		goal := &model.Goal{
			ID:           uuid.New().String(),
			UserID:       item.UserID,
			Title:        req.GoalTitle,
			TargetAmount: req.TargetAmount,
			MetricType:   metric,
			Status:       model.GoalActive,
			CreatedAt:    time.Now(),
		}
		if err := s.storage.SaveGoal(ctx, goal); err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

	case ApplyCancelSubscription:
		if req.SubscriptionName == "" {
			return fmt.Errorf("cancel_subscription requires a subscription name")
		}
		found, err := s.storage.DeleteSubscriptionByName(ctx, item.UserID, req.SubscriptionName)
		if err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		if !found {
			return fmt.Errorf("subscription %q: %w", req.SubscriptionName, common.ErrNotFound)
		}

	default:
		return fmt.Errorf("unknown apply type: %s", req.Type)
	}

	now := time.Now()
	item.Status = model.ActionDone
	item.DoneAt = &now
	item.UpdatedAt = now
	if err := s.storage.UpdateActionItem(ctx, item); err != nil {
		return fmt.Errorf("failed to mark action done: %w", err)
	}

	slog.Info("applied action",
		"user_id", item.UserID,
		"action_id", actionID,
		"type", req.Type)
	return nil
}

// ActionStats summarizes an action list for display.
type ActionStats struct {
	Total   int
	Done    int
	Pending int
}

// ComputeActionStats counts done and pending items.
func ComputeActionStats(items []model.ActionItem) ActionStats {
	stats := ActionStats{Total: len(items)}
	for _, item := range items {
		if item.Status == model.ActionDone {
			stats.Done++
		} else {
			stats.Pending++
		}
	}
	return stats
}
