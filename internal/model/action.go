package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Priority indicates how urgent a recommendation or action item is.
type Priority string

const (
	// PriorityHigh marks actions that should be handled within days.
	PriorityHigh Priority = "HIGH"
	// PriorityMedium marks actions for the current month.
	PriorityMedium Priority = "MEDIUM"
	// PriorityLow marks optional improvements.
	PriorityLow Priority = "LOW"
)

// NormalizePriority coerces arbitrary input into a valid Priority,
// falling back to MEDIUM.
func NormalizePriority(s string) Priority {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Order returns the sort rank of a priority (lower sorts first).
func (p Priority) Order() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ActionStatus is the lifecycle state of a persisted action item.
type ActionStatus string

const (
	// ActionPending means the user has not completed the action yet.
	ActionPending ActionStatus = "pending"
	// ActionDone means the user marked the action as completed.
	ActionDone ActionStatus = "done"
)

// ActionItem is a user-editable task derived from an analysis snapshot's
// recommended actions. Once created it belongs to the user: later syncs
// never overwrite its status or due date.
type ActionItem struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DueDate       *time.Time
	DoneAt        *time.Time
	ID            string
	UserID        string
	Month         PeriodKey
	Title         string
	SourceInsight string
	SourceHash    string
	Priority      Priority
	Status        ActionStatus
}

// Validate ensures the action item is well-formed.
func (a *ActionItem) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("action ID is required")
	}
	if a.UserID == "" {
		return fmt.Errorf("action user ID is required")
	}
	if a.Month == "" {
		return fmt.Errorf("action month is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("action title is required")
	}
	if a.Status != ActionPending && a.Status != ActionDone {
		return fmt.Errorf("invalid action status: %s", a.Status)
	}
	return nil
}

// ActionSourceHash fingerprints a recommended action so that repeated syncs
// of the same snapshot can be de-duplicated. Title comparison is
// case-insensitive and whitespace-trimmed.
func ActionSourceHash(title string, priority Priority, dueInDays int) string {
	data := fmt.Sprintf("%s|%s|%d",
		strings.ToLower(strings.TrimSpace(title)),
		priority,
		dueInDays)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)[:16]
}
