package insights

import (
	"sync"
	"time"

	"github.com/eakarsu/parapilot/internal/model"
)

// Phase is the loading phase of one month's overview.
type Phase string

const (
	// PhaseIdle means no load has been requested yet.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a load is in flight.
	PhaseLoading Phase = "loading"
	// PhaseReady means a fresh snapshot is available.
	PhaseReady Phase = "ready"
	// PhaseStale means data is shown from an outdated snapshot.
	PhaseStale Phase = "stale"
	// PhaseError means the load failed with no snapshot to fall back on.
	PhaseError Phase = "error"
)

// IsTerminal reports whether the phase represents a settled load.
func (p Phase) IsTerminal() bool {
	return p == PhaseReady || p == PhaseStale || p == PhaseError
}

// LoadState is the observable state of one (user, month) key. Screens render
// from this instead of juggling ad hoc loading booleans.
type LoadState struct {
	UpdatedAt time.Time
	Err       error
	Phase     Phase
}

// stateTracker keeps the per-key load states behind a mutex.
type stateTracker struct {
	states map[string]LoadState
	mu     sync.RWMutex
}

func newStateTracker() *stateTracker {
	return &stateTracker{states: make(map[string]LoadState)}
}

func stateKey(userID string, month model.PeriodKey) string {
	return userID + "|" + month.String()
}

func (t *stateTracker) get(key string) LoadState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if st, ok := t.states[key]; ok {
		return st
	}
	return LoadState{Phase: PhaseIdle}
}

func (t *stateTracker) set(key string, phase Phase, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.states[key] = LoadState{
		Phase:     phase,
		Err:       err,
		UpdatedAt: time.Now(),
	}
}

// revert restores the previous state when a load is abandoned mid-flight,
// so a canceled request does not leave the key stuck in loading.
func (t *stateTracker) revert(key string, prev LoadState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.states[key]; ok && cur.Phase == PhaseLoading {
		t.states[key] = prev
	}
}
