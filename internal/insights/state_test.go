package insights

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTrackerDefaultsToIdle(t *testing.T) {
	tracker := newStateTracker()
	state := tracker.get(stateKey("user-1", "2026-08"))
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.NoError(t, state.Err)
}

func TestStateTrackerSetAndGet(t *testing.T) {
	tracker := newStateTracker()
	key := stateKey("user-1", "2026-08")

	tracker.set(key, PhaseLoading, nil)
	assert.Equal(t, PhaseLoading, tracker.get(key).Phase)

	loadErr := errors.New("boom")
	tracker.set(key, PhaseError, loadErr)
	state := tracker.get(key)
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, loadErr, state.Err)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestStateTrackerKeysAreIndependent(t *testing.T) {
	tracker := newStateTracker()
	tracker.set(stateKey("user-1", "2026-08"), PhaseReady, nil)
	assert.Equal(t, PhaseIdle, tracker.get(stateKey("user-1", "2026-07")).Phase)
	assert.Equal(t, PhaseIdle, tracker.get(stateKey("user-2", "2026-08")).Phase)
}

func TestStateTrackerRevert(t *testing.T) {
	tracker := newStateTracker()
	key := stateKey("user-1", "2026-08")

	tracker.set(key, PhaseReady, nil)
	prev := tracker.get(key)

	// A canceled load reverts to what was shown before.
	tracker.set(key, PhaseLoading, nil)
	tracker.revert(key, prev)
	assert.Equal(t, PhaseReady, tracker.get(key).Phase)

	// Revert is a no-op once another load has already settled the key.
	tracker.set(key, PhaseStale, nil)
	tracker.revert(key, prev)
	assert.Equal(t, PhaseStale, tracker.get(key).Phase)
}

func TestPhaseIsTerminal(t *testing.T) {
	assert.False(t, PhaseIdle.IsTerminal())
	assert.False(t, PhaseLoading.IsTerminal())
	assert.True(t, PhaseReady.IsTerminal())
	assert.True(t, PhaseStale.IsTerminal())
	assert.True(t, PhaseError.IsTerminal())
}
