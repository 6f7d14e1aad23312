// Package insights implements the monthly analysis cache and derived-action
// synchronization protocol: cache-first analysis, idempotent action merging,
// what-if scenarios, and the per-month overview read-model.
package insights

import (
	"fmt"

	"github.com/eakarsu/parapilot/internal/service"
)

// Deps contains all dependencies required by the insights components.
type Deps struct {
	// Storage provides access to the persistence layer.
	Storage service.Storage
	// Remote invokes the remote analysis function.
	Remote RemoteAnalyzer
	// Cache holds per-(user, period) analysis snapshots.
	Cache SnapshotCache
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Storage == nil {
		return fmt.Errorf("storage dependency is required")
	}
	if d.Remote == nil {
		return fmt.Errorf("remote analyzer dependency is required")
	}
	if d.Cache == nil {
		return fmt.Errorf("snapshot cache dependency is required")
	}
	return nil
}

// Service bundles the insights components behind a single constructor so
// callers wire one thing instead of four.
type Service struct {
	Client       *Client
	Synchronizer *Synchronizer
	Scenarios    *ScenarioEngine
	Overview     *Aggregator
}

// NewService creates the full insights component graph from shared deps.
func NewService(deps Deps) (*Service, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	client := NewClient(deps)
	sync := NewSynchronizer(deps.Storage)
	scenarios := NewScenarioEngine(deps.Storage)

	return &Service{
		Client:       client,
		Synchronizer: sync,
		Scenarios:    scenarios,
		Overview:     NewAggregator(client, sync, deps.Storage, deps.Cache),
	}, nil
}
