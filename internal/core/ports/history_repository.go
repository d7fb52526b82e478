package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// LoadHistoryRepository keeps the event log of each load.
type LoadHistoryRepository interface {
	// Append stores e. Appending an event id twice keeps the first copy.
	Append(ctx context.Context, e load.Event) error

	// List returns the events of a load, oldest first.
	List(ctx context.Context, tenantID, loadID kernel.UUID) ([]load.Event, error)
}
