// Package ports declares what the core needs from the outside world:
// persistence, locking, time, caching and event delivery.
package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// ResourceKind selects the load column a holder lookup filters on.
type ResourceKind string

const (
	ResourceTruck  ResourceKind = "truck"
	ResourceDriver ResourceKind = "driver"
)

// LoadFilter narrows a tenant's load listing. Zero fields do not filter.
type LoadFilter struct {
	Status     *load.Status
	CustomerID *kernel.UUID
	TruckID    *kernel.UUID
	DriverID   *kernel.UUID
	Limit      int
	Offset     int
}

// LoadRepository persists load aggregates. Every lookup except
// FindByTrackingCode is scoped to a tenant; a load of another tenant is
// reported as not found.
type LoadRepository interface {
	// Add stores a new load. A duplicate load number within the tenant, or a
	// duplicate tracking token, is a ResourceConflictError.
	Add(ctx context.Context, aggregate *load.Load) error

	// Update writes the full state of an existing load.
	Update(ctx context.Context, aggregate *load.Load) error

	// Get returns the load whether or not it is active.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*load.Load, error)

	// GetForUpdate is Get with a row lock held until the transaction ends, on
	// databases that support one.
	GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*load.Load, error)

	// FindByTrackingCode resolves a public code: tracking token first, then load
	// number, then the load id.
	FindByTrackingCode(ctx context.Context, code string) (*load.Load, error)

	// List returns active loads of the tenant ordered by creation, newest first.
	List(ctx context.Context, tenantID kernel.UUID, filter LoadFilter) ([]*load.Load, error)

	// ActiveHolders returns the ids of active, non-terminal loads that reference
	// the resource.
	ActiveHolders(ctx context.Context, tenantID kernel.UUID, kind ResourceKind, resourceID kernel.UUID) ([]kernel.UUID, error)
}
