package ports

import (
	"context"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

// TruckRepository is the truck side of the resource registry.
type TruckRepository interface {
	// Add stores a new truck. A duplicate truck number within the tenant is a
	// ResourceConflictError.
	Add(ctx context.Context, truck *fleet.Truck) error
	Update(ctx context.Context, truck *fleet.Truck) error
	Get(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Truck, error)
	GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Truck, error)
	// List returns active trucks; with status set, only those in it.
	List(ctx context.Context, tenantID kernel.UUID, status *fleet.TruckStatus) ([]*fleet.Truck, error)
}

// DriverRepository is the driver side of the resource registry.
type DriverRepository interface {
	Add(ctx context.Context, driver *fleet.Driver) error
	Update(ctx context.Context, driver *fleet.Driver) error
	Get(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Driver, error)
	GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*fleet.Driver, error)
	List(ctx context.Context, tenantID kernel.UUID, status *fleet.DriverStatus) ([]*fleet.Driver, error)
}
