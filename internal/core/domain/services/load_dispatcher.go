package services

import (
	"fmt"
	"time"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"
)

// Holders lists the active loads currently referencing the truck and driver of
// a dispatch. Callers read them inside the same transaction that writes the
// result.
type Holders struct {
	Truck  []kernel.UUID
	Driver []kernel.UUID
}

// DispatchResult describes what Dispatch changed.
type DispatchResult struct {
	Assignment load.Assignment
	// TruckAssigned and DriverAssigned report whether the resource status moved
	// and must be persisted.
	TruckAssigned  bool
	DriverAssigned bool
}

// LoadDispatcher applies the resource rules of the load lifecycle: a truck or
// driver is held by at most one active load, and is handed back to the
// registry when that load completes or is cancelled.
//
// The dispatcher never reads storage. The command handlers gather the load,
// its resources and their holders under lock and persist whatever it mutates.
//
// Example:
//
//	result, err := services.NewLoadDispatcher().Dispatch(l, truck, driver, holders, clock.Now())
//	if errors.Is(err, errs.ErrResourceConflict) {
//	    // the truck or driver is busy
//	}
type LoadDispatcher struct{}

func NewLoadDispatcher() LoadDispatcher {
	return LoadDispatcher{}
}

// Dispatch assigns truck and driver (either may be nil) to l and moves it to
// Dispatched.
//
// Returns:
//   - ObjectNotFoundError when a resource belongs to another tenant
//   - ResourceConflictError when a resource is held by another active load or
//     is not dispatchable (maintenance, out of service, on leave, terminated)
//   - ValueIsInvalidError when the load itself cannot be dispatched
//
// Nothing is mutated when an error is returned.
func (d LoadDispatcher) Dispatch(
	l *load.Load,
	truck *fleet.Truck,
	driver *fleet.Driver,
	holders Holders,
	now time.Time,
) (DispatchResult, error) {
	if err := l.Validate(); err != nil {
		return DispatchResult{}, err
	}
	if err := l.CheckDispatch(); err != nil {
		return DispatchResult{}, err
	}

	var truckID, driverID *kernel.UUID
	if truck != nil {
		if err := d.checkTruck(l, truck, holders.Truck); err != nil {
			return DispatchResult{}, err
		}
		id := truck.ID()
		truckID = &id
	}
	if driver != nil {
		if err := d.checkDriver(l, driver, holders.Driver); err != nil {
			return DispatchResult{}, err
		}
		id := driver.ID()
		driverID = &id
	}

	assignment, err := l.Dispatch(truckID, driverID, now)
	if err != nil {
		return DispatchResult{}, err
	}

	result := DispatchResult{Assignment: assignment}
	if truck != nil {
		before := truck.Status()
		if err = truck.Assign(); err != nil {
			return DispatchResult{}, err
		}
		result.TruckAssigned = before != truck.Status()
	}
	if driver != nil {
		before := driver.Status()
		if err = driver.Assign(); err != nil {
			return DispatchResult{}, err
		}
		result.DriverAssigned = before != driver.Status()
	}
	return result, nil
}

// ReleaseTruck returns truck to Available unless an active load other than
// loadID still holds it. Reports whether the truck status changed.
func (d LoadDispatcher) ReleaseTruck(loadID kernel.UUID, truck *fleet.Truck, holders []kernel.UUID) bool {
	if truck == nil || heldByOther(loadID, holders) {
		return false
	}
	return truck.Release()
}

// ReleaseDriver is ReleaseTruck for drivers.
func (d LoadDispatcher) ReleaseDriver(loadID kernel.UUID, driver *fleet.Driver, holders []kernel.UUID) bool {
	if driver == nil || heldByOther(loadID, holders) {
		return false
	}
	return driver.Release()
}

func (d LoadDispatcher) checkTruck(l *load.Load, truck *fleet.Truck, holders []kernel.UUID) error {
	if err := truck.Validate(); err != nil {
		return err
	}
	if !truck.BelongsTo(l.TenantID()) {
		return errs.NewObjectNotFoundError("truck", truck.ID())
	}
	if heldByOther(l.ID(), holders) {
		return errs.NewResourceConflictError("truck", truck.Number(), "is already assigned to another active load")
	}
	if !truck.IsActive() || !truck.Status().IsDispatchable() {
		return errs.NewResourceConflictError("truck", truck.Number(), fmt.Sprintf("is %s", truckState(truck)))
	}
	return nil
}

func (d LoadDispatcher) checkDriver(l *load.Load, driver *fleet.Driver, holders []kernel.UUID) error {
	if err := driver.Validate(); err != nil {
		return err
	}
	if !driver.BelongsTo(l.TenantID()) {
		return errs.NewObjectNotFoundError("driver", driver.ID())
	}
	if heldByOther(l.ID(), holders) {
		return errs.NewResourceConflictError("driver", driver.FullName(), "is already assigned to another active load")
	}
	if !driver.IsActive() || !driver.Status().IsDispatchable() {
		state := driver.Status().String()
		if !driver.IsActive() {
			state = "deactivated"
		}
		return errs.NewResourceConflictError("driver", driver.FullName(), "is "+state)
	}
	return nil
}

func truckState(t *fleet.Truck) string {
	if !t.IsActive() {
		return "deactivated"
	}
	return t.Status().String()
}

func heldByOther(loadID kernel.UUID, holders []kernel.UUID) bool {
	for _, h := range holders {
		if !h.IsEqual(loadID) {
			return true
		}
	}
	return false
}
