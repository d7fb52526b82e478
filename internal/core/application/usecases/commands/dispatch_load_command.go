package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrDispatchLoadCommandIsNotConstructed = errors.New(
	"DispatchLoadCommand must be created via NewDispatchLoadCommand constructor",
)

// DispatchLoadCommand assigns a truck and/or a driver to a load and moves it to
// DISPATCHED. Either resource may be omitted; omitting both only moves the
// status.
//
// Example:
//
//	cmd, err := NewDispatchLoadCommand(tenantID, loadID, &truckID, &driverID)
//	if err != nil {
//	    return err
//	}
//	l, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrResourceConflict) {
//	    // the truck or driver is busy
//	}
type DispatchLoadCommand struct {
	tenantID kernel.UUID
	loadID   kernel.UUID
	truckID  *kernel.UUID
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewDispatchLoadCommand(tenantID, loadID kernel.UUID, truckID, driverID *kernel.UUID) (DispatchLoadCommand, error) {
	problems := []error{tenantID.Validate(), loadID.Validate()}
	if truckID != nil {
		problems = append(problems, truckID.Validate())
	}
	if driverID != nil {
		problems = append(problems, driverID.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return DispatchLoadCommand{}, err
	}

	return DispatchLoadCommand{
		tenantID: tenantID,
		loadID:   loadID,
		truckID:  copyID(truckID),
		driverID: copyID(driverID),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchLoadCommand) Validate() error {
	return c.guard.Validate(ErrDispatchLoadCommandIsNotConstructed)
}

func (c DispatchLoadCommand) TenantID() kernel.UUID { return c.tenantID }
func (c DispatchLoadCommand) LoadID() kernel.UUID { return c.loadID }
func (c DispatchLoadCommand) TruckID() *kernel.UUID { return copyID(c.truckID) }
func (c DispatchLoadCommand) DriverID() *kernel.UUID { return copyID(c.driverID) }

func copyID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
