package commands

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrSetResourceStatusCommandIsNotConstructed = errors.New(
	"SetResourceStatusCommand must be created via NewSetTruckStatusCommand or NewSetDriverStatusCommand",
)

// SetResourceStatusCommand overrides the registry status of a truck or driver,
// for example to send a truck to maintenance. The registry enforces no
// cross-resource rules.
type SetResourceStatusCommand struct {
	tenantID     kernel.UUID
	kind         ports.ResourceKind
	resourceID   kernel.UUID
	truckStatus  fleet.TruckStatus
	driverStatus fleet.DriverStatus

	guard guard.ConstructorGuard
}

func NewSetTruckStatusCommand(tenantID, truckID kernel.UUID, status string) (SetResourceStatusCommand, error) {
	parsed, statusErr := fleet.ParseTruckStatus(status)
	if err := errors.Join(tenantID.Validate(), truckID.Validate(), statusErr); err != nil {
		return SetResourceStatusCommand{}, err
	}
	return SetResourceStatusCommand{
		tenantID:    tenantID,
		kind:        ports.ResourceTruck,
		resourceID:  truckID,
		truckStatus: parsed,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func NewSetDriverStatusCommand(tenantID, driverID kernel.UUID, status string) (SetResourceStatusCommand, error) {
	parsed, statusErr := fleet.ParseDriverStatus(status)
	if err := errors.Join(tenantID.Validate(), driverID.Validate(), statusErr); err != nil {
		return SetResourceStatusCommand{}, err
	}
	return SetResourceStatusCommand{
		tenantID:     tenantID,
		kind:         ports.ResourceDriver,
		resourceID:   driverID,
		driverStatus: parsed,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c SetResourceStatusCommand) Validate() error {
	if err := c.guard.Validate(ErrSetResourceStatusCommandIsNotConstructed); err != nil {
		return err
	}
	if c.kind != ports.ResourceTruck && c.kind != ports.ResourceDriver {
		return errs.NewValueIsInvalidErrorWithCause("resource kind", fmt.Errorf("%q", c.kind))
	}
	return nil
}

func (c SetResourceStatusCommand) TenantID() kernel.UUID { return c.tenantID }
func (c SetResourceStatusCommand) Kind() ports.ResourceKind { return c.kind }
func (c SetResourceStatusCommand) ResourceID() kernel.UUID { return c.resourceID }
func (c SetResourceStatusCommand) TruckStatus() fleet.TruckStatus { return c.truckStatus }
func (c SetResourceStatusCommand) DriverStatus() fleet.DriverStatus { return c.driverStatus }
