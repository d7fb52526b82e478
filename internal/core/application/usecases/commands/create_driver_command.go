package commands

import (
	"errors"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a driver.
type CreateDriverCommand struct {
	tenantID kernel.UUID
	contact  fleet.DriverContact

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(tenantID kernel.UUID, contact fleet.DriverContact) (CreateDriverCommand, error) {
	if err := tenantID.Validate(); err != nil {
		return CreateDriverCommand{}, err
	}
	return CreateDriverCommand{tenantID: tenantID, contact: contact, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) TenantID() kernel.UUID { return c.tenantID }
func (c CreateDriverCommand) Contact() fleet.DriverContact { return c.contact }
