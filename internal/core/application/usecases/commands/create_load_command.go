package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/guard"
)

var ErrCreateLoadCommandIsNotConstructed = errors.New(
	"CreateLoadCommand must be created via NewCreateLoadCommand constructor",
)

// CreateLoadCommand registers a new shipment for a tenant. The details are
// validated again by the load aggregate; the command only checks identity.
//
// Example:
//
//	cmd, err := NewCreateLoadCommand(tenantID, details)
//	if err != nil {
//	    return fmt.Errorf("invalid load: %w", err)
//	}
//	l, err := handler.Handle(ctx, cmd)
type CreateLoadCommand struct {
	tenantID kernel.UUID
	details  load.Details

	guard guard.ConstructorGuard
}

func NewCreateLoadCommand(tenantID kernel.UUID, details load.Details) (CreateLoadCommand, error) {
	if err := tenantID.Validate(); err != nil {
		return CreateLoadCommand{}, err
	}
	return CreateLoadCommand{
		tenantID: tenantID,
		details:  details,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateLoadCommand) Validate() error {
	return c.guard.Validate(ErrCreateLoadCommandIsNotConstructed)
}

func (c CreateLoadCommand) TenantID() kernel.UUID {
	return c.tenantID
}

func (c CreateLoadCommand) Details() load.Details {
	return c.details
}
