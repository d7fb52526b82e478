package commands

import (
	"errors"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCreateCustomerCommandIsNotConstructed = errors.New(
	"CreateCustomerCommand must be created via NewCreateCustomerCommand constructor",
)

// CreateCustomerCommand registers a shipper. With the tracking portal enabled,
// the customer's email unlocks public verification of its loads.
type CreateCustomerCommand struct {
	tenantID      kernel.UUID
	contact       customer.Contact
	portalEnabled bool

	guard guard.ConstructorGuard
}

func NewCreateCustomerCommand(tenantID kernel.UUID, contact customer.Contact, portalEnabled bool) (CreateCustomerCommand, error) {
	if err := tenantID.Validate(); err != nil {
		return CreateCustomerCommand{}, err
	}
	return CreateCustomerCommand{
		tenantID:      tenantID,
		contact:       contact,
		portalEnabled: portalEnabled,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCustomerCommand) Validate() error {
	return c.guard.Validate(ErrCreateCustomerCommandIsNotConstructed)
}

func (c CreateCustomerCommand) TenantID() kernel.UUID { return c.tenantID }
func (c CreateCustomerCommand) Contact() customer.Contact { return c.contact }
func (c CreateCustomerCommand) PortalEnabled() bool { return c.portalEnabled }
