package commands

import (
	"context"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/kernel"
)

type CreateCustomerCommandHandler struct {
	uowFactory CustomerUoWFactory
}

func NewCreateCustomerCommandHandler(uowFactory CustomerUoWFactory) CreateCustomerCommandHandler {
	return CreateCustomerCommandHandler{uowFactory: uowFactory}
}

func (h CreateCustomerCommandHandler) Handle(ctx context.Context, command CreateCustomerCommand) (*customer.Customer, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	c, err := customer.NewCustomer(kernel.NewUUID(), command.TenantID(), command.Contact(), command.PortalEnabled())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CustomerRepository().Add(ctx, c); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
