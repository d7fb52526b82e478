package commands

import (
	"context"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

type CreateDriverCommandHandler struct {
	uowFactory RegistryUoWFactory
}

func NewCreateDriverCommandHandler(uowFactory RegistryUoWFactory) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{uowFactory: uowFactory}
}

// Handle adds a driver in the AVAILABLE status.
func (h CreateDriverCommandHandler) Handle(ctx context.Context, command CreateDriverCommand) (*fleet.Driver, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	driver, err := fleet.NewDriver(kernel.NewUUID(), command.TenantID(), command.Contact())
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

	if err = uow.DriverRepository().Add(ctx, driver); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return driver, nil
}
