package commands

import (
	"context"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

// CreateTruckCommandHandler adds a truck in the AVAILABLE status. A truck
// number already used in the tenant is a ResourceConflictError.
type CreateTruckCommandHandler struct {
	uowFactory RegistryUoWFactory
}

func NewCreateTruckCommandHandler(uowFactory RegistryUoWFactory) CreateTruckCommandHandler {
	return CreateTruckCommandHandler{uowFactory: uowFactory}
}

func (h CreateTruckCommandHandler) Handle(ctx context.Context, command CreateTruckCommand) (*fleet.Truck, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	truck, err := fleet.NewTruck(kernel.NewUUID(), command.TenantID(), command.Number(), command.Type(), command.Spec())
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

	if err = uow.TruckRepository().Add(ctx, truck); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return truck, nil
}
