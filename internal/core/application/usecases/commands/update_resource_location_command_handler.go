package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

type UpdateResourceLocationCommandHandler struct {
	uowFactory RegistryUoWFactory
	locker     ports.Locker
}

func NewUpdateResourceLocationCommandHandler(uowFactory RegistryUoWFactory, locker ports.Locker) UpdateResourceLocationCommandHandler {
	return UpdateResourceLocationCommandHandler{uowFactory: uowFactory, locker: locker}
}

// Handle stores the position. The registry keeps only the latest coordinate.
func (h UpdateResourceLocationCommandHandler) Handle(ctx context.Context, command UpdateResourceLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	unlock, err := h.locker.Lock(ctx, keylock.Key(string(command.Kind()), command.ResourceID()))
	if err != nil {
		return err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	switch command.Kind() {
	case ports.ResourceTruck:
		repo := uow.TruckRepository()
		truck, getErr := repo.GetForUpdate(ctx, command.TenantID(), command.ResourceID())
		if getErr != nil {
			return getErr
		}
		if err = truck.UpdateLocation(command.Point(), command.At()); err != nil {
			return err
		}
		if err = repo.Update(ctx, truck); err != nil {
			return err
		}
	case ports.ResourceDriver:
		repo := uow.DriverRepository()
		driver, getErr := repo.GetForUpdate(ctx, command.TenantID(), command.ResourceID())
		if getErr != nil {
			return getErr
		}
		if err = driver.UpdateLocation(command.Point(), command.At()); err != nil {
			return err
		}
		if err = repo.Update(ctx, driver); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
