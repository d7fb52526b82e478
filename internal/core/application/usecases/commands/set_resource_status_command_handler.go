package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// ResourceState is the registry view of a truck or driver after a change.
type ResourceState struct {
	Kind   ports.ResourceKind
	ID     string
	Status string
}

// SetResourceStatusCommandHandler writes a registry status under the
// resource's lock, so it never interleaves with a dispatch of the same
// resource.
type SetResourceStatusCommandHandler struct {
	uowFactory RegistryUoWFactory
	locker     ports.Locker
}

func NewSetResourceStatusCommandHandler(uowFactory RegistryUoWFactory, locker ports.Locker) SetResourceStatusCommandHandler {
	return SetResourceStatusCommandHandler{uowFactory: uowFactory, locker: locker}
}

func (h SetResourceStatusCommandHandler) Handle(ctx context.Context, command SetResourceStatusCommand) (ResourceState, error) {
	if err := command.Validate(); err != nil {
		return ResourceState{}, err
	}

	unlock, err := h.locker.Lock(ctx, keylock.Key(string(command.Kind()), command.ResourceID()))
	if err != nil {
		return ResourceState{}, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ResourceState{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	state := ResourceState{Kind: command.Kind(), ID: command.ResourceID().String()}
	switch command.Kind() {
	case ports.ResourceTruck:
		repo := uow.TruckRepository()
		truck, getErr := repo.GetForUpdate(ctx, command.TenantID(), command.ResourceID())
		if getErr != nil {
			return ResourceState{}, getErr
		}
		if err = truck.SetStatus(command.TruckStatus()); err != nil {
			return ResourceState{}, err
		}
		if err = repo.Update(ctx, truck); err != nil {
			return ResourceState{}, err
		}
		state.Status = truck.Status().String()
	case ports.ResourceDriver:
		repo := uow.DriverRepository()
		driver, getErr := repo.GetForUpdate(ctx, command.TenantID(), command.ResourceID())
		if getErr != nil {
			return ResourceState{}, getErr
		}
		if err = driver.SetStatus(command.DriverStatus()); err != nil {
			return ResourceState{}, err
		}
		if err = repo.Update(ctx, driver); err != nil {
			return ResourceState{}, err
		}
		state.Status = driver.Status().String()
	}

	if err = uow.Commit(ctx); err != nil {
		return ResourceState{}, err
	}
	return state, nil
}
