package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// DeleteLoadCommandHandler deactivates a load. A deleted load stops holding its
// truck and driver, so they are released like on cancellation; status and
// history stay as they were. Deleting twice is a no-op.
type DeleteLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	locker     ports.Locker
	clock      ports.Clock
	events     eventSink
}

func NewDeleteLoadCommandHandler(
	uowFactory LoadUoWFactory,
	locker ports.Locker,
	clock ports.Clock,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) DeleteLoadCommandHandler {
	return DeleteLoadCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
		events:     newEventSink(publisher, log),
	}
}

func (h DeleteLoadCommandHandler) Handle(ctx context.Context, command DeleteLoadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	tenantID := command.TenantID()

	uow := h.uowFactory.Create()
	peeked, err := uow.LoadRepository().Get(ctx, tenantID, command.LoadID())
	if err != nil {
		return err
	}
	if !peeked.IsActive() {
		return nil
	}

	unlock, err := h.locker.Lock(ctx, loadLockKeys(
		command.LoadID(),
		[]*kernel.UUID{peeked.TruckID()},
		[]*kernel.UUID{peeked.DriverID()},
	)...)
	if err != nil {
		return err
	}
	defer unlock()

	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loads := uow.LoadRepository()
	l, err := loads.GetForUpdate(ctx, tenantID, command.LoadID())
	if err != nil {
		return err
	}
	if err = ensureSameResources(peeked, l); err != nil {
		return err
	}

	heldResources := l.HoldsResources()
	now := h.clock.Now()
	if !l.Deactivate(now) {
		return nil
	}
	if err = loads.Update(ctx, l); err != nil {
		return err
	}
	if heldResources {
		if err = releaseResources(ctx, uow, l); err != nil {
			return err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.events.publish(ctx, load.NewEvent(load.EventDeleted, l, l.Status(), now))
	return nil
}
