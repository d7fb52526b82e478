package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// UpdateLoadStatusCommandHandler applies a lifecycle transition. Entering
// COMPLETED or CANCELLED releases the truck and driver of the load.
type UpdateLoadStatusCommandHandler struct {
	uowFactory LoadUoWFactory
	locker     ports.Locker
	clock      ports.Clock
	events     eventSink
}

func NewUpdateLoadStatusCommandHandler(
	uowFactory LoadUoWFactory,
	locker ports.Locker,
	clock ports.Clock,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) UpdateLoadStatusCommandHandler {
	return UpdateLoadStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
		events:     newEventSink(publisher, log),
	}
}

// Handle returns the load after the transition. Requesting the current status
// changes nothing and publishes no event.
func (h UpdateLoadStatusCommandHandler) Handle(ctx context.Context, command UpdateLoadStatusCommand) (*load.Load, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	tenantID := command.TenantID()

	uow := h.uowFactory.Create()
	peeked, err := uow.LoadRepository().Get(ctx, tenantID, command.LoadID())
	if err != nil {
		return nil, err
	}
	if peeked.Status() == command.Status() {
		return peeked, nil
	}

	unlock, err := h.locker.Lock(ctx, loadLockKeys(
		command.LoadID(),
		[]*kernel.UUID{peeked.TruckID()},
		[]*kernel.UUID{peeked.DriverID()},
	)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loads := uow.LoadRepository()
	l, err := loads.GetForUpdate(ctx, tenantID, command.LoadID())
	if err != nil {
		return nil, err
	}
	if err = ensureSameResources(peeked, l); err != nil {
		return nil, err
	}

	from := l.Status()
	now := h.clock.Now()
	transition, changed, err := l.ChangeStatus(command.Status(), command.Reason(), now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return l, nil
	}

	if err = loads.Update(ctx, l); err != nil {
		return nil, err
	}
	if transition.Has(load.ReleaseResources) {
		if err = releaseResources(ctx, uow, l); err != nil {
			return nil, err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, load.NewEvent(load.EventStatusChanged, l, from, now))
	return l, nil
}
