package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// UpdateLoadCommandHandler edits cargo, charges, itinerary and parties of a
// load. The total is recomputed by the aggregate.
type UpdateLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	locker     ports.Locker
	clock      ports.Clock
	events     eventSink
}

func NewUpdateLoadCommandHandler(
	uowFactory LoadUoWFactory,
	locker ports.Locker,
	clock ports.Clock,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) UpdateLoadCommandHandler {
	return UpdateLoadCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
		events:     newEventSink(publisher, log),
	}
}

func (h UpdateLoadCommandHandler) Handle(ctx context.Context, command UpdateLoadCommand) (*load.Load, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, loadLockKeys(command.LoadID(), nil, nil)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loads := uow.LoadRepository()
	l, err := loads.GetForUpdate(ctx, command.TenantID(), command.LoadID())
	if err != nil {
		return nil, err
	}

	details := command.Details()
	if err = ensureCustomer(ctx, uow.CustomerRepository(), command.TenantID(), details.CustomerID); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if err = l.Update(details, now); err != nil {
		return nil, err
	}
	if err = loads.Update(ctx, l); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, load.NewEvent(load.EventUpdated, l, l.Status(), now))
	return l, nil
}
