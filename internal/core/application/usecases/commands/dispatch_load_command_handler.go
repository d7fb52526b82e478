package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// DispatchLoadCommandHandler runs the dispatch use case: it locks the load, the
// requested resources and the resources the load already holds, applies the
// LoadDispatcher rules, and persists everything in one transaction.
//
// Example:
//
//	handler := NewDispatchLoadCommandHandler(uowFactory, locker, clock, publisher, log)
//	l, err := handler.Handle(ctx, cmd)
//	switch errs.KindOf(err) {
//	case errs.KindNotFound:         // load, truck or driver is not in the tenant
//	case errs.KindResourceConflict: // busy resource or lock timeout
//	case errs.KindInvalidRequest:   // load is terminal, deleted or past DISPATCHED
//	}
type DispatchLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	locker     ports.Locker
	clock      ports.Clock
	dispatcher services.LoadDispatcher
	events     eventSink
}

func NewDispatchLoadCommandHandler(
	uowFactory LoadUoWFactory,
	locker ports.Locker,
	clock ports.Clock,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) DispatchLoadCommandHandler {
	return DispatchLoadCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		clock:      clock,
		dispatcher: services.NewLoadDispatcher(),
		events:     newEventSink(publisher, log),
	}
}

// Handle dispatches the load. A resource replaced by this dispatch is released
// to the registry when no other active load holds it.
func (h DispatchLoadCommandHandler) Handle(ctx context.Context, command DispatchLoadCommand) (*load.Load, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	tenantID := command.TenantID()

	uow := h.uowFactory.Create()

	// Repositories taken before Begin read outside the transaction.
	peeked, err := uow.LoadRepository().Get(ctx, tenantID, command.LoadID())
	if err != nil {
		return nil, err
	}
	if err = peeked.CheckDispatch(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, loadLockKeys(
		command.LoadID(),
		[]*kernel.UUID{command.TruckID(), peeked.TruckID()},
		[]*kernel.UUID{command.DriverID(), peeked.DriverID()},
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

	var (
		truck   *fleet.Truck
		driver  *fleet.Driver
		holders services.Holders
	)
	if id := command.TruckID(); id != nil {
		if truck, err = uow.TruckRepository().GetForUpdate(ctx, tenantID, *id); err != nil {
			return nil, err
		}
		if holders.Truck, err = loads.ActiveHolders(ctx, tenantID, ports.ResourceTruck, *id); err != nil {
			return nil, err
		}
	}
	if id := command.DriverID(); id != nil {
		if driver, err = uow.DriverRepository().GetForUpdate(ctx, tenantID, *id); err != nil {
			return nil, err
		}
		if holders.Driver, err = loads.ActiveHolders(ctx, tenantID, ports.ResourceDriver, *id); err != nil {
			return nil, err
		}
	}

	from := l.Status()
	now := h.clock.Now()
	result, err := h.dispatcher.Dispatch(l, truck, driver, holders, now)
	if err != nil {
		return nil, err
	}

	if err = loads.Update(ctx, l); err != nil {
		return nil, err
	}
	if result.TruckAssigned {
		if err = uow.TruckRepository().Update(ctx, truck); err != nil {
			return nil, err
		}
	}
	if result.DriverAssigned {
		if err = uow.DriverRepository().Update(ctx, driver); err != nil {
			return nil, err
		}
	}
	if id := result.Assignment.ReplacedTruck; id != nil {
		if err = releaseTruck(ctx, uow, l, *id); err != nil {
			return nil, err
		}
	}
	if id := result.Assignment.ReplacedDriver; id != nil {
		if err = releaseDriver(ctx, uow, l, *id); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, load.NewEvent(load.EventDispatched, l, from, now))
	return l, nil
}
