package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// Lock key kinds.
const (
	lockLoad   = "load"
	lockTruck  = "truck"
	lockDriver = "driver"
)

// loadLockKeys returns the keys guarding a load and every resource id given.
func loadLockKeys(loadID kernel.UUID, truckIDs, driverIDs []*kernel.UUID) []string {
	keys := []string{keylock.Key(lockLoad, loadID)}
	for _, id := range truckIDs {
		if id != nil {
			keys = append(keys, keylock.Key(lockTruck, *id))
		}
	}
	for _, id := range driverIDs {
		if id != nil {
			keys = append(keys, keylock.Key(lockDriver, *id))
		}
	}
	return keys
}

// ensureSameResources rejects a load whose resources changed between the
// unlocked read used to pick lock keys and the locked read.
func ensureSameResources(peeked, locked *load.Load) error {
	if !sameRef(peeked.TruckID(), locked.TruckID()) || !sameRef(peeked.DriverID(), locked.DriverID()) {
		return errs.NewResourceConflictError("load", locked.Number(), "was modified concurrently, try again")
	}
	return nil
}

func sameRef(a, b *kernel.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}

// releaseTruck hands truckID back to the registry unless another active load
// holds it. The load must already be written so it no longer counts as a
// holder. A truck missing from the registry is skipped.
func releaseTruck(ctx context.Context, uow LoadUoW, l *load.Load, truckID kernel.UUID) error {
	truck, err := uow.TruckRepository().GetForUpdate(ctx, l.TenantID(), truckID)
	if errs.KindOf(err) == errs.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	holders, err := uow.LoadRepository().ActiveHolders(ctx, l.TenantID(), ports.ResourceTruck, truckID)
	if err != nil {
		return err
	}
	if !services.NewLoadDispatcher().ReleaseTruck(l.ID(), truck, holders) {
		return nil
	}
	return uow.TruckRepository().Update(ctx, truck)
}

func releaseDriver(ctx context.Context, uow LoadUoW, l *load.Load, driverID kernel.UUID) error {
	driver, err := uow.DriverRepository().GetForUpdate(ctx, l.TenantID(), driverID)
	if errs.KindOf(err) == errs.KindNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	holders, err := uow.LoadRepository().ActiveHolders(ctx, l.TenantID(), ports.ResourceDriver, driverID)
	if err != nil {
		return err
	}
	if !services.NewLoadDispatcher().ReleaseDriver(l.ID(), driver, holders) {
		return nil
	}
	return uow.DriverRepository().Update(ctx, driver)
}

// releaseResources releases both resources referenced by l.
func releaseResources(ctx context.Context, uow LoadUoW, l *load.Load) error {
	if id := l.TruckID(); id != nil {
		if err := releaseTruck(ctx, uow, l, *id); err != nil {
			return err
		}
	}
	if id := l.DriverID(); id != nil {
		if err := releaseDriver(ctx, uow, l, *id); err != nil {
			return err
		}
	}
	return nil
}

// ensureCustomer checks that the referenced customer exists in the tenant.
func ensureCustomer(ctx context.Context, repo ports.CustomerRepository, tenantID kernel.UUID, id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	_, err := repo.Get(ctx, tenantID, *id)
	return err
}

// eventSink publishes committed events. Delivery failures are logged, never
// returned: the change is already durable.
type eventSink struct {
	publisher ports.LoadEventPublisher
	log       *zap.Logger
}

func newEventSink(publisher ports.LoadEventPublisher, log *zap.Logger) eventSink {
	if publisher == nil {
		publisher = ports.NopLoadEventPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return eventSink{publisher: publisher, log: log}
}

func (s eventSink) publish(ctx context.Context, events ...load.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.log.Warn("publish load events failed",
			zap.String("load_number", events[0].LoadNumber),
			zap.String("type", string(events[0].Type)),
			zap.Error(err),
		)
	}
}
