package commands

import (
	"context"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// CreateLoadCommandHandler creates loads in the Created status with a fresh
// load number and tracking token.
type CreateLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	clock      ports.Clock
	events     eventSink
}

func NewCreateLoadCommandHandler(
	uowFactory LoadUoWFactory,
	clock ports.Clock,
	publisher ports.LoadEventPublisher,
	log *zap.Logger,
) CreateLoadCommandHandler {
	return CreateLoadCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		events:     newEventSink(publisher, log),
	}
}

// Handle stores the new load and publishes load.created.
// Returns an ObjectNotFoundError when the customer is not in the tenant, and a
// ResourceConflictError when the generated load number collides.
func (h CreateLoadCommandHandler) Handle(ctx context.Context, command CreateLoadCommand) (*load.Load, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	number, err := load.NewLoadNumber(command.TenantID(), now)
	if err != nil {
		return nil, err
	}
	token, err := load.NewTrackingToken()
	if err != nil {
		return nil, err
	}
	l, err := load.NewLoad(kernel.NewUUID(), command.TenantID(), number, token, command.Details(), now)
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

	if err = ensureCustomer(ctx, uow.CustomerRepository(), command.TenantID(), l.CustomerID()); err != nil {
		return nil, err
	}
	if err = uow.LoadRepository().Add(ctx, l); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.publish(ctx, load.NewEvent(load.EventCreated, l, load.StatusUnknown, now))
	return l, nil
}
