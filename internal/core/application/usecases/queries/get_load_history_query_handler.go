package queries

import (
	"context"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

type GetLoadHistoryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetLoadHistoryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetLoadHistoryQueryHandler {
	return GetLoadHistoryQueryHandler{uowFactory: uowFactory}
}

// Handle returns NotFound for a load outside the tenant, and an empty slice
// for a known load whose events have not been recorded yet.
func (h GetLoadHistoryQueryHandler) Handle(ctx context.Context, query GetLoadHistoryQuery) ([]load.Event, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.LoadRepository().Get(ctx, query.TenantID(), query.LoadID()); err != nil {
		return nil, err
	}
	events, err := uow.LoadHistoryRepository().List(ctx, query.TenantID(), query.LoadID())
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []load.Event{}
	}
	return events, nil
}
