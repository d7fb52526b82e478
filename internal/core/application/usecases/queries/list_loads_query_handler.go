package queries

import (
	"context"

	"freight/internal/core/ports"
)

type ListLoadsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListLoadsQueryHandler(uowFactory ports.UnitOfWorkFactory) ListLoadsQueryHandler {
	return ListLoadsQueryHandler{uowFactory: uowFactory}
}

func (h ListLoadsQueryHandler) Handle(ctx context.Context, query ListLoadsQuery) ([]LoadView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	loads, err := h.uowFactory.Create().LoadRepository().List(ctx, query.TenantID(), query.Filter())
	if err != nil {
		return nil, err
	}

	views := make([]LoadView, 0, len(loads))
	for _, l := range loads {
		views = append(views, NewLoadView(l))
	}
	return views, nil
}
