package queries

import (
	"context"

	"freight/internal/core/ports"
)

// GetLoadQueryHandler reads through repositories of a unit of work that is
// never begun, so every lookup runs on the pool.
type GetLoadQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetLoadQueryHandler(uowFactory ports.UnitOfWorkFactory) GetLoadQueryHandler {
	return GetLoadQueryHandler{uowFactory: uowFactory}
}

func (h GetLoadQueryHandler) Handle(ctx context.Context, query GetLoadQuery) (LoadView, error) {
	if err := query.Validate(); err != nil {
		return LoadView{}, err
	}

	l, err := h.uowFactory.Create().LoadRepository().Get(ctx, query.TenantID(), query.LoadID())
	if err != nil {
		return LoadView{}, err
	}
	return NewLoadView(l), nil
}
