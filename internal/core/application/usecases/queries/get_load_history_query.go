package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetLoadHistoryQueryIsNotConstructed = errors.New(
	"GetLoadHistoryQuery must be created via NewGetLoadHistoryQuery constructor",
)

// GetLoadHistoryQuery reads the recorded events of a load, oldest first.
type GetLoadHistoryQuery struct {
	tenantID kernel.UUID
	loadID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetLoadHistoryQuery(tenantID, loadID kernel.UUID) (GetLoadHistoryQuery, error) {
	if err := errors.Join(tenantID.Validate(), loadID.Validate()); err != nil {
		return GetLoadHistoryQuery{}, err
	}
	return GetLoadHistoryQuery{tenantID: tenantID, loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLoadHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetLoadHistoryQueryIsNotConstructed)
}

func (q GetLoadHistoryQuery) TenantID() kernel.UUID { return q.tenantID }
func (q GetLoadHistoryQuery) LoadID() kernel.UUID { return q.loadID }
