package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetLoadQueryIsNotConstructed = errors.New(
	"GetLoadQuery must be created via NewGetLoadQuery constructor",
)

// GetLoadQuery reads one load of the caller's tenant. Soft-deleted loads are
// still returned; they stay addressable by id.
type GetLoadQuery struct {
	tenantID kernel.UUID
	loadID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetLoadQuery(tenantID, loadID kernel.UUID) (GetLoadQuery, error) {
	if err := errors.Join(tenantID.Validate(), loadID.Validate()); err != nil {
		return GetLoadQuery{}, err
	}
	return GetLoadQuery{tenantID: tenantID, loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLoadQuery) Validate() error {
	return q.guard.Validate(ErrGetLoadQueryIsNotConstructed)
}

func (q GetLoadQuery) TenantID() kernel.UUID { return q.tenantID }
func (q GetLoadQuery) LoadID() kernel.UUID { return q.loadID }
