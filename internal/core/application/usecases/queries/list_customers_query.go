package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListCustomersQueryIsNotConstructed = errors.New(
	"ListCustomersQuery must be created via NewListCustomersQuery constructor",
)

// ListCustomersQuery lists the active customers of a tenant by company name.
type ListCustomersQuery struct {
	tenantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListCustomersQuery(tenantID kernel.UUID) (ListCustomersQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return ListCustomersQuery{}, err
	}
	return ListCustomersQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCustomersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomersQueryIsNotConstructed)
}
