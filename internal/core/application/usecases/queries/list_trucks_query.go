package queries

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListTrucksQueryIsNotConstructed = errors.New(
	"ListTrucksQuery must be created via NewListTrucksQuery constructor",
)

// ListTrucksQuery lists the active trucks of a tenant, optionally only those in
// one status.
//
// Example:
//
//	query, err := NewListTrucksQuery(tenantID, "AVAILABLE")
//	trucks, err := NewListTrucksQueryHandler(db).Handle(ctx, query)
type ListTrucksQuery struct {
	tenantID kernel.UUID
	status   *fleet.TruckStatus

	guard guard.ConstructorGuard
}

// NewListTrucksQuery accepts an empty status for "any".
func NewListTrucksQuery(tenantID kernel.UUID, status string) (ListTrucksQuery, error) {
	q := ListTrucksQuery{tenantID: tenantID}
	problems := []error{tenantID.Validate()}
	if strings.TrimSpace(status) != "" {
		parsed, err := fleet.ParseTruckStatus(status)
		problems = append(problems, err)
		q.status = &parsed
	}
	if err := errors.Join(problems...); err != nil {
		return ListTrucksQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

// NewListAvailableTrucksQuery lists trucks that can take a load right now.
func NewListAvailableTrucksQuery(tenantID kernel.UUID) (ListTrucksQuery, error) {
	return NewListTrucksQuery(tenantID, fleet.TruckAvailable.String())
}

func (q ListTrucksQuery) Validate() error {
	return q.guard.Validate(ErrListTrucksQueryIsNotConstructed)
}
