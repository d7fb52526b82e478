package queries

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListDriversQueryIsNotConstructed = errors.New(
	"ListDriversQuery must be created via NewListDriversQuery constructor",
)

// ListDriversQuery lists the active drivers of a tenant, optionally only those
// in one status.
type ListDriversQuery struct {
	tenantID kernel.UUID
	status   *fleet.DriverStatus

	guard guard.ConstructorGuard
}

func NewListDriversQuery(tenantID kernel.UUID, status string) (ListDriversQuery, error) {
	q := ListDriversQuery{tenantID: tenantID}
	problems := []error{tenantID.Validate()}
	if strings.TrimSpace(status) != "" {
		parsed, err := fleet.ParseDriverStatus(status)
		problems = append(problems, err)
		q.status = &parsed
	}
	if err := errors.Join(problems...); err != nil {
		return ListDriversQuery{}, err
	}
	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func NewListAvailableDriversQuery(tenantID kernel.UUID) (ListDriversQuery, error) {
	return NewListDriversQuery(tenantID, fleet.DriverAvailable.String())
}

func (q ListDriversQuery) Validate() error {
	return q.guard.Validate(ErrListDriversQueryIsNotConstructed)
}
