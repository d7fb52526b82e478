package queries

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Page size bounds for load listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

var ErrListLoadsQueryIsNotConstructed = errors.New(
	"ListLoadsQuery must be created via NewListLoadsQuery constructor",
)

// LoadListParams are the raw listing filters. Empty strings and nil ids do not
// filter.
type LoadListParams struct {
	Status     string
	CustomerID *kernel.UUID
	TruckID    *kernel.UUID
	DriverID   *kernel.UUID
	Limit      int
	Offset     int
}

// ListLoadsQuery lists active loads of a tenant, newest first.
type ListLoadsQuery struct {
	tenantID kernel.UUID
	filter   ports.LoadFilter

	guard guard.ConstructorGuard
}

// NewListLoadsQuery parses the status filter and clamps paging. A zero limit
// means DefaultPageSize.
func NewListLoadsQuery(tenantID kernel.UUID, params LoadListParams) (ListLoadsQuery, error) {
	problems := []error{tenantID.Validate()}

	filter := ports.LoadFilter{
		CustomerID: params.CustomerID,
		TruckID:    params.TruckID,
		DriverID:   params.DriverID,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if s := strings.TrimSpace(params.Status); s != "" {
		status, err := load.ParseStatus(s)
		if err != nil {
			problems = append(problems, err)
		} else {
			filter.Status = &status
		}
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit < 0 || filter.Limit > MaxPageSize {
		problems = append(problems, errs.NewValueIsOutOfRangeError("limit", params.Limit, 1, MaxPageSize))
	}
	if filter.Offset < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("offset must not be negative"))
	}

	if err := errors.Join(problems...); err != nil {
		return ListLoadsQuery{}, err
	}
	return ListLoadsQuery{tenantID: tenantID, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListLoadsQuery) Validate() error {
	return q.guard.Validate(ErrListLoadsQueryIsNotConstructed)
}

func (q ListLoadsQuery) TenantID() kernel.UUID { return q.tenantID }
func (q ListLoadsQuery) Filter() ports.LoadFilter { return q.filter }
