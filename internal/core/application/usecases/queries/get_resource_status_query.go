package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrGetResourceStatusQueryIsNotConstructed = errors.New(
	"GetResourceStatusQuery must be created via NewGetResourceStatusQuery constructor",
)

// GetResourceStatusQuery reads the registry status of one truck or driver.
type GetResourceStatusQuery struct {
	tenantID   kernel.UUID
	kind       ports.ResourceKind
	resourceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetResourceStatusQuery(tenantID kernel.UUID, kind ports.ResourceKind, resourceID kernel.UUID) (GetResourceStatusQuery, error) {
	problems := []error{tenantID.Validate(), resourceID.Validate()}
	if kind != ports.ResourceTruck && kind != ports.ResourceDriver {
		problems = append(problems, errs.NewValueIsInvalidError("resource kind"))
	}
	if err := errors.Join(problems...); err != nil {
		return GetResourceStatusQuery{}, err
	}
	return GetResourceStatusQuery{
		tenantID:   tenantID,
		kind:       kind,
		resourceID: resourceID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetResourceStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetResourceStatusQueryIsNotConstructed)
}

// ResourceStatusResponse is the registry state of a truck or driver.
type ResourceStatusResponse struct {
	Kind               ports.ResourceKind `json:"kind"`
	ID                 kernel.UUID        `json:"id"`
	Status             string             `json:"status"`
	Active             bool               `json:"active"`
	CurrentLatitude    *float64           `json:"currentLatitude,omitempty"`
	CurrentLongitude   *float64           `json:"currentLongitude,omitempty"`
	LastLocationUpdate *time.Time         `json:"lastLocationUpdate,omitempty"`
}
