package load

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

// Snapshot is the persisted state of a load.
type Snapshot struct {
	ID                 kernel.UUID
	TenantID           kernel.UUID
	Number             string
	TrackingToken      string
	Details            Details
	Status             Status
	TruckID            *kernel.UUID
	DriverID           *kernel.UUID
	LastPoint          *kernel.GeoPoint
	LastPointAt        *time.Time
	DispatchedAt       *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Restore rebuilds a load from storage. Every field is validated again and the
// total is recomputed from the stored rate inputs; a stored total is never
// trusted.
func Restore(s Snapshot) (*Load, error) {
	l, err := NewLoad(s.ID, s.TenantID, s.Number, s.TrackingToken, s.Details, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.LastPoint != nil {
		if err = s.LastPoint.Validate(); err != nil {
			return nil, err
		}
		p := *s.LastPoint
		l.lastPoint = &p
	}

	l.status = s.Status
	l.truckID = copyUUID(s.TruckID)
	l.driverID = copyUUID(s.DriverID)
	l.lastPointAt = copyTime(s.LastPointAt)
	l.dispatchedAt = copyTime(s.DispatchedAt)
	l.pickedUpAt = copyTime(s.PickedUpAt)
	l.deliveredAt = copyTime(s.DeliveredAt)
	l.cancelledAt = copyTime(s.CancelledAt)
	l.cancellationReason = s.CancellationReason
	l.active = s.Active
	l.updatedAt = s.UpdatedAt.UTC()
	return l, nil
}

// Snapshot exports the state for persistence.
func (l *Load) Snapshot() Snapshot {
	return Snapshot{
		ID:                 l.id,
		TenantID:           l.tenantID,
		Number:             l.number,
		TrackingToken:      l.trackingToken,
		Details:            l.Details(),
		Status:             l.status,
		TruckID:            l.TruckID(),
		DriverID:           l.DriverID(),
		LastPoint:          l.LastPoint(),
		LastPointAt:        l.LastPointAt(),
		DispatchedAt:       l.DispatchedAt(),
		PickedUpAt:         l.PickedUpAt(),
		DeliveredAt:        l.DeliveredAt(),
		CancelledAt:        l.CancelledAt(),
		CancellationReason: l.cancellationReason,
		Active:             l.active,
		CreatedAt:          l.createdAt,
		UpdatedAt:          l.updatedAt,
	}
}
