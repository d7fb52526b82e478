package load

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

// EventType names something that happened to a load.
type EventType string

const (
	EventCreated         EventType = "load.created"
	EventUpdated         EventType = "load.updated"
	EventDispatched      EventType = "load.dispatched"
	EventStatusChanged   EventType = "load.status_changed"
	EventLocationUpdated EventType = "load.location_updated"
	EventDeleted         EventType = "load.deleted"
)

// Event is the record published after a load change commits. It is also the
// row kept in the load history.
type Event struct {
	ID         kernel.UUID  `json:"id"`
	Type       EventType    `json:"type"`
	TenantID   kernel.UUID  `json:"tenantId"`
	LoadID     kernel.UUID  `json:"loadId"`
	LoadNumber string       `json:"loadNumber"`
	From       Status       `json:"from,omitempty"`
	To         Status       `json:"to"`
	Reason     string       `json:"reason,omitempty"`
	TruckID    *kernel.UUID `json:"truckId,omitempty"`
	DriverID   *kernel.UUID `json:"driverId,omitempty"`
	Latitude   *float64     `json:"latitude,omitempty"`
	Longitude  *float64     `json:"longitude,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// NewEvent snapshots l into an event of type t. For status changes From is the
// status before the change.
func NewEvent(t EventType, l *Load, from Status, occurredAt time.Time) Event {
	e := Event{
		ID:         kernel.NewUUID(),
		Type:       t,
		TenantID:   l.TenantID(),
		LoadID:     l.ID(),
		LoadNumber: l.Number(),
		From:       from,
		To:         l.Status(),
		Reason:     l.CancellationReason(),
		TruckID:    l.TruckID(),
		DriverID:   l.DriverID(),
		OccurredAt: occurredAt.UTC(),
	}
	if t != EventStatusChanged || e.To != Cancelled {
		e.Reason = ""
	}
	if p := l.LastPoint(); p != nil && t == EventLocationUpdated {
		lat, lon := p.Lat(), p.Lon()
		e.Latitude, e.Longitude = &lat, &lon
	}
	return e
}
