package services

import (
	"time"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/load"
)

// DefaultProgress is reported for any status missing from the progress table.
const DefaultProgress = 50

// VerificationFailedMessage is the only failure a tracking verification ever
// reports, whatever did not match.
const VerificationFailedMessage = "unable to verify shipment with the provided details"

// progressByStatus maps wire status names to a 0..100 progress value. ASSIGNED
// is not a load status; it is accepted for callers that pass external status
// names.
var progressByStatus = map[string]int{
	"CREATED":    10,
	"DISPATCHED": 25,
	"ASSIGNED":   40,
	"PICKED_UP":  55,
	"IN_TRANSIT": 75,
	"DELIVERED":  100,
	"CANCELLED":  0,
}

// Progress looks up the progress for a status name.
func Progress(status string) int {
	if p, ok := progressByStatus[status]; ok {
		return p
	}
	return DefaultProgress
}

// StopView is the public part of a pickup or delivery stop.
type StopView struct {
	Name       string    `json:"name,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	DateTime   time.Time `json:"dateTime"`
}

// TruckView is the public part of the assigned truck.
type TruckView struct {
	TruckNumber      string     `json:"truckNumber"`
	CurrentLatitude  *float64   `json:"currentLatitude,omitempty"`
	CurrentLongitude *float64   `json:"currentLongitude,omitempty"`
	LastUpdate       *time.Time `json:"lastUpdate,omitempty"`
}

// DriverView is the public part of the assigned driver.
type DriverView struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// TrackingProjection is what an unauthenticated visitor sees for a load. It
// carries no identifiers, tenant data or financials.
type TrackingProjection struct {
	LoadNumber       string      `json:"loadNumber"`
	ReferenceNumber  string      `json:"referenceNumber,omitempty"`
	Status           string      `json:"status"`
	Pickup           StopView    `json:"pickup"`
	Delivery         StopView    `json:"delivery"`
	EstimatedArrival *time.Time  `json:"estimatedArrival,omitempty"`
	CustomerName     string      `json:"customerName,omitempty"`
	Truck            *TruckView  `json:"truck,omitempty"`
	Driver           *DriverView `json:"driver,omitempty"`
	Progress         int         `json:"progress"`
}

// ETAView is the short form used by the arrival widget.
type ETAView struct {
	LoadNumber       string     `json:"loadNumber"`
	Status           string     `json:"status"`
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
	CurrentLat       *float64   `json:"currentLat,omitempty"`
	CurrentLng       *float64   `json:"currentLng,omitempty"`
	LastUpdate       *time.Time `json:"lastUpdate,omitempty"`
}

// VerificationResult is the outcome of Verify. LoadNumber is empty unless
// Verified is true.
type VerificationResult struct {
	Verified   bool   `json:"verified"`
	LoadNumber string `json:"loadNumber,omitempty"`
	Message    string `json:"message,omitempty"`
}

// TrackingProjector builds the public tracking views of a load.
type TrackingProjector struct{}

func NewTrackingProjector() TrackingProjector {
	return TrackingProjector{}
}

// Project builds the public projection. c, truck and driver may be nil.
func (p TrackingProjector) Project(
	l *load.Load,
	c *customer.Customer,
	truck *fleet.Truck,
	driver *fleet.Driver,
) TrackingProjection {
	out := TrackingProjection{
		LoadNumber:       l.Number(),
		ReferenceNumber:  l.ReferenceNumber(),
		Status:           l.Status().String(),
		Pickup:           stopView(l.Pickup()),
		Delivery:         stopView(l.Delivery()),
		EstimatedArrival: l.EstimatedArrival(),
		Progress:         Progress(l.Status().String()),
	}
	if c != nil {
		out.CustomerName = c.DisplayName()
	}
	if truck != nil {
		view := &TruckView{TruckNumber: truck.Number(), LastUpdate: truck.LastSeenAt()}
		if pt := truck.LastPoint(); pt != nil {
			lat, lon := pt.Lat(), pt.Lon()
			view.CurrentLatitude, view.CurrentLongitude = &lat, &lon
		}
		out.Truck = view
	}
	if driver != nil {
		out.Driver = &DriverView{Name: driver.FullName(), Phone: driver.Phone()}
	}
	return out
}

// ETA reports the estimated arrival and the freshest known position: the
// load's own report, or the truck's when it is newer or the load has none.
func (p TrackingProjector) ETA(l *load.Load, truck *fleet.Truck) ETAView {
	out := ETAView{
		LoadNumber:       l.Number(),
		Status:           l.Status().String(),
		EstimatedArrival: l.EstimatedArrival(),
	}

	point, at := l.LastPoint(), l.LastPointAt()
	if truck != nil && truck.LastPoint() != nil {
		truckAt := truck.LastSeenAt()
		if point == nil || (truckAt != nil && at != nil && truckAt.After(*at)) {
			point, at = truck.LastPoint(), truckAt
		}
	}
	if point != nil {
		lat, lon := point.Lat(), point.Lon()
		out.CurrentLat, out.CurrentLng = &lat, &lon
		out.LastUpdate = at
	}
	return out
}

// Verify checks that email belongs to the customer of l. l and c may be nil
// (unknown code, load without customer); both yield the generic failure.
func (p TrackingProjector) Verify(l *load.Load, c *customer.Customer, email string) VerificationResult {
	if l == nil || c == nil || !c.EmailMatches(email) {
		return VerificationResult{Verified: false, Message: VerificationFailedMessage}
	}
	return VerificationResult{Verified: true, LoadNumber: l.Number()}
}

func stopView(s load.Stop) StopView {
	return StopView{
		Name:       s.Location.Name,
		City:       s.Location.City,
		State:      s.Location.State,
		PostalCode: s.Location.PostalCode,
		Country:    s.Location.Country,
		DateTime:   s.At,
	}
}
