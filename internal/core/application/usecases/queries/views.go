// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the API, never aggregates.
package queries

import (
	"time"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// LocationView is a stop address with its scheduled time.
type LocationView struct {
	Name        string    `json:"name,omitempty"`
	AddressLine string    `json:"addressLine,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postalCode,omitempty"`
	Country     string    `json:"country"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	DateTime    time.Time `json:"dateTime"`
}

type CargoView struct {
	Commodity  string  `json:"commodity,omitempty"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
	Volume     float64 `json:"volume"`
	Pieces     int     `json:"pieces"`
	Pallets    int     `json:"pallets"`
	Hazmat     bool    `json:"hazmat"`
	Oversize   bool    `json:"oversize"`
}

// ChargesView carries the rate inputs and the computed total.
type ChargesView struct {
	Rate          *kernel.Money `json:"rate,omitempty"`
	FuelSurcharge *kernel.Money `json:"fuelSurcharge,omitempty"`
	Accessorials  *kernel.Money `json:"accessorials,omitempty"`
	Total         kernel.Money  `json:"total"`
	Currency      string        `json:"currency"`
}

// LoadView is the internal read model of a load.
type LoadView struct {
	ID                     kernel.UUID  `json:"id"`
	LoadNumber             string       `json:"loadNumber"`
	ReferenceNumber        string       `json:"referenceNumber,omitempty"`
	TrackingToken          string       `json:"trackingToken"`
	Status                 string       `json:"status"`
	CustomerID             *kernel.UUID `json:"customerId,omitempty"`
	TruckID                *kernel.UUID `json:"truckId,omitempty"`
	DriverID               *kernel.UUID `json:"driverId,omitempty"`
	Pickup                 LocationView `json:"pickup"`
	Delivery               LocationView `json:"delivery"`
	EstimatedArrival       *time.Time   `json:"estimatedArrival,omitempty"`
	Cargo                  CargoView    `json:"cargo"`
	Charges                ChargesView  `json:"charges"`
	DistanceMiles          float64      `json:"distanceMiles,omitempty"`
	EstimatedDurationHours float64      `json:"estimatedDurationHours,omitempty"`
	Notes                  string       `json:"notes,omitempty"`
	SpecialInstructions    string       `json:"specialInstructions,omitempty"`
	CurrentLatitude        *float64     `json:"currentLatitude,omitempty"`
	CurrentLongitude       *float64     `json:"currentLongitude,omitempty"`
	LastLocationUpdate     *time.Time   `json:"lastLocationUpdate,omitempty"`
	DispatchedAt           *time.Time   `json:"dispatchedAt,omitempty"`
	PickedUpAt             *time.Time   `json:"pickedUpAt,omitempty"`
	DeliveredAt            *time.Time   `json:"deliveredAt,omitempty"`
	CancelledAt            *time.Time   `json:"cancelledAt,omitempty"`
	CancellationReason     string       `json:"cancellationReason,omitempty"`
	Active                 bool         `json:"active"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

// NewLoadView maps a load to its read model. Command results go through it
// too, so writes and reads return the same shape.
func NewLoadView(l *load.Load) LoadView {
	charges := l.Charges()
	cargo := l.Cargo()
	planning := l.Planning()

	v := LoadView{
		ID:               l.ID(),
		LoadNumber:       l.Number(),
		ReferenceNumber:  l.ReferenceNumber(),
		TrackingToken:    l.TrackingToken(),
		Status:           l.Status().String(),
		CustomerID:       l.CustomerID(),
		TruckID:          l.TruckID(),
		DriverID:         l.DriverID(),
		Pickup:           locationView(l.Pickup()),
		Delivery:         locationView(l.Delivery()),
		EstimatedArrival: l.EstimatedArrival(),
		Cargo: CargoView{
			Commodity:  cargo.Commodity,
			Weight:     cargo.Weight,
			WeightUnit: cargo.WeightUnit,
			Volume:     cargo.Volume,
			Pieces:     cargo.Pieces,
			Pallets:    cargo.Pallets,
			Hazmat:     cargo.Hazmat,
			Oversize:   cargo.Oversize,
		},
		Charges: ChargesView{
			Rate:          charges.Rate(),
			FuelSurcharge: charges.FuelSurcharge(),
			Accessorials:  charges.Accessorials(),
			Total:         charges.Total(),
			Currency:      charges.Currency(),
		},
		DistanceMiles:          planning.DistanceMiles,
		EstimatedDurationHours: planning.EstimatedDurationHours,
		Notes:                  l.Notes(),
		SpecialInstructions:    l.SpecialInstructions(),
		LastLocationUpdate:     l.LastPointAt(),
		DispatchedAt:           l.DispatchedAt(),
		PickedUpAt:             l.PickedUpAt(),
		DeliveredAt:            l.DeliveredAt(),
		CancelledAt:            l.CancelledAt(),
		CancellationReason:     l.CancellationReason(),
		Active:                 l.IsActive(),
		CreatedAt:              l.CreatedAt(),
		UpdatedAt:              l.UpdatedAt(),
	}
	v.CurrentLatitude, v.CurrentLongitude = latLon(l.LastPoint())
	return v
}

// TruckResponse is the registry read model of a truck.
type TruckResponse struct {
	ID                 kernel.UUID `json:"id"`
	TruckNumber        string      `json:"truckNumber"`
	VIN                string      `json:"vin,omitempty"`
	Make               string      `json:"make,omitempty"`
	Model              string      `json:"model,omitempty"`
	Year               int         `json:"year,omitempty"`
	LicensePlate       string      `json:"licensePlate,omitempty"`
	TruckType          string      `json:"truckType"`
	Status             string      `json:"status"`
	CurrentLatitude    *float64    `json:"currentLatitude,omitempty"`
	CurrentLongitude   *float64    `json:"currentLongitude,omitempty"`
	LastLocationUpdate *time.Time  `json:"lastLocationUpdate,omitempty"`
}

func NewTruckResponse(t *fleet.Truck) TruckResponse {
	spec := t.Spec()
	r := TruckResponse{
		ID:                 t.ID(),
		TruckNumber:        t.Number(),
		VIN:                spec.VIN,
		Make:               spec.Make,
		Model:              spec.Model,
		Year:               spec.Year,
		LicensePlate:       spec.Plate,
		TruckType:          string(t.Type()),
		Status:             t.Status().String(),
		LastLocationUpdate: t.LastSeenAt(),
	}
	r.CurrentLatitude, r.CurrentLongitude = latLon(t.LastPoint())
	return r
}

// DriverResponse is the registry read model of a driver.
type DriverResponse struct {
	ID                 kernel.UUID `json:"id"`
	FirstName          string      `json:"firstName"`
	LastName           string      `json:"lastName"`
	LicenseNumber      string      `json:"licenseNumber,omitempty"`
	Phone              string      `json:"phone,omitempty"`
	Email              string      `json:"email,omitempty"`
	Status             string      `json:"status"`
	CurrentLatitude    *float64    `json:"currentLatitude,omitempty"`
	CurrentLongitude   *float64    `json:"currentLongitude,omitempty"`
	LastLocationUpdate *time.Time  `json:"lastLocationUpdate,omitempty"`
}

func NewDriverResponse(d *fleet.Driver) DriverResponse {
	contact := d.Contact()
	r := DriverResponse{
		ID:                 d.ID(),
		FirstName:          contact.FirstName,
		LastName:           contact.LastName,
		LicenseNumber:      contact.LicenseNumber,
		Phone:              contact.Phone,
		Email:              contact.Email,
		Status:             d.Status().String(),
		LastLocationUpdate: d.LastSeenAt(),
	}
	r.CurrentLatitude, r.CurrentLongitude = latLon(d.LastPoint())
	return r
}

type CustomerResponse struct {
	ID                    kernel.UUID `json:"id"`
	CompanyName           string      `json:"companyName"`
	ContactPerson         string      `json:"contactPerson,omitempty"`
	Email                 string      `json:"email,omitempty"`
	Phone                 string      `json:"phone,omitempty"`
	TrackingPortalEnabled bool        `json:"trackingPortalEnabled"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	contact := c.Contact()
	return CustomerResponse{
		ID:                    c.ID(),
		CompanyName:           contact.CompanyName,
		ContactPerson:         contact.ContactPerson,
		Email:                 contact.Email,
		Phone:                 contact.Phone,
		TrackingPortalEnabled: c.TrackingPortalEnabled(),
	}
}

func locationView(s load.Stop) LocationView {
	v := LocationView{
		Name:        s.Location.Name,
		AddressLine: s.Location.AddressLine,
		City:        s.Location.City,
		State:       s.Location.State,
		PostalCode:  s.Location.PostalCode,
		Country:     s.Location.Country,
		DateTime:    s.At,
	}
	v.Latitude, v.Longitude = latLon(s.Location.Point)
	return v
}

func latLon(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Lat(), p.Lon()
	return &lat, &lon
}
