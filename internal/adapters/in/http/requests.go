package http

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"
	"freight/internal/pkg/errs"
)

type stopRequest struct {
	Name        string    `json:"name"`
	AddressLine string    `json:"addressLine"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	PostalCode  string    `json:"postalCode"`
	Country     string    `json:"country"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	At          time.Time `json:"at"`
}

func (r stopRequest) toDomain(param string) (load.Stop, error) {
	location := load.Location{
		Name:        r.Name,
		AddressLine: r.AddressLine,
		City:        r.City,
		State:       r.State,
		PostalCode:  r.PostalCode,
		Country:     r.Country,
	}
	if r.Latitude != nil || r.Longitude != nil {
		if r.Latitude == nil || r.Longitude == nil {
			return load.Stop{}, errs.NewValueIsInvalidError(param + " coordinates")
		}
		point, err := kernel.NewGeoPoint(*r.Latitude, *r.Longitude)
		if err != nil {
			return load.Stop{}, err
		}
		location.Point = &point
	}
	return load.NewStop(param, location, r.At)
}

type cargoRequest struct {
	Commodity  string  `json:"commodity"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
	Volume     float64 `json:"volume"`
	Pieces     int     `json:"pieces"`
	Pallets    int     `json:"pallets"`
	Hazmat     bool    `json:"hazmat"`
	Oversize   bool    `json:"oversize"`
}

type loadRequest struct {
	ReferenceNumber        string        `json:"referenceNumber"`
	CustomerID             *string       `json:"customerId"`
	Cargo                  cargoRequest  `json:"cargo"`
	Rate                   *kernel.Money `json:"rate"`
	FuelSurcharge          *kernel.Money `json:"fuelSurcharge"`
	Accessorials           *kernel.Money `json:"accessorials"`
	Currency               string        `json:"currency"`
	Pickup                 stopRequest   `json:"pickup"`
	Delivery               stopRequest   `json:"delivery"`
	EstimatedArrival       *time.Time    `json:"estimatedArrival"`
	DistanceMiles          float64       `json:"distanceMiles"`
	EstimatedDurationHours float64       `json:"estimatedDurationHours"`
	Notes                  string        `json:"notes"`
	SpecialInstructions    string        `json:"specialInstructions"`
}

func (r loadRequest) toDetails() (load.Details, error) {
	customerID, customerErr := optionalID(r.CustomerID, "customer id")
	charges, chargesErr := rate.NewCharges(r.Rate, r.FuelSurcharge, r.Accessorials, r.Currency)
	pickup, pickupErr := r.Pickup.toDomain("pickup")
	delivery, deliveryErr := r.Delivery.toDomain("delivery")
	if err := errors.Join(customerErr, chargesErr, pickupErr, deliveryErr); err != nil {
		return load.Details{}, err
	}

	return load.Details{
		ReferenceNumber: r.ReferenceNumber,
		CustomerID:      customerID,
		Cargo: load.Cargo{
			Commodity:  r.Cargo.Commodity,
			Weight:     r.Cargo.Weight,
			WeightUnit: r.Cargo.WeightUnit,
			Volume:     r.Cargo.Volume,
			Pieces:     r.Cargo.Pieces,
			Pallets:    r.Cargo.Pallets,
			Hazmat:     r.Cargo.Hazmat,
			Oversize:   r.Cargo.Oversize,
		},
		Charges:          charges,
		Pickup:           pickup,
		Delivery:         delivery,
		EstimatedArrival: r.EstimatedArrival,
		Planning: load.Planning{
			DistanceMiles:          r.DistanceMiles,
			EstimatedDurationHours: r.EstimatedDurationHours,
		},
		Notes:               r.Notes,
		SpecialInstructions: r.SpecialInstructions,
	}, nil
}

type dispatchRequest struct {
	TruckID  *string `json:"truckId"`
	DriverID *string `json:"driverId"`
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type locationRequest struct {
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	At               *time.Time `json:"at"`
	EstimatedArrival *time.Time `json:"estimatedArrival"`
}

// at returns the reported time, or now when the client sent none.
func (r locationRequest) at(now time.Time) time.Time {
	if r.At == nil || r.At.IsZero() {
		return now
	}
	return *r.At
}

type truckRequest struct {
	TruckNumber  string `json:"truckNumber"`
	TruckType    string `json:"truckType"`
	VIN          string `json:"vin"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
}

func (r truckRequest) spec() fleet.TruckSpec {
	return fleet.TruckSpec{VIN: r.VIN, Make: r.Make, Model: r.Model, Year: r.Year, Plate: r.LicensePlate}
}

type driverRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	LicenseNumber string `json:"licenseNumber"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

func (r driverRequest) contact() fleet.DriverContact {
	return fleet.DriverContact{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		LicenseNumber: r.LicenseNumber,
		Phone:         r.Phone,
		Email:         r.Email,
	}
}

type customerRequest struct {
	CompanyName           string `json:"companyName"`
	ContactPerson         string `json:"contactPerson"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	TrackingPortalEnabled bool   `json:"trackingPortalEnabled"`
}

func (r customerRequest) contact() customer.Contact {
	return customer.Contact{
		CompanyName:   r.CompanyName,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
	}
}

type verifyRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}
