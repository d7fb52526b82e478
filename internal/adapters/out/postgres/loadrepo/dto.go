// Package loadrepo persists load aggregates with GORM. The stored total is
// informational: restore always recomputes it from the rate inputs.
package loadrepo

import (
	"time"

	"github.com/google/uuid"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/rate"
)

// LoadDTO is the loads table row.
type LoadDTO struct {
	ID                  uuid.UUID     `gorm:"type:uuid;primaryKey"`
	TenantID            uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_loads_tenant_number,priority:1;index:idx_loads_tenant_pickup,priority:1"`
	LoadNumber          string        `gorm:"size:64;not null;uniqueIndex:idx_loads_tenant_number,priority:2"`
	TrackingToken       string        `gorm:"size:32;not null;uniqueIndex"`
	ReferenceNumber     string        `gorm:"size:128"`
	CustomerID          *uuid.UUID    `gorm:"type:uuid;index"`
	TruckID             *uuid.UUID    `gorm:"type:uuid;index"`
	DriverID            *uuid.UUID    `gorm:"type:uuid;index"`
	Status              string        `gorm:"size:32;not null;index"`
	Cargo               CargoDTO      `gorm:"embedded;embeddedPrefix:cargo_"`
	Rate                *kernel.Money `gorm:"type:numeric(14,2)"`
	FuelSurcharge       *kernel.Money `gorm:"type:numeric(14,2)"`
	Accessorials        *kernel.Money `gorm:"type:numeric(14,2)"`
	TotalAmount         kernel.Money  `gorm:"type:numeric(14,2);not null"`
	Currency            string        `gorm:"size:3;not null"`
	Pickup              StopDTO       `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery            StopDTO       `gorm:"embedded;embeddedPrefix:delivery_"`
	EstimatedArrival    *time.Time
	DistanceMiles       float64
	EstimatedHours      float64
	Notes               string
	SpecialInstructions string
	LastLatitude        *float64
	LastLongitude       *float64
	LastLocationAt      *time.Time
	DispatchedAt        *time.Time
	PickedUpAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string
	Active              bool      `gorm:"not null;index"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

func (LoadDTO) TableName() string {
	return "loads"
}

// CargoDTO is embedded with the cargo_ prefix.
type CargoDTO struct {
	Commodity  string
	Weight     float64
	WeightUnit string `gorm:"size:8"`
	Volume     float64
	Pieces     int
	Pallets    int
	Hazmat     bool
	Oversize   bool
}

// StopDTO is embedded once per stop. At is the scheduled datetime; the pickup
// one drives report windows.
type StopDTO struct {
	Name        string
	AddressLine string
	City        string
	State       string `gorm:"size:64"`
	PostalCode  string `gorm:"size:16"`
	Country     string `gorm:"size:2"`
	Latitude    *float64
	Longitude   *float64
	At          time.Time `gorm:"index"`
}

func fromDomain(l *load.Load) LoadDTO {
	s := l.Snapshot()
	d := s.Details
	dto := LoadDTO{
		ID:              s.ID.Bytes(),
		TenantID:        s.TenantID.Bytes(),
		LoadNumber:      s.Number,
		TrackingToken:   s.TrackingToken,
		ReferenceNumber: d.ReferenceNumber,
		CustomerID:      uuidPtr(d.CustomerID),
		TruckID:         uuidPtr(s.TruckID),
		DriverID:        uuidPtr(s.DriverID),
		Status:          s.Status.String(),
		Cargo: CargoDTO{
			Commodity:  d.Cargo.Commodity,
			Weight:     d.Cargo.Weight,
			WeightUnit: d.Cargo.WeightUnit,
			Volume:     d.Cargo.Volume,
			Pieces:     d.Cargo.Pieces,
			Pallets:    d.Cargo.Pallets,
			Hazmat:     d.Cargo.Hazmat,
			Oversize:   d.Cargo.Oversize,
		},
		Rate:                d.Charges.Rate(),
		FuelSurcharge:       d.Charges.FuelSurcharge(),
		Accessorials:        d.Charges.Accessorials(),
		TotalAmount:         d.Charges.Total(),
		Currency:            d.Charges.Currency(),
		Pickup:              stopFromDomain(d.Pickup),
		Delivery:            stopFromDomain(d.Delivery),
		EstimatedArrival:    d.EstimatedArrival,
		DistanceMiles:       d.Planning.DistanceMiles,
		EstimatedHours:      d.Planning.EstimatedDurationHours,
		Notes:               d.Notes,
		SpecialInstructions: d.SpecialInstructions,
		LastLocationAt:      s.LastPointAt,
		DispatchedAt:        s.DispatchedAt,
		PickedUpAt:          s.PickedUpAt,
		DeliveredAt:         s.DeliveredAt,
		CancelledAt:         s.CancelledAt,
		CancellationReason:  s.CancellationReason,
		Active:              s.Active,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if p := s.LastPoint; p != nil {
		lat, lon := p.Lat(), p.Lon()
		dto.LastLatitude, dto.LastLongitude = &lat, &lon
	}
	return dto
}

// toDomain rebuilds the aggregate through load.Restore, which recomputes the
// total from Rate, FuelSurcharge and Accessorials.
func toDomain(dto LoadDTO) (*load.Load, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	status, err := load.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	customerID, err := kernelPtr(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	truckID, err := kernelPtr(dto.TruckID)
	if err != nil {
		return nil, err
	}
	driverID, err := kernelPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}
	pickup, err := stopToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := stopToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}
	charges, err := rate.NewCharges(dto.Rate, dto.FuelSurcharge, dto.Accessorials, dto.Currency)
	if err != nil {
		return nil, err
	}
	lastPoint, err := pointPtr(dto.LastLatitude, dto.LastLongitude)
	if err != nil {
		return nil, err
	}

	return load.Restore(load.Snapshot{
		ID:            id,
		TenantID:      tenantID,
		Number:        dto.LoadNumber,
		TrackingToken: dto.TrackingToken,
		Details: load.Details{
			ReferenceNumber: dto.ReferenceNumber,
			CustomerID:      customerID,
			Cargo: load.Cargo{
				Commodity:  dto.Cargo.Commodity,
				Weight:     dto.Cargo.Weight,
				WeightUnit: dto.Cargo.WeightUnit,
				Volume:     dto.Cargo.Volume,
				Pieces:     dto.Cargo.Pieces,
				Pallets:    dto.Cargo.Pallets,
				Hazmat:     dto.Cargo.Hazmat,
				Oversize:   dto.Cargo.Oversize,
			},
			Charges:          charges,
			Pickup:           pickup,
			Delivery:         delivery,
			EstimatedArrival: utcPtr(dto.EstimatedArrival),
			Planning: load.Planning{
				DistanceMiles:          dto.DistanceMiles,
				EstimatedDurationHours: dto.EstimatedHours,
			},
			Notes:               dto.Notes,
			SpecialInstructions: dto.SpecialInstructions,
		},
		Status:             status,
		TruckID:            truckID,
		DriverID:           driverID,
		LastPoint:          lastPoint,
		LastPointAt:        utcPtr(dto.LastLocationAt),
		DispatchedAt:       utcPtr(dto.DispatchedAt),
		PickedUpAt:         utcPtr(dto.PickedUpAt),
		DeliveredAt:        utcPtr(dto.DeliveredAt),
		CancelledAt:        utcPtr(dto.CancelledAt),
		CancellationReason: dto.CancellationReason,
		Active:             dto.Active,
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
	})
}

func stopFromDomain(s load.Stop) StopDTO {
	dto := StopDTO{
		Name:        s.Location.Name,
		AddressLine: s.Location.AddressLine,
		City:        s.Location.City,
		State:       s.Location.State,
		PostalCode:  s.Location.PostalCode,
		Country:     s.Location.Country,
		At:          s.At,
	}
	if p := s.Location.Point; p != nil {
		lat, lon := p.Lat(), p.Lon()
		dto.Latitude, dto.Longitude = &lat, &lon
	}
	return dto
}

func stopToDomain(dto StopDTO) (load.Stop, error) {
	point, err := pointPtr(dto.Latitude, dto.Longitude)
	if err != nil {
		return load.Stop{}, err
	}
	return load.Stop{
		Location: load.Location{
			Name:        dto.Name,
			AddressLine: dto.AddressLine,
			City:        dto.City,
			State:       dto.State,
			PostalCode:  dto.PostalCode,
			Country:     dto.Country,
			Point:       point,
		},
		At: dto.At.UTC(),
	}, nil
}

func pointPtr(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
