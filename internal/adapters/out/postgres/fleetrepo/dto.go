// Package fleetrepo persists the resource registry: trucks and drivers.
package fleetrepo

import (
	"time"

	"github.com/google/uuid"

	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
)

// TruckDTO is the trucks table row. Truck numbers are unique per tenant.
type TruckDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trucks_tenant_number,priority:1"`
	TruckNumber    string    `gorm:"size:64;not null;uniqueIndex:idx_trucks_tenant_number,priority:2"`
	VIN            string    `gorm:"size:32"`
	Make           string
	Model          string
	Year           int
	LicensePlate   string `gorm:"size:32"`
	TruckType      string `gorm:"size:32;not null"`
	Status         string `gorm:"size:32;not null;index"`
	LastLatitude   *float64
	LastLongitude  *float64
	LastLocationAt *time.Time
	Active         bool `gorm:"not null;index"`
}

func (TruckDTO) TableName() string {
	return "trucks"
}

// DriverDTO is the drivers table row.
type DriverDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName      string    `gorm:"not null"`
	LastName       string    `gorm:"not null"`
	LicenseNumber  string    `gorm:"size:64"`
	Phone          string    `gorm:"size:32"`
	Email          string
	Status         string `gorm:"size:32;not null;index"`
	LastLatitude   *float64
	LastLongitude  *float64
	LastLocationAt *time.Time
	Active         bool `gorm:"not null;index"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func truckFromDomain(t *fleet.Truck) TruckDTO {
	s := t.Snapshot()
	dto := TruckDTO{
		ID:             s.ID.Bytes(),
		TenantID:       s.TenantID.Bytes(),
		TruckNumber:    s.Number,
		VIN:            s.Spec.VIN,
		Make:           s.Spec.Make,
		Model:          s.Spec.Model,
		Year:           s.Spec.Year,
		LicensePlate:   s.Spec.Plate,
		TruckType:      string(s.Type),
		Status:         s.Status.String(),
		LastLocationAt: s.LastSeenAt,
		Active:         s.Active,
	}
	dto.LastLatitude, dto.LastLongitude = coordinates(s.LastPoint)
	return dto
}

func truckToDomain(dto TruckDTO) (*fleet.Truck, error) {
	id, tenantID, err := ids(dto.ID, dto.TenantID)
	if err != nil {
		return nil, err
	}
	truckType, err := fleet.ParseTruckType(dto.TruckType)
	if err != nil {
		return nil, err
	}
	status, err := fleet.ParseTruckStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	point, err := pointPtr(dto.LastLatitude, dto.LastLongitude)
	if err != nil {
		return nil, err
	}

	return fleet.RestoreTruck(fleet.TruckSnapshot{
		ID:       id,
		TenantID: tenantID,
		Number:   dto.TruckNumber,
		Type:     truckType,
		Spec: fleet.TruckSpec{
			VIN:   dto.VIN,
			Make:  dto.Make,
			Model: dto.Model,
			Year:  dto.Year,
			Plate: dto.LicensePlate,
		},
		Status:     status,
		LastPoint:  point,
		LastSeenAt: utcPtr(dto.LastLocationAt),
		Active:     dto.Active,
	})
}

func driverFromDomain(d *fleet.Driver) DriverDTO {
	s := d.Snapshot()
	dto := DriverDTO{
		ID:             s.ID.Bytes(),
		TenantID:       s.TenantID.Bytes(),
		FirstName:      s.Contact.FirstName,
		LastName:       s.Contact.LastName,
		LicenseNumber:  s.Contact.LicenseNumber,
		Phone:          s.Contact.Phone,
		Email:          s.Contact.Email,
		Status:         s.Status.String(),
		LastLocationAt: s.LastSeenAt,
		Active:         s.Active,
	}
	dto.LastLatitude, dto.LastLongitude = coordinates(s.LastPoint)
	return dto
}

func driverToDomain(dto DriverDTO) (*fleet.Driver, error) {
	id, tenantID, err := ids(dto.ID, dto.TenantID)
	if err != nil {
		return nil, err
	}
	status, err := fleet.ParseDriverStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	point, err := pointPtr(dto.LastLatitude, dto.LastLongitude)
	if err != nil {
		return nil, err
	}

	return fleet.RestoreDriver(fleet.DriverSnapshot{
		ID:       id,
		TenantID: tenantID,
		Contact: fleet.DriverContact{
			FirstName:     dto.FirstName,
			LastName:      dto.LastName,
			LicenseNumber: dto.LicenseNumber,
			Phone:         dto.Phone,
			Email:         dto.Email,
		},
		Status:     status,
		LastPoint:  point,
		LastSeenAt: utcPtr(dto.LastLocationAt),
		Active:     dto.Active,
	})
}

func ids(rawID, rawTenant uuid.UUID) (kernel.UUID, kernel.UUID, error) {
	id, err := kernel.UUIDFromBytes(rawID[:])
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	tenantID, err := kernel.UUIDFromBytes(rawTenant[:])
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return id, tenantID, nil
}

func coordinates(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Lat(), p.Lon()
	return &lat, &lon
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

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
