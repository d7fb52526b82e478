// Package historyrepo stores the event log of each load.
package historyrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// LoadEventDTO is one load_events row. The primary key is the event id so a
// redelivered event is stored once.
type LoadEventDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_load_events_load,priority:1"`
	LoadID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_load_events_load,priority:2"`
	LoadNumber string     `gorm:"size:64;not null"`
	Type       string     `gorm:"size:64;not null"`
	FromStatus string     `gorm:"size:32"`
	ToStatus   string     `gorm:"size:32;not null"`
	Reason     string
	TruckID    *uuid.UUID `gorm:"type:uuid"`
	DriverID   *uuid.UUID `gorm:"type:uuid"`
	Latitude   *float64
	Longitude  *float64
	OccurredAt time.Time `gorm:"not null;index"`
}

func (LoadEventDTO) TableName() string {
	return "load_events"
}

// GormHistoryRepository implements ports.LoadHistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(ctx context.Context, e load.Event) error {
	if err := errors.Join(e.ID.Validate(), e.TenantID.Validate(), e.LoadID.Validate()); err != nil {
		return err
	}

	dto := fromDomain(e)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto).Error
}

func (r *GormHistoryRepository) List(ctx context.Context, tenantID, loadID kernel.UUID) ([]load.Event, error) {
	if err := errors.Join(tenantID.Validate(), loadID.Validate()); err != nil {
		return nil, err
	}

	var dtos []LoadEventDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND load_id = ?", tenantID.Bytes(), loadID.Bytes()).
		Order("occurred_at").Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]load.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func fromDomain(e load.Event) LoadEventDTO {
	dto := LoadEventDTO{
		ID:         e.ID.Bytes(),
		TenantID:   e.TenantID.Bytes(),
		LoadID:     e.LoadID.Bytes(),
		LoadNumber: e.LoadNumber,
		Type:       string(e.Type),
		ToStatus:   e.To.String(),
		Reason:     e.Reason,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		OccurredAt: e.OccurredAt.UTC(),
	}
	if e.From.Validate() == nil {
		dto.FromStatus = e.From.String()
	}
	if e.TruckID != nil {
		id := e.TruckID.Bytes()
		dto.TruckID = &id
	}
	if e.DriverID != nil {
		id := e.DriverID.Bytes()
		dto.DriverID = &id
	}
	return dto
}

func toDomain(dto LoadEventDTO) (load.Event, error) {
	e := load.Event{
		Type:       load.EventType(dto.Type),
		LoadNumber: dto.LoadNumber,
		Reason:     dto.Reason,
		Latitude:   dto.Latitude,
		Longitude:  dto.Longitude,
		OccurredAt: dto.OccurredAt.UTC(),
	}

	var err error
	if e.ID, err = kernel.UUIDFromBytes(dto.ID[:]); err != nil {
		return load.Event{}, err
	}
	if e.TenantID, err = kernel.UUIDFromBytes(dto.TenantID[:]); err != nil {
		return load.Event{}, err
	}
	if e.LoadID, err = kernel.UUIDFromBytes(dto.LoadID[:]); err != nil {
		return load.Event{}, err
	}
	if e.To, err = load.ParseStatus(dto.ToStatus); err != nil {
		return load.Event{}, err
	}
	if dto.FromStatus != "" {
		if e.From, err = load.ParseStatus(dto.FromStatus); err != nil {
			return load.Event{}, err
		}
	}
	if e.TruckID, err = optionalID(dto.TruckID); err != nil {
		return load.Event{}, err
	}
	if e.DriverID, err = optionalID(dto.DriverID); err != nil {
		return load.Event{}, err
	}
	return e, nil
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
