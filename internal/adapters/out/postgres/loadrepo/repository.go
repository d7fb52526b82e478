package loadrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// GormLoadRepository implements ports.LoadRepository using GORM.
type GormLoadRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormLoadRepository creates a repository over db. tracker may be nil.
func NewGormLoadRepository(db *gorm.DB, tracker aggregateTracker) *GormLoadRepository {
	return &GormLoadRepository{db: db, tracker: tracker}
}

func (r *GormLoadRepository) Add(ctx context.Context, aggregate *load.Load) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dbutil.Translate(err, "load", aggregate.Number())
	}

	r.track(aggregate)
	return nil
}

// Update writes every column, zero values included, so cleared references and
// deactivation are persisted.
func (r *GormLoadRepository) Update(ctx context.Context, aggregate *load.Load) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LoadDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return dbutil.Translate(result.Error, "load", aggregate.Number())
	}
	if result.RowsAffected == 0 {
		return dbutil.Translate(gorm.ErrRecordNotFound, "load", aggregate.ID().String())
	}

	r.track(aggregate)
	return nil
}

func (r *GormLoadRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*load.Load, error) {
	return r.get(ctx, r.db, tenantID, id)
}

func (r *GormLoadRepository) GetForUpdate(ctx context.Context, tenantID, id kernel.UUID) (*load.Load, error) {
	return r.get(ctx, dbutil.ForUpdate(r.db), tenantID, id)
}

func (r *GormLoadRepository) get(ctx context.Context, db *gorm.DB, tenantID, id kernel.UUID) (*load.Load, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto LoadDTO
	err := db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		First(&dto).Error
	if err != nil {
		return nil, dbutil.Translate(err, "load", id.String())
	}
	return toDomain(dto)
}

type codeLookup struct {
	query string
	arg   any
}

// FindByTrackingCode tries the tracking token, then the load number, then the
// load id. Inactive loads are found too.
func (r *GormLoadRepository) FindByTrackingCode(ctx context.Context, code string) (*load.Load, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dbutil.Translate(gorm.ErrRecordNotFound, "load", code)
	}

	lookups := []codeLookup{
		{"tracking_token = ?", strings.ToLower(code)},
		{"load_number = ?", strings.ToUpper(code)},
	}
	if id, err := uuid.Parse(code); err == nil {
		lookups = append(lookups, codeLookup{"id = ?", id})
	}

	for _, lookup := range lookups {
		var dto LoadDTO
		err := r.db.WithContext(ctx).Where(lookup.query, lookup.arg).Order("created_at").First(&dto).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return toDomain(dto)
	}
	return nil, dbutil.Translate(gorm.ErrRecordNotFound, "load", code)
}

func (r *GormLoadRepository) List(ctx context.Context, tenantID kernel.UUID, filter ports.LoadFilter) ([]*load.Load, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Where("tenant_id = ? AND active = ?", tenantID.Bytes(), true)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", filter.CustomerID.Bytes())
	}
	if filter.TruckID != nil {
		q = q.Where("truck_id = ?", filter.TruckID.Bytes())
	}
	if filter.DriverID != nil {
		q = q.Where("driver_id = ?", filter.DriverID.Bytes())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var dtos []LoadDTO
	if err := q.Order("created_at DESC").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListForReport returns active loads of the tenant whose pickup falls in
// [from, to), in creation order so report ties keep insertion order. Nil
// bounds are open.
func (r *GormLoadRepository) ListForReport(ctx context.Context, tenantID kernel.UUID, from, to *time.Time) ([]*load.Load, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND active = ?", tenantID.Bytes(), true)
	if from != nil {
		q = q.Where("pickup_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("pickup_at < ?", to.UTC())
	}

	var dtos []LoadDTO
	if err := q.Order("created_at").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ActiveHolders lists active loads in a non-terminal status that reference the
// resource.
func (r *GormLoadRepository) ActiveHolders(
	ctx context.Context,
	tenantID kernel.UUID,
	kind ports.ResourceKind,
	resourceID kernel.UUID,
) ([]kernel.UUID, error) {
	column := "truck_id"
	if kind == ports.ResourceDriver {
		column = "driver_id"
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&LoadDTO{}).
		Where("tenant_id = ? AND "+column+" = ? AND active = ?", tenantID.Bytes(), resourceID.Bytes(), true).
		Where("status NOT IN ?", []string{load.Completed.String(), load.Cancelled.String()}).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	holders := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		holder, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		holders = append(holders, holder)
	}
	return holders, nil
}

func (r *GormLoadRepository) track(aggregate *load.Load) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}

func toDomainAll(dtos []LoadDTO) ([]*load.Load, error) {
	loads := make([]*load.Load, 0, len(dtos))
	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, nil
}
