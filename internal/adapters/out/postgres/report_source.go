package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight/internal/adapters/out/postgres/customerrepo"
	"freight/internal/adapters/out/postgres/dbutil"
	"freight/internal/adapters/out/postgres/fleetrepo"
	"freight/internal/adapters/out/postgres/loadrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
)

// GormReportSource implements ports.ReportSource. On PostgreSQL all reads of a
// snapshot share one read-only repeatable-read transaction.
type GormReportSource struct {
	db *gorm.DB
}

func NewGormReportSource(db *gorm.DB) *GormReportSource {
	return &GormReportSource{db: db}
}

func (s *GormReportSource) Snapshot(ctx context.Context, tenantID kernel.UUID, window *services.DateRange) (services.ReportDataset, error) {
	if err := tenantID.Validate(); err != nil {
		return services.ReportDataset{}, err
	}

	var opts *sql.TxOptions
	if dbutil.IsPostgres(s.db) {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	var ds services.ReportDataset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var from, to *time.Time
		if window != nil {
			from, to = &window.From, &window.To
		}

		var err error
		if ds.Loads, err = loadrepo.NewGormLoadRepository(tx, nil).ListForReport(ctx, tenantID, from, to); err != nil {
			return err
		}
		if ds.Trucks, err = fleetrepo.NewGormTruckRepository(tx, nil).ListAll(ctx, tenantID); err != nil {
			return err
		}
		if ds.Drivers, err = fleetrepo.NewGormDriverRepository(tx, nil).ListAll(ctx, tenantID); err != nil {
			return err
		}
		ds.Customers, err = customerrepo.NewGormCustomerRepository(tx, nil).ListAll(ctx, tenantID)
		return err
	}, opts)
	if err != nil {
		return services.ReportDataset{}, err
	}
	return ds, nil
}

// ActiveTenants implements ports.TenantDirectory: every tenant with at least
// one active load.
func (s *GormReportSource) ActiveTenants(ctx context.Context) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&loadrepo.LoadDTO{}).
		Where("active = ?", true).
		Distinct("tenant_id").
		Order("tenant_id").
		Pluck("tenant_id", &ids).Error
	if err != nil {
		return nil, err
	}

	tenants := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		tenantID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		tenants = append(tenants, tenantID)
	}
	return tenants, nil
}
