package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
)

// ReportSource materializes the data a report needs from one consistent
// snapshot. A nil window loads every active load of the tenant.
type ReportSource interface {
	Snapshot(ctx context.Context, tenantID kernel.UUID, window *services.DateRange) (services.ReportDataset, error)
}

// TenantDirectory lists the tenants that own data, for jobs that sweep every
// tenant.
type TenantDirectory interface {
	ActiveTenants(ctx context.Context) ([]kernel.UUID, error)
}
