package queries

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Years accepted by the monthly trend.
const (
	MinReportYear = 2000
	MaxReportYear = 2100
)

// RevenueGroup selects what a revenue report is grouped by.
type RevenueGroup string

const (
	RevenueByTruck    RevenueGroup = "trucks"
	RevenueByDriver   RevenueGroup = "drivers"
	RevenueByCustomer RevenueGroup = "customers"
)

func ParseRevenueGroup(s string) (RevenueGroup, error) {
	switch g := RevenueGroup(strings.ToLower(strings.TrimSpace(s))); g {
	case RevenueByTruck, RevenueByDriver, RevenueByCustomer:
		return g, nil
	}
	return "", errs.NewValueIsInvalidError("revenue group must be trucks, drivers or customers")
}

var (
	ErrReportRangeQueryIsNotConstructed = errors.New(
		"ReportRangeQuery must be created via NewReportRangeQuery constructor",
	)
	ErrRevenueReportQueryIsNotConstructed = errors.New(
		"RevenueReportQuery must be created via NewRevenueReportQuery constructor",
	)
	ErrMonthlyTrendQueryIsNotConstructed = errors.New(
		"MonthlyTrendQuery must be created via NewMonthlyTrendQuery constructor",
	)
	ErrExecutiveSummaryQueryIsNotConstructed = errors.New(
		"ExecutiveSummaryQuery must be created via NewExecutiveSummaryQuery constructor",
	)
)

// ReportRangeQuery selects a tenant and the inclusive calendar dates
// start..end, read as [start 00:00, end+1 00:00) UTC.
type ReportRangeQuery struct {
	tenantID kernel.UUID
	window   services.DateRange

	guard guard.ConstructorGuard
}

func NewReportRangeQuery(tenantID kernel.UUID, startDate, endDate time.Time) (ReportRangeQuery, error) {
	window, rangeErr := services.NewDateRange(startDate, endDate)
	if err := errors.Join(tenantID.Validate(), rangeErr); err != nil {
		return ReportRangeQuery{}, err
	}
	return ReportRangeQuery{tenantID: tenantID, window: window, guard: guard.NewConstructorGuard()}, nil
}

func (q ReportRangeQuery) Validate() error {
	return q.guard.Validate(ErrReportRangeQueryIsNotConstructed)
}

func (q ReportRangeQuery) TenantID() kernel.UUID { return q.tenantID }
func (q ReportRangeQuery) Window() services.DateRange { return q.window }

// RevenueReportQuery is a ReportRangeQuery with a grouping.
type RevenueReportQuery struct {
	ReportRangeQuery
	group RevenueGroup

	guard guard.ConstructorGuard
}

func NewRevenueReportQuery(tenantID kernel.UUID, group string, startDate, endDate time.Time) (RevenueReportQuery, error) {
	parsed, groupErr := ParseRevenueGroup(group)
	rangeQuery, rangeErr := NewReportRangeQuery(tenantID, startDate, endDate)
	if err := errors.Join(groupErr, rangeErr); err != nil {
		return RevenueReportQuery{}, err
	}
	return RevenueReportQuery{ReportRangeQuery: rangeQuery, group: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q RevenueReportQuery) Validate() error {
	return q.guard.Validate(ErrRevenueReportQueryIsNotConstructed)
}

func (q RevenueReportQuery) Group() RevenueGroup { return q.group }

// MonthlyTrendQuery asks for the twelve months of one year.
type MonthlyTrendQuery struct {
	tenantID kernel.UUID
	year     int

	guard guard.ConstructorGuard
}

func NewMonthlyTrendQuery(tenantID kernel.UUID, year int) (MonthlyTrendQuery, error) {
	problems := []error{tenantID.Validate()}
	if year < MinReportYear || year > MaxReportYear {
		problems = append(problems, errs.NewValueIsOutOfRangeError("year", year, MinReportYear, MaxReportYear))
	}
	if err := errors.Join(problems...); err != nil {
		return MonthlyTrendQuery{}, err
	}
	return MonthlyTrendQuery{tenantID: tenantID, year: year, guard: guard.NewConstructorGuard()}, nil
}

func (q MonthlyTrendQuery) Validate() error {
	return q.guard.Validate(ErrMonthlyTrendQueryIsNotConstructed)
}

// ExecutiveSummaryQuery reads the dashboard header. Refresh skips the cached
// copy and rewrites it.
type ExecutiveSummaryQuery struct {
	tenantID kernel.UUID
	refresh  bool

	guard guard.ConstructorGuard
}

func NewExecutiveSummaryQuery(tenantID kernel.UUID, refresh bool) (ExecutiveSummaryQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return ExecutiveSummaryQuery{}, err
	}
	return ExecutiveSummaryQuery{tenantID: tenantID, refresh: refresh, guard: guard.NewConstructorGuard()}, nil
}

func (q ExecutiveSummaryQuery) Validate() error {
	return q.guard.Validate(ErrExecutiveSummaryQueryIsNotConstructed)
}

func (q MonthlyTrendQuery) TenantID() kernel.UUID { return q.tenantID }
func (q MonthlyTrendQuery) Year() int             { return q.year }

func (q ExecutiveSummaryQuery) TenantID() kernel.UUID { return q.tenantID }
func (q ExecutiveSummaryQuery) Refresh() bool         { return q.refresh }
