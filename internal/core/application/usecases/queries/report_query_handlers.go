package queries

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// DefaultSummaryCacheTTL is how long a cached executive summary is served.
const DefaultSummaryCacheTTL = time.Minute

// SummaryCacheKey is the cache entry of a tenant's executive summary.
func SummaryCacheKey(tenantID kernel.UUID) string {
	return "reports:summary:" + tenantID.String()
}

// RevenueReportQueryHandler reads one snapshot of the window and groups it.
type RevenueReportQueryHandler struct {
	source     ports.ReportSource
	aggregator services.ReportAggregator
}

func NewRevenueReportQueryHandler(source ports.ReportSource) RevenueReportQueryHandler {
	return RevenueReportQueryHandler{source: source, aggregator: services.NewReportAggregator()}
}

func (h RevenueReportQueryHandler) Handle(ctx context.Context, query RevenueReportQuery) (services.RevenueReport, error) {
	if err := query.Validate(); err != nil {
		return services.RevenueReport{}, err
	}

	window := query.Window()
	ds, err := h.source.Snapshot(ctx, query.TenantID(), &window)
	if err != nil {
		return services.RevenueReport{}, err
	}

	switch query.Group() {
	case RevenueByDriver:
		return h.aggregator.RevenueByDriver(ds, window), nil
	case RevenueByCustomer:
		return h.aggregator.RevenueByCustomer(ds, window), nil
	default:
		return h.aggregator.RevenueByTruck(ds, window), nil
	}
}

type OnTimeReportQueryHandler struct {
	source     ports.ReportSource
	aggregator services.ReportAggregator
}

func NewOnTimeReportQueryHandler(source ports.ReportSource) OnTimeReportQueryHandler {
	return OnTimeReportQueryHandler{source: source, aggregator: services.NewReportAggregator()}
}

func (h OnTimeReportQueryHandler) Handle(ctx context.Context, query ReportRangeQuery) (services.OnTimeReport, error) {
	if err := query.Validate(); err != nil {
		return services.OnTimeReport{}, err
	}

	window := query.Window()
	ds, err := h.source.Snapshot(ctx, query.TenantID(), &window)
	if err != nil {
		return services.OnTimeReport{}, err
	}
	return h.aggregator.OnTimeDelivery(ds, window), nil
}

type UtilizationReportQueryHandler struct {
	source     ports.ReportSource
	aggregator services.ReportAggregator
}

func NewUtilizationReportQueryHandler(source ports.ReportSource) UtilizationReportQueryHandler {
	return UtilizationReportQueryHandler{source: source, aggregator: services.NewReportAggregator()}
}

func (h UtilizationReportQueryHandler) Handle(ctx context.Context, query ReportRangeQuery) (services.UtilizationReport, error) {
	if err := query.Validate(); err != nil {
		return services.UtilizationReport{}, err
	}

	window := query.Window()
	ds, err := h.source.Snapshot(ctx, query.TenantID(), &window)
	if err != nil {
		return services.UtilizationReport{}, err
	}
	return h.aggregator.FleetUtilization(ds, window), nil
}

type MonthlyTrendQueryHandler struct {
	source     ports.ReportSource
	aggregator services.ReportAggregator
}

func NewMonthlyTrendQueryHandler(source ports.ReportSource) MonthlyTrendQueryHandler {
	return MonthlyTrendQueryHandler{source: source, aggregator: services.NewReportAggregator()}
}

func (h MonthlyTrendQueryHandler) Handle(ctx context.Context, query MonthlyTrendQuery) ([]services.MonthlyRevenue, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	window := services.YearRange(query.year)
	ds, err := h.source.Snapshot(ctx, query.tenantID, &window)
	if err != nil {
		return nil, err
	}
	return h.aggregator.MonthlyTrend(ds, query.year), nil
}

// ExecutiveSummaryQueryHandler serves the dashboard header from the cache when
// one is configured. The summary covers every active load, so it is computed
// from an unbounded snapshot.
type ExecutiveSummaryQueryHandler struct {
	source     ports.ReportSource
	aggregator services.ReportAggregator
	clock      ports.Clock
	cache      ports.Cache
	ttl        time.Duration
	log        *zap.Logger
}

// NewExecutiveSummaryQueryHandler accepts a nil cache and a nil logger. A zero
// ttl means DefaultSummaryCacheTTL.
func NewExecutiveSummaryQueryHandler(
	source ports.ReportSource,
	clock ports.Clock,
	cache ports.Cache,
	ttl time.Duration,
	log *zap.Logger,
) ExecutiveSummaryQueryHandler {
	if ttl <= 0 {
		ttl = DefaultSummaryCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return ExecutiveSummaryQueryHandler{
		source:     source,
		aggregator: services.NewReportAggregator(),
		clock:      clock,
		cache:      cache,
		ttl:        ttl,
		log:        log,
	}
}

func (h ExecutiveSummaryQueryHandler) Handle(ctx context.Context, query ExecutiveSummaryQuery) (services.ExecutiveSummary, error) {
	if err := query.Validate(); err != nil {
		return services.ExecutiveSummary{}, err
	}

	key := SummaryCacheKey(query.tenantID)
	if h.cache != nil && !query.refresh {
		var cached services.ExecutiveSummary
		hit, err := h.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			h.log.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	ds, err := h.source.Snapshot(ctx, query.tenantID, nil)
	if err != nil {
		return services.ExecutiveSummary{}, err
	}
	summary := h.aggregator.ExecutiveSummary(ds, h.clock.Now())

	if h.cache != nil {
		if err = h.cache.SetJSON(ctx, key, summary, h.ttl); err != nil {
			h.log.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}

// ExportReportsQueryHandler writes every report of a window as one document.
type ExportReportsQueryHandler struct {
	source     ports.ReportSource
	exporter   ports.ReportExporter
	aggregator services.ReportAggregator
	clock      ports.Clock
}

func NewExportReportsQueryHandler(source ports.ReportSource, exporter ports.ReportExporter, clock ports.Clock) ExportReportsQueryHandler {
	return ExportReportsQueryHandler{
		source:     source,
		exporter:   exporter,
		aggregator: services.NewReportAggregator(),
		clock:      clock,
	}
}

// ContentType is the media type of the exported document.
func (h ExportReportsQueryHandler) ContentType() string {
	return h.exporter.ContentType()
}

func (h ExportReportsQueryHandler) Handle(ctx context.Context, query ReportRangeQuery, w io.Writer) error {
	if err := query.Validate(); err != nil {
		return err
	}

	ds, err := h.source.Snapshot(ctx, query.TenantID(), nil)
	if err != nil {
		return err
	}
	return h.exporter.Export(w, h.aggregator.Bundle(ds, query.Window(), h.clock.Now()))
}
