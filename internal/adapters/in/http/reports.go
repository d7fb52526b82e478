package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"freight/internal/core/application/usecases/queries"
)

func (s *Server) rangeQuery(c echo.Context) (queries.ReportRangeQuery, error) {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return queries.ReportRangeQuery{}, err
	}
	start, end, err := dateRange(c)
	if err != nil {
		return queries.ReportRangeQuery{}, err
	}
	return queries.NewReportRangeQuery(tenantID, start, end)
}

// RevenueReport handles GET /reports/revenue/:group.
func (s *Server) RevenueReport(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	group, err := pathString(c, "group")
	if err != nil {
		return err
	}
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}

	query, err := queries.NewRevenueReportQuery(tenantID, group, start, end)
	if err != nil {
		return err
	}
	report, err := s.queries.Revenue.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, report)
}

// OnTimeReport handles GET /reports/on-time.
func (s *Server) OnTimeReport(c echo.Context) error {
	query, err := s.rangeQuery(c)
	if err != nil {
		return err
	}
	report, err := s.queries.OnTime.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, report)
}

// UtilizationReport handles GET /reports/utilization.
func (s *Server) UtilizationReport(c echo.Context) error {
	query, err := s.rangeQuery(c)
	if err != nil {
		return err
	}
	report, err := s.queries.Utilization.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, report)
}

// MonthlyTrend handles GET /reports/monthly-trend.
func (s *Server) MonthlyTrend(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var year int
	if err = requiredQueryParam(c, "year", &year); err != nil {
		return err
	}

	query, err := queries.NewMonthlyTrendQuery(tenantID, year)
	if err != nil {
		return err
	}
	trend, err := s.queries.MonthlyTrend.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, trend)
}

// ExecutiveSummary handles GET /reports/executive-summary. refresh=true
// bypasses the cached snapshot.
func (s *Server) ExecutiveSummary(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	refresh, err := queryParam[bool](c, "refresh")
	if err != nil {
		return err
	}

	query, err := queries.NewExecutiveSummaryQuery(tenantID, refresh)
	if err != nil {
		return err
	}
	summary, err := s.queries.ExecutiveSummary.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, summary)
}

// ExportReports handles GET /reports/export with an XLSX workbook.
func (s *Server) ExportReports(c echo.Context) error {
	query, err := s.rangeQuery(c)
	if err != nil {
		return err
	}

	// Nothing is written until the workbook is complete.
	var buf bytes.Buffer
	if err = s.queries.ExportReports.Handle(c.Request().Context(), query, &buf); err != nil {
		return err
	}

	window := query.Window()
	filename := fmt.Sprintf("freight-report-%s-%s.xlsx",
		window.From.Format("20060102"), window.To.AddDate(0, 0, -1).Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, s.queries.ExportReports.ContentType(), buf.Bytes())
}
