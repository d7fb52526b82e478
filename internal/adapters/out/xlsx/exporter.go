// Package xlsx renders report bundles as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary     = "Summary"
	SheetByTruck     = "Revenue by truck"
	SheetByDriver    = "Revenue by driver"
	SheetByCustomer  = "Revenue by customer"
	SheetOnTime      = "On-time"
	SheetUtilization = "Utilization"
	SheetTrend       = "Monthly trend"
)

const dateLayout = "2006-01-02"

// Exporter implements ports.ReportExporter.
type Exporter struct{}

func NewExporter() Exporter { return Exporter{} }

func (Exporter) ContentType() string { return ContentType }

func (Exporter) Export(w io.Writer, b services.ReportBundle) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(b)},
		{SheetByTruck, revenueRows("Truck", b.ByTruck)},
		{SheetByDriver, revenueRows("Driver", b.ByDriver)},
		{SheetByCustomer, revenueRows("Customer", b.ByCustomer)},
		{SheetOnTime, onTimeRows(b.OnTime)},
		{SheetUtilization, utilizationRows(b.Utilization)},
		{SheetTrend, trendRows(b.Year, b.Trend)},
	}

	for i, s := range sheets {
		index, err := f.NewSheet(s.name)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func summaryRows(b services.ReportBundle) [][]any {
	s := b.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"Period start", b.Range.From.Format(dateLayout)},
		{"Period end", b.Range.To.AddDate(0, 0, -1).Format(dateLayout)},
		{"Monthly revenue", amount(s.MonthlyRevenue)},
		{"Monthly loads", s.MonthlyLoads},
		{"Yearly revenue", amount(s.YearlyRevenue)},
		{"Yearly loads", s.YearlyLoads},
		{"Total trucks", s.TotalTrucks},
		{"Available trucks", s.AvailableTrucks},
		{"Total drivers", s.TotalDrivers},
		{"Available drivers", s.AvailableDrivers},
		{"Loads in transit", s.LoadsInTransit},
	}
	statuses := make([]string, 0, len(s.LoadsByStatus))
	for status := range s.LoadsByStatus {
		statuses = append(statuses, status)
	}
	slices.Sort(statuses)
	for _, status := range statuses {
		rows = append(rows, []any{"Loads " + status, s.LoadsByStatus[status]})
	}
	return rows
}

func revenueRows(label string, r services.RevenueReport) [][]any {
	rows := [][]any{{label, "Loads", "Revenue", "Avg revenue per load"}}
	for _, row := range r.Rows {
		var avg any
		if row.AvgRevenuePerLoad != nil {
			avg = amount(*row.AvgRevenuePerLoad)
		}
		rows = append(rows, []any{row.Name, row.LoadsCount, amount(row.Revenue), avg})
	}
	return append(rows, []any{"Total", r.TotalLoads, amount(r.TotalRevenue)})
}

func onTimeRows(r services.OnTimeReport) [][]any {
	return [][]any{
		{"Delivered", "On time", "Late", "Unscored", "On-time %"},
		{r.TotalDelivered, r.OnTime, r.Late, r.Unscored, r.OnTimePercentage.InexactFloat64()},
	}
}

func utilizationRows(r services.UtilizationReport) [][]any {
	return [][]any{
		{"Days", "Trucks", "Assigned trucks", "Truck days", "Assigned truck days", "Utilization %"},
		{r.Days, r.TotalTrucks, r.AssignedTrucks, r.TotalTruckDays, r.AssignedTruckDays, r.UtilizationPercentage.InexactFloat64()},
	}
}

func trendRows(year int, trend []services.MonthlyRevenue) [][]any {
	rows := [][]any{{"Year", "Month", "Loads", "Revenue"}}
	for _, m := range trend {
		rows = append(rows, []any{year, m.MonthName, m.LoadsCount, amount(m.Revenue)})
	}
	return rows
}

func amount(m kernel.Money) float64 {
	return m.Round(kernel.MoneyScale).InexactFloat64()
}
