package services

import (
	"sort"
	"strings"
	"time"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// DateRange is a half-open interval [From, To) over pickup datetimes.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange turns inclusive calendar dates into [start 00:00, end+1 00:00)
// in UTC.
func NewDateRange(startDate, endDate time.Time) (DateRange, error) {
	if startDate.IsZero() {
		return DateRange{}, errs.NewValueIsRequiredError("startDate")
	}
	if endDate.IsZero() {
		return DateRange{}, errs.NewValueIsRequiredError("endDate")
	}
	from := truncateDay(startDate)
	to := truncateDay(endDate).Add(day)
	if !to.After(from) {
		return DateRange{}, errs.NewValueIsInvalidError("endDate must not be before startDate")
	}
	return DateRange{From: from, To: to}, nil
}

// MonthRange is the calendar month containing t, in UTC.
func MonthRange(t time.Time) DateRange {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(0, 1, 0)}
}

// YearRange is the calendar year, in UTC.
func YearRange(year int) DateRange {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(1, 0, 0)}
}

// Contains reports whether t falls in [From, To).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Days is the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From) / day)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ReportDataset is one consistent read of a tenant's data. Loads are the
// active loads in the requested window, in storage order. Trucks, drivers and
// customers include deactivated entries so that historical loads keep their
// display names.
type ReportDataset struct {
	Loads     []*load.Load
	Trucks    []*fleet.Truck
	Drivers   []*fleet.Driver
	Customers []*customer.Customer
}

// RevenueRow is one group of a revenue report.
type RevenueRow struct {
	ID                kernel.UUID   `json:"id"`
	Name              string        `json:"name"`
	Revenue           kernel.Money  `json:"revenue"`
	LoadsCount        int           `json:"loadsCount"`
	AvgRevenuePerLoad *kernel.Money `json:"avgRevenuePerLoad,omitempty"`
}

// RevenueReport groups revenue (the base rate, not the total) by resource.
// TotalLoads counts every load in range, grouped or not.
type RevenueReport struct {
	Rows         []RevenueRow `json:"rows"`
	TotalRevenue kernel.Money `json:"totalRevenue"`
	TotalLoads   int          `json:"totalLoads"`
}

// OnTimeReport scores delivered loads against their estimated arrival.
// TotalDelivered counts every delivered load in range; those missing either
// datetime land in Unscored, neither on time nor late, and still weigh on the
// percentage.
type OnTimeReport struct {
	TotalDelivered   int             `json:"totalDelivered"`
	OnTime           int             `json:"onTime"`
	Late             int             `json:"late"`
	Unscored         int             `json:"unscored"`
	OnTimePercentage decimal.Decimal `json:"onTimePercentage"`
}

// UtilizationReport is the coarse truck-days utilization: a truck seen on
// any load in range counts as busy for the whole range.
type UtilizationReport struct {
	Days                  int             `json:"days"`
	TotalTrucks           int             `json:"totalTrucks"`
	AssignedTrucks        int             `json:"assignedTrucks"`
	TotalTruckDays        int             `json:"totalTruckDays"`
	AssignedTruckDays     int             `json:"assignedTruckDays"`
	UtilizationPercentage decimal.Decimal `json:"utilizationPercentage"`
}

// MonthlyRevenue is one entry of the monthly trend.
type MonthlyRevenue struct {
	Month      int          `json:"month"`
	MonthName  string       `json:"monthName"`
	Revenue    kernel.Money `json:"revenue"`
	LoadsCount int          `json:"loadsCount"`
}

// ExecutiveSummary is the dashboard header.
type ExecutiveSummary struct {
	MonthlyRevenue   kernel.Money   `json:"monthlyRevenue"`
	MonthlyLoads     int            `json:"monthlyLoads"`
	YearlyRevenue    kernel.Money   `json:"yearlyRevenue"`
	YearlyLoads      int            `json:"yearlyLoads"`
	TotalTrucks      int            `json:"totalTrucks"`
	AvailableTrucks  int            `json:"availableTrucks"`
	TotalDrivers     int            `json:"totalDrivers"`
	AvailableDrivers int            `json:"availableDrivers"`
	LoadsInTransit   int            `json:"loadsInTransit"`
	LoadsByStatus    map[string]int `json:"loadsByStatus"`
}

// ReportAggregator derives the reporting views from a ReportDataset. Every
// method is a pure function of its inputs.
type ReportAggregator struct{}

func NewReportAggregator() ReportAggregator {
	return ReportAggregator{}
}

// RevenueByTruck groups by assigned truck and adds the average per load.
func (a ReportAggregator) RevenueByTruck(ds ReportDataset, r DateRange) RevenueReport {
	names := make(map[kernel.UUID]string, len(ds.Trucks))
	for _, t := range ds.Trucks {
		names[t.ID()] = t.Number()
	}
	report := a.revenueBy(ds, r, (*load.Load).TruckID, names)
	for i := range report.Rows {
		row := &report.Rows[i]
		avg := kernel.NewMoneyFromDecimal(row.Revenue.DivRound(decimal.NewFromInt(int64(row.LoadsCount)), kernel.MoneyScale))
		row.AvgRevenuePerLoad = &avg
	}
	return report
}

// RevenueByDriver groups by assigned driver.
func (a ReportAggregator) RevenueByDriver(ds ReportDataset, r DateRange) RevenueReport {
	names := make(map[kernel.UUID]string, len(ds.Drivers))
	for _, d := range ds.Drivers {
		names[d.ID()] = d.FullName()
	}
	return a.revenueBy(ds, r, (*load.Load).DriverID, names)
}

// RevenueByCustomer groups by customer.
func (a ReportAggregator) RevenueByCustomer(ds ReportDataset, r DateRange) RevenueReport {
	names := make(map[kernel.UUID]string, len(ds.Customers))
	for _, c := range ds.Customers {
		names[c.ID()] = c.DisplayName()
	}
	return a.revenueBy(ds, r, (*load.Load).CustomerID, names)
}

func (a ReportAggregator) revenueBy(
	ds ReportDataset,
	r DateRange,
	key func(*load.Load) *kernel.UUID,
	names map[kernel.UUID]string,
) RevenueReport {
	report := RevenueReport{Rows: []RevenueRow{}, TotalRevenue: kernel.ZeroMoney()}
	index := make(map[kernel.UUID]int)

	for _, l := range inRange(ds.Loads, r) {
		report.TotalLoads++
		id := key(l)
		rate := l.Charges().Rate()
		if id == nil || rate == nil {
			continue
		}
		i, ok := index[*id]
		if !ok {
			i = len(report.Rows)
			index[*id] = i
			report.Rows = append(report.Rows, RevenueRow{ID: *id, Name: names[*id], Revenue: kernel.ZeroMoney()})
		}
		report.Rows[i].Revenue = report.Rows[i].Revenue.Add(*rate)
		report.Rows[i].LoadsCount++
		report.TotalRevenue = report.TotalRevenue.Add(*rate)
	}

	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].Revenue.GreaterThan(report.Rows[j].Revenue.Decimal)
	})
	return report
}

// OnTimeDelivery scores loads currently in Delivered status.
func (a ReportAggregator) OnTimeDelivery(ds ReportDataset, r DateRange) OnTimeReport {
	var report OnTimeReport
	for _, l := range inRange(ds.Loads, r) {
		if l.Status() != load.Delivered {
			continue
		}
		report.TotalDelivered++
		eta := l.EstimatedArrival()
		if eta == nil || l.Delivery().At.IsZero() {
			report.Unscored++
			continue
		}
		if l.Delivery().At.After(*eta) {
			report.Late++
		} else {
			report.OnTime++
		}
	}
	report.OnTimePercentage = percentage(report.OnTime, report.TotalDelivered)
	return report
}

// FleetUtilization counts active trucks against trucks seen on loads in range.
func (a ReportAggregator) FleetUtilization(ds ReportDataset, r DateRange) UtilizationReport {
	active := make(map[kernel.UUID]struct{})
	for _, t := range ds.Trucks {
		if t.IsActive() {
			active[t.ID()] = struct{}{}
		}
	}

	busy := make(map[kernel.UUID]struct{})
	for _, l := range inRange(ds.Loads, r) {
		if id := l.TruckID(); id != nil {
			if _, ok := active[*id]; ok {
				busy[*id] = struct{}{}
			}
		}
	}

	days := r.Days()
	report := UtilizationReport{
		Days:              days,
		TotalTrucks:       len(active),
		AssignedTrucks:    len(busy),
		TotalTruckDays:    len(active) * days,
		AssignedTruckDays: len(busy) * days,
	}
	report.UtilizationPercentage = percentage(report.AssignedTruckDays, report.TotalTruckDays)
	return report
}

// MonthlyTrend returns twelve entries, January first, for year.
func (a ReportAggregator) MonthlyTrend(ds ReportDataset, year int) []MonthlyRevenue {
	trend := make([]MonthlyRevenue, 12)
	for m := range trend {
		month := time.Month(m + 1)
		trend[m] = MonthlyRevenue{
			Month:     int(month),
			MonthName: strings.ToUpper(month.String()),
			Revenue:   kernel.ZeroMoney(),
		}
	}

	for _, l := range inRange(ds.Loads, YearRange(year)) {
		entry := &trend[l.Pickup().At.UTC().Month()-1]
		entry.LoadsCount++
		if rate := l.Charges().Rate(); rate != nil {
			entry.Revenue = entry.Revenue.Add(*rate)
		}
	}
	return trend
}

// ExecutiveSummary expects ds to hold every active load of the tenant.
func (a ReportAggregator) ExecutiveSummary(ds ReportDataset, now time.Time) ExecutiveSummary {
	summary := ExecutiveSummary{
		MonthlyRevenue: kernel.ZeroMoney(),
		YearlyRevenue:  kernel.ZeroMoney(),
		LoadsByStatus:  make(map[string]int),
	}
	for _, s := range load.Statuses() {
		summary.LoadsByStatus[s.String()] = 0
	}

	month := MonthRange(now)
	year := YearRange(now.UTC().Year())
	for _, l := range ds.Loads {
		if !l.IsActive() {
			continue
		}
		summary.LoadsByStatus[l.Status().String()]++
		if l.Status() == load.InTransit {
			summary.LoadsInTransit++
		}
		rate := l.Charges().RateOrZero()
		if month.Contains(l.Pickup().At) {
			summary.MonthlyLoads++
			summary.MonthlyRevenue = summary.MonthlyRevenue.Add(rate)
		}
		if year.Contains(l.Pickup().At) {
			summary.YearlyLoads++
			summary.YearlyRevenue = summary.YearlyRevenue.Add(rate)
		}
	}

	for _, t := range ds.Trucks {
		if !t.IsActive() {
			continue
		}
		summary.TotalTrucks++
		if t.Status() == fleet.TruckAvailable {
			summary.AvailableTrucks++
		}
	}
	for _, d := range ds.Drivers {
		if !d.IsActive() {
			continue
		}
		summary.TotalDrivers++
		if d.Status() == fleet.DriverAvailable {
			summary.AvailableDrivers++
		}
	}
	return summary
}

// ReportBundle holds every report for one range, the trend of the range's
// starting year and the summary at a point in time. It feeds the workbook
// export.
type ReportBundle struct {
	Range       DateRange
	Year        int
	ByTruck     RevenueReport
	ByDriver    RevenueReport
	ByCustomer  RevenueReport
	OnTime      OnTimeReport
	Utilization UtilizationReport
	Trend       []MonthlyRevenue
	Summary     ExecutiveSummary
}

// Bundle computes every report from ds, which must hold all active loads of
// the tenant.
func (a ReportAggregator) Bundle(ds ReportDataset, r DateRange, now time.Time) ReportBundle {
	year := r.From.UTC().Year()
	return ReportBundle{
		Range:       r,
		Year:        year,
		ByTruck:     a.RevenueByTruck(ds, r),
		ByDriver:    a.RevenueByDriver(ds, r),
		ByCustomer:  a.RevenueByCustomer(ds, r),
		OnTime:      a.OnTimeDelivery(ds, r),
		Utilization: a.FleetUtilization(ds, r),
		Trend:       a.MonthlyTrend(ds, year),
		Summary:     a.ExecutiveSummary(ds, now),
	}
}

func inRange(loads []*load.Load, r DateRange) []*load.Load {
	out := make([]*load.Load, 0, len(loads))
	for _, l := range loads {
		if l.IsActive() && r.Contains(l.Pickup().At) {
			out = append(out, l)
		}
	}
	return out
}

func percentage(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part) * 100).DivRound(decimal.NewFromInt(int64(whole)), 2)
}
