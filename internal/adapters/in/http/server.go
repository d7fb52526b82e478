package http

import (
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/ports"
)

// Commands groups the write use cases exposed over HTTP.
type Commands struct {
	CreateLoad             commands.CreateLoadCommandHandler
	UpdateLoad             commands.UpdateLoadCommandHandler
	DeleteLoad             commands.DeleteLoadCommandHandler
	DispatchLoad           commands.DispatchLoadCommandHandler
	UpdateLoadStatus       commands.UpdateLoadStatusCommandHandler
	UpdateLoadLocation     commands.UpdateLoadLocationCommandHandler
	CreateTruck            commands.CreateTruckCommandHandler
	CreateDriver           commands.CreateDriverCommandHandler
	CreateCustomer         commands.CreateCustomerCommandHandler
	SetResourceStatus      commands.SetResourceStatusCommandHandler
	UpdateResourceLocation commands.UpdateResourceLocationCommandHandler
}

// Queries groups the read use cases exposed over HTTP.
type Queries struct {
	GetLoad          queries.GetLoadQueryHandler
	ListLoads        queries.ListLoadsQueryHandler
	LoadHistory      queries.GetLoadHistoryQueryHandler
	ListTrucks       queries.ListTrucksQueryHandler
	ListDrivers      queries.ListDriversQueryHandler
	ListCustomers    queries.ListCustomersQueryHandler
	ResourceStatus   queries.GetResourceStatusQueryHandler
	Revenue          queries.RevenueReportQueryHandler
	OnTime           queries.OnTimeReportQueryHandler
	Utilization      queries.UtilizationReportQueryHandler
	MonthlyTrend     queries.MonthlyTrendQueryHandler
	ExecutiveSummary queries.ExecutiveSummaryQueryHandler
	ExportReports    queries.ExportReportsQueryHandler
	TrackLoad        queries.TrackLoadQueryHandler
	LoadETA          queries.LoadETAQueryHandler
	VerifyTracking   queries.VerifyTrackingQueryHandler
	TrackingQR       queries.TrackingQRQueryHandler
}

// Server adapts HTTP requests to the application use cases.
type Server struct {
	commands Commands
	queries  Queries
	clock    ports.Clock
}

func NewServer(cmds Commands, qs Queries, clock ports.Clock) *Server {
	return &Server{commands: cmds, queries: qs, clock: clock}
}
