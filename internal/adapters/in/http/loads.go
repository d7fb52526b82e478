package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

type loadTarget struct {
	tenantID kernel.UUID
	loadID   kernel.UUID
}

func loadTargetFrom(c echo.Context) (loadTarget, error) {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return loadTarget{}, err
	}
	loadID, err := pathID(c, "id")
	if err != nil {
		return loadTarget{}, err
	}
	return loadTarget{tenantID: tenantID, loadID: loadID}, nil
}

func respondLoad(c echo.Context, code int, l *load.Load) error {
	return respond(c, code, queries.NewLoadView(l))
}

// ListLoads handles GET /loads.
func (s *Server) ListLoads(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}

	status, statusErr := queryParam[string](c, "status")
	customerID, customerErr := queryParam[string](c, "customerId")
	truckID, truckErr := queryParam[string](c, "truckId")
	driverID, driverErr := queryParam[string](c, "driverId")
	limit, limitErr := queryParam[int](c, "limit")
	offset, offsetErr := queryParam[int](c, "offset")
	if err = errors.Join(statusErr, customerErr, truckErr, driverErr, limitErr, offsetErr); err != nil {
		return err
	}

	params := queries.LoadListParams{Status: status, Limit: limit, Offset: offset}
	params.CustomerID, customerErr = optionalIDString(customerID, "customer id")
	params.TruckID, truckErr = optionalIDString(truckID, "truck id")
	params.DriverID, driverErr = optionalIDString(driverID, "driver id")
	if err = errors.Join(customerErr, truckErr, driverErr); err != nil {
		return err
	}

	query, err := queries.NewListLoadsQuery(tenantID, params)
	if err != nil {
		return err
	}
	views, err := s.queries.ListLoads.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, views)
}

// CreateLoad handles POST /loads.
func (s *Server) CreateLoad(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var req loadRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	details, err := req.toDetails()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateLoadCommand(tenantID, details)
	if err != nil {
		return err
	}
	created, err := s.commands.CreateLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondLoad(c, http.StatusCreated, created)
}

// GetLoad handles GET /loads/:id.
func (s *Server) GetLoad(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetLoadQuery(target.tenantID, target.loadID)
	if err != nil {
		return err
	}
	view, err := s.queries.GetLoad.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, view)
}

// UpdateLoad handles PUT /loads/:id.
func (s *Server) UpdateLoad(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	var req loadRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	details, err := req.toDetails()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLoadCommand(target.tenantID, target.loadID, details)
	if err != nil {
		return err
	}
	updated, err := s.commands.UpdateLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondLoad(c, http.StatusOK, updated)
}

// DeleteLoad handles DELETE /loads/:id.
func (s *Server) DeleteLoad(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteLoadCommand(target.tenantID, target.loadID)
	if err != nil {
		return err
	}
	if err = s.commands.DeleteLoad.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "load deleted")
}

// DispatchLoad handles POST /loads/:id/dispatch.
func (s *Server) DispatchLoad(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	var req dispatchRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	truckID, truckErr := optionalID(req.TruckID, "truck id")
	driverID, driverErr := optionalID(req.DriverID, "driver id")
	if err = errors.Join(truckErr, driverErr); err != nil {
		return err
	}

	cmd, err := commands.NewDispatchLoadCommand(target.tenantID, target.loadID, truckID, driverID)
	if err != nil {
		return err
	}
	dispatched, err := s.commands.DispatchLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondLoad(c, http.StatusOK, dispatched)
}

// UpdateLoadStatus handles PATCH /loads/:id/status.
func (s *Server) UpdateLoadStatus(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLoadStatusCommand(target.tenantID, target.loadID, req.Status, req.Reason)
	if err != nil {
		return err
	}
	updated, err := s.commands.UpdateLoadStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondLoad(c, http.StatusOK, updated)
}

// UpdateLoadLocation handles PUT /loads/:id/location.
func (s *Server) UpdateLoadLocation(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	var req locationRequest
	if err = c.Bind(&req); err != nil {
		return err
	}
	point, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLoadLocationCommand(
		target.tenantID,
		target.loadID,
		point,
		req.at(s.clock.Now()),
		req.EstimatedArrival,
	)
	if err != nil {
		return err
	}
	updated, err := s.commands.UpdateLoadLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondLoad(c, http.StatusOK, updated)
}

// LoadHistory handles GET /loads/:id/history.
func (s *Server) LoadHistory(c echo.Context) error {
	target, err := loadTargetFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetLoadHistoryQuery(target.tenantID, target.loadID)
	if err != nil {
		return err
	}
	history, err := s.queries.LoadHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, history)
}
