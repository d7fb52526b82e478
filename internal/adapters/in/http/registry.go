package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
)

// ListTrucks handles GET /trucks.
func (s *Server) ListTrucks(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	status, err := queryParam[string](c, "status")
	if err != nil {
		return err
	}

	query, err := queries.NewListTrucksQuery(tenantID, status)
	if err != nil {
		return err
	}
	return s.listTrucks(c, query)
}

// ListAvailableTrucks handles GET /trucks/available.
func (s *Server) ListAvailableTrucks(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListAvailableTrucksQuery(tenantID)
	if err != nil {
		return err
	}
	return s.listTrucks(c, query)
}

func (s *Server) listTrucks(c echo.Context, query queries.ListTrucksQuery) error {
	trucks, err := s.queries.ListTrucks.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, trucks)
}

// CreateTruck handles POST /trucks.
func (s *Server) CreateTruck(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var req truckRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateTruckCommand(tenantID, req.TruckNumber, req.TruckType, req.spec())
	if err != nil {
		return err
	}
	truck, err := s.commands.CreateTruck.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, queries.NewTruckResponse(truck))
}

// ListDrivers handles GET /drivers.
func (s *Server) ListDrivers(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	status, err := queryParam[string](c, "status")
	if err != nil {
		return err
	}

	query, err := queries.NewListDriversQuery(tenantID, status)
	if err != nil {
		return err
	}
	return s.listDrivers(c, query)
}

// ListAvailableDrivers handles GET /drivers/available.
func (s *Server) ListAvailableDrivers(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListAvailableDriversQuery(tenantID)
	if err != nil {
		return err
	}
	return s.listDrivers(c, query)
}

func (s *Server) listDrivers(c echo.Context, query queries.ListDriversQuery) error {
	drivers, err := s.queries.ListDrivers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, drivers)
}

// CreateDriver handles POST /drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var req driverRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateDriverCommand(tenantID, req.contact())
	if err != nil {
		return err
	}
	driver, err := s.commands.CreateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, queries.NewDriverResponse(driver))
}

// ListCustomers handles GET /customers.
func (s *Server) ListCustomers(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListCustomersQuery(tenantID)
	if err != nil {
		return err
	}
	customers, err := s.queries.ListCustomers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, customers)
}

// CreateCustomer handles POST /customers.
func (s *Server) CreateCustomer(c echo.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	var req customerRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateCustomerCommand(tenantID, req.contact(), req.TrackingPortalEnabled)
	if err != nil {
		return err
	}
	created, err := s.commands.CreateCustomer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, queries.NewCustomerResponse(created))
}

// ResourceStatus returns the handler for GET /trucks/:id/status or
// GET /drivers/:id/status.
func (s *Server) ResourceStatus(kind ports.ResourceKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, resourceID, err := resourceTarget(c)
		if err != nil {
			return err
		}
		query, err := queries.NewGetResourceStatusQuery(tenantID, kind, resourceID)
		if err != nil {
			return err
		}
		status, err := s.queries.ResourceStatus.Handle(c.Request().Context(), query)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, status)
	}
}

type resourceStateResponse struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SetResourceStatus returns the handler for PATCH /trucks/:id/status or
// PATCH /drivers/:id/status.
func (s *Server) SetResourceStatus(kind ports.ResourceKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, resourceID, err := resourceTarget(c)
		if err != nil {
			return err
		}
		var req statusRequest
		if err = c.Bind(&req); err != nil {
			return err
		}

		var cmd commands.SetResourceStatusCommand
		if kind == ports.ResourceDriver {
			cmd, err = commands.NewSetDriverStatusCommand(tenantID, resourceID, req.Status)
		} else {
			cmd, err = commands.NewSetTruckStatusCommand(tenantID, resourceID, req.Status)
		}
		if err != nil {
			return err
		}
		state, err := s.commands.SetResourceStatus.Handle(c.Request().Context(), cmd)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, resourceStateResponse{
			Kind:   string(state.Kind),
			ID:     state.ID,
			Status: state.Status,
		})
	}
}

// UpdateResourceLocation returns the handler for PUT /trucks/:id/location or
// PUT /drivers/:id/location.
func (s *Server) UpdateResourceLocation(kind ports.ResourceKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, resourceID, err := resourceTarget(c)
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

		cmd, err := commands.NewUpdateResourceLocationCommand(tenantID, kind, resourceID, point, req.at(s.clock.Now()))
		if err != nil {
			return err
		}
		if err = s.commands.UpdateResourceLocation.Handle(c.Request().Context(), cmd); err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "location updated")
	}
}

func resourceTarget(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	resourceID, err := pathID(c, "id")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return tenantID, resourceID, nil
}
