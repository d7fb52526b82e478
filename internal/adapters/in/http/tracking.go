package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"freight/internal/core/application/usecases/queries"
)

const pngContentType = "image/png"

func trackQuery(c echo.Context) (queries.TrackLoadQuery, error) {
	code, err := pathString(c, "code")
	if err != nil {
		return queries.TrackLoadQuery{}, err
	}
	return queries.NewTrackLoadQuery(code)
}

// TrackLoad handles GET /public/track/:code.
func (s *Server) TrackLoad(c echo.Context) error {
	query, err := trackQuery(c)
	if err != nil {
		return err
	}
	projection, err := s.queries.TrackLoad.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, projection)
}

// LoadETA handles GET /public/track/:code/eta.
func (s *Server) LoadETA(c echo.Context) error {
	query, err := trackQuery(c)
	if err != nil {
		return err
	}
	eta, err := s.queries.LoadETA.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, eta)
}

// TrackingQR handles GET /public/track/:code/qr.
func (s *Server) TrackingQR(c echo.Context) error {
	code, err := pathString(c, "code")
	if err != nil {
		return err
	}
	size, err := queryParam[int](c, "size")
	if err != nil {
		return err
	}

	query, err := queries.NewTrackingQRQuery(code, size)
	if err != nil {
		return err
	}
	png, err := s.queries.TrackingQR.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, pngContentType, png)
}

// VerifyTracking handles POST /public/track/verify.
func (s *Server) VerifyTracking(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	query, err := queries.NewVerifyTrackingQuery(req.Code, req.Email)
	if err != nil {
		return err
	}
	result, err := s.queries.VerifyTracking.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}
