package http

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"freight/internal/core/ports"
	"freight/internal/pkg/authz"
)

const (
	apiPrefix      = "/api/v1"
	unmatchedRoute = "unmatched"
)

// RequestObserver records per-request metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, code int, elapsed time.Duration)
	RecordConflict(route string)
}

// RouterOptions configures NewRouter. Observer and Metrics are optional.
type RouterOptions struct {
	JWTSecret      string
	Authz          *authz.Service
	AllowedOrigins []string
	Swagger        bool
	Observer       RequestObserver
	Metrics        http.Handler
	Logger         *zap.Logger
}

// NewRouter builds the echo instance serving s.
func NewRouter(s *Server, o RouterOptions) (*echo.Echo, error) {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	validate, err := ValidateRequests(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if o.Observer != nil {
		e.Use(observeRequests(o.Observer))
	}
	e.Use(echo.WrapMiddleware(corsHandler(o.AllowedOrigins)))

	e.GET("/health", func(c echo.Context) error {
		return respondMessage(c, http.StatusOK, "healthy")
	})
	if o.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(o.Metrics))
	}
	if o.Swagger {
		if err = RegisterSwagger(doc); err != nil {
			return nil, err
		}
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	public := e.Group(apiPrefix+"/public", validate)
	public.POST("/track/verify", s.VerifyTracking)
	public.GET("/track/:code", s.TrackLoad)
	public.GET("/track/:code/eta", s.LoadETA)
	public.GET("/track/:code/qr", s.TrackingQR)

	api := e.Group(apiPrefix, Authenticate(o.JWTSecret), Authorize(o.Authz), validate)

	api.GET("/loads", s.ListLoads)
	api.POST("/loads", s.CreateLoad)
	api.GET("/loads/:id", s.GetLoad)
	api.PUT("/loads/:id", s.UpdateLoad)
	api.DELETE("/loads/:id", s.DeleteLoad)
	api.POST("/loads/:id/dispatch", s.DispatchLoad)
	api.PATCH("/loads/:id/status", s.UpdateLoadStatus)
	api.PUT("/loads/:id/location", s.UpdateLoadLocation)
	api.GET("/loads/:id/history", s.LoadHistory)

	api.GET("/trucks", s.ListTrucks)
	api.POST("/trucks", s.CreateTruck)
	api.GET("/trucks/available", s.ListAvailableTrucks)
	api.GET("/trucks/:id/status", s.ResourceStatus(ports.ResourceTruck))
	api.PATCH("/trucks/:id/status", s.SetResourceStatus(ports.ResourceTruck))
	api.PUT("/trucks/:id/location", s.UpdateResourceLocation(ports.ResourceTruck))

	api.GET("/drivers", s.ListDrivers)
	api.POST("/drivers", s.CreateDriver)
	api.GET("/drivers/available", s.ListAvailableDrivers)
	api.GET("/drivers/:id/status", s.ResourceStatus(ports.ResourceDriver))
	api.PATCH("/drivers/:id/status", s.SetResourceStatus(ports.ResourceDriver))
	api.PUT("/drivers/:id/location", s.UpdateResourceLocation(ports.ResourceDriver))

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)

	api.GET("/reports/revenue/:group", s.RevenueReport)
	api.GET("/reports/on-time", s.OnTimeReport)
	api.GET("/reports/utilization", s.UtilizationReport)
	api.GET("/reports/monthly-trend", s.MonthlyTrend)
	api.GET("/reports/executive-summary", s.ExecutiveSummary)
	api.GET("/reports/export", s.ExportReports)

	return e, nil
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// observeRequests renders errors itself so the recorded status is the one
// sent to the client.
func observeRequests(obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			code := c.Response().Status
			obs.ObserveRequest(c.Request().Method, route, code, time.Since(start))
			if code == http.StatusConflict {
				obs.RecordConflict(route)
			}
			return err
		}
	}
}
