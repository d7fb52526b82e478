package queries

import (
	"context"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"freight/internal/core/domain/model/customer"
	"freight/internal/core/domain/model/fleet"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// DefaultTrackingCacheTTL bounds how stale a cached public projection can be.
const DefaultTrackingCacheTTL = 30 * time.Second

// TrackingCacheKey is the cache entry of a load's public projection.
func TrackingCacheKey(loadID kernel.UUID) string {
	return "tracking:" + loadID.String()
}

// trackingReader resolves public codes and the parties shown next to a load.
type trackingReader struct {
	uowFactory ports.UnitOfWorkFactory
}

func (r trackingReader) resolve(ctx context.Context, code string) (*load.Load, error) {
	return r.uowFactory.Create().LoadRepository().FindByTrackingCode(ctx, code)
}

// parties loads the customer, truck and driver of l. Missing records are
// returned as nil.
func (r trackingReader) parties(ctx context.Context, l *load.Load) (*customer.Customer, *fleet.Truck, *fleet.Driver, error) {
	uow := r.uowFactory.Create()

	var (
		c      *customer.Customer
		truck  *fleet.Truck
		driver *fleet.Driver
		err    error
	)
	if id := l.CustomerID(); id != nil {
		if c, err = uow.CustomerRepository().Get(ctx, l.TenantID(), *id); ignoreNotFound(err) != nil {
			return nil, nil, nil, err
		}
	}
	if id := l.TruckID(); id != nil {
		if truck, err = uow.TruckRepository().Get(ctx, l.TenantID(), *id); ignoreNotFound(err) != nil {
			return nil, nil, nil, err
		}
	}
	if id := l.DriverID(); id != nil {
		if driver, err = uow.DriverRepository().Get(ctx, l.TenantID(), *id); ignoreNotFound(err) != nil {
			return nil, nil, nil, err
		}
	}
	return c, truck, driver, nil
}

func ignoreNotFound(err error) error {
	if errs.KindOf(err) == errs.KindNotFound {
		return nil
	}
	return err
}

// TrackLoadQueryHandler builds the public projection, caching it per load when
// a cache is configured. Cache failures degrade to a direct read.
type TrackLoadQueryHandler struct {
	reader    trackingReader
	projector services.TrackingProjector
	cache     ports.Cache
	ttl       time.Duration
	log       *zap.Logger
}

// NewTrackLoadQueryHandler accepts a nil cache and a nil logger. A zero ttl
// means DefaultTrackingCacheTTL.
func NewTrackLoadQueryHandler(uowFactory ports.UnitOfWorkFactory, cache ports.Cache, ttl time.Duration, log *zap.Logger) TrackLoadQueryHandler {
	if ttl <= 0 {
		ttl = DefaultTrackingCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return TrackLoadQueryHandler{
		reader:    trackingReader{uowFactory: uowFactory},
		projector: services.NewTrackingProjector(),
		cache:     cache,
		ttl:       ttl,
		log:       log,
	}
}

func (h TrackLoadQueryHandler) Handle(ctx context.Context, query TrackLoadQuery) (services.TrackingProjection, error) {
	if err := query.Validate(); err != nil {
		return services.TrackingProjection{}, err
	}

	l, err := h.reader.resolve(ctx, query.Code())
	if err != nil {
		return services.TrackingProjection{}, err
	}

	key := TrackingCacheKey(l.ID())
	if h.cache != nil {
		var cached services.TrackingProjection
		hit, cacheErr := h.cache.GetJSON(ctx, key, &cached)
		if cacheErr != nil {
			h.log.Warn("tracking cache read failed", zap.String("key", key), zap.Error(cacheErr))
		}
		if hit {
			return cached, nil
		}
	}

	c, truck, driver, err := h.reader.parties(ctx, l)
	if err != nil {
		return services.TrackingProjection{}, err
	}
	projection := h.projector.Project(l, c, truck, driver)

	if h.cache != nil {
		if cacheErr := h.cache.SetJSON(ctx, key, projection, h.ttl); cacheErr != nil {
			h.log.Warn("tracking cache write failed", zap.String("key", key), zap.Error(cacheErr))
		}
	}
	return projection, nil
}

// LoadETAQueryHandler serves the arrival widget. It reuses TrackLoadQuery.
type LoadETAQueryHandler struct {
	reader    trackingReader
	projector services.TrackingProjector
}

func NewLoadETAQueryHandler(uowFactory ports.UnitOfWorkFactory) LoadETAQueryHandler {
	return LoadETAQueryHandler{
		reader:    trackingReader{uowFactory: uowFactory},
		projector: services.NewTrackingProjector(),
	}
}

func (h LoadETAQueryHandler) Handle(ctx context.Context, query TrackLoadQuery) (services.ETAView, error) {
	if err := query.Validate(); err != nil {
		return services.ETAView{}, err
	}

	l, err := h.reader.resolve(ctx, query.Code())
	if err != nil {
		return services.ETAView{}, err
	}

	var truck *fleet.Truck
	if id := l.TruckID(); id != nil {
		truck, err = h.reader.uowFactory.Create().TruckRepository().Get(ctx, l.TenantID(), *id)
		if ignoreNotFound(err) != nil {
			return services.ETAView{}, err
		}
	}
	return h.projector.ETA(l, truck), nil
}

// VerifyTrackingQueryHandler never reports which part of a verification
// failed: an unknown code and a wrong email give the same answer.
type VerifyTrackingQueryHandler struct {
	reader    trackingReader
	projector services.TrackingProjector
}

func NewVerifyTrackingQueryHandler(uowFactory ports.UnitOfWorkFactory) VerifyTrackingQueryHandler {
	return VerifyTrackingQueryHandler{
		reader:    trackingReader{uowFactory: uowFactory},
		projector: services.NewTrackingProjector(),
	}
}

func (h VerifyTrackingQueryHandler) Handle(ctx context.Context, query VerifyTrackingQuery) (services.VerificationResult, error) {
	if err := query.Validate(); err != nil {
		return services.VerificationResult{}, err
	}

	l, err := h.reader.resolve(ctx, query.code)
	if ignoreNotFound(err) != nil {
		return services.VerificationResult{}, err
	}

	var c *customer.Customer
	if l != nil {
		if id := l.CustomerID(); id != nil {
			c, err = h.reader.uowFactory.Create().CustomerRepository().Get(ctx, l.TenantID(), *id)
			if ignoreNotFound(err) != nil {
				return services.VerificationResult{}, err
			}
		}
	}
	return h.projector.Verify(l, c, query.email), nil
}

// TrackingQRQueryHandler encodes "<base URL>/track/<tracking token>".
type TrackingQRQueryHandler struct {
	reader  trackingReader
	baseURL string
}

func NewTrackingQRQueryHandler(uowFactory ports.UnitOfWorkFactory, publicBaseURL string) TrackingQRQueryHandler {
	return TrackingQRQueryHandler{
		reader:  trackingReader{uowFactory: uowFactory},
		baseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// TrackingURL is the link a QR code of l points to.
func (h TrackingQRQueryHandler) TrackingURL(l *load.Load) string {
	return h.baseURL + "/track/" + l.TrackingToken()
}

func (h TrackingQRQueryHandler) Handle(ctx context.Context, query TrackingQRQuery) ([]byte, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	l, err := h.reader.resolve(ctx, query.code)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(h.TrackingURL(l), qrcode.Medium, query.size)
}
