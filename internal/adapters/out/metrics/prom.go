// Package metrics exposes load lifecycle and HTTP metrics to Prometheus.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"freight/internal/core/domain/model/load"
)

// PromSink counts committed load events, lock conflicts and HTTP traffic.
type PromSink struct {
	loadEvents *prometheus.CounterVec
	conflicts  *prometheus.CounterVec
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewPromSink registers the collectors on reg. A nil reg means the default
// registerer. Collectors that are already registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	loadEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_load_events_total",
		Help: "Committed load events by type and resulting status",
	}, []string{"type", "status"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_conflicts_total",
		Help: "Requests rejected because a resource or lock was busy",
	}, []string{"route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freight_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	var err error
	if loadEvents, err = register(reg, loadEvents); err != nil {
		return nil, err
	}
	if conflicts, err = register(reg, conflicts); err != nil {
		return nil, err
	}
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}

	return &PromSink{loadEvents: loadEvents, conflicts: conflicts, requests: requests, latency: latency}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Publish implements ports.LoadEventPublisher.
func (s *PromSink) Publish(_ context.Context, events ...load.Event) error {
	for _, e := range events {
		s.loadEvents.WithLabelValues(string(e.Type), e.To.String()).Inc()
	}
	return nil
}

func (s *PromSink) RecordConflict(route string) {
	s.conflicts.WithLabelValues(route).Inc()
}

// ObserveRequest records one served HTTP request.
func (s *PromSink) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	s.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	s.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
