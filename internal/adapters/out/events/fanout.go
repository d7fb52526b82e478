// Package events routes committed load events to every configured sink.
package events

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// Sink is a named publisher, so failures can be told apart in logs.
type Sink struct {
	Name      string
	Publisher ports.LoadEventPublisher
}

// Fanout implements ports.LoadEventPublisher. Every sink sees every event
// even when an earlier sink fails.
type Fanout struct {
	sinks []Sink
	log   *zap.Logger
}

// NewFanout skips sinks with a nil publisher.
func NewFanout(log *zap.Logger, sinks ...Sink) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s.Publisher != nil {
			kept = append(kept, s)
		}
	}
	return &Fanout{sinks: kept, log: log}
}

func (f *Fanout) Publish(ctx context.Context, events ...load.Event) error {
	if len(events) == 0 {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publisher.Publish(ctx, events...); err != nil {
			f.log.Warn("event sink failed", zap.String("sink", s.Name), zap.Int("events", len(events)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Names lists the sinks in delivery order.
func (f *Fanout) Names() []string {
	names := make([]string, 0, len(f.sinks))
	for _, s := range f.sinks {
		names = append(names, s.Name)
	}
	return names
}
