package ports

import (
	"context"

	"freight/internal/core/domain/model/load"
)

// LoadEventPublisher delivers committed load events to interested parties
// (history worker, MQTT subscribers, metrics).
type LoadEventPublisher interface {
	Publish(ctx context.Context, events ...load.Event) error
}

// NopLoadEventPublisher drops every event.
type NopLoadEventPublisher struct{}

func (NopLoadEventPublisher) Publish(context.Context, ...load.Event) error {
	return nil
}
