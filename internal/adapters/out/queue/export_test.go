package queue

import (
	"go.uber.org/zap"
)

// NewClientWith builds an enabled client over e.
func NewClientWith(e enqueuer, o Options, log *zap.Logger) *Client {
	return newClient(e, o, log)
}

type Enqueuer = enqueuer
