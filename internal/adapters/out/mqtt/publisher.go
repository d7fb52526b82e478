// Package mqtt pushes load events to subscribers over an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"freight/internal/core/domain/model/load"
)

const (
	DefaultTopicPrefix    = "freight"
	defaultPublishTimeout = 5 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Options configures the broker connection.
type Options struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	QoS            byte          `mapstructure:"qos"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type Client interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher implements ports.LoadEventPublisher.
type Publisher struct {
	client  Client
	prefix  string
	qos     byte
	timeout time.Duration
	log     *zap.Logger
}

// Connect dials the broker and waits for the first connection.
func Connect(o Options, log *zap.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", o.Broker, token.Error())
	}
	return NewPublisher(client, o, log), nil
}

func NewPublisher(client Client, o Options, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	prefix := strings.Trim(strings.TrimSpace(o.TopicPrefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	timeout := o.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Publisher{client: client, prefix: prefix, qos: o.QoS, timeout: timeout, log: log}
}

// Topic is <prefix>/<tenant>/loads/<load>/<event>, e.g.
// freight/<tenant>/loads/<load>/status_changed.
func (p *Publisher) Topic(e load.Event) string {
	name := strings.TrimPrefix(string(e.Type), "load.")
	return fmt.Sprintf("%s/%s/loads/%s/%s", p.prefix, e.TenantID, e.LoadID, name)
}

func (p *Publisher) Publish(ctx context.Context, events ...load.Event) error {
	var errs []error
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := p.send(ctx, p.Topic(e), payload); err != nil {
			p.log.Warn("mqtt publish failed", zap.String("event_id", e.ID.String()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Publisher) send(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
