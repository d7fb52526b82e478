// Package rediscache keeps read models and cross-instance locks in Redis.
package rediscache

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	defaultHost   = "127.0.0.1"
	defaultPort   = 6379
	defaultPrefix = "freight"
)

// Options configures the Redis connection shared by the cache, the locker and
// the task queue.
type Options struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Addr returns host:port with defaults filled in.
func (o Options) Addr() string {
	host := strings.TrimSpace(o.Host)
	if host == "" {
		host = defaultHost
	}
	port := o.Port
	if port <= 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// KeyPrefix returns the trimmed prefix, or "freight".
func (o Options) KeyPrefix() string {
	if p := strings.TrimSpace(o.Prefix); p != "" {
		return p
	}
	return defaultPrefix
}

// NewClient returns nil when Redis is disabled.
func NewClient(o Options) *redis.Client {
	if !o.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     o.Addr(),
		Password: o.Password,
		DB:       o.DB,
	})
}

func buildKey(prefix, key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return prefix
	}
	return prefix + ":" + trimmed
}
