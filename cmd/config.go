package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"freight/internal/adapters/out/mqtt"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/queue"
	"freight/internal/adapters/out/rediscache"
	"freight/internal/jobs"
	"freight/internal/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. FREIGHT_SERVER_PORT.
const EnvPrefix = "FREIGHT"

type Config struct {
	Server   ServerConfig       `mapstructure:"server"`
	Log      LogConfig          `mapstructure:"log"`
	Database postgres.Options   `mapstructure:"database"`
	JWT      JWTConfig          `mapstructure:"jwt"`
	Redis    rediscache.Options `mapstructure:"redis"`
	Queue    queue.Options      `mapstructure:"queue"`
	MQTT     mqtt.Options       `mapstructure:"mqtt"`
	Metrics  MetricsConfig      `mapstructure:"metrics"`
	Jobs     JobsConfig         `mapstructure:"jobs"`
	Tracking TrackingConfig     `mapstructure:"tracking"`
	Locks    LocksConfig        `mapstructure:"locks"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	Swagger         bool          `mapstructure:"swagger"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Mode           string `mapstructure:"mode"`
	logger.Options `mapstructure:",squash"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JobsConfig struct {
	SummaryWarmup         bool   `mapstructure:"summary_warmup"`
	SummaryWarmupSchedule string `mapstructure:"summary_warmup_schedule"`
}

type TrackingConfig struct {
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	SummaryCacheTTL time.Duration `mapstructure:"summary_cache_ttl"`
}

// LocksConfig bounds how long a command waits for its resource locks. The
// lease applies to the Redis lock only.
type LocksConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Lease   time.Duration `mapstructure:"lease"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.swagger", true)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.mode", logger.ModeStdout)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "freight.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", postgres.DriverPostgres)
	v.SetDefault("database.dsn", "host=localhost user=freight password=freight dbname=freight port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_seconds", 1800)
	v.SetDefault("database.conn_max_idle_time_seconds", 300)
	v.SetDefault("database.slow_query_ms", 200)
	v.SetDefault("database.log_queries", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "freight")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{queue.DefaultQueue: 1})
	v.SetDefault("queue.max_retry", 10)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "freight")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", mqtt.DefaultTopicPrefix)
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.publish_timeout", 5*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("jobs.summary_warmup", false)
	v.SetDefault("jobs.summary_warmup_schedule", jobs.DefaultSummaryWarmupSchedule)
	v.SetDefault("tracking.public_base_url", "http://localhost:8080")
	v.SetDefault("tracking.cache_ttl", 30*time.Second)
	v.SetDefault("tracking.summary_cache_ttl", time.Minute)
	v.SetDefault("locks.timeout", 5*time.Second)
	v.SetDefault("locks.lease", 30*time.Second)
}

// LoadConfig reads .env, then path (optional), then FREIGHT_* variables. Later
// sources win.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the process cannot start with.
func (c Config) Validate() error {
	var problems []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Database.DSN == "" {
		problems = append(problems, errors.New("database.dsn is required"))
	}
	if c.Queue.Enabled && !c.Redis.Enabled {
		problems = append(problems, errors.New("queue.enabled requires redis.enabled"))
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		problems = append(problems, errors.New("mqtt.broker is required when mqtt is enabled"))
	}
	return errors.Join(problems...)
}
