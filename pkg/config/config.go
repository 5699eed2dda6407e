package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development"`
	Log         LogConfig      `yaml:"log"`
	Server      ServerConfig   `yaml:"server"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Feed        FeedConfig     `yaml:"feed"`
	Sinks       SinksConfig    `yaml:"sinks"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	ClickHouse  ClickHouseConf `yaml:"clickhouse"`
	Redis       RedisConfig    `yaml:"redis"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
	Output string `yaml:"output" default:"stdout"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"500ms"`
	RateBurst       int           `yaml:"rate_burst" default:"20"`
	RateRefill      float64       `yaml:"rate_refill" default:"10"`
	WSPingInterval  time.Duration `yaml:"ws_ping_interval" default:"30s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// FeedConfig drives the feed controller. An empty APIURL selects simulated mode.
type FeedConfig struct {
	APIURL         string        `yaml:"api_url"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout" default:"5s"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"10s"`
	AlertInterval  time.Duration `yaml:"alert_interval" default:"4s"`
	StatsInterval  time.Duration `yaml:"stats_interval" default:"3s"`
	BufferCapacity int           `yaml:"buffer_capacity" default:"8"`
	FetchLimit     int           `yaml:"fetch_limit" default:"10"`
	// alerts stay resolvable by ID for this long; zero disables the index
	AlertIndexTTL  time.Duration `yaml:"alert_index_ttl" default:"30m"`
	AlertIndexSize int           `yaml:"alert_index_size" default:"1024"`
}

type SinksConfig struct {
	BufferSize int `yaml:"buffer_size" default:"256"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"sentinel.alerts"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"snappy"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	BatchTimeout time.Duration `yaml:"batch_timeout" default:"200ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	AutoCreate   bool          `yaml:"auto_create_topic"`
}

type ClickHouseConf struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host" default:"localhost"`
	Port         int           `yaml:"port" default:"9000"`
	Database     string        `yaml:"database" default:"sentinel"`
	User         string        `yaml:"user" default:"default"`
	Password     string        `yaml:"password"`
	UseHTTP      bool          `yaml:"use_http"`
	AsyncInsert  bool          `yaml:"async_insert" default:"true"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host" default:"localhost"`
	Port        int           `yaml:"port" default:"6379"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	Prefix      string        `yaml:"prefix" default:"sentinel"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl" default:"1m"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	// VITE_API_URL is the name the dashboard build used; SENTINEL_API_URL wins.
	if v, ok := lookup("VITE_API_URL"); ok {
		c.Feed.APIURL = v
	}
	if v, ok := lookup("SENTINEL_API_URL"); ok {
		c.Feed.APIURL = v
	}
	if v, ok := lookup("SENTINEL_ENV"); ok && v != "" {
		c.Environment = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		host, port, found := strings.Cut(v, ":")
		c.Redis.Host = host
		if found {
			if _, err := fmt.Sscanf(port, "%d", &c.Redis.Port); err != nil {
				return fmt.Errorf("REDIS_ADDR port: %w", err)
			}
		}
		c.Redis.Enabled = true
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	c.Feed.APIURL = strings.TrimRight(strings.TrimSpace(c.Feed.APIURL), "/")
	if c.Feed.APIURL != "" {
		u, err := url.Parse(c.Feed.APIURL)
		if err != nil {
			return fmt.Errorf("feed.api_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed.api_url must be http or https, got '%s'", u.Scheme)
		}
		if u.Host == "" {
			return fmt.Errorf("feed.api_url has no host")
		}
	}
	if c.Feed.BufferCapacity <= 0 {
		return fmt.Errorf("feed.buffer_capacity must be positive")
	}
	if c.Feed.FetchLimit <= 0 {
		return fmt.Errorf("feed.fetch_limit must be positive")
	}
	if c.Feed.AlertInterval <= 0 || c.Feed.StatsInterval <= 0 {
		return fmt.Errorf("feed intervals must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

// Live reports whether a backend endpoint is configured.
func (c *Config) Live() bool { return c.Feed.APIURL != "" }
