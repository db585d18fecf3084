package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/relays"
	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

type APIConfig struct {
	BaseURL        string           `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	LoginPath      string           `mapstructure:"login_path" json:"login_path" yaml:"login_path"`
	RefreshPath    string           `mapstructure:"refresh_path" json:"refresh_path" yaml:"refresh_path"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"`
	UserAgent      string           `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
	ExtraHeaders   dto.ExtraHeaders `mapstructure:"extra_headers" json:"extra_headers" yaml:"extra_headers"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr" yaml:"addr"`
	Password string `mapstructure:"password" json:"-" yaml:"-"`
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`
}

type S3Config struct {
	Bucket         string `mapstructure:"bucket" json:"bucket" yaml:"bucket"`
	Key            string `mapstructure:"key" json:"key" yaml:"key"`
	Region         string `mapstructure:"region" json:"region" yaml:"region"`
	Endpoint       string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	ForcePathStyle bool   `mapstructure:"force_path_style" json:"force_path_style" yaml:"force_path_style"`
}

type StoreConfig struct {
	// Backend one of memory, file, redis, s3
	Backend  string      `mapstructure:"backend" json:"backend" yaml:"backend"`
	FilePath string      `mapstructure:"file_path" json:"file_path" yaml:"file_path"`
	Prefix   string      `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	Redis    RedisConfig `mapstructure:"redis" json:"redis" yaml:"redis"`
	S3       S3Config    `mapstructure:"s3" json:"s3" yaml:"s3"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" json:"pretty" yaml:"pretty"`
}

type OTELConfig struct {
	Enable bool `mapstructure:"enable" json:"enable" yaml:"enable"`
}

type MetricsConfig struct {
	Enable bool `mapstructure:"enable" json:"enable" yaml:"enable"`
}

// SessionSvcConfig configures the session service. Fields without a
// mapstructure tag are runtime wiring and only settable from code.
type SessionSvcConfig struct {
	API     APIConfig     `mapstructure:"api" json:"api" yaml:"api"`
	Store   StoreConfig   `mapstructure:"store" json:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log"`
	OTEL    OTELConfig    `mapstructure:"otel" json:"otel" yaml:"otel"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics" yaml:"metrics"`

	// OnSessionExpired is the single place that decides what an expired
	// session means for the caller, e.g. send the user back to login.
	OnSessionExpired func(ctx context.Context, err error) `mapstructure:"-" json:"-" yaml:"-"`
	Clock            func() time.Time                     `mapstructure:"-" json:"-" yaml:"-"`
	Transport        http.RoundTripper                    `mapstructure:"-" json:"-" yaml:"-"`
	Backend          dto.Backend                          `mapstructure:"-" json:"-" yaml:"-"`
	Registerer       prometheus.Registerer                `mapstructure:"-" json:"-" yaml:"-"`

	relay relayDTO.RelayInterface
}

func DefaultSessionSvcConfig() SessionSvcConfig {
	return SessionSvcConfig{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			LoginPath:      "/auth/login",
			RefreshPath:    "/auth/refresh",
			RequestTimeout: 20 * time.Second,
			UserAgent:      "gosession",
			ExtraHeaders:   make(dto.ExtraHeaders),
		},
		Store: StoreConfig{
			Backend:  BackendMemory,
			FilePath: DefaultSessionFile(),
			Redis:    RedisConfig{Addr: "localhost:6379"},
			S3:       S3Config{Key: "gosession/session.json", Region: "us-east-1"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultSessionFile is ~/.gosession/session.json, relative to the working directory without a home.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".gosession", "session.json")
	}
	return filepath.Join(home, ".gosession", "session.json")
}

func (c *SessionSvcConfig) Relay() relayDTO.RelayInterface {
	if c.relay == nil {
		return relays.NopRelay{}
	}
	return c.relay
}

func (c *SessionSvcConfig) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *SessionSvcConfig) WithRelay(relay relayDTO.RelayInterface) *SessionSvcConfig {
	c.relay = relay
	return c
}

func (c *SessionSvcConfig) WithBaseURL(baseURL string) *SessionSvcConfig {
	c.API.BaseURL = baseURL
	return c
}

func (c *SessionSvcConfig) WithRequestTimeout(d time.Duration) *SessionSvcConfig {
	c.API.RequestTimeout = d
	return c
}

func (c *SessionSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *SessionSvcConfig {
	c.API.ExtraHeaders = headers
	return c
}

func (c *SessionSvcConfig) WithStoreBackend(name string) *SessionSvcConfig {
	c.Store.Backend = name
	return c
}

// WithBackend injects a ready backend, bypassing Store.Backend.
func (c *SessionSvcConfig) WithBackend(backend dto.Backend) *SessionSvcConfig {
	c.Backend = backend
	return c
}

func (c *SessionSvcConfig) WithClock(clock func() time.Time) *SessionSvcConfig {
	c.Clock = clock
	return c
}

func (c *SessionSvcConfig) WithTransport(rt http.RoundTripper) *SessionSvcConfig {
	c.Transport = rt
	return c
}

func (c *SessionSvcConfig) WithOnSessionExpired(fn func(ctx context.Context, err error)) *SessionSvcConfig {
	c.OnSessionExpired = fn
	return c
}

func (c *SessionSvcConfig) WithRegisterer(reg prometheus.Registerer) *SessionSvcConfig {
	c.Registerer = reg
	c.Metrics.Enable = reg != nil
	return c
}

// Validate checks the base URL and store selection.
func (c *SessionSvcConfig) Validate() error {
	if err := ValidateBaseURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if c.Backend != nil {
		return nil
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.FilePath == "" {
			return errors.New("store.file_path required for file backend")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr required for redis backend")
		}
	case BackendS3:
		if c.Store.S3.Bucket == "" || c.Store.S3.Key == "" {
			return errors.New("store.s3.bucket and store.s3.key required for s3 backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}

func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("base URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}
