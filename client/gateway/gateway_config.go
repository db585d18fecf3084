package gateway

import (
	"context"
	"net/http"
	"time"
)

type Middleware func(ctx context.Context, req *Request) error

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	Middlewares []Middleware
	// Jar carries the mirrored session cookie on every call.
	Jar http.CookieJar
	// Transport replaces the default pooled transport, mostly for tests.
	Transport  http.RoundTripper
	EnableOTEL bool
}

func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8080",
		Timeout:     20 * time.Second,
		Middlewares: make([]Middleware, 0),
	}
}

func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}
func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}
func (c *Config) WithUserAgent(ua string) *Config {
	c.UserAgent = ua
	return c
}
func (c *Config) WithMiddleware(m ...Middleware) *Config {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}
func (c *Config) WithJar(jar http.CookieJar) *Config {
	c.Jar = jar
	return c
}
func (c *Config) WithTransport(rt http.RoundTripper) *Config {
	c.Transport = rt
	return c
}
func (c *Config) WithOTEL(enable bool) *Config {
	c.EnableOTEL = enable
	return c
}
