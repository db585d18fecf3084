package dto

import (
	"errors"
	"net/http"
	"time"

	"github.com/joy-dx/gosession/utils"
)

var ErrNilRequestConfig = errors.New("nil RequestConfig provided")

// RequestConfig is immutable input (safe to reuse). The gateway copies it into
// per-call state before middlewares run.
type RequestConfig struct {
	Method string `json:"method" yaml:"method"`
	// Endpoint is joined to the API base URL unless it is already absolute
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Body     any    `json:"body" yaml:"body"`
	// BodyType application/json, application/x-www-form-urlencoded
	BodyType string            `json:"body_type" yaml:"body_type"`
	Headers  map[string]string `json:"headers" yaml:"headers"`
	// ResponseObject Used for casting result to
	ResponseObject any              `json:"response_object" yaml:"response_object"`
	Timeout        time.Duration    `json:"timeout" yaml:"timeout"`
	MaxRetries     int              `json:"max_retries" yaml:"max_retries"`
	Delay          utils.RetryDelay `json:"-" yaml:"-"`
	TaskName       string           `json:"task_name" yaml:"task_name"`
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Method:     http.MethodGet,
		BodyType:   "application/json",
		Headers:    make(map[string]string),
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		Delay:      utils.ExponentialBackoff{},
	}
}

func (c *RequestConfig) WithMethod(method string) *RequestConfig {
	c.Method = method
	return c
}

func (c *RequestConfig) WithEndpoint(endpoint string) *RequestConfig {
	c.Endpoint = endpoint
	return c
}

func (c *RequestConfig) WithBody(body any) *RequestConfig {
	c.Body = body
	return c
}

func (c *RequestConfig) WithBodyType(bodyType string) *RequestConfig {
	c.BodyType = bodyType
	return c
}

func (c *RequestConfig) WithHeaders(headers map[string]string) *RequestConfig {
	c.Headers = headers
	return c
}

func (c *RequestConfig) WithResponseObject(object any) *RequestConfig {
	c.ResponseObject = object
	return c
}

func (c *RequestConfig) WithTimeout(duration time.Duration) *RequestConfig {
	c.Timeout = duration
	return c
}

func (c *RequestConfig) WithMaxRetries(count int) *RequestConfig {
	c.MaxRetries = count
	return c
}

func (c *RequestConfig) WithDelay(delay utils.RetryDelay) *RequestConfig {
	c.Delay = delay
	return c
}

func (c *RequestConfig) WithTaskName(name string) *RequestConfig {
	c.TaskName = name
	return c
}
