package gateway

import (
	"fmt"
	"net/http"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/utils"
)

// Request is per-call mutable state built from an immutable dto.RequestConfig.
type Request struct {
	Method   string
	URL      string
	Body     any
	BodyType string
	Headers  map[string]string
	// Finalized wire body (deterministic for tests and retries)
	BodyBytes   []byte
	ContentType string
}

// newRequest copies the config so middlewares never mutate the caller's maps.
func newRequest(baseURL string, cfg *dto.RequestConfig) *Request {
	r := &Request{
		Method:   cfg.Method,
		URL:      utils.JoinURL(baseURL, cfg.Endpoint),
		BodyType: cfg.BodyType,
		Headers:  make(map[string]string, len(cfg.Headers)),
	}
	if r.Method == "" {
		r.Method = "GET"
	}
	for k, v := range cfg.Headers {
		r.SetHeader(k, v)
	}
	switch b := cfg.Body.(type) {
	case map[string]any:
		body := make(map[string]any, len(b))
		for k, v := range b {
			body[k] = v
		}
		r.Body = body
	default:
		r.Body = cfg.Body
	}
	return r
}

// SetHeader stores k in canonical form so later layers replace it.
func (r *Request) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[http.CanonicalHeaderKey(k)] = v
}

func (r *Request) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[http.CanonicalHeaderKey(k)]
}

// FinalizeBody prepares BodyBytes and ContentType exactly once per call.
// Rules:
// - If BodyBytes is already set, we respect it.
// - Otherwise we build BodyBytes from Body+BodyType.
func (r *Request) FinalizeBody() error {
	if r.BodyBytes != nil {
		return nil
	}

	bodyBuf, ct, err := utils.PrepareBody(r.Body, r.BodyType)
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}

	r.BodyBytes = bodyBuf
	// Prefer explicit ContentType if some middleware set it.
	if r.ContentType == "" {
		r.ContentType = ct
	}
	return nil
}
