package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// StaticHeaderMiddleware injects static headers into every request.
func StaticHeaderMiddleware(headers map[string]string) Middleware {
	return func(ctx context.Context, r *Request) error {
		for k, v := range headers {
			r.SetHeader(k, v)
		}
		return nil
	}
}

// RequestIDMiddleware tags each call with a fresh id unless the caller set one.
func RequestIDMiddleware() Middleware {
	return func(ctx context.Context, r *Request) error {
		if r.Header(HeaderRequestID) == "" {
			r.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

func LoggingMiddleware(logger func(msg string)) Middleware {
	return func(ctx context.Context, r *Request) error {
		logger(fmt.Sprintf("[HTTP] %s %s", r.Method, r.URL))
		return nil
	}
}

// InjectFieldMiddleware adds key to JSON object bodies. Non-map bodies abort the call.
func InjectFieldMiddleware(key string, val any) Middleware {
	return func(ctx context.Context, r *Request) error {
		switch body := r.Body.(type) {
		case nil:
			r.Body = map[string]any{key: val}
		case map[string]any:
			body[key] = val
		default:
			return fmt.Errorf("inject field %q: unsupported body %T", key, r.Body)
		}

		// Ensure final bytes will be recomputed from Body.
		r.BodyBytes = nil
		r.ContentType = ""
		return nil
	}
}
