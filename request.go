package gosession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/utils"
)

// Get RequestWithRetry
func (s *SessionSvc) Get(ctx context.Context, endpoint string) (dto.Response, error) {
	cfg := dto.DefaultRequestConfig()
	cfg.WithEndpoint(endpoint).
		WithTaskName("GET " + endpoint)
	return s.RequestWithRetry(ctx, &cfg)
}

// Post RequestOnce, writes are never replayed
func (s *SessionSvc) Post(ctx context.Context, endpoint string, payload any) (dto.Response, error) {
	return s.write(ctx, http.MethodPost, endpoint, payload)
}

func (s *SessionSvc) Put(ctx context.Context, endpoint string, payload any) (dto.Response, error) {
	return s.write(ctx, http.MethodPut, endpoint, payload)
}

func (s *SessionSvc) Patch(ctx context.Context, endpoint string, payload any) (dto.Response, error) {
	return s.write(ctx, http.MethodPatch, endpoint, payload)
}

func (s *SessionSvc) Delete(ctx context.Context, endpoint string) (dto.Response, error) {
	return s.write(ctx, http.MethodDelete, endpoint, nil)
}

func (s *SessionSvc) write(ctx context.Context, method, endpoint string, payload any) (dto.Response, error) {
	cfg := dto.DefaultRequestConfig()
	cfg.WithMethod(method).
		WithEndpoint(endpoint).
		WithBody(payload).
		WithTaskName(method + " " + endpoint)
	return s.RequestOnce(ctx, &cfg)
}

// Request satisfies dto.Requester; it honours cfg.MaxRetries.
func (s *SessionSvc) Request(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	return s.RequestWithRetry(ctx, cfg)
}

// RequestWithRetry retries temporary transport errors and 5xx answers. An
// expired session is final and returned at once.
func (s *SessionSvc) RequestWithRetry(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, dto.ErrNilRequestConfig
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Delay == nil {
		cfg.Delay = utils.ConstantDelay{Period: 1}
	}
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := cfg.Delay.Wait(ctx, cfg.TaskName, attempt); err != nil {
				return dto.Response{}, err
			}
		}

		resp, err := s.RequestOnce(ctx, cfg)
		if err != nil {
			lastErr = err
			if errors.Is(err, dto.ErrSessionExpired) {
				return resp, err
			}
			// transient network errors → retry
			if utils.IsTemporaryErr(err) && attempt < cfg.MaxRetries {
				continue
			}
			return resp, err
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			if attempt < cfg.MaxRetries {
				continue
			}
			// exhausted retries: return response + error
			return resp, fmt.Errorf(
				"failed after %d attempts: %w",
				cfg.MaxRetries+1,
				lastErr,
			)
		}
		return resp, nil
	}

	return dto.Response{}, fmt.Errorf("failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// RequestOnce sends one call through the gateway. A *dto.SessionExpiredError
// is reported to listeners and the OnSessionExpired hook before it is returned.
func (s *SessionSvc) RequestOnce(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, dto.ErrNilRequestConfig
	}
	if s.gateway == nil {
		return dto.Response{}, ErrNotHydrated
	}
	if cfg.TaskName == "" {
		cfg.TaskName = "http_request"
	}

	response, err := s.gateway.Request(ctx, cfg)
	if err != nil {
		if errors.Is(err, dto.ErrSessionExpired) {
			s.sessionExpired(ctx, err)
		}
		return response, err
	}

	if cfg.ResponseObject != nil && response.OK() && len(response.Body) > 0 {
		if unmarshalErr := json.Unmarshal(response.Body, cfg.ResponseObject); unmarshalErr != nil {
			return response, fmt.Errorf("unmarshal response: %w", unmarshalErr)
		}
	}

	return response, nil
}
