package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nikolayk812/lunchorder/internal/circuitbreaker"
)

var ErrUnavailable = errors.New("admin verification unavailable")

type verifyResponse struct {
	Admin bool   `json:"admin"`
	Role  string `json:"role"`
}

// Remote asks an HTTP endpoint whether the bearer token belongs to an administrator.
// The endpoint receives the Authorization header unchanged and answers
// 200 {"admin":true} or {"role":"admin"}; 401, 403 and 404 mean "not an admin".
type Remote struct {
	url     string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewRemote(url string, client *http.Client, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	if logger == nil {
		logger = slog.Default()
	}

	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.Config{Name: "admin-verify"}, logger)
	}

	return &Remote{
		url:     url,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (r *Remote) IsAdmin(ctx context.Context, authorization string) (bool, error) {
	if _, ok := BearerToken(authorization); !ok {
		return false, nil
	}

	var admin bool

	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		admin, err = r.verify(ctx, authorization)
		return err
	})
	if err != nil {
		r.logger.Warn("admin verification failed", "method", "Remote.IsAdmin", "error", err)
		return false, fmt.Errorf("breaker.Execute: %w: %w", ErrUnavailable, err)
	}

	return admin, nil
}

func (r *Remote) verify(ctx context.Context, authorization string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return false, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	case resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("status[%d]: unexpected response", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return false, fmt.Errorf("json.Decode: %w", err)
	}

	return body.Admin || body.Role == "admin", nil
}
