package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikolayk812/lunchorder/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken_IsAdmin(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		authorization string
		want          bool
	}{
		{name: "matching token", token: "s3cret", authorization: "Bearer s3cret", want: true},
		{name: "case-insensitive scheme", token: "s3cret", authorization: "bearer s3cret", want: true},
		{name: "surrounding spaces", token: "s3cret", authorization: "  Bearer s3cret  ", want: true},
		{name: "wrong token", token: "s3cret", authorization: "Bearer nope", want: false},
		{name: "missing scheme", token: "s3cret", authorization: "s3cret", want: false},
		{name: "basic scheme", token: "s3cret", authorization: "Basic s3cret", want: false},
		{name: "empty header", token: "s3cret", authorization: "", want: false},
		{name: "bearer without token", token: "s3cret", authorization: "Bearer ", want: false},
		{name: "no token configured", token: "", authorization: "Bearer ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStaticToken(tt.token).IsAdmin(context.Background(), tt.authorization)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemote_IsAdmin(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      bool
		wantError bool
	}{
		{name: "admin flag", status: http.StatusOK, body: `{"admin":true}`, want: true},
		{name: "admin role", status: http.StatusOK, body: `{"role":"admin"}`, want: true},
		{name: "regular user", status: http.StatusOK, body: `{"admin":false,"role":"member"}`, want: false},
		{name: "unauthorized", status: http.StatusUnauthorized, want: false},
		{name: "forbidden", status: http.StatusForbidden, want: false},
		{name: "unknown user", status: http.StatusNotFound, want: false},
		{name: "server error", status: http.StatusInternalServerError, wantError: true},
		{name: "garbage body", status: http.StatusOK, body: `not json`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			remote := NewRemote(server.URL, server.Client(), nil, nil)

			got, err := remote.IsAdmin(context.Background(), "Bearer abc")
			if tt.wantError {
				require.ErrorIs(t, err, ErrUnavailable)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemote_NoBearerSkipsCall(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	got, err := NewRemote(server.URL, server.Client(), nil, nil).IsAdmin(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, got)
	assert.Zero(t, calls.Load())
}

func TestRemote_BreakerOpens(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "admin-verify", MaxFailures: 2, Timeout: time.Minute}, nil)
	remote := NewRemote(server.URL, server.Client(), breaker, nil)

	for i := 0; i < 3; i++ {
		_, err := remote.IsAdmin(context.Background(), "Bearer abc")
		require.ErrorIs(t, err, ErrUnavailable)
	}

	_, err := remote.IsAdmin(context.Background(), "Bearer abc")
	require.ErrorIs(t, err, circuitbreaker.ErrOpen)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())
}
