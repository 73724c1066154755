package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/pricing"
	"github.com/nikolayk812/lunchorder/internal/service"
)

var errMalformedBody = errors.New("malformed request body")

var badRequestErrors = []error{
	errMalformedBody,
	service.ErrInvalidRequest,
	pricing.ErrInvalidIdentifier,
	pricing.ErrInvalidSelection,
	domain.ErrMalformedSelection,
	domain.ErrInvalidCurrency,
	domain.ErrInvalidSchema,
}

// statusFor maps service errors to a status code and the message shown to the caller.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, pricing.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "You can only modify your own orders"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Administrator authorization required"
	case errors.Is(err, service.ErrInvalidIdentifier):
		return http.StatusBadRequest, "Invalid identifier supplied"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "Order was modified concurrently, reload and retry"
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "Failed to verify administrator permissions"
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, err.Error()
		}
	}

	return http.StatusInternalServerError, "Internal server error"
}

func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		"method", "Handler.respondWithError",
		"path", r.URL.Path,
		"status", status,
		"error", err)

	respondWithJSON(w, status, errorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
