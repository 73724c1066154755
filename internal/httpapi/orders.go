package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/service"
	"github.com/samber/lo"
)

// ListOrders returns every order, or the matching ones when any filter parameter is present:
// id and deviceId may repeat; createdAfter, createdBefore, updatedAfter and updatedBefore are RFC 3339.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []domain.Order
		err    error
	)

	query := r.URL.Query()
	if len(query) == 0 {
		orders, err = h.orders.List(r.Context())
	} else {
		var filter domain.OrderFilter
		if filter, err = parseOrderFilter(query); err == nil {
			orders, err = h.orders.Search(r.Context(), filter)
		}
	}
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, lo.Map(orders, mapOrderToResponseIdx))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	order, err := h.orders.Create(r.Context(), mapOrderRequestToDomain(req), r.Header.Get(DeviceHeader))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// UpdateOrder decodes the body only after the service has checked ownership,
// so a foreign device gets 403 even for a malformed body.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	device := r.Header.Get(DeviceHeader)

	var req orderRequest
	decodeErr := decodeBody(r, &req)

	if decodeErr != nil {
		if _, err := h.orders.Authorize(r.Context(), id, device); err != nil {
			h.respondWithError(w, r, err)
			return
		}
		h.respondWithError(w, r, decodeErr)
		return
	}

	order, err := h.orders.Update(r.Context(), id, mapOrderRequestToDomain(req), device)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), mux.Vars(r)["id"], r.Header.Get(DeviceHeader)); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseOrderFilter(query url.Values) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	for _, raw := range query["id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("id[%s]: %w", raw, service.ErrInvalidIdentifier)
		}
		filter.IDs = append(filter.IDs, id)
	}

	filter.OwnerTokens = query["deviceId"]

	createdAt, err := parseTimeRange(query, "createdAfter", "createdBefore")
	if err != nil {
		return filter, err
	}
	filter.CreatedAt = createdAt

	updatedAt, err := parseTimeRange(query, "updatedAfter", "updatedBefore")
	if err != nil {
		return filter, err
	}
	filter.UpdatedAt = updatedAt

	return filter, nil
}

func parseTimeRange(query url.Values, afterKey, beforeKey string) (*domain.TimeRange, error) {
	after, err := parseTime(query, afterKey)
	if err != nil {
		return nil, err
	}

	before, err := parseTime(query, beforeKey)
	if err != nil {
		return nil, err
	}

	if after == nil && before == nil {
		return nil, nil
	}

	return &domain.TimeRange{After: after, Before: before}, nil
}

func parseTime(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s[%s]: %w", key, raw, service.ErrInvalidRequest)
	}

	return &t, nil
}

func mapOrderToResponseIdx(o domain.Order, _ int) orderResponse {
	return mapOrderToResponse(o)
}

func mapProductToResponseIdx(p domain.Product, _ int) productResponse {
	return mapProductToResponse(p)
}
