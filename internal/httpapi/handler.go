package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/lunchorder/internal/service"
)

// DeviceHeader carries the owner token of the calling device.
const DeviceHeader = "x-device-id"

const maxBodyBytes = 1 << 20

type Handler struct {
	products *service.ProductService
	orders   *service.OrderService
	realtime http.Handler
	logger   *slog.Logger
}

// NewHandler wires the services to HTTP. realtime may be nil, then /realtime is not served.
func NewHandler(products *service.ProductService, orders *service.OrderService, realtime http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		products: products,
		orders:   orders,
		realtime: realtime,
		logger:   logger,
	}
}

func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/products", h.ListActiveProducts).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/products", h.ListAllProducts).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/products", h.SaveProduct).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	router.HandleFunc("/api/orders", h.ListOrders).Methods(http.MethodGet)
	router.HandleFunc("/api/orders", h.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id}", h.UpdateOrder).Methods(http.MethodPut)
	router.HandleFunc("/api/orders/{id}", h.DeleteOrder).Methods(http.MethodDelete)

	if h.realtime != nil {
		router.Handle("/realtime", h.realtime).Methods(http.MethodGet)
	}

	router.Use(loggingMiddleware(h.logger))

	return router
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade pass through the logging middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T does not support hijacking", r.ResponseWriter)
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request completed",
				"method", "loggingMiddleware",
				"httpMethod", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
