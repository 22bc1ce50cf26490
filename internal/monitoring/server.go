package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server provides HTTP endpoints for a MetricsCollector: Prometheus
// exposition on /metrics, the JSON summary on /summary and /health.
type Server struct {
	collector *MetricsCollector
	server    *http.Server
}

// NewMonitoringServer creates a monitoring server listening on addr.
func NewMonitoringServer(collector *MetricsCollector, addr string) *Server {
	ms := &Server{collector: collector}
	ms.server = &http.Server{
		Addr:              addr,
		Handler:           ms.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ms
}

// Handler returns the endpoint mux.
func (ms *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(ms.collector.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/summary", ms.handleSummary)
	mux.HandleFunc("/health", ms.handleHealth)
	return mux
}

// Start serves until Shutdown; http.ErrServerClosed is not an error.
func (ms *Server) Start() error {
	if err := ms.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve is Start on an already bound listener.
func (ms *Server) Serve(ln net.Listener) error {
	if err := ms.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (ms *Server) Shutdown(ctx context.Context) error {
	return ms.server.Shutdown(ctx)
}

func (ms *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, ms.collector.GetSummary())
}

func (ms *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"enabled":   ms.collector.IsEnabled(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
