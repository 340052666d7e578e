// Package server exposes the Prometheus metrics endpoint over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/gfncheck/internal/logging"
)

// shutdownTimeout bounds graceful shutdown on context cancellation.
const shutdownTimeout = 5 * time.Second

// Metrics serves /metrics for a registry.
type Metrics struct {
	handler http.Handler
	log     logging.Logger
}

// NewMetrics creates the metrics handler for the given registry.
func NewMetrics(reg *prometheus.Registry, log logging.Logger) *Metrics {
	if log == nil {
		log = logging.Nop()
	}
	return &Metrics{
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		log:     log,
	}
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Serve runs an HTTP server on addr until ctx is canceled. It returns
// the server error, or nil on clean shutdown.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		m.log.Info("metrics server listening", logging.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
