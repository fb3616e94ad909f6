// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

// Package observability exposes the addon host's metrics and health over HTTP.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/waymark/waymark/pkg/event"
)

// Metrics counts addon loads next to the event bus metrics.
type Metrics struct {
	loaded   prometheus.Gauge
	failures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waymark_addons_loaded",
			Help: "Number of addons currently loaded",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waymark_addon_load_failures_total",
			Help: "Total number of addon load failures by error code",
		}, []string{"code"}),
	}
	reg.MustRegister(m.loaded, m.failures)
	event.RegisterMetrics(reg)
	return m
}

// RecordAddonLoad counts one addon load. Failures are labelled with the oops
// error code, or "unknown".
func (m *Metrics) RecordAddonLoad(err error) {
	if err == nil {
		m.loaded.Inc()
		return
	}
	code := "unknown"
	if oopsErr, ok := oops.AsOops(err); ok {
		if c, ok := oopsErr.Code().(string); ok && c != "" {
			code = c
		}
	}
	m.failures.WithLabelValues(code).Inc()
}

// Server serves /metrics, /healthz/liveness and /healthz/readiness.
type Server struct {
	addr    string
	logger  *slog.Logger
	metrics *Metrics
	srv     *http.Server
	ln      net.Listener
}

// NewServer creates a server for addr. ready reports whether addon loading
// has finished; a nil ready is always ready.
func NewServer(addr string, ready func() bool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// A private registry keeps repeated servers in one process from colliding.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/healthz/liveness", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, true)
	})
	mux.HandleFunc("/healthz/readiness", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, ready == nil || ready())
	})

	return &Server{
		addr:    addr,
		logger:  logger,
		metrics: newMetrics(reg),
		srv:     &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Metrics returns the addon metrics served by s.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start listens and serves in the background. The returned channel yields a
// serve failure, if any, and is closed once serving ends.
func (s *Server) Start() (<-chan error, error) {
	if s.ln != nil {
		return nil, oops.In("observability").With("addr", s.Addr()).Errorf("server already started")
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, oops.In("observability").With("addr", s.addr).Wrap(err)
	}
	s.ln = ln

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Debug("observability listening", "addr", ln.Addr().String())
	return errCh, nil
}

// Stop shuts the server down. Stopping a server that never started is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return oops.In("observability").With("addr", s.Addr()).Wrap(err)
	}
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func writeHealth(w http.ResponseWriter, ok bool) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}
