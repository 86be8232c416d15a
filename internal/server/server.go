/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ChenM0M/Vecho/internal/api"
	"github.com/ChenM0M/Vecho/internal/config"
	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/kv"
	"github.com/ChenM0M/Vecho/internal/store"
	"github.com/ChenM0M/Vecho/internal/telemetry"
	"github.com/ChenM0M/Vecho/internal/version"
)

// Server bundles the HTTP surface and the document core it fronts.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	kv      kv.Store
	gateway *gateway.Gateway
	bus     *events.Bus
	store   *store.Store
	api     *api.API
	updates *version.Checker

	metricsServer *http.Server
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	for _, warn := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warn)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	// Skip the request timeout for the SSE event stream, which stays open
	// for the lifetime of the client.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/events") {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		bus:    events.NewBus(),
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()
	srv.startMetrics()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		// WriteTimeout stays 0 so the SSE stream is not cut off; the
		// middleware timeout covers the regular routes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

func (s *Server) initDependencies() error {
	localKV, err := kv.Open(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	s.kv = localKV
	s.DeferClose(func() error { return s.kv.Close() })

	s.gateway = gateway.New(s.cfg.WorkerURL, s.cfg.WorkerTimeout, s.logger)
	s.DeferClose(func() error {
		s.gateway.Close()
		return nil
	})

	s.store = store.New(store.Options{
		Logger:          s.logger,
		Backend:         s.gateway,
		KV:              s.kv,
		Bus:             s.bus,
		SaveDebounce:    s.cfg.SaveDebounce,
		JobHistoryLimit: s.cfg.JobHistoryLimit,
		SeedPreviewData: s.cfg.SeedPreviewData,
	})
	s.DeferClose(func() error {
		s.store.Close()
		return nil
	})

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Bootstrap(bootCtx); err != nil {
		return fmt.Errorf("bootstrap document store: %w", err)
	}

	s.api = api.New(s.store, s.gateway, s.bus, s.logger)

	s.updates = version.NewChecker(s.logger)
	s.updates.Start(context.Background())
	s.DeferClose(func() error {
		s.updates.Stop()
		return nil
	})

	return nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"update": s.updates.Info(),
		})
	})

	s.api.Routes(s.router)
}

// startMetrics serves Prometheus metrics on its own bind so the main
// port stays scrape-free.
func (s *Server) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())
	s.metricsServer = &http.Server{
		Addr:              s.cfg.MetricsBind,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Str("addr", s.cfg.MetricsBind).Msg("metrics server error")
		}
	}()
	s.DeferClose(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.metricsServer.Shutdown(ctx)
	})
}

// HTTPServer exposes the configured http.Server for the caller to run.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Store exposes the document store, mainly for CLI subcommands.
func (s *Server) Store() *store.Store {
	return s.store
}

// Close releases owned resources in reverse order. The store is flushed
// before anything under it goes away.
func (s *Server) Close() error {
	if s.store != nil {
		s.store.SaveNow()
	}
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}
