// Package server exposes the dashboard's JSON API and the websocket channel
// that pushes refreshed summaries to connected dashboard pages. Chart and
// widget rendering happen client-side; this layer only serves data.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/app"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr string
}

// Server is the HTTP + WebSocket API server for the portfolio dashboard.
type Server struct {
	httpServer *http.Server
	svc        *app.DashboardService
	hub        *Hub
	logger     ports.Logger
}

// NewServer creates a new Server with all routes registered, and hooks the
// service's refresh notifications into the websocket hub.
func NewServer(cfg Config, svc *app.DashboardService, logger ports.Logger) *Server {
	s := &Server{
		svc:    svc,
		hub:    NewHub(logger),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/growth", s.handleGrowth)
	mux.HandleFunc("GET /api/allocation", s.handleAllocation)
	mux.HandleFunc("GET /api/quotes", s.handleQuotes)
	mux.HandleFunc("GET /api/trades", s.handleTrades)
	mux.HandleFunc("POST /api/trades/import", s.handleImport)
	mux.HandleFunc("DELETE /api/trades", s.handleClear)
	mux.HandleFunc("GET /ws", s.hub.HandleWS)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Every refresh (quote tick, upload, reset) pushes a fresh summary to
	// the connected dashboard pages.
	svc.OnRefresh(s.pushSummary)

	return s
}

// Start runs the hub and the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Dashboard API listening", map[string]interface{}{"addr": s.httpServer.Addr})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// pushSummary recomputes the summary and broadcasts it to websocket clients.
func (s *Server) pushSummary() {
	ctx := context.Background()
	summary, err := s.svc.Summary(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to compute summary for broadcast")
		return
	}
	s.hub.Broadcast("summary", summary)
}

// logRequests is a minimal request-logging middleware.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "HTTP request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		})
	})
}
