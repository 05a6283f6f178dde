// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"

	"github.com/kadirpekel/courier/pkg/config"
)

// HTTPServer serves one agent over JSON-RPC with its card at the
// well-known path. Uses a2a-go native handlers for protocol compliance.
type HTTPServer struct {
	cfg    *config.AgentConfig
	server *http.Server

	// TaskStore for persistent task storage (nil = in-memory)
	taskStore a2asrv.TaskStore

	metrics *Metrics

	jsonRPCHandler http.Handler
	cardHandler    http.Handler
	card           *a2a.AgentCard
}

// HTTPServerOption configures the HTTP server.
type HTTPServerOption func(*HTTPServer)

// WithTaskStore sets the task store for persistent task storage.
// If not set, a2a-go uses its internal in-memory store.
func WithTaskStore(store a2asrv.TaskStore) HTTPServerOption {
	return func(s *HTTPServer) {
		s.taskStore = store
	}
}

// WithMetrics enables the Prometheus /metrics endpoint.
func WithMetrics(m *Metrics) HTTPServerOption {
	return func(s *HTTPServer) {
		s.metrics = m
	}
}

// NewHTTPServer creates a server for one agent backed by executor.
func NewHTTPServer(cfg *config.AgentConfig, executor a2asrv.AgentExecutor, opts ...HTTPServerOption) *HTTPServer {
	s := &HTTPServer{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	var handlerOpts []a2asrv.RequestHandlerOption
	if s.taskStore != nil {
		handlerOpts = append(handlerOpts, a2asrv.WithTaskStore(s.taskStore))
	}
	requestHandler := a2asrv.NewHandler(executor, handlerOpts...)

	s.card = buildAgentCard(cfg, "http://"+s.Address())
	s.jsonRPCHandler = a2asrv.NewJSONRPCHandler(requestHandler)
	s.cardHandler = a2asrv.NewStaticAgentCardHandler(s.card)

	return s
}

// buildAgentCard creates an A2A-compliant agent card.
func buildAgentCard(cfg *config.AgentConfig, url string) *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:               cfg.Name,
		Description:        cfg.Description,
		URL:                url,
		Version:            cfg.Version,
		ProtocolVersion:    "1.0",
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills: []a2a.AgentSkill{{
			ID:          "hello_world",
			Name:        "Returns hello world",
			Description: cfg.Description,
			Tags:        []string{"hello world"},
			Examples:    []string{"hi", "hello world"},
		}},
		Capabilities: a2a.AgentCapabilities{
			Streaming:              true,
			PushNotifications:      false,
			StateTransitionHistory: false,
		},
		PreferredTransport: a2a.TransportProtocolJSONRPC,
		Provider: &a2a.AgentProvider{
			Org: "Courier",
			URL: "https://github.com/kadirpekel/courier",
		},
	}
}

// Card returns the served agent card.
func (s *HTTPServer) Card() *a2a.AgentCard {
	return s.card
}

// Address returns the listen address.
func (s *HTTPServer) Address() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start runs the server until ctx is cancelled or serving fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	mux := s.setupRoutes()

	var handler http.Handler = mux
	handler = s.corsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	if s.metrics != nil {
		handler = s.metrics.Middleware(handler)
	}

	s.server = &http.Server{
		Addr:         s.Address(),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("HTTP server starting", "address", s.Address(), "agent", s.cfg.Name)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	slog.Info("HTTP server shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	return nil
}

// setupRoutes configures the HTTP routes:
//   - POST /                             → JSON-RPC (a2a-go native)
//   - GET  /.well-known/agent-card.json  → Agent card (a2a-go native)
//   - GET  /health                       → Health check
//   - GET  /metrics                      → Prometheus metrics (optional)
func (s *HTTPServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc(a2asrv.WellKnownAgentCardPath, s.cardHandler.ServeHTTP)

	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	return mux
}

// handleRoot serves JSON-RPC for POST and the agent card for GET.
func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		s.jsonRPCHandler.ServeHTTP(w, r)
	case http.MethodGet, http.MethodOptions:
		s.cardHandler.ServeHTTP(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth returns server health status.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// corsMiddleware adds permissive CORS headers so browser-based clients
// can reach the agent during development.
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs requests without wrapping the ResponseWriter,
// which would break http.Flusher for SSE streaming.
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
