package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/courier/pkg/config"
)

func testAgentConfig() *config.AgentConfig {
	cfg := &config.Config{}
	cfg.SetDefaults()
	return &cfg.Agent
}

func TestBuildAgentCard(t *testing.T) {
	cfg := testAgentConfig()
	card := buildAgentCard(cfg, "http://localhost:9999")

	assert.Equal(t, "Hello World Agent", card.Name)
	assert.Equal(t, "http://localhost:9999", card.URL)
	assert.True(t, card.Capabilities.Streaming)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "hello_world", string(card.Skills[0].ID))
}

func TestHandleHealth(t *testing.T) {
	s := NewHTTPServer(testAgentConfig(), NewExecutor(Greeter("Hi there!"), 16))

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	s := NewHTTPServer(testAgentConfig(), NewExecutor(Greeter("Hi there!"), 16))

	var reached bool
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, reached)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	reached = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.False(t, reached, "preflight must short-circuit")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	s := NewHTTPServer(testAgentConfig(), NewExecutor(Greeter("Hi there!"), 16), WithMetrics(m))

	mux := s.setupRoutes()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRootRejectsUnknownPaths(t *testing.T) {
	s := NewHTTPServer(testAgentConfig(), NewExecutor(Greeter("Hi there!"), 16))

	rec := httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
