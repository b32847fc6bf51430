package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"hourglass/internal/config"
	"hourglass/internal/handlers"
	"hourglass/internal/repository/memory"
	"hourglass/internal/service"
)

func newServer() *HTTPServer {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		Environment: "test",
		HTTP:        config.HTTPConfig{Host: "127.0.0.1", Port: 8000},
		Security:    config.SecurityConfig{JWTSecret: "server-secret"},
	}
	store := memory.NewStore()
	log := zerolog.Nop()
	set := handlers.NewHandlerSet(log, cfg, store, nil, handlers.Services{
		Auth: service.NewAuthService(store, cfg, log),
	})
	return NewHTTPServer(cfg, log, set)
}

func TestServerRoutes(t *testing.T) {
	srv := newServer()
	assert.Equal(t, "127.0.0.1:8000", srv.server.Addr)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/timer/active", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
