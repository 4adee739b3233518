package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotgateway/internal/config"
	"spotgateway/internal/metrics"
	"spotgateway/internal/orders"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	prices := &fakePrices{}
	symbols := &fakeSymbols{}
	builder := orders.NewBuilder(prices)
	engine := orders.NewEngine(symbols, builder, zerolog.Nop())
	collector := metrics.NewCollector()

	h := NewHandlers(engine, func(apiKey, apiSecret string) Exchange {
		return &fakeExchange{}
	}, collector, zerolog.Nop(), "test")

	cfg := config.ServerConfig{
		Port:            4000,
		Host:            "127.0.0.1",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     10 * time.Second,
		ShutdownTimeout: time.Second,
		CORSOrigins:     []string{"*"},
	}

	return NewServer(cfg, h, collector, zerolog.Nop())
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health is routed", http.MethodGet, "/health", http.StatusOK},
		{"metrics is routed", http.MethodGet, "/metrics", http.StatusOK},
		{"create requires a body", http.MethodPost, "/orders/create", http.StatusBadRequest},
		{"cancel requires a body", http.MethodDelete, "/orders/cancel", http.StatusBadRequest},
		{"balance requires a body", http.MethodPost, "/account/balance", http.StatusBadRequest},
		{"unknown route is 404", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestServerShutdown(t *testing.T) {
	s := newTestServer(t)
	s.httpServer.Addr = "127.0.0.1:0"

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give the listener a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}
