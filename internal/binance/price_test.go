package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotgateway/internal/orders"
	"spotgateway/internal/rest"
)

type stubCache struct {
	price decimal.Decimal
	at    time.Time
	ok    bool
}

func (s *stubCache) Price(symbol string) (decimal.Decimal, time.Time, bool) {
	return s.price, s.at, s.ok
}

func newPriceClient(t *testing.T, handler http.HandlerFunc) *rest.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return rest.NewClient(server.URL, nil, rest.WithRateLimit(1000, 100), rest.WithMaxRetries(0))
}

func TestCurrentPrice_PrefersFreshStreamPrice(t *testing.T) {
	restCalls := 0
	client := newPriceClient(t, func(w http.ResponseWriter, r *http.Request) {
		restCalls++
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50001"}`))
	})

	cache := &stubCache{price: decimal.RequireFromString("50000"), at: time.Now(), ok: true}
	service := NewPriceService(client, cache, 5*time.Second, zerolog.Nop())

	price, err := service.CurrentPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("50000")))
	assert.Zero(t, restCalls)
}

func TestCurrentPrice_StaleStreamFallsBackToREST(t *testing.T) {
	client := newPriceClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50001"}`))
	})

	cache := &stubCache{
		price: decimal.RequireFromString("50000"),
		at:    time.Now().Add(-time.Minute),
		ok:    true,
	}
	service := NewPriceService(client, cache, 5*time.Second, zerolog.Nop())

	price, err := service.CurrentPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("50001")))
}

func TestCurrentPrice_NoCacheUsesREST(t *testing.T) {
	client := newPriceClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"49999.99"}`))
	})

	service := NewPriceService(client, nil, 5*time.Second, zerolog.Nop())

	price, err := service.CurrentPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("49999.99")))
}

func TestCurrentPrice_RESTFailure(t *testing.T) {
	client := newPriceClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	service := NewPriceService(client, &stubCache{}, 5*time.Second, zerolog.Nop())

	_, err := service.CurrentPrice(context.Background(), "NOSUCH")
	assert.ErrorIs(t, err, orders.ErrPriceUnavailable)
}
