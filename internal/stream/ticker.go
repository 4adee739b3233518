package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// miniTickerPath is the all-market mini ticker stream
const miniTickerPath = "/ws/!miniTicker@arr"

// miniTickerEvent is one symbol's entry in a mini ticker batch
type miniTickerEvent struct {
	EventType  string `json:"e"`
	Symbol     string `json:"s"`
	ClosePrice string `json:"c"`
}

type pricePoint struct {
	price decimal.Decimal
	at    time.Time
}

// TickerFeed maintains a last-price cache fed by the exchange's public
// mini ticker stream. It is a latency optimization only: consumers fall
// back to REST when the cache misses or goes stale, and a dead stream
// never fails a request by itself.
type TickerFeed struct {
	url    string
	logger zerolog.Logger

	pingInterval      time.Duration
	reconnectInterval time.Duration

	mu     sync.RWMutex
	prices map[string]pricePoint
}

// FeedOption configures a TickerFeed
type FeedOption func(*TickerFeed)

// WithReconnectInterval sets the pause between reconnect attempts
func WithReconnectInterval(interval time.Duration) FeedOption {
	return func(f *TickerFeed) {
		f.reconnectInterval = interval
	}
}

// WithPingInterval sets the keepalive ping interval
func WithPingInterval(interval time.Duration) FeedOption {
	return func(f *TickerFeed) {
		f.pingInterval = interval
	}
}

// NewTickerFeed creates a feed for the given websocket base URL
// (e.g. wss://stream.binance.com:9443).
func NewTickerFeed(wsBaseURL string, logger zerolog.Logger, opts ...FeedOption) *TickerFeed {
	f := &TickerFeed{
		url:               wsBaseURL + miniTickerPath,
		logger:            logger,
		pingInterval:      3 * time.Minute,
		reconnectInterval: 5 * time.Second,
		prices:            make(map[string]pricePoint),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Run connects and consumes the stream until the context is cancelled,
// reconnecting after failures. Intended to run in its own goroutine.
func (f *TickerFeed) Run(ctx context.Context) {
	for {
		if err := f.consume(ctx); err != nil {
			f.logger.Warn().Err(err).Str("url", f.url).Msg("Ticker stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(f.reconnectInterval):
		}
	}
}

// Price returns the cached price for a symbol and the time it was seen
func (f *TickerFeed) Price(symbol string) (decimal.Decimal, time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, time.Time{}, false
	}
	return p.price, p.at, true
}

// consume runs one connection lifetime
func (f *TickerFeed) consume(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.logger.Info().Str("url", f.url).Msg("Ticker stream connected")

	// Close the connection when the context ends so ReadMessage unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go f.pingLoop(ctx, done, conn)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		f.handleMessage(message)
	}
}

// pingLoop sends keepalive pings until the connection or context ends.
// done is the owning connection's lifetime; without it a reconnect would
// leave the old loop ticking against a closed connection.
func (f *TickerFeed) pingLoop(ctx context.Context, done <-chan struct{}, conn *websocket.Conn) {
	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(10 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// handleMessage updates the cache from one mini ticker batch
func (f *TickerFeed) handleMessage(message []byte) {
	var events []miniTickerEvent
	if err := json.Unmarshal(message, &events); err != nil {
		f.logger.Debug().Err(err).Msg("Skipping unparsable stream message")
		return
	}

	now := time.Now()

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ev := range events {
		price, err := decimal.NewFromString(ev.ClosePrice)
		if err != nil || ev.Symbol == "" {
			continue
		}
		f.prices[ev.Symbol] = pricePoint{price: price, at: now}
	}
}
