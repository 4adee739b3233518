package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"spotgateway/internal/api"
	"spotgateway/internal/auth"
	"spotgateway/internal/binance"
	"spotgateway/internal/config"
	"spotgateway/internal/metrics"
	"spotgateway/internal/orders"
	"spotgateway/internal/rest"
	"spotgateway/internal/stream"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := setupLogger(cfg.Logging)

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("exchange_url", cfg.Exchange.BaseURL).
		Str("version", version).
		Msg("Starting spot gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared unsigned client for public endpoints. Signed clients are
	// built per request from the caller's credentials.
	publicClient := rest.NewClient(cfg.Exchange.BaseURL, nil,
		rest.WithTimeout(cfg.Exchange.Timeout),
		rest.WithMaxRetries(cfg.Exchange.MaxRetries),
		rest.WithRateLimit(cfg.Exchange.RateLimit, cfg.Exchange.RateBurst),
	)

	var priceService *binance.PriceService
	if cfg.Exchange.StreamEnable {
		feed := stream.NewTickerFeed(cfg.Exchange.WSBaseURL, logger)
		go feed.Run(ctx)
		priceService = binance.NewPriceService(publicClient, feed, cfg.Trading.PriceMaxAge, logger)
	} else {
		priceService = binance.NewPriceService(publicClient, nil, cfg.Trading.PriceMaxAge, logger)
	}
	symbolService := binance.NewSymbolService(publicClient, logger)

	builder := orders.NewBuilder(priceService,
		orders.WithLimitPriceOffset(cfg.Trading.LimitPriceOffset))
	engine := orders.NewEngine(symbolService, builder, logger)

	collector := metrics.NewCollector()

	factory := func(apiKey, apiSecret string) api.Exchange {
		return rest.NewClient(cfg.Exchange.BaseURL, auth.NewSigner(apiKey, apiSecret),
			rest.WithTimeout(cfg.Exchange.Timeout),
			rest.WithMaxRetries(cfg.Exchange.MaxRetries),
			rest.WithRateLimit(cfg.Exchange.RateLimit, cfg.Exchange.RateBurst),
		)
	}

	handlers := api.NewHandlers(engine, factory, collector, logger, version)
	server := api.NewServer(cfg.Server, handlers, collector, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error().Err(err).Msg("Server error")
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down server gracefully")
		}
	}

	cancel()
	logger.Info().Msg("Gateway stopped")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
