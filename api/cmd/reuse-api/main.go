package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"reuse-api/api/internal/app"
	"reuse-api/api/internal/config"
	"reuse-api/api/internal/handle"
	"reuse-api/api/internal/httpserver"
	"reuse-api/api/internal/logging"
	"reuse-api/api/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeEngine, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init")
	}
	defer closeEngine()

	h := handle.New(svc, handle.Options{
		MaxImageBytes:  cfg.MaxImageBytes,
		RequestTimeout: cfg.RequestTimeout,
		Engine:         svc.Engine().Name(),
		Model:          svc.Engine().GetModel(),
	})

	var limits []handle.Limit
	if cfg.RateLimitEnabled {
		endpoint := ratelimit.New(ratelimit.PerMinute(5))
		global := ratelimit.New(ratelimit.PerHour(50), ratelimit.PerDay(200))
		go endpoint.Run(ctx, time.Minute)
		go global.Run(ctx, time.Minute)
		// every client shares the hourly and daily ceiling across endpoints
		limits = append(limits, endpoint.Middleware, func(string) func(http.Handler) http.Handler {
			return global.Middleware("global")
		})
	}

	mux := http.NewServeMux()
	h.Register(mux, limits...)

	srv := httpserver.New(cfg.Addr(), httpserver.Wrap(mux, log.Logger, cfg.CORSOrigins), cfg.RequestTimeout)
	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Bool("rate_limit", cfg.RateLimitEnabled).Msg("server listening")
	if err := httpserver.Run(ctx, srv, 10*time.Second); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}
