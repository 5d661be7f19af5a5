package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reuse-api/api/internal/app"
	"reuse-api/api/internal/config"
	"reuse-api/api/internal/logging"
	"reuse-api/api/internal/ratelimit"
	"reuse-api/api/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if cfg.TelegramBotToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeEngine, err := app.NewPipeline(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init")
	}
	defer closeEngine()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram")
	}
	bot.Debug = false
	log.Info().Str("bot", bot.Self.UserName).Msg("authorized")

	var lim *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		lim = ratelimit.New(ratelimit.PerMinute(5), ratelimit.PerDay(200))
		go lim.Run(ctx, time.Minute)
	}
	router := telegram.NewRouter(bot, svc, lim, cfg.MaxImageBytes, cfg.RequestTimeout)

	telegram.RunPolling(ctx, bot, func(upd tgbotapi.Update) {
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Str("panic", fmt.Sprint(rec)).Msg("update handler")
				}
			}()
			router.HandleUpdate(ctx, upd)
		}()
	})
}
