package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reuse-api/api/internal/listing"
	"reuse-api/api/internal/ratelimit"
	"reuse-api/api/internal/vision"
)

// Bot is the part of tgbotapi.BotAPI the router needs.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Analyzer interface {
	Generate(ctx context.Context, img vision.Image) (listing.Response, error)
}

type Router struct {
	Bot      Bot
	Pipeline Analyzer
	// Limiter is keyed by chat id; nil disables limiting.
	Limiter *ratelimit.Limiter

	MaxImageBytes  int64
	RequestTimeout time.Duration

	// download fetches a Telegram file URL; replaced in tests.
	download func(ctx context.Context, url string, limit int64) ([]byte, error)
}

func NewRouter(bot Bot, p Analyzer, lim *ratelimit.Limiter, maxImageBytes int64, timeout time.Duration) *Router {
	return &Router{
		Bot:            bot,
		Pipeline:       p,
		Limiter:        lim,
		MaxImageBytes:  maxImageBytes,
		RequestTimeout: timeout,
		download:       download,
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	if msg.IsCommand() {
		r.HandleCommand(cid, msg.Command())
		return
	}

	fileID, ok := imageFileID(msg)
	if !ok {
		if strings.TrimSpace(msg.Text) != "" {
			r.send(cid, startText)
		}
		return
	}

	if r.Limiter != nil {
		if allowed, wait, _ := r.Limiter.Allow(fmt.Sprint(cid)); !allowed {
			r.send(cid, fmt.Sprintf(rateLimitedText, int(wait.Seconds())+1))
			return
		}
	}
	r.processPhoto(ctx, cid, fileID)
}

func (r *Router) HandleCommand(cid int64, cmd string) {
	switch cmd {
	case "start", "help":
		r.send(cid, startText)
	case "health":
		r.send(cid, "✅ OK")
	default:
		r.send(cid, "Unknown command. Try /start")
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram: send failed")
	}
}

// SendError logs err and tells the user msg. Provider errors stay in the log.
func (r *Router) SendError(chatID int64, msg string, err error) {
	log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: request failed")
	r.send(chatID, "⚠️ "+msg)
}
