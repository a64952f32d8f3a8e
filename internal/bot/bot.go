// Package bot adapts Telegram updates into engine requests and renders the
// engine's responses back out. It owns no trading logic.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/stakechat/stakechat-bot/internal/bot/keyboard"
	"github.com/stakechat/stakechat-bot/internal/engine"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/ratelimit"
	"github.com/stakechat/stakechat-bot/pkg/config"
	"github.com/stakechat/stakechat-bot/pkg/logger"
)

// Platform tags every request this transport produces. Pending actions and
// allowlist entries are scoped by it.
const Platform = "telegram"

// Handler processes one telebot update.
type Handler func(telebot.Context) error

// Middleware wraps a Handler with cross-cutting behavior.
type Middleware func(Handler) Handler

// Bot wraps telebot.Bot and forwards every update into the engine.
type Bot struct {
	telebot *telebot.Bot
	engine  *engine.Engine
	log     *slog.Logger
}

// New builds a telegram bot configured according to the application settings.
func New(cfg config.Config, eng *engine.Engine, limiter ratelimit.Limiter, log *slog.Logger) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot: tb,
		engine:  eng,
		log:     log,
	}

	wrap := chain(
		RecoveryMiddleware(log),
		LoggingMiddleware(log),
		RateLimitMiddleware(limiter, cfg.RateLimit, log),
		MetricsMiddleware(),
	)

	tb.Handle(telebot.OnText, telebot.HandlerFunc(wrap(b.handleText)))
	tb.Handle(telebot.OnCallback, telebot.HandlerFunc(wrap(b.handleCallback)))

	return b, nil
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	b.log.Info("stopping telegram bot")
	b.telebot.Stop()
}

func (b *Bot) handleText(c telebot.Context) error {
	ctx := logger.WithCorrelationID(context.Background())

	resp := b.engine.Handle(ctx, b.request(c, c.Text()))

	// the main menu rides along on help and start replies
	if len(resp.Buttons) == 0 && isMenuCommand(c.Text()) {
		resp.Buttons = keyboard.MainMenu()
	}

	return b.send(c, resp)
}

func (b *Bot) handleCallback(c telebot.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}

	ctx := logger.WithCorrelationID(context.Background())
	data := strings.TrimSpace(strings.TrimPrefix(cb.Data, "\f"))

	var resp engine.Response
	switch {
	case data == "cancel":
		resp = b.engine.Cancel(ctx, b.request(c, ""))
	case isConfirmToken(data):
		resp = b.engine.Handle(ctx, b.request(c, "confirm"))
	default:
		// menu buttons carry plain commands as payload
		resp = b.engine.Handle(ctx, b.request(c, data))
	}

	if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
		b.log.Warn("callback ack failed", "error", err)
	}

	return b.send(c, resp)
}

func (b *Bot) request(c telebot.Context, text string) engine.Request {
	req := engine.Request{
		Platform: Platform,
		Text:     text,
	}

	if sender := c.Sender(); sender != nil {
		req.UserID = strconv.FormatInt(sender.ID, 10)
		req.UserName = sender.Username
		if req.UserName == "" {
			req.UserName = sender.FirstName
		}
	}

	if chat := c.Chat(); chat != nil {
		req.ChatID = strconv.FormatInt(chat.ID, 10)
		req.IsGroup = chat.Type != telebot.ChatPrivate
	}

	return req
}

func isConfirmToken(data string) bool {
	for _, kind := range []pending.Kind{
		pending.StakeConfirm,
		pending.UnstakeConfirm,
		pending.UnstakeAllConfirm,
	} {
		if strings.HasPrefix(data, string(kind)+":") {
			return true
		}
	}
	return false
}

func isMenuCommand(text string) bool {
	switch commandLabel(text) {
	case "help", "start":
		return true
	}
	return false
}

// commandLabel extracts a low-cardinality command name for logs and metrics.
func commandLabel(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(fields[0], "/"))
}

func chain(mws ...Middleware) Middleware {
	return func(h Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
