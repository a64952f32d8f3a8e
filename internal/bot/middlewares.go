package bot

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/stakechat/stakechat-bot/internal/ratelimit"
	"github.com/stakechat/stakechat-bot/pkg/config"
	"github.com/stakechat/stakechat-bot/pkg/metrics"
)

// RecoveryMiddleware catches handler panics, logs them and notifies the user.
// A panic must never take the update loop down.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))

					if sendErr := c.Send("⚠️ Something went wrong. Try again later."); sendErr != nil {
						log.Error("failed to notify user about panic", slog.Any("error", sendErr))
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(c telebot.Context) error {
			start := time.Now()

			userID := int64(0)
			if c.Sender() != nil {
				userID = c.Sender().ID
			}

			action := c.Text()
			if cb := c.Callback(); cb != nil {
				action = cb.Data
			}

			err := next(c)

			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// RateLimitMiddleware throttles per-user message volume before any engine
// work happens. Limiter failures fail open: throttling is protection, not a
// correctness gate.
func RateLimitMiddleware(limiter ratelimit.Limiter, cfg config.RateLimitConfig, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if !cfg.Enabled || limiter == nil {
			return next
		}

		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			key := Platform + ":" + strconv.FormatInt(sender.ID, 10)
			_, err := limiter.Check(context.Background(), key, cfg.Limit, cfg.Window)
			if err != nil {
				if errors.Is(err, ratelimit.ErrLimitExceeded) {
					return c.Send("🐢 Too many requests. Slow down a little.")
				}
				log.Error("rate limiter failed", slog.Any("error", err))
			}

			return next(c)
		}
	}
}

// MetricsMiddleware records command counters and latency.
func MetricsMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(c telebot.Context) error {
			start := time.Now()

			command := "callback"
			if c.Callback() == nil {
				command = commandLabel(c.Text())
			}

			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RecordCommand(command, status, time.Since(start))

			return err
		}
	}
}
