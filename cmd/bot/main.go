package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/auth"
	"github.com/stakechat/stakechat-bot/internal/bot"
	"github.com/stakechat/stakechat-bot/internal/engine"
	"github.com/stakechat/stakechat-bot/internal/ledger"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/ratelimit"
	"github.com/stakechat/stakechat-bot/internal/subtensor"
	"github.com/stakechat/stakechat-bot/internal/validators"
	"github.com/stakechat/stakechat-bot/pkg/config"
	"github.com/stakechat/stakechat-bot/pkg/graceful"
	"github.com/stakechat/stakechat-bot/pkg/logger"
	redisclient "github.com/stakechat/stakechat-bot/pkg/redis"
)

const defaultHistoryPath = "data/trades.jsonl"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			return fmt.Errorf("initialize sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log := logger.New(logger.Options{
		Level:         cfg.Log.Level,
		File:          cfg.Log.File,
		SentryEnabled: cfg.Sentry.Enabled,
	})
	log.Info("starting stakechat bot", "env", cfg.AppEnv, "mode", cfg.Bot.Mode)

	var store pending.Store
	if cfg.Redis.Enabled {
		rdb, err := redisclient.New(ctx, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Error("closing redis", "error", cerr)
			}
		}()

		store = pending.NewRedisStore(rdb, log)
		log.Info("pending store: redis", "addr", cfg.Redis.Addr)
	} else {
		store = pending.NewMemoryStore()
		log.Info("pending store: memory")
	}

	historyPath := cfg.History.Path
	if historyPath == "" {
		historyPath = defaultHistoryPath
	}
	tradeLog := ledger.NewFileLog(historyPath, log)

	chain := subtensor.NewHTTPClient(cfg.Network.GatewayURL, cfg.Network.Name)
	wallet := subtensor.NewWalletSource(chain, cfg.Wallet.Coldkey, cfg.Wallet.Password)
	resolver := validators.NewResolver(cfg.Validators)
	allow := auth.New(cfg.Allowlist)
	errHandler := apperr.NewHandler(log, cfg.Sentry.Enabled)

	eng := engine.New(
		engine.Config{
			DefaultNetuid:    cfg.Defaults.Netuid,
			DefaultValidator: cfg.Defaults.Validator,
			ConfirmTTL:       cfg.Defaults.ConfirmTTL,
		},
		store,
		tradeLog,
		chain,
		wallet,
		resolver,
		allow,
		nil,
		errHandler,
		log,
	)

	// allowlist and validator edits take effect without a restart
	config.Watch(v, log, func(next *config.Config) {
		allow.Reload(next.Allowlist)
		resolver.Reload(next.Validators)
	})

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		memLimiter := ratelimit.NewMemoryLimiter()
		limiter = memLimiter

		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					memLimiter.Cleanup(time.Hour)
				}
			}
		}()
	}

	tgBot, err := bot.New(*cfg, eng, limiter, log)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	if cfg.Server.Port != "" && cfg.Bot.Mode != "webhook" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		srv := graceful.NewServer(log, &http.Server{
			Addr:    cfg.Server.Port,
			Handler: mux,
		}, cfg.Server.ShutdownTimeout)

		go func() {
			serverErr <- srv.ListenAndServe(ctx)
		}()
	}

	go tgBot.Start()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("metrics server failed", "error", err)
		}
	}

	tgBot.Stop()
	log.Info("stakechat bot stopped")

	return nil
}
