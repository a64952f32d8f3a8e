// Package engine implements the transaction-safety core of the bot: command
// routing, the confirmation gate in front of every irreversible operation,
// stake execution with re-validated preconditions, and portfolio accounting
// over the trade ledger.
package engine

import (
	"log/slog"
	"time"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/auth"
	"github.com/stakechat/stakechat-bot/internal/intent"
	"github.com/stakechat/stakechat-bot/internal/ledger"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/subtensor"
	"github.com/stakechat/stakechat-bot/internal/validators"
)

const defaultConfirmTTL = 30 * time.Second

var (
	tradeRecorder   = func(tradeType string) {}
	pendingRecorder = func(op string) {}
)

// RegisterTradeRecorder allows external packages to observe executed trades.
func RegisterTradeRecorder(recorder func(tradeType string)) {
	if recorder == nil {
		tradeRecorder = func(string) {}
		return
	}

	tradeRecorder = recorder
}

// RegisterPendingRecorder allows external packages to observe pending-store
// activity (saved, popped, missed).
func RegisterPendingRecorder(recorder func(op string)) {
	if recorder == nil {
		pendingRecorder = func(string) {}
		return
	}

	pendingRecorder = recorder
}

// Config carries the staking defaults the engine needs at runtime.
type Config struct {
	// DefaultNetuid is used when a staking intent omits the subnet.
	DefaultNetuid int
	// DefaultValidator names the hotkey (or alias) stake is delegated to.
	DefaultValidator string
	// ConfirmTTL bounds how long a quoted action stays confirmable.
	// Zero means the 30-second default.
	ConfirmTTL time.Duration
}

// Engine is the chat-facing transaction core. It is safe for concurrent use;
// the pending store and wallet source own all shared mutable state.
type Engine struct {
	cfg        Config
	pending    pending.Store
	tradeLog   ledger.Log
	chain      subtensor.Client
	wallet     *subtensor.WalletSource
	resolver   *validators.Resolver
	allow      *auth.Allowlist
	classify   func(string) intent.Intent
	errHandler *apperr.Handler
	log        *slog.Logger
}

// New wires an Engine from its collaborators. A nil classify falls back to
// the built-in text classifier.
func New(
	cfg Config,
	store pending.Store,
	tradeLog ledger.Log,
	chain subtensor.Client,
	wallet *subtensor.WalletSource,
	resolver *validators.Resolver,
	allow *auth.Allowlist,
	classify func(string) intent.Intent,
	errHandler *apperr.Handler,
	log *slog.Logger,
) *Engine {
	if classify == nil {
		classify = intent.Parse
	}
	if log == nil {
		log = slog.Default()
	}
	if errHandler == nil {
		errHandler = apperr.NewHandler(log, false)
	}

	return &Engine{
		cfg:        cfg,
		pending:    store,
		tradeLog:   tradeLog,
		chain:      chain,
		wallet:     wallet,
		resolver:   resolver,
		allow:      allow,
		classify:   classify,
		errHandler: errHandler,
		log:        log,
	}
}

func (e *Engine) confirmTTL() time.Duration {
	if e.cfg.ConfirmTTL > 0 {
		return e.cfg.ConfirmTTL
	}
	return defaultConfirmTTL
}
