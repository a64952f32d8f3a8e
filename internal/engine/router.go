package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/intent"
	"github.com/stakechat/stakechat-bot/internal/pending"
)

var trailingJunkRE = regexp.MustCompile(`[^\w/]+$`)

// normalizeCommand canonicalizes the first token of the input: lowercase,
// leading slash and trailing punctuation stripped.
func normalizeCommand(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	token := strings.Fields(trimmed)[0]
	token = trailingJunkRE.ReplaceAllString(token, "")
	token = strings.TrimPrefix(token, "/")

	return strings.ToLower(token)
}

// Handle routes one inbound message. Precondition failures (unauthorized,
// nothing to confirm, insufficient balance) come back as responses, never as
// panics or escalated errors.
func (e *Engine) Handle(ctx context.Context, req Request) Response {
	if e.allow != nil && !e.allow.Allowed(req.Platform, req.UserID) {
		e.log.Warn("unauthorized request", "platform", req.Platform, "user_id", req.UserID)
		return Response{Text: "🚫 You are not authorized to use this bot."}
	}

	switch normalizeCommand(req.Text) {
	case "help", "start", "?":
		return helpResponse()
	case "balance", "portfolio":
		return e.balanceReport(ctx)
	case "confirm":
		return e.confirm(ctx, req.Key())
	}

	switch it := e.classify(req.Text).(type) {
	case intent.Help:
		return helpResponse()
	case intent.Privacy:
		return privacyResponse()
	case intent.Whoami:
		return whoamiResponse(req)
	case intent.Confirm:
		return e.confirm(ctx, req.Key())
	case intent.Stake:
		return e.handleStakeIntent(ctx, it, req.Key())
	case intent.Unknown:
		return unknownResponse()
	default:
		return unknownResponse()
	}
}

// Cancel drops the user's pending action, if any. Wired to the ❌ button.
func (e *Engine) Cancel(ctx context.Context, req Request) Response {
	if e.allow != nil && !e.allow.Allowed(req.Platform, req.UserID) {
		return Response{Text: "🚫 You are not authorized to use this bot."}
	}

	if _, err := e.pending.Pop(ctx, req.Key()); err != nil {
		if errors.Is(err, pending.ErrNoPending) {
			return Response{Text: "⏰ No pending action"}
		}
		return e.renderError(ctx, apperr.NewStorageError("pop", err))
	}

	return Response{Text: "❌ Cancelled"}
}

func (e *Engine) confirm(ctx context.Context, key string) Response {
	action, err := e.pending.Pop(ctx, key)
	if err != nil {
		if errors.Is(err, pending.ErrNoPending) {
			pendingRecorder("missed")
			return Response{Text: "⏰ No pending action"}
		}
		return e.renderError(ctx, apperr.NewStorageError("pop", err))
	}

	pendingRecorder("popped")
	return e.execute(ctx, action)
}

func (e *Engine) renderError(ctx context.Context, err error) Response {
	msg, _ := e.errHandler.Handle(ctx, err)
	return Response{Text: msg}
}

func helpResponse() Response {
	return Response{Text: "🦍 *StakeChat Commands*\n\n" +
		"`balance` — portfolio & PnL\n" +
		"`stake <amount> <netuid>` — stake τ into a subnet\n" +
		"`unstake <amount|all> <netuid>` — release stake\n" +
		"`confirm` — execute the pending action\n" +
		"`privacy` — data handling notice"}
}

func privacyResponse() Response {
	return Response{Text: "🔒 *Privacy*\n\n" +
		"Message content is not stored. Executed trades are kept in a " +
		"local history log; nothing leaves this machine."}
}

func whoamiResponse(req Request) Response {
	return Response{Text: fmt.Sprintf("👤 `%s`\nPlatform: `%s`\nID: `%s`",
		req.UserName, req.Platform, req.UserID)}
}

func unknownResponse() Response {
	return Response{Text: "❓ Unknown command.\nType `help`"}
}
