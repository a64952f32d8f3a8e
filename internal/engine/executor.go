package engine

import (
	"context"
	"fmt"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/ledger"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/subtensor"
)

// execute runs a freshly popped action. The store's pop-once guarantee means
// a duplicate confirm can never reach this path with the same action.
func (e *Engine) execute(ctx context.Context, action pending.Action) Response {
	wallet, err := e.wallet.Get(ctx)
	if err != nil {
		return e.renderError(ctx, err)
	}

	// never trust the balance shown at prompt time
	bal, err := e.chain.GetBalance(ctx, wallet)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("balance", err))
	}

	switch action.Kind {
	case pending.StakeConfirm:
		return e.executeStake(ctx, wallet, bal, action)
	case pending.UnstakeConfirm, pending.UnstakeAllConfirm:
		return e.executeUnstake(ctx, wallet, bal, action)
	default:
		e.log.Error("unknown pending action kind", "kind", action.Kind)
		return Response{Text: "❌ Unknown action"}
	}
}

func (e *Engine) executeStake(ctx context.Context, wallet *subtensor.Wallet, bal *subtensor.BalanceSnapshot, action pending.Action) Response {
	if bal.FreeTao < action.Amount {
		return Response{Text: fmt.Sprintf("❌ Not enough balance\n\n"+
			"Available: `%.6f τ`\n"+
			"Required: `%.6f τ`",
			bal.FreeTao, action.Amount)}
	}

	hotkey, err := e.resolver.Resolve(e.cfg.DefaultValidator)
	if err != nil {
		e.log.Error("validator hotkey unresolved", "validator", e.cfg.DefaultValidator, "error", err)
		return Response{Text: "❌ No validator hotkey configured.\n" +
			"Set `defaults.validator` in the bot config."}
	}

	result, err := e.chain.AddStake(ctx, wallet, action.Amount, action.Netuid, hotkey)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("add_stake", err))
	}

	if !result.OK {
		return Response{Text: fmt.Sprintf("❌ Stake failed\n\n`%s`", result.Message)}
	}

	record := ledger.Record{
		Type:        ledger.TradeStake,
		Netuid:      action.Netuid,
		TaoSpent:    result.TaoAmount,
		AlphaBought: result.AlphaAmount,
		Rate:        result.Rate,
	}
	if err := e.tradeLog.Append(ctx, record); err != nil {
		// the trade went through; say so instead of claiming failure
		e.log.Error("trade executed but not recorded", "type", "stake", "netuid", action.Netuid, "error", err)
		return Response{Text: fmt.Sprintf("⚠️ Stake executed (`%.4f τ` on subnet `%d`) "+
			"but recording it failed. Check the history log before retrying.",
			result.TaoAmount, action.Netuid)}
	}
	tradeRecorder("stake")

	return Response{Text: fmt.Sprintf("✅ *Stake Confirmed*\n\n"+
		"Subnet: `%d`\n"+
		"Spent: `%.4f τ`\n"+
		"Received: `%.6f α`\n"+
		"Entry Price: `%.6f τ/α`\n"+
		"Cost Basis: `%.4f τ`",
		action.Netuid, result.TaoAmount, result.AlphaAmount, result.Rate, result.TaoAmount)}
}

func (e *Engine) executeUnstake(ctx context.Context, wallet *subtensor.Wallet, bal *subtensor.BalanceSnapshot, action pending.Action) Response {
	staked, ok := bal.StakeValue(action.Netuid)
	if !ok || staked <= 0 {
		return Response{Text: fmt.Sprintf("❌ No stake on subnet `%d`", action.Netuid)}
	}

	amount := action.Amount
	if action.Kind == pending.UnstakeAllConfirm {
		amount = staked
	}

	if amount > staked {
		return Response{Text: fmt.Sprintf("❌ Not enough stake\n\n"+
			"Staked: `%.6f τ`\n"+
			"Requested: `%.6f τ`",
			staked, amount)}
	}

	hotkey, err := e.resolver.Resolve(e.cfg.DefaultValidator)
	if err != nil {
		e.log.Error("validator hotkey unresolved", "validator", e.cfg.DefaultValidator, "error", err)
		return Response{Text: "❌ No validator hotkey configured.\n" +
			"Set `defaults.validator` in the bot config."}
	}

	result, err := e.chain.RemoveStake(ctx, wallet, amount, action.Netuid, hotkey)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("remove_stake", err))
	}

	if !result.OK {
		return Response{Text: fmt.Sprintf("❌ Unstake failed\n\n`%s`", result.Message)}
	}

	record := ledger.Record{
		Type:        ledger.TradeUnstake,
		Netuid:      action.Netuid,
		AlphaSold:   result.AlphaAmount,
		TaoReceived: result.TaoAmount,
		Rate:        result.Rate,
	}
	if err := e.tradeLog.Append(ctx, record); err != nil {
		e.log.Error("trade executed but not recorded", "type", "unstake", "netuid", action.Netuid, "error", err)
		return Response{Text: fmt.Sprintf("⚠️ Unstake executed (`%.4f τ` from subnet `%d`) "+
			"but recording it failed. Check the history log before retrying.",
			result.TaoAmount, action.Netuid)}
	}
	tradeRecorder("unstake")

	return Response{Text: fmt.Sprintf("✅ *Unstake Confirmed*\n\n"+
		"Subnet: `%d`\n"+
		"Sold: `%.6f α`\n"+
		"Received: `%.4f τ`\n"+
		"Exit Price: `%.6f τ/α`",
		action.Netuid, result.AlphaAmount, result.TaoAmount, result.Rate)}
}
