package engine

import (
	"context"
	"fmt"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/intent"
	"github.com/stakechat/stakechat-bot/internal/pending"
)

// handleStakeIntent turns a parsed staking instruction into a pending action
// plus a confirmation prompt. It never writes the ledger.
func (e *Engine) handleStakeIntent(ctx context.Context, st intent.Stake, key string) Response {
	netuid := e.cfg.DefaultNetuid
	if st.HasNetuid {
		netuid = st.Netuid
	}

	if st.Op == intent.OpAdd {
		if st.Amount <= 0 {
			return Response{Text: "❓ Stake amount must be positive.\nExample: `stake 10 3`"}
		}
		return e.promptStake(ctx, st.Amount, netuid, key)
	}

	if st.All {
		return e.promptUnstakeAll(ctx, netuid, key)
	}
	return e.promptUnstake(ctx, st.Amount, netuid, key)
}

// promptStake computes an ephemeral quote, saves the pending action and
// renders the confirmation dialog. The quote itself is never stored:
// execution re-fetches balance and rate.
func (e *Engine) promptStake(ctx context.Context, amount float64, netuid int, key string) Response {
	wallet, err := e.wallet.Get(ctx)
	if err != nil {
		return e.renderError(ctx, err)
	}

	bal, err := e.chain.GetBalance(ctx, wallet)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("balance", err))
	}

	rate, err := e.chain.GetExchangeRate(ctx, netuid)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("rate", err))
	}

	estAlpha := 0.0
	if rate > 0 {
		estAlpha = amount / rate
	}

	action := pending.Action{Kind: pending.StakeConfirm, Amount: amount, Netuid: netuid}
	if err := e.pending.Save(ctx, key, action, e.confirmTTL()); err != nil {
		return e.renderError(ctx, apperr.NewStorageError("save", err))
	}
	pendingRecorder("saved")

	text := fmt.Sprintf("⚠️ *Confirm Stake*\n\n"+
		"Subnet: `%d`\n"+
		"Amount: `%.4f τ`\n"+
		"Available: `%.4f τ`\n"+
		"Rate: `%.6f τ/α`\n"+
		"Est. Received: `%.6f α`\n\n"+
		"ℹ️ Final execution price may vary slightly\n"+
		"due to subnet price impact / slippage.",
		netuid, amount, bal.FreeTao, rate, estAlpha)

	return Response{Text: text, Buttons: confirmCancelButtons(action.Token())}
}

// Unstake prompts skip the price preview: release proceeds are whatever the
// chain pays out, so there is no quote to go stale.
func (e *Engine) promptUnstake(ctx context.Context, amount float64, netuid int, key string) Response {
	action := pending.Action{Kind: pending.UnstakeConfirm, Amount: amount, Netuid: netuid}
	if err := e.pending.Save(ctx, key, action, e.confirmTTL()); err != nil {
		return e.renderError(ctx, apperr.NewStorageError("save", err))
	}
	pendingRecorder("saved")

	text := fmt.Sprintf("⚠️ *Confirm Unstake*\n\n"+
		"Subnet: `%d`\n"+
		"Amount: `%.4f τ`",
		netuid, amount)

	return Response{Text: text, Buttons: confirmCancelButtons(action.Token())}
}

func (e *Engine) promptUnstakeAll(ctx context.Context, netuid int, key string) Response {
	action := pending.Action{Kind: pending.UnstakeAllConfirm, Netuid: netuid}
	if err := e.pending.Save(ctx, key, action, e.confirmTTL()); err != nil {
		return e.renderError(ctx, apperr.NewStorageError("save", err))
	}
	pendingRecorder("saved")

	text := fmt.Sprintf("🚨 *Confirm Unstake ALL*\n\n"+
		"Subnet: `%d`\n"+
		"This releases your entire stake on the subnet.",
		netuid)

	return Response{Text: text, Buttons: confirmCancelButtons(action.Token())}
}
