package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/stakechat/stakechat-bot/internal/apperr"
	"github.com/stakechat/stakechat-bot/internal/ledger"
)

// balanceReport folds the trade ledger against a live balance snapshot into
// cost basis, realized and unrealized PnL, and ROI. Read-only: nothing in
// this path mutates state.
func (e *Engine) balanceReport(ctx context.Context) Response {
	wallet, err := e.wallet.Get(ctx)
	if err != nil {
		return e.renderError(ctx, err)
	}

	bal, err := e.chain.GetBalance(ctx, wallet)
	if err != nil {
		return e.renderError(ctx, apperr.NewChainError("balance", err))
	}

	records, err := e.tradeLog.ReadAll(ctx)
	if err != nil {
		return e.renderError(ctx, apperr.NewStorageError("read", err))
	}

	var cost, realized float64
	for _, r := range records {
		switch r.Type {
		case ledger.TradeStake:
			cost += r.TaoSpent
		case ledger.TradeUnstake:
			realized += r.TaoReceived
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🦍 *Portfolio*\n\nFree Balance: `%.4f τ`", bal.FreeTao)

	// a user with no stake history sees only the free balance
	if cost > 0 {
		var value float64
		for _, s := range bal.Stakes {
			value += s.TaoValue
		}

		unrealized := value - cost
		pnl := unrealized + realized
		roi := 100 * pnl / cost

		fmt.Fprintf(&b, "\nStaked Value: `%.4f τ`", value)
		fmt.Fprintf(&b, "\nCost Basis: `%.4f τ`", cost)
		fmt.Fprintf(&b, "\nUnrealized PnL: `%.4f τ`", unrealized)
		fmt.Fprintf(&b, "\nRealized PnL: `%.4f τ`", realized)
		fmt.Fprintf(&b, "\nTotal PnL: `%.4f τ`", pnl)
		fmt.Fprintf(&b, "\nROI: `%.2f%%`", roi)
	}

	return Response{Text: b.String()}
}
