package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakechat/stakechat-bot/internal/ledger"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/subtensor"
)

const testKey = "telegram:42"

func savePending(t *testing.T, env *testEnv, action pending.Action) {
	t.Helper()
	require.NoError(t, env.store.Save(context.Background(), testKey, action, time.Minute))
}

func TestExecuteStake_Success(t *testing.T) {
	env := newTestEnv(t)
	env.chain.addResult = subtensor.StakeResult{
		OK: true, TaoAmount: 10, AlphaAmount: 196.7, Rate: 0.0508,
	}
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "Stake Confirmed")
	assert.Contains(t, resp.Text, "`3`")
	assert.Contains(t, resp.Text, "10.0000 τ")
	assert.Contains(t, resp.Text, "196.700000 α")
	assert.Contains(t, resp.Text, "0.050800 τ/α")

	require.Len(t, env.chain.addCalls, 1)
	assert.Equal(t, stakeCall{tao: 10, netuid: 3, hotkey: testHotkey}, env.chain.addCalls[0])

	records, err := env.trades.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ledger.TradeStake, records[0].Type)
	assert.Equal(t, 3, records[0].Netuid)
	assert.Equal(t, 10.0, records[0].TaoSpent)
	assert.Equal(t, 196.7, records[0].AlphaBought)
	assert.Equal(t, 0.0508, records[0].Rate)
}

func TestExecuteStake_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	env.chain.balance.FreeTao = 2.5
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "Not enough balance")
	assert.Contains(t, resp.Text, "2.500000 τ")
	assert.Contains(t, resp.Text, "10.000000 τ")

	// funds are re-checked at execution time, nothing reaches the chain
	assert.Empty(t, env.chain.addCalls)
	assert.Equal(t, 0, env.trades.len())
}

func TestExecuteStake_ChainRejection(t *testing.T) {
	env := newTestEnv(t)
	env.chain.addResult = subtensor.StakeResult{OK: false, Message: "subnet 3 is frozen"}
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "Stake failed")
	assert.Contains(t, resp.Text, "subnet 3 is frozen")
	assert.Equal(t, 0, env.trades.len())
}

func TestExecuteStake_UnresolvedValidator(t *testing.T) {
	env := newTestEnv(t)
	env.engine.cfg.DefaultValidator = "nobody"
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "No validator hotkey configured")
	assert.Empty(t, env.chain.addCalls)
	assert.Equal(t, 0, env.trades.len())
}

func TestExecuteStake_RecordingFailure(t *testing.T) {
	env := newTestEnv(t)
	env.trades.appendErr = errors.New("disk full")
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	// the trade went through, the response must not claim otherwise
	assert.Contains(t, resp.Text, "Stake executed")
	assert.Contains(t, resp.Text, "recording it failed")
	assert.Len(t, env.chain.addCalls, 1)
}

func TestExecuteUnstake_Success(t *testing.T) {
	env := newTestEnv(t)
	env.chain.balance.Stakes = []subtensor.StakeEntry{{Netuid: 3, TaoValue: 50}}
	env.chain.removeResult = subtensor.StakeResult{
		OK: true, TaoAmount: 4.2, AlphaAmount: 82.6, Rate: 0.0508,
	}
	savePending(t, env, pending.Action{Kind: pending.UnstakeConfirm, Amount: 4, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "Unstake Confirmed")
	assert.Contains(t, resp.Text, "82.600000 α")
	assert.Contains(t, resp.Text, "4.2000 τ")

	require.Len(t, env.chain.removeCalls, 1)
	assert.Equal(t, stakeCall{tao: 4, netuid: 3, hotkey: testHotkey}, env.chain.removeCalls[0])

	records, err := env.trades.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ledger.TradeUnstake, records[0].Type)
	assert.Equal(t, 82.6, records[0].AlphaSold)
	assert.Equal(t, 4.2, records[0].TaoReceived)
}

func TestExecuteUnstakeAll_UsesFullStakedValue(t *testing.T) {
	env := newTestEnv(t)
	env.chain.balance.Stakes = []subtensor.StakeEntry{{Netuid: 3, TaoValue: 50}}
	savePending(t, env, pending.Action{Kind: pending.UnstakeAllConfirm, Netuid: 3})

	env.engine.Handle(context.Background(), userRequest("confirm"))

	require.Len(t, env.chain.removeCalls, 1)
	assert.Equal(t, 50.0, env.chain.removeCalls[0].tao)
}

func TestExecuteUnstake_NoStakeOnSubnet(t *testing.T) {
	env := newTestEnv(t)
	savePending(t, env, pending.Action{Kind: pending.UnstakeConfirm, Amount: 4, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "No stake on subnet `3`")
	assert.Empty(t, env.chain.removeCalls)
}

func TestExecuteUnstake_MoreThanStaked(t *testing.T) {
	env := newTestEnv(t)
	env.chain.balance.Stakes = []subtensor.StakeEntry{{Netuid: 3, TaoValue: 2}}
	savePending(t, env, pending.Action{Kind: pending.UnstakeConfirm, Amount: 4, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))

	assert.Contains(t, resp.Text, "Not enough stake")
	assert.Contains(t, resp.Text, "2.000000 τ")
	assert.Contains(t, resp.Text, "4.000000 τ")
	assert.Empty(t, env.chain.removeCalls)
}

func TestExecute_WalletLoadFailureIsRetryable(t *testing.T) {
	env := newTestEnv(t)
	env.chain.loadErr = errors.New("keystore locked")
	savePending(t, env, pending.Action{Kind: pending.StakeConfirm, Amount: 10, Netuid: 3})

	resp := env.engine.Handle(context.Background(), userRequest("confirm"))
	assert.Contains(t, resp.Text, "Wallet unavailable")

	// failed load is not cached; the action itself is spent though
	env.chain.mu.Lock()
	env.chain.loadErr = nil
	env.chain.mu.Unlock()

	resp = env.engine.Handle(context.Background(), userRequest("stake 1 3"))
	assert.Contains(t, resp.Text, "Confirm Stake")
}
