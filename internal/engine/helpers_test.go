package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stakechat/stakechat-bot/internal/auth"
	"github.com/stakechat/stakechat-bot/internal/ledger"
	"github.com/stakechat/stakechat-bot/internal/pending"
	"github.com/stakechat/stakechat-bot/internal/subtensor"
	"github.com/stakechat/stakechat-bot/internal/validators"
)

const testHotkey = "5Hddm3iBFD2GLT5ik7LZnT3XJUnRnN8PoeCFgGQgawUtKxg"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stakeCall struct {
	tao    float64
	netuid int
	hotkey string
}

// fakeChain is a scriptable subtensor.Client.
type fakeChain struct {
	mu sync.Mutex

	loadErr    error
	balance    subtensor.BalanceSnapshot
	balanceErr error
	rate       float64
	rateErr    error

	addResult    subtensor.StakeResult
	addErr       error
	removeResult subtensor.StakeResult
	removeErr    error

	loads       int
	addCalls    []stakeCall
	removeCalls []stakeCall
}

func (f *fakeChain) LoadWallet(ctx context.Context, coldkeyName, password string) (*subtensor.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return &subtensor.Wallet{Coldkey: coldkeyName, Address: "5Fake"}, nil
}

func (f *fakeChain) GetBalance(ctx context.Context, wallet *subtensor.Wallet) (*subtensor.BalanceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	snapshot := f.balance
	return &snapshot, nil
}

func (f *fakeChain) GetExchangeRate(ctx context.Context, netuid int) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rateErr != nil {
		return 0, f.rateErr
	}
	return f.rate, nil
}

func (f *fakeChain) AddStake(ctx context.Context, wallet *subtensor.Wallet, tao float64, netuid int, hotkey string) (*subtensor.StakeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.addCalls = append(f.addCalls, stakeCall{tao: tao, netuid: netuid, hotkey: hotkey})
	if f.addErr != nil {
		return nil, f.addErr
	}
	result := f.addResult
	return &result, nil
}

func (f *fakeChain) RemoveStake(ctx context.Context, wallet *subtensor.Wallet, tao float64, netuid int, hotkey string) (*subtensor.StakeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removeCalls = append(f.removeCalls, stakeCall{tao: tao, netuid: netuid, hotkey: hotkey})
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	result := f.removeResult
	return &result, nil
}

// memLog is an in-memory ledger.Log double preserving the append-is-durable
// contract trivially.
type memLog struct {
	mu        sync.Mutex
	records   []ledger.Record
	appendErr error
}

func (m *memLog) Append(ctx context.Context, record ledger.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memLog) ReadAll(ctx context.Context) ([]ledger.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ledger.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memLog) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// spyStore counts store mutations on top of a real MemoryStore.
type spyStore struct {
	inner *pending.MemoryStore
	mu    sync.Mutex
	saves int
	pops  int
}

func newSpyStore() *spyStore {
	return &spyStore{inner: pending.NewMemoryStore()}
}

func (s *spyStore) Save(ctx context.Context, key string, action pending.Action, ttl time.Duration) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.inner.Save(ctx, key, action, ttl)
}

func (s *spyStore) Pop(ctx context.Context, key string) (pending.Action, error) {
	s.mu.Lock()
	s.pops++
	s.mu.Unlock()
	return s.inner.Pop(ctx, key)
}

func (s *spyStore) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves + s.pops
}

type testEnv struct {
	engine *Engine
	chain  *fakeChain
	store  *spyStore
	trades *memLog
}

type envOption func(*testEnv)

func withAllowlist(cfg map[string][]string) envOption {
	return func(env *testEnv) {
		env.engine.allow = auth.New(cfg)
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	chain := &fakeChain{
		balance: subtensor.BalanceSnapshot{FreeTao: 100},
		rate:    0.05,
		addResult: subtensor.StakeResult{
			OK: true, TaoAmount: 10, AlphaAmount: 200, Rate: 0.05,
		},
		removeResult: subtensor.StakeResult{
			OK: true, TaoAmount: 5, AlphaAmount: 100, Rate: 0.05,
		},
	}
	store := newSpyStore()
	trades := &memLog{}

	env := &testEnv{
		chain:  chain,
		store:  store,
		trades: trades,
	}

	env.engine = New(
		Config{DefaultNetuid: 19, DefaultValidator: "taostats"},
		store,
		trades,
		chain,
		subtensor.NewWalletSource(chain, "default", "pw"),
		validators.NewResolver(map[string]string{"taostats": testHotkey}),
		auth.New(nil),
		nil,
		nil,
		testLogger(),
	)

	for _, opt := range opts {
		opt(env)
	}

	return env
}

func userRequest(text string) Request {
	return Request{
		Platform: "telegram",
		UserID:   "42",
		UserName: "alice",
		ChatID:   "42",
		Text:     text,
	}
}
