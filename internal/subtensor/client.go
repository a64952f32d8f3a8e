// Package subtensor defines the contract to the wallet/chain collaborator.
// Key management, signing and transaction submission live behind Client;
// this module only consumes balances, rates and stake results.
package subtensor

import "context"

// Wallet is an opaque handle to a loaded signing identity.
type Wallet struct {
	Coldkey string `json:"coldkey"`
	Address string `json:"address"`
}

// StakeEntry is the current τ valuation of one subnet position.
type StakeEntry struct {
	Netuid   int     `json:"netuid"`
	TaoValue float64 `json:"tao_value"`
}

// BalanceSnapshot is a point-in-time view of a wallet. It goes stale the
// moment it is returned; anything that moves money must re-fetch one.
type BalanceSnapshot struct {
	FreeTao float64      `json:"free_tao"`
	Stakes  []StakeEntry `json:"stakes"`
}

// StakeValue returns the τ valuation of the position on netuid and whether
// one exists.
func (b *BalanceSnapshot) StakeValue(netuid int) (float64, bool) {
	for _, s := range b.Stakes {
		if s.Netuid == netuid {
			return s.TaoValue, true
		}
	}
	return 0, false
}

// StakeResult reports the outcome of a stake or unstake submission. The
// amounts are the values actually executed on chain, which may differ from
// any preview due to slippage.
type StakeResult struct {
	OK          bool    `json:"ok"`
	Message     string  `json:"message"`
	TaoAmount   float64 `json:"tao_amount"`
	AlphaAmount float64 `json:"alpha_amount"`
	Rate        float64 `json:"rate"`
}

// Client is the wallet/chain collaborator. Implementations own their network
// timeouts; failures propagate to the caller as-is.
type Client interface {
	// LoadWallet unlocks the named coldkey. It fails with a credential or
	// config error when the wallet is absent.
	LoadWallet(ctx context.Context, coldkeyName, password string) (*Wallet, error)
	// GetBalance returns a fresh snapshot of free balance and stakes.
	GetBalance(ctx context.Context, wallet *Wallet) (*BalanceSnapshot, error)
	// GetExchangeRate returns τ per α for the subnet. A rate of 0 means
	// the rate is unavailable, not free.
	GetExchangeRate(ctx context.Context, netuid int) (float64, error)
	// AddStake stakes tao τ on netuid against the given validator hotkey.
	AddStake(ctx context.Context, wallet *Wallet, tao float64, netuid int, hotkey string) (*StakeResult, error)
	// RemoveStake releases tao τ worth of stake from netuid.
	RemoveStake(ctx context.Context, wallet *Wallet, tao float64, netuid int, hotkey string) (*StakeResult, error)
}
