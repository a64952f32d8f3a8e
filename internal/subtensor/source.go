package subtensor

import (
	"context"
	"sync"

	"github.com/stakechat/stakechat-bot/internal/apperr"
)

// WalletSource is the process-wide lazy wallet handle. The first successful
// load is cached for the process lifetime; concurrent first use performs at
// most one load. A failed load is not cached; the next request re-attempts,
// so a transient credential-store outage does not wedge the bot.
type WalletSource struct {
	client   Client
	coldkey  string
	password string

	mu     sync.Mutex
	wallet *Wallet
}

// NewWalletSource builds a source for the configured coldkey.
func NewWalletSource(client Client, coldkey, password string) *WalletSource {
	return &WalletSource{
		client:   client,
		coldkey:  coldkey,
		password: password,
	}
}

// Get returns the cached wallet, loading it on first use.
func (s *WalletSource) Get(ctx context.Context) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wallet != nil {
		return s.wallet, nil
	}

	wallet, err := s.client.LoadWallet(ctx, s.coldkey, s.password)
	if err != nil {
		return nil, apperr.NewWalletError(s.coldkey, err)
	}

	s.wallet = wallet
	return wallet, nil
}
