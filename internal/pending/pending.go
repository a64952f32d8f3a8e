// Package pending holds at most one outstanding confirmable action per user,
// with TTL-based expiry. An expired action and an absent action are
// indistinguishable to callers: both surface as ErrNoPending.
package pending

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNoPending indicates that the user has no live action to confirm.
var ErrNoPending = errors.New("no pending action")

// Kind identifies the operation a pending action will execute once confirmed.
type Kind string

const (
	// StakeConfirm stakes Amount τ into subnet Netuid.
	StakeConfirm Kind = "stake_confirm"
	// UnstakeConfirm releases Amount τ of stake from subnet Netuid.
	UnstakeConfirm Kind = "unstake_confirm"
	// UnstakeAllConfirm releases the entire stake on subnet Netuid.
	UnstakeAllConfirm Kind = "unstake_all_confirm"
)

// Action is a confirmable operation awaiting the user's explicit approval.
// It carries only the parameters, never the quote shown at prompt time;
// balance and rate are re-fetched at execution.
type Action struct {
	Kind      Kind      `json:"kind"`
	Amount    float64   `json:"amount,omitempty"`
	Netuid    int       `json:"netuid"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token renders the opaque callback payload embedded in confirmation
// buttons, e.g. "stake_confirm:10:3". The server matches on the user key,
// not the token, so the token is informational on the wire.
func (a Action) Token() string {
	if a.Kind == UnstakeAllConfirm {
		return fmt.Sprintf("%s:%d", a.Kind, a.Netuid)
	}
	return fmt.Sprintf("%s:%s:%d", a.Kind, strconv.FormatFloat(a.Amount, 'f', -1, 64), a.Netuid)
}

// Store keeps one pending action per user key.
type Store interface {
	// Save unconditionally replaces any existing entry for key. The new
	// entry expires ttl from now.
	Save(ctx context.Context, key string, action Action, ttl time.Duration) error
	// Pop removes and returns the entry for key if it is still live, and
	// ErrNoPending otherwise. The slot is cleared even when the entry had
	// already expired, so a stale action can never resurface.
	Pop(ctx context.Context, key string) (Action, error)
}
