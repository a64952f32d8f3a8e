// Package ledger records executed trades in an append-only history log. The
// log is the sole durable evidence a trade occurred: an append must hit disk
// before the user sees a success message.
package ledger

import (
	"context"
	"time"
)

// TradeType labels the direction of a recorded trade.
type TradeType string

const (
	TradeStake   TradeType = "stake"
	TradeUnstake TradeType = "unstake"
)

// Record is one executed trade. Amounts are the values actually executed on
// chain, not the preview the user confirmed against. Records are immutable
// once written.
type Record struct {
	Type        TradeType `json:"type"`
	Netuid      int       `json:"netuid"`
	TaoSpent    float64   `json:"tao_spent,omitempty"`
	AlphaBought float64   `json:"alpha_bought,omitempty"`
	AlphaSold   float64   `json:"alpha_sold,omitempty"`
	TaoReceived float64   `json:"tao_received,omitempty"`
	Rate        float64   `json:"rate"`
	Timestamp   time.Time `json:"timestamp"`
}

// Log is the append-only history collaborator.
type Log interface {
	// Append durably writes one record. It returns only after the record
	// is safe on the backing medium.
	Append(ctx context.Context, record Record) error
	// ReadAll returns every decodable record in append order. Malformed
	// entries are skipped, never fatal.
	ReadAll(ctx context.Context) ([]Record, error)
}
