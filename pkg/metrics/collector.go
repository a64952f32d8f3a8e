package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stakechat/stakechat-bot/internal/engine"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	tradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trades_total",
			Help: "Total number of executed trades recorded in the ledger",
		},
		[]string{"type"},
	)
	pendingActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_actions_total",
			Help: "Pending-action store operations labeled by outcome",
		},
		[]string{"op"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
)

func init() {
	engine.RegisterTradeRecorder(RecordTrade)
	engine.RegisterPendingRecorder(RecordPending)
}

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordTrade counts one executed trade of the given type.
func RecordTrade(tradeType string) {
	if tradeType == "" {
		tradeType = "unknown"
	}

	tradesTotal.WithLabelValues(tradeType).Inc()
}

// RecordPending counts a pending-store operation outcome
// (saved, popped, missed).
func RecordPending(op string) {
	if op == "" {
		op = "unknown"
	}

	pendingActionsTotal.WithLabelValues(op).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}
