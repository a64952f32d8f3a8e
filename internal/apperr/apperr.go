// Package apperr defines the application error taxonomy for failures that
// escalate past the engine: unloadable wallets, broken config, chain and
// storage faults. Financial-precondition failures (unauthorized, no pending
// action, insufficient balance) are rendered as responses inside the engine
// and never become errors.
package apperr

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewConfigError marks required configuration as missing or invalid.
func NewConfigError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "⚙️ The bot is misconfigured. Ask the operator to check the config.",
		Severity:    SeverityCritical,
		Retryable:   false,
	}
}

// NewWalletError marks a failed wallet load. The handle stays uncached, so
// the next request re-attempts the load.
func NewWalletError(coldkey string, cause error) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("load wallet %q: %v", coldkey, cause),
		UserMessage: "🔐 Wallet unavailable. Try again in a moment.",
		Severity:    SeverityCritical,
		Retryable:   true,
		cause:       cause,
	}
}

// NewChainError wraps a failure from the chain collaborator (balance query,
// rate query, submission transport).
func NewChainError(op string, cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E300",
		Message:     fmt.Sprintf("chain %s: %s", op, underlyingMsg),
		UserMessage: "📡 Network unavailable. Try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStorageError wraps a failure of the pending store or the trade ledger.
func NewStorageError(op string, cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("storage %s: %s", op, underlyingMsg),
		UserMessage: "💾 Temporary storage problem. Try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}
