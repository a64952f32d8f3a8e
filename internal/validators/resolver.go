// Package validators maps friendly validator names to hotkey addresses.
package validators

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownValidator indicates that no hotkey is configured for the name.
var ErrUnknownValidator = errors.New("unknown validator")

// Resolver looks up validator hotkeys from the configured name-to-SS58 map.
// It is safe for concurrent use; Reload swaps the map atomically.
type Resolver struct {
	mu      sync.RWMutex
	hotkeys map[string]string
}

// NewResolver builds a resolver over the configured validator map. Names are
// matched case-insensitively.
func NewResolver(hotkeys map[string]string) *Resolver {
	r := &Resolver{}
	r.Reload(hotkeys)
	return r
}

// Reload replaces the validator map, typically after a config file change.
func (r *Resolver) Reload(hotkeys map[string]string) {
	normalized := make(map[string]string, len(hotkeys))
	for name, hotkey := range hotkeys {
		normalized[strings.ToLower(name)] = hotkey
	}

	r.mu.Lock()
	r.hotkeys = normalized
	r.mu.Unlock()
}

// Resolve returns the hotkey for name. A name that already looks like an
// SS58 address is passed through untouched.
func (r *Resolver) Resolve(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownValidator)
	}

	r.mu.RLock()
	hotkey, ok := r.hotkeys[strings.ToLower(trimmed)]
	r.mu.RUnlock()
	if ok {
		return hotkey, nil
	}

	// SS58 addresses are long and never collide with configured aliases.
	if len(trimmed) >= 40 {
		return trimmed, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownValidator, trimmed)
}
