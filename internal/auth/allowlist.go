// Package auth gates access to the bot with per-platform allow-lists.
package auth

import "sync"

// Allowlist holds the set of user IDs allowed per platform. A platform with
// no configured list does not enforce, everyone is allowed. The list is
// hot-reloadable, so lookups take a read lock.
type Allowlist struct {
	mu        sync.RWMutex
	platforms map[string]map[string]struct{}
}

// New builds an allow-list from the configured platform→users map.
func New(cfg map[string][]string) *Allowlist {
	a := &Allowlist{}
	a.Reload(cfg)
	return a
}

// Reload atomically replaces the configured lists.
func (a *Allowlist) Reload(cfg map[string][]string) {
	platforms := make(map[string]map[string]struct{}, len(cfg))
	for platform, users := range cfg {
		if len(users) == 0 {
			continue
		}

		set := make(map[string]struct{}, len(users))
		for _, u := range users {
			set[u] = struct{}{}
		}
		platforms[platform] = set
	}

	a.mu.Lock()
	a.platforms = platforms
	a.mu.Unlock()
}

// Allowed reports whether userID may use the bot on platform.
func (a *Allowlist) Allowed(platform, userID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	set, enforced := a.platforms[platform]
	if !enforced {
		return true
	}

	_, ok := set[userID]
	return ok
}
