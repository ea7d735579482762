package config

import (
	"sort"
	"sync"
)

// FlagTracker records which command-line flags the user set explicitly, so that
// configuration file values are only overridden by flags that were actually given.
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates a tracker seeded with flags. The map is copied.
func NewFlagTracker(flags map[string]bool) *FlagTracker {
	copied := make(map[string]bool, len(flags))
	for k, v := range flags {
		if v {
			copied[k] = true
		}
	}
	return &FlagTracker{flags: copied}
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(name string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[name] = true
}

// WasSet reports whether the flag was explicitly set
func (ft *FlagTracker) WasSet(name string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[name]
}

// AnySet reports whether at least one of names was explicitly set
func (ft *FlagTracker) AnySet(names ...string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	for _, name := range names {
		if ft.flags[name] {
			return true
		}
	}
	return false
}

// Names returns the explicitly set flags in sorted order
func (ft *FlagTracker) Names() []string {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	names := make([]string, 0, len(ft.flags))
	for name := range ft.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pick returns override when the flag was set and base otherwise
func Pick[T any](ft *FlagTracker, base, override T, name string) T {
	if ft.WasSet(name) {
		return override
	}
	return base
}
