package ai

import (
	"sync"
	"time"
)

// Availability records, per provider, the instant before which the provider
// must not be attempted. State lives only as long as the tracker.
type Availability struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

// NewAvailability returns a tracker reading the clock from now (time.Now when nil).
func NewAvailability(now func() time.Time) *Availability {
	if now == nil {
		now = time.Now
	}
	return &Availability{until: make(map[string]time.Time), now: now}
}

// Available reports whether the current time is at or past the provider's skip-until.
func (a *Availability) Available(provider string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.now().Before(a.until[provider])
}

// Disable sets the provider's skip-until to now+window and returns it.
// A later call overwrites an earlier one.
func (a *Availability) Disable(provider string, window time.Duration) time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.now().Add(window)
	a.until[provider] = t
	return t
}

// Until returns the provider's skip-until, zero if never disabled.
func (a *Availability) Until(provider string) time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.until[provider]
}
