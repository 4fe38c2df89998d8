// Package anim is a keyed, timed in-flight registry. Presentation callbacks
// consult it to avoid producing two concurrent visual effects for the same
// logical event; protocol handlers never do.
package anim

import (
	"fmt"
	"sync"
	"time"

	"github.com/caracaca/caracaca-client/pkg/types"
)

// DefaultTTL matches the length of a card-play effect.
const DefaultTTL = time.Second

// Registry maps event keys to expiry instants. Entries expire on their own;
// there are no per-entry goroutines, so teardown has nothing to cancel. The
// clock is injectable so expiry is testable without real timers.
type Registry struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
}

func NewRegistry() *Registry {
	return NewRegistryWithClock(time.Now)
}

func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{now: now, entries: make(map[string]time.Time)}
}

// MarkInFlight records key as in flight for ttl. Marking an existing key
// extends its window.
func (r *Registry) MarkInFlight(key string, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.entries[key] = r.now().Add(ttl)
}

// InFlight reports whether key is currently in flight.
func (r *Registry) InFlight(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.entries[key]
	if !ok {
		return false
	}
	if !r.now().Before(expiry) {
		delete(r.entries, key)
		return false
	}
	return true
}

// Clear drops every entry. Called on session teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]time.Time)
}

func (r *Registry) sweepLocked() {
	now := r.now()
	for k, expiry := range r.entries {
		if !now.Before(expiry) {
			delete(r.entries, k)
		}
	}
}

// PlayKey is the event key for a card-play effect.
func PlayKey(playerID, cardID types.FlexID) string {
	return fmt.Sprintf("card-play-%s-%s", playerID, cardID)
}

// DispatchKey is the event key guarding repeat submission of one card.
func DispatchKey(cardID types.FlexID) string {
	return fmt.Sprintf("dispatch-%s", cardID)
}
