package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkThenLookup(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistryWithClock(func() time.Time { return now })

	r.MarkInFlight("card-play-1-10", 500*time.Millisecond)
	assert.True(t, r.InFlight("card-play-1-10"))
	assert.False(t, r.InFlight("card-play-2-10"))
}

func TestExpiryAfterTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistryWithClock(func() time.Time { return now })

	r.MarkInFlight("k", 500*time.Millisecond)
	assert.True(t, r.InFlight("k"))

	now = now.Add(499 * time.Millisecond)
	assert.True(t, r.InFlight("k"), "still inside the window")

	now = now.Add(time.Millisecond)
	assert.False(t, r.InFlight("k"), "exactly at expiry counts as done")
	assert.False(t, r.InFlight("k"))
}

func TestRemarkExtendsWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistryWithClock(func() time.Time { return now })

	r.MarkInFlight("k", 100*time.Millisecond)
	now = now.Add(80 * time.Millisecond)
	r.MarkInFlight("k", 100*time.Millisecond)
	now = now.Add(80 * time.Millisecond)

	assert.True(t, r.InFlight("k"))
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	r.MarkInFlight("a", time.Minute)
	r.MarkInFlight("b", time.Minute)
	r.Clear()
	assert.False(t, r.InFlight("a"))
	assert.False(t, r.InFlight("b"))
}
