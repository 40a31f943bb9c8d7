package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowEvictsIdleKeys(t *testing.T) {
	sw := newSlidingWindow(5, time.Minute)
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("10.0.0.%d:1234", i)
		allowed, _ := sw.allow(key, start.Add(time.Duration(i)*time.Millisecond))
		assert.True(t, allowed)
	}
	assert.NotEmpty(t, sw.buckets)

	// Once every timestamp has aged out, the next request sweeps the map
	// down to just the active caller.
	allowed, _ := sw.allow("10.0.0.200:1234", start.Add(2*time.Minute))
	assert.True(t, allowed)
	assert.Len(t, sw.buckets, 1)
}

func TestSlidingWindowSweepKeepsActiveKeys(t *testing.T) {
	sw := newSlidingWindow(5, time.Minute)
	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	sw.allow("idle:1", start)
	sw.allow("busy:1", start.Add(40*time.Second))

	// A full window past the last sweep: this call sweeps and must keep the
	// key with traffic still inside the window.
	sw.allow("busy:1", start.Add(90*time.Second))

	_, hasIdle := sw.buckets["idle:1"]
	assert.False(t, hasIdle)
	_, hasBusy := sw.buckets["busy:1"]
	assert.True(t, hasBusy)
}
