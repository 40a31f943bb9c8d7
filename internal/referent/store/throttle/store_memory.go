package throttle

import (
	"context"
	"sync"
	"time"

	id "ndoors/pkg/domain"
)

// InMemory is the single-process throttle used in tests and local runs.
type InMemory struct {
	mu      sync.Mutex
	claimed map[id.ReferentID]time.Time

	// Clock is overridable so window expiry can be tested without sleeping.
	Clock func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		claimed: make(map[id.ReferentID]time.Time),
		Clock:   time.Now,
	}
}

func (t *InMemory) Acquire(ctx context.Context, referentID id.ReferentID, window time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.Clock()
	if expiry, ok := t.claimed[referentID]; ok && now.Before(expiry) {
		return false, nil
	}
	t.claimed[referentID] = now.Add(window)
	return true, nil
}
