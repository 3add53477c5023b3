package lease

import (
	"context"
	"sync"
	"time"
)

type held struct {
	expiresAt time.Time
}

// Memory implements Lease in-process, used for single-node runs and tests.
type Memory struct {
	mu     sync.Mutex
	leases map[string]held

	// AcquireErr injects an acquire failure for tests.
	AcquireErr error
}

// NewMemory creates an empty in-memory lease table.
func NewMemory() *Memory {
	return &Memory{leases: make(map[string]held)}
}

func (m *Memory) Acquire(_ context.Context, externalID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	if h, ok := m.leases[externalID]; ok && time.Now().Before(h.expiresAt) {
		return false, nil
	}
	m.leases[externalID] = held{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (m *Memory) Release(_ context.Context, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leases, externalID)
	return nil
}
