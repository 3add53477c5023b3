package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"benchwatch/internal/syncrun"
	"benchwatch/pkg/platform/sentinel"
)

// Memory is an in-memory syncrun.Store for tests.
type Memory struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*syncrun.Run

	// FailWrites makes every write return an error. Used to verify the
	// recorder swallows audit failures.
	FailWrites bool
}

// NewMemory creates an empty in-memory run store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[uuid.UUID]*syncrun.Run)}
}

func (m *Memory) Begin(_ context.Context, run syncrun.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return sentinel.ErrUnavailable
	}
	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("sync run %s: %w", run.ID, sentinel.ErrConflict)
	}
	copied := run
	m.runs[run.ID] = &copied
	return nil
}

func (m *Memory) Complete(_ context.Context, id uuid.UUID, run syncrun.Run) error {
	return m.finish(id, syncrun.StatusCompleted, run)
}

func (m *Memory) Fail(_ context.Context, id uuid.UUID, run syncrun.Run) error {
	return m.finish(id, syncrun.StatusFailed, run)
}

func (m *Memory) finish(id uuid.UUID, status syncrun.Status, run syncrun.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return sentinel.ErrUnavailable
	}
	existing, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("sync run %s: %w", id, sentinel.ErrNotFound)
	}
	if existing.Status != syncrun.StatusStarted {
		return fmt.Errorf("sync run %s not in started state: %w", id, sentinel.ErrInvalidState)
	}
	existing.Status = status
	existing.Result = run.Result
	existing.Error = run.Error
	existing.CompletedAt = run.CompletedAt
	existing.Duration = run.Duration
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*syncrun.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("sync run %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *run
	return &copied, nil
}

// Len returns the number of recorded runs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
