package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"benchwatch/internal/judges"
	"benchwatch/pkg/platform/sentinel"
)

// Memory is an in-memory judges.Store for tests and local development. It
// mirrors the Postgres semantics, including the unique-external-id conflict
// on Create.
type Memory struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*judges.Judge
	byExternal map[string]uuid.UUID
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:       make(map[uuid.UUID]*judges.Judge),
		byExternal: make(map[string]uuid.UUID),
	}
}

func (m *Memory) FindByExternalID(_ context.Context, externalID string) (*judges.Judge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byExternal[externalID]; ok {
		copied := *m.byID[id]
		return &copied, nil
	}
	return nil, fmt.Errorf("judge %s: %w", externalID, sentinel.ErrNotFound)
}

func (m *Memory) Create(_ context.Context, judge *judges.Judge) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if judge.CourtListenerID != "" {
		if _, exists := m.byExternal[judge.CourtListenerID]; exists {
			return uuid.Nil, fmt.Errorf("judge %s already exists: %w", judge.CourtListenerID, sentinel.ErrConflict)
		}
	}
	if judge.ID == uuid.Nil {
		judge.ID = uuid.New()
	}
	copied := *judge
	m.byID[judge.ID] = &copied
	if judge.CourtListenerID != "" {
		m.byExternal[judge.CourtListenerID] = judge.ID
	}
	return judge.ID, nil
}

func (m *Memory) Update(_ context.Context, judge *judges.Judge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[judge.ID]
	if !ok {
		return fmt.Errorf("judge %s: %w", judge.ID, sentinel.ErrNotFound)
	}
	profile := existing.Profile
	copied := *judge
	copied.Profile = profile
	copied.CourtListenerID = existing.CourtListenerID
	m.byID[judge.ID] = &copied
	return nil
}

func (m *Memory) UpdateProfile(_ context.Context, id uuid.UUID, profile judges.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("judge %s: %w", id, sentinel.ErrNotFound)
	}
	existing.Profile = profile
	return nil
}

func (m *Memory) ListStale(_ context.Context, q judges.StaleQuery) ([]judges.Judge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := q.Now.Add(-q.Window)
	var result []judges.Judge
	for _, id := range m.sortedIDs() {
		judge := m.byID[id]
		if judge.CourtListenerID == "" {
			continue
		}
		if q.Jurisdiction != "" && judge.Jurisdiction != q.Jurisdiction {
			continue
		}
		if !q.Force && !judge.LastSyncedAt.Before(cutoff) {
			continue
		}
		result = append(result, *judge)
		if q.Limit > 0 && len(result) >= q.Limit {
			break
		}
	}
	return result, nil
}

func (m *Memory) ListExternalIDs(_ context.Context, offset, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]string, 0, len(m.byExternal))
	for external := range m.byExternal {
		all = append(all, external)
	}
	sort.Strings(all)

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Get returns a judge by primary key, for test assertions.
func (m *Memory) Get(id uuid.UUID) (*judges.Judge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	judge, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	copied := *judge
	return &copied, true
}

// Len returns the number of stored judges.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// sortedIDs orders rows by last sync time so ListStale returns the oldest
// entries first, matching the Postgres query.
func (m *Memory) sortedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		return m.byID[ids[a]].LastSyncedAt.Before(m.byID[ids[b]].LastSyncedAt)
	})
	return ids
}
