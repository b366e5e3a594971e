package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory keeps snapshots as their JSON encoding in a map. Used for tests and
// for running the server without a database.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) LoadSnapshot(_ context.Context, sessionID string) (Snapshot, error) {
	m.mu.RLock()
	raw, ok := m.data[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return snap, nil
}

func (m *Memory) SaveSnapshot(_ context.Context, sessionID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", sessionID, err)
	}

	m.mu.Lock()
	m.data[sessionID] = raw
	m.mu.Unlock()
	return nil
}

// SeedRaw plants arbitrary bytes under a session id, for exercising the
// corrupt-snapshot path.
func (m *Memory) SeedRaw(sessionID string, raw []byte) {
	m.mu.Lock()
	m.data[sessionID] = raw
	m.mu.Unlock()
}
