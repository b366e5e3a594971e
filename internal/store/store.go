// Package store persists the canonical session snapshot. The broadcast
// channel is the primary synchronization path; the store exists so that
// reconnecting and late-joining clients can hydrate. Writes are
// last-write-wins.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/timer"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the durable serialization of one session, including the id of
// the outstanding timeout job so a restarted writer can cancel it.
type Snapshot struct {
	State        engine.State `json:"state"`
	TimeoutJobID timer.JobID  `json:"timeoutJobId,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type SnapshotStore interface {
	// LoadSnapshot returns ErrNotFound for unknown sessions and an
	// unwrapped decode error for corrupt ones; callers degrade to a fresh
	// lobby in both cases.
	LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error)
	SaveSnapshot(ctx context.Context, sessionID string, snap Snapshot) error
}
