package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wordchain/backend/internal/engine"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	snap := Snapshot{
		State: engine.State{
			Phase:       engine.PhasePlaying,
			Players:     []string{"alice", "bob"},
			CurrentTurn: "bob",
			Letter:      "N",
			Words:       []engine.Word{{Author: "alice", Word: "queen", Timestamp: time.Now().UTC()}},
		},
		TimeoutJobID: "job-1",
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, m.SaveSnapshot(ctx, "s1", snap))

	got, err := m.LoadSnapshot(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, snap.State.Players, got.State.Players)
	require.Equal(t, snap.State.CurrentTurn, got.State.CurrentTurn)
	require.Equal(t, snap.TimeoutJobID, got.TimeoutJobID)
	require.Len(t, got.State.Words, 1)
}

func TestMemoryMissingSession(t *testing.T) {
	m := NewMemory()
	_, err := m.LoadSnapshot(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCorruptSnapshot(t *testing.T) {
	m := NewMemory()
	m.SeedRaw("s1", []byte("{not json"))

	_, err := m.LoadSnapshot(context.Background(), "s1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := Snapshot{State: engine.State{Phase: engine.PhaseLobby, Players: []string{"alice"}}}
	second := Snapshot{State: engine.State{Phase: engine.PhaseLobby, Players: []string{"bob"}}}
	require.NoError(t, m.SaveSnapshot(ctx, "s1", first))
	require.NoError(t, m.SaveSnapshot(ctx, "s1", second))

	got, err := m.LoadSnapshot(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, got.State.Players)
}
