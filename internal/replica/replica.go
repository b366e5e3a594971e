// Package replica is a read-only local view of a session for embedded
// consumers (bots, render loops). It hydrates once from the snapshot store
// and then tracks the session purely by applying broadcast events through
// the engine reducer; it never re-polls the store, so a long disconnect
// leaves it stale until re-attached.
package replica

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/broker"
	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/store"
)

type Replica struct {
	mu    sync.RWMutex
	state engine.State
}

// Attach hydrates a replica for the session and starts applying broadcast
// events until ctx is cancelled or the returned detach func is called.
// Missing or corrupt snapshots degrade to an empty lobby.
func Attach(ctx context.Context, sessionID string, st store.SnapshotStore, b *broker.Broker, log *zap.Logger) (*Replica, func()) {
	r := &Replica{state: engine.NewLobbyState(engine.DefaultRules())}

	snap, err := st.LoadSnapshot(ctx, sessionID)
	switch {
	case err == nil:
		r.state = snap.State
	case errors.Is(err, store.ErrNotFound):
		// fresh session, lobby default is correct
	default:
		log.Warn("replica hydration failed, defaulting to lobby",
			zap.String("session", sessionID), zap.Error(err))
	}

	lifecycle := b.Subscribe(sessionID, broker.TopicLifecycle)
	gameplay := b.Subscribe(sessionID, broker.TopicGameplay)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-lifecycle:
				r.apply(ev)
			case ev := <-gameplay:
				r.apply(ev)
			}
		}
	}()

	detach := func() {
		cancel()
		<-done
		b.Unsubscribe(sessionID, broker.TopicLifecycle, lifecycle)
		b.Unsubscribe(sessionID, broker.TopicGameplay, gameplay)
	}
	return r, detach
}

func (r *Replica) apply(ev engine.Event) {
	r.mu.Lock()
	r.state = engine.Step(r.state, ev)
	r.mu.Unlock()
}

// State returns the replica's current view.
func (r *Replica) State() engine.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
