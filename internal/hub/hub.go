// Package hub is the registry actor mapping session codes to running
// session actors, creating them on demand from the snapshot store.
package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/broker"
	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/session"
	"github.com/wordchain/backend/internal/store"
	"github.com/wordchain/backend/internal/timer"
)

type HubMsg interface{ isHubMsg() }

type EnsureSession struct {
	Code  string
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Deps struct {
	Store     store.SnapshotStore
	Broker    *broker.Broker
	Scheduler timer.Scheduler
	Rules     engine.Rules
	Log       *zap.Logger
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	deps     Deps
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				s := session.New(h.ctx, msg.Code, h.hydrate(msg.Code), session.Deps{
					Store:     h.deps.Store,
					Broker:    h.deps.Broker,
					Scheduler: h.deps.Scheduler,
					Log:       h.deps.Log,
				})
				h.sessions[msg.Code] = s
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					s.Inbox() <- session.Shutdown{}
				}
				delete(h.sessions, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// hydrate loads the canonical snapshot; a missing or corrupt one degrades
// to a fresh lobby rather than failing session creation.
func (h *Hub) hydrate(code string) engine.State {
	ctx, cancel := context.WithTimeout(h.ctx, 3*time.Second)
	defer cancel()

	snap, err := h.deps.Store.LoadSnapshot(ctx, code)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.deps.Log.Warn("snapshot unreadable, starting fresh lobby",
				zap.String("session", code), zap.Error(err))
		}
		return engine.NewLobbyState(h.deps.Rules)
	}

	st := snap.State
	st.Rules = h.deps.Rules
	return st
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
