// Package session runs one game as an actor goroutine that owns all
// mutation. Clients attach an outbox channel and receive versioned state
// snapshots; every accepted command is also published on the broadcast
// channel for detached replicas and persisted to the snapshot store.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/broker"
	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/store"
	"github.com/wordchain/backend/internal/timer"
)

type Msg interface{ isSessionMsg() }

type Attach struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Attach) isSessionMsg() {}

type Detach struct{ ClientID string }

func (Detach) isSessionMsg() {}

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isSessionMsg() {}

// TimerFired is the turn clock elapsing. Gen is compared against the
// session's current timer generation so a fire racing a cancellation is
// dropped instead of eliminating the wrong player.
type TimerFired struct {
	Turn string
	Gen  int
}

func (TimerFired) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

// View reflects internal state without data races; test and HTTP read path.
type View struct {
	Version    int
	NumClients int
	JobID      timer.JobID
	State      engine.State
}

type Deps struct {
	Store     store.SnapshotStore
	Broker    *broker.Broker
	Scheduler timer.Scheduler
	Log       *zap.Logger
}

type Session struct {
	code     string
	inbox    chan Msg
	state    engine.State
	version  int
	clients  map[string]chan Snapshot
	jobID    timer.JobID
	timerGen int
	deps     Deps
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, code string, initial engine.State, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		clients: make(map[string]chan Snapshot),
		deps:    deps,
		log:     deps.Log.With(zap.String("session", code)),
		ctx:     ctx,
		cancel:  cancel,
	}

	// A writer restarted mid-game inherits no live timer; arm a fresh one
	// for the hydrated turn.
	if s.state.Phase == engine.PhasePlaying && s.state.CurrentTurn != "" {
		s.rearm(s.state.CurrentTurn)
	}

	go s.loop()
	return s
}

// Expose the inbox so the WS layer, the timer callback and tests can send
// messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Attach:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: s.version, State: s.state}

			case Detach:
				delete(s.clients, msg.ClientID)

			case FromClient:
				s.dispatch(s.prepare(msg.Cmd))

			case TimerFired:
				if msg.Gen != s.timerGen {
					s.log.Debug("dropping stale timer fire", zap.String("turn", msg.Turn))
					break
				}
				s.dispatch(engine.Command{Type: engine.CmdTimeout, Turn: msg.Turn})

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					JobID:      s.jobID,
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

// prepare fills the parts of a command the client cannot be trusted with:
// receipt time, and the sampled letter and starting player for a start.
func (s *Session) prepare(cmd engine.Command) engine.Command {
	switch cmd.Type {
	case engine.CmdStart:
		if len(s.state.Players) >= 2 {
			cmd.Letter, cmd.StartTurn = engine.SampleStart(s.state.Players)
		}
	case engine.CmdAddWord:
		cmd.Now = time.Now()
		if cmd.SubmittedAt.IsZero() {
			cmd.SubmittedAt = cmd.Now
		}
	}
	return cmd
}

func (s *Session) dispatch(cmd engine.Command) {
	events, newState, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Debug("command rejected",
			zap.String("type", string(cmd.Type)),
			zap.String("user", cmd.User),
			zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}

	prevTurn := s.state.CurrentTurn
	s.state = newState
	s.version++

	for _, ev := range events {
		s.deps.Broker.Publish(s.code, broker.TopicFor(ev), ev)
	}
	s.syncTimer(prevTurn)
	s.persist()
	s.broadcast(Snapshot{Version: s.version, State: s.state})
}

// syncTimer keeps exactly one outstanding job: re-armed whenever the turn
// moves while playing, cancelled when the game stops.
func (s *Session) syncTimer(prevTurn string) {
	if s.state.Phase != engine.PhasePlaying {
		s.cancelTimer()
		return
	}
	if s.state.CurrentTurn != prevTurn {
		s.rearm(s.state.CurrentTurn)
	}
}

func (s *Session) rearm(turn string) {
	if s.jobID != "" {
		s.deps.Scheduler.Cancel(s.jobID) // best-effort
	}
	s.timerGen++
	gen := s.timerGen
	at := time.Now().Add(s.state.Rules.TurnTimeout)
	s.jobID = s.deps.Scheduler.ScheduleAt(at, func() {
		select {
		case s.inbox <- TimerFired{Turn: turn, Gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

func (s *Session) cancelTimer() {
	if s.jobID == "" {
		return
	}
	s.deps.Scheduler.Cancel(s.jobID)
	s.jobID = ""
}

// persist is fire-and-forget: the broadcast channel is the primary sync
// path, the store only serves reconnects. Failures are logged and dropped.
func (s *Session) persist() {
	snap := store.Snapshot{
		State:        s.state,
		TimeoutJobID: s.jobID,
		UpdatedAt:    time.Now().UTC(),
	}
	code := s.code
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.deps.Store.SaveSnapshot(ctx, code, snap); err != nil {
			s.log.Warn("snapshot write failed", zap.Error(err))
		}
	}()
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	s.cancelTimer()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}
