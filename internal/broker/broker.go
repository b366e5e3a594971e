// Package broker is the fan-out channel between a session's writer and its
// replicas. Two logical topics per session: lifecycle (joins, leaves, start,
// reset) and gameplay (words, eliminations, game end). Delivery is
// at-least-once to current subscribers; slow subscribers are skipped rather
// than blocking the publisher.
package broker

import (
	"sync"

	"github.com/wordchain/backend/internal/engine"
)

type Topic string

const (
	TopicLifecycle Topic = "lifecycle"
	TopicGameplay  Topic = "gameplay"
)

// TopicFor routes an engine event to its logical topic.
func TopicFor(ev engine.Event) Topic {
	switch ev.Type {
	case engine.EvtPlayerJoined, engine.EvtPlayerLeft, engine.EvtGameStarted, engine.EvtSessionReset:
		return TopicLifecycle
	default:
		return TopicGameplay
	}
}

type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan engine.Event]struct{}
}

func New() *Broker {
	return &Broker{subs: make(map[string]map[chan engine.Event]struct{})}
}

func key(session string, topic Topic) string {
	return session + "/" + string(topic)
}

// Subscribe returns a channel receiving every event published on the
// session's topic from now on.
func (b *Broker) Subscribe(session string, topic Topic) chan engine.Event {
	ch := make(chan engine.Event, 16)
	k := key(session, topic)

	b.mu.Lock()
	if b.subs[k] == nil {
		b.subs[k] = make(map[chan engine.Event]struct{})
	}
	b.subs[k][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(session string, topic Topic, ch chan engine.Event) {
	k := key(session, topic)

	b.mu.Lock()
	delete(b.subs[k], ch)
	if len(b.subs[k]) == 0 {
		delete(b.subs, k)
	}
	b.mu.Unlock()
}

// Publish fans ev out to all current subscribers of the session's topic,
// dropping it for any subscriber whose buffer is full.
func (b *Broker) Publish(session string, topic Topic, ev engine.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[key(session, topic)] {
		select {
		case ch <- ev:
		default:
		}
	}
}
