package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wordchain/backend/internal/engine"
)

func recv(t *testing.T, ch <-chan engine.Event) engine.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return engine.Event{}
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	a := b.Subscribe("s1", TopicGameplay)
	c := b.Subscribe("s1", TopicGameplay)

	b.Publish("s1", TopicGameplay, engine.Event{Type: engine.EvtWordAdded, Word: "queen"})

	require.Equal(t, "queen", recv(t, a).Word)
	require.Equal(t, "queen", recv(t, c).Word)
}

func TestTopicsAndSessionsAreIsolated(t *testing.T) {
	b := New()
	lifecycle := b.Subscribe("s1", TopicLifecycle)
	other := b.Subscribe("s2", TopicGameplay)

	b.Publish("s1", TopicGameplay, engine.Event{Type: engine.EvtWordAdded})

	select {
	case ev := <-lifecycle:
		t.Fatalf("lifecycle subscriber got gameplay event %v", ev)
	case ev := <-other:
		t.Fatalf("other session got event %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ch := b.Subscribe("s1", TopicLifecycle)
	b.Unsubscribe("s1", TopicLifecycle, ch)

	b.Publish("s1", TopicLifecycle, engine.Event{Type: engine.EvtPlayerJoined, User: "alice"})

	select {
	case ev := <-ch:
		t.Fatalf("unsubscribed channel got %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTopicFor(t *testing.T) {
	require.Equal(t, TopicLifecycle, TopicFor(engine.Event{Type: engine.EvtGameStarted}))
	require.Equal(t, TopicLifecycle, TopicFor(engine.Event{Type: engine.EvtSessionReset}))
	require.Equal(t, TopicGameplay, TopicFor(engine.Event{Type: engine.EvtWordAdded}))
	require.Equal(t, TopicGameplay, TopicFor(engine.Event{Type: engine.EvtPlayerEliminated}))
}
