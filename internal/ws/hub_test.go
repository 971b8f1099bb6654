package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubSubscriber struct {
	received chan []byte
	fail     bool
	closed   chan struct{}
}

func newStubSubscriber() *stubSubscriber {
	return &stubSubscriber{
		received: make(chan []byte, 8),
		closed:   make(chan struct{}),
	}
}

func (s *stubSubscriber) Send(payload []byte) error {
	if s.fail {
		return errors.New("connection gone")
	}
	s.received <- payload
	return nil
}

func (s *stubSubscriber) Close() {
	close(s.closed)
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestPublishReachesTeamSubscribers(t *testing.T) {
	hub := NewHub(4)
	sub := newStubSubscriber()
	other := newStubSubscriber()
	hub.Register("team-1", sub)
	hub.Register("team-2", other)

	hub.Publish("task.updated", "team-1", "task-9")

	payload := waitFor(t, sub.received, "team-1 event")
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if event.Type != "task.updated" || event.TeamID != "team-1" || event.ResourceID != "task-9" {
		t.Fatalf("event = %+v", event)
	}
	select {
	case <-other.received:
		t.Fatal("event leaked to another team's subscriber")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFailingSubscriberIsDropped(t *testing.T) {
	hub := NewHub(4)
	sub := newStubSubscriber()
	sub.fail = true
	hub.Register("team-1", sub)

	hub.Publish("task.created", "team-1", "task-1")

	waitFor(t, sub.closed, "subscriber close")
}

func TestNilHubPublishIsNoOp(t *testing.T) {
	var hub *Hub
	hub.Publish("task.created", "team-1", "task-1")
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(4)
	sub := newStubSubscriber()
	hub.Register("team-1", sub)
	hub.Unregister("team-1", sub)

	hub.Publish("task.created", "team-1", "task-1")

	select {
	case <-sub.received:
		t.Fatal("unregistered subscriber still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}
