package events

import (
	"context"
	"fmt"
	"testing"
)

// stubPublisher records events and optionally fails.
type stubPublisher struct {
	id     string
	events []Event
	err    error
}

func (s *stubPublisher) ID() string { return s.id }

func (s *stubPublisher) Publish(_ context.Context, ev Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func TestBusFansOut(t *testing.T) {
	a := &stubPublisher{id: "a"}
	b := &stubPublisher{id: "b"}
	bus := NewBus(a, b)

	ev := Event{RunID: "run-1", Job: "movie-quality-pipeline", Type: TypeStarted}
	if err := bus.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("delivery counts: a=%d b=%d", len(a.events), len(b.events))
	}
	if a.events[0].At.IsZero() {
		t.Error("event timestamp not stamped")
	}
}

func TestBusSurvivesPublisherFailure(t *testing.T) {
	failing := &stubPublisher{id: "failing", err: fmt.Errorf("connection refused")}
	healthy := &stubPublisher{id: "healthy"}
	bus := NewBus(failing, healthy)

	err := bus.Publish(context.Background(), Event{RunID: "run-1", Type: TypeFailed})
	if err == nil {
		t.Fatal("Publish swallowed the delivery failure")
	}
	if len(healthy.events) != 1 {
		t.Errorf("healthy publisher got %d events, want 1", len(healthy.events))
	}
}

func TestBusRegister(t *testing.T) {
	bus := NewBus()
	late := &stubPublisher{id: "late"}
	bus.Register(late)

	if err := bus.Publish(context.Background(), Event{Type: TypeSucceeded}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(late.events) != 1 {
		t.Errorf("registered publisher got %d events", len(late.events))
	}
}
