// Package events emits pipeline lifecycle events to registered publishers,
// replacing the managed event-router-to-notification-topic path.
package events

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Event types.
const (
	TypeStarted               = "run.started"
	TypeSucceeded             = "run.succeeded"
	TypeCompletedWithFailures = "run.completed_with_failures"
	TypeFailed                = "run.failed"
)

// Counts summarizes row movement for a finished run.
type Counts struct {
	RowsRead        int64 `json:"rowsRead"`
	RowsLoaded      int64 `json:"rowsLoaded"`
	RowsQuarantined int64 `json:"rowsQuarantined"`
	RulesFailed     int   `json:"rulesFailed"`
}

// Event is one job lifecycle notification.
type Event struct {
	RunID  string    `json:"runId"`
	Job    string    `json:"job"`
	Type   string    `json:"type"`
	Detail string    `json:"detail,omitempty"`
	Counts Counts    `json:"counts"`
	At     time.Time `json:"at"`
}

// Publisher delivers events to one notification target.
type Publisher interface {
	ID() string
	Publish(ctx context.Context, ev Event) error
}

// Bus fans events out to all registered publishers. Delivery failures are
// collected and reported but never abort publishing to other targets.
type Bus struct {
	publishers []Publisher
}

// NewBus creates a bus with the given publishers.
func NewBus(publishers ...Publisher) *Bus {
	return &Bus{publishers: publishers}
}

// Register adds a publisher to the bus.
func (b *Bus) Register(p Publisher) {
	b.publishers = append(b.publishers, p)
}

// Publish stamps and delivers the event to every publisher.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	var firstErr error
	for _, p := range b.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("events: publisher %s failed: %v", p.ID(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("publisher %s: %w", p.ID(), err)
			}
		}
	}
	return firstErr
}

// LogPublisher writes events to the process log.
type LogPublisher struct{}

func (LogPublisher) ID() string { return "log" }

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	log.Printf("event %s: run=%s job=%s read=%d loaded=%d quarantined=%d rulesFailed=%d %s",
		ev.Type, ev.RunID, ev.Job, ev.Counts.RowsRead, ev.Counts.RowsLoaded,
		ev.Counts.RowsQuarantined, ev.Counts.RulesFailed, ev.Detail)
	return nil
}
