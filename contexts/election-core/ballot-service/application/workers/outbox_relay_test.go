package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"securevote/contexts/election-core/ballot-service/adapters/memory"
	"securevote/contexts/election-core/ballot-service/ports"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "ballot.recorded",
		OccurredAt:    time.Now().UTC(),
		SourceService: "ballot-service",
		SchemaVersion: 1,
		PartitionKey:  "election-1",
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	appendEnvelope(t, store, "event-1")
	appendEnvelope(t, store, "event-2")

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if published != 2 || len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d (%d delivered)", published, len(publisher.events))
	}
	for _, topic := range publisher.topics {
		if topic != "ballot.recorded" {
			t.Fatalf("unexpected topic %s", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending rows after relay, got %d", len(pending))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	appendEnvelope(t, store, "event-1")

	publisher := &capturingPublisher{fail: true}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err == nil {
		t.Fatalf("expected publish failure to propagate")
	}
	if published != 0 {
		t.Fatalf("expected no rows published, got %d", published)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected row to stay pending for retry, got %d pending", len(pending))
	}
}

func TestOutboxRelayNoPendingIsNoop(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if published != 0 || len(publisher.events) != 0 {
		t.Fatalf("expected no publishes, got %d", len(publisher.events))
	}
}
