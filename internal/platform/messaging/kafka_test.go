package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"securevote/contexts/election-core/ballot-service/ports"
)

func TestPublishFansOutToSubscribers(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "ballot.recorded", "results-projector", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	envelope := ports.EventEnvelope{
		EventID:      "event-1",
		EventType:    "ballot.recorded",
		PartitionKey: "election-1",
	}
	if err := bus.Publish(ctx, "ballot.recorded", envelope); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "event-1" || got.PartitionKey != "election-1" {
			t.Fatalf("unexpected event delivered: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received the event")
	}
}

func TestSubscriberErrorDoesNotStopStream(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan string, 2)
	err = bus.Subscribe(ctx, "ballot.recorded", "audit-log", func(_ context.Context, event ports.EventEnvelope) error {
		delivered <- event.EventID
		if event.EventID == "event-bad" {
			return errors.New("handler rejected event")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	for _, id := range []string{"event-bad", "event-good"} {
		err := bus.Publish(ctx, "ballot.recorded", ports.EventEnvelope{EventID: id, EventType: "ballot.recorded"})
		if err != nil {
			t.Fatalf("publish %s failed: %v", id, err)
		}
	}

	for _, want := range []string{"event-bad", "event-good"} {
		select {
		case got := <-delivered:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("stream stalled waiting for %s", want)
		}
	}
}

func TestPublishWithoutSubscribersSucceeds(t *testing.T) {
	bus, err := NewKafka([]string{"localhost:9092"}, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	err = bus.Publish(context.Background(), "ballot.recorded", ports.EventEnvelope{EventID: "event-1"})
	if err != nil {
		t.Fatalf("publish with no subscribers failed: %v", err)
	}
}
