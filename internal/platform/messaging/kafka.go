package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"securevote/contexts/election-core/ballot-service/ports"
)

const subscriberBuffer = 128

// Kafka is the ballot event bus behind the outbox relay. Topics map
// one-to-one onto ballot event types ("ballot.recorded"); delivery is
// in-process fan-out while external broker wiring is pending. Publish only
// returns nil once every subscriber has the event, so the relay's
// mark-after-publish keeps its at-least-once contract.
type Kafka struct {
	mu      sync.RWMutex
	brokers []string
	groups  map[string][]*subscription
	logger  *slog.Logger
}

type subscription struct {
	group  string
	events chan ports.EventEnvelope
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{
		brokers: brokers,
		groups:  make(map[string][]*subscription),
		logger:  logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	topic = strings.TrimSpace(topic)

	k.mu.RLock()
	subs := append([]*subscription(nil), k.groups[topic]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			k.logger.Warn("ballot event delivery aborted",
				"event", "ballot_event_delivery_aborted",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", sub.group,
				"event_id", event.EventID,
				"partition_key", event.PartitionKey,
			)
			return ctx.Err()
		case sub.events <- event:
		}
	}

	k.logger.Info("ballot event published",
		"event", "ballot_event_published",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
		"subscriber_count", len(subs),
	)
	return nil
}

// Subscribe attaches a handler under a consumer group and dispatches events
// until ctx is cancelled. Handler failures are logged and the stream
// continues; redelivery is the outbox relay's concern, not the bus's.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	topic = strings.TrimSpace(topic)
	sub := &subscription{
		group:  strings.TrimSpace(consumerGroup),
		events: make(chan ports.EventEnvelope, subscriberBuffer),
	}

	k.mu.Lock()
	k.groups[topic] = append(k.groups[topic], sub)
	k.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.detach(topic, sub)
				return
			case event := <-sub.events:
				if err := handler(ctx, event); err != nil {
					k.logger.Error("ballot event handler failed",
						"event", "ballot_event_handler_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", sub.group,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) detach(topic string, target *subscription) {
	k.mu.Lock()
	defer k.mu.Unlock()

	subs := k.groups[topic]
	kept := subs[:0]
	for _, sub := range subs {
		if sub != target {
			kept = append(kept, sub)
		}
	}
	k.groups[topic] = kept
}
