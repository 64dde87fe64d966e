package outbox

import "time"

// Message is the outbox row persisted inside the same DB transaction as the
// state change it describes. A relay worker reads pending rows and publishes
// them to the message bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}
