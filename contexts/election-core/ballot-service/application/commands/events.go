package commands

import (
	"encoding/json"

	"securevote/contexts/election-core/ballot-service/domain/entities"
	"securevote/contexts/election-core/ballot-service/ports"
)

func newBallotEnvelope(
	eventID string,
	eventType string,
	session entities.BallotSession,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Session events are partitioned by election for stable ordering on
	// election-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       session.CastAt.UTC(),
		SourceService:    "ballot-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     session.ElectionID,
		Data:             payload,
	}, nil
}
