package ports

import (
	"context"
	"time"

	"securevote/contexts/election-core/ballot-service/domain/entities"
	"securevote/internal/shared/events"
	"securevote/internal/shared/outbox"
)

// BallotRepository owns the durable ballot state. RecordSession is the single
// write path and must be atomic: the session row, every ballot row, and the
// outbox event, or no rows at all. An event that cannot be persisted means the
// vote did not happen.
type BallotRepository interface {
	RecordSession(ctx context.Context, session entities.BallotSession, ballots []entities.Ballot, event EventEnvelope) error
	HasVoted(ctx context.Context, voterID string, electionID string) (bool, error)
	ListBallotsByElection(ctx context.Context, electionID string) ([]entities.Ballot, error)
	ListBallotsByCandidate(ctx context.Context, candidateID string) ([]entities.Ballot, error)
	CountSessionsByElection(ctx context.Context, electionID string) (int, error)
}

// ElectionProjection is the slice of election state the ballot service needs
// to validate a submission. The election service owns the source tables.
type ElectionProjection struct {
	ElectionID  string
	Title       string
	Status      string
	TotalVoters int
}

type PositionProjection struct {
	PositionID    string
	ElectionID    string
	Title         string
	MinSelections int
	MaxSelections int
}

type CandidateProjection struct {
	CandidateID string
	PositionID  string
	Name        string
	Party       string
}

type ElectionReader interface {
	GetElection(ctx context.Context, electionID string) (ElectionProjection, error)
	ListPositions(ctx context.Context, electionID string) ([]PositionProjection, error)
	ListCandidates(ctx context.Context, electionID string) ([]CandidateProjection, error)
}

type VoterProjection struct {
	VoterID string
	Name    string
}

type VoterReader interface {
	GetVoter(ctx context.Context, voterID string) (VoterProjection, error)
}

// IdentityVerifier gates a cast attempt on the voter's identity check. The
// production capability is out of core scope; implementations are injectable.
type IdentityVerifier interface {
	Verify(ctx context.Context, voterID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope and OutboxMessage alias the shared contracts so every context
// publishes the same wire shape.
type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
