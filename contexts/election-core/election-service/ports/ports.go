package ports

import (
	"context"
	"time"

	"securevote/contexts/election-core/election-service/domain/entities"
)

// ElectionRepository persists the election catalog: elections, their
// positions, and candidate slates.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	UpdateElectionStatus(ctx context.Context, electionID string, status string) error

	CreatePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	ListPositionsByElection(ctx context.Context, electionID string) ([]entities.Position, error)

	CreateCandidate(ctx context.Context, candidate entities.Candidate) error
	ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error)
}

// SessionCounter reads cast counts owned by the ballot side. The catalog
// never stores these numbers; it derives them per read.
type SessionCounter interface {
	CountSessionsByElection(ctx context.Context, electionID string) (int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
