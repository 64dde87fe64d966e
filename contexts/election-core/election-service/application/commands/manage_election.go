package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "securevote/contexts/election-core/election-service/application"
	"securevote/contexts/election-core/election-service/domain/entities"
	domainerrors "securevote/contexts/election-core/election-service/domain/errors"
	"securevote/contexts/election-core/election-service/ports"
)

type CreateElectionCommand struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	TotalVoters int
}

type AddPositionCommand struct {
	ElectionID    string
	Title         string
	Description   string
	MinSelections int
	MaxSelections int
}

type AddCandidateCommand struct {
	PositionID string
	Name       string
	Party      string
	Bio        string
}

type TransitionStatusCommand struct {
	ElectionID string
	Status     string
}

// ElectionUseCase owns catalog writes. Every new election starts upcoming and
// only moves forward through the lifecycle.
type ElectionUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	title := strings.TrimSpace(cmd.Title)
	if title == "" || cmd.TotalVoters < 0 {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	if !cmd.EndDate.IsZero() && !cmd.StartDate.IsZero() && cmd.EndDate.Before(cmd.StartDate) {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election := entities.Election{
		ElectionID:  electionID,
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Status:      entities.StatusUpcoming,
		StartDate:   cmd.StartDate.UTC(),
		EndDate:     cmd.EndDate.UTC(),
		TotalVoters: cmd.TotalVoters,
		CreatedAt:   uc.now(),
	}
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-core/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"title", election.Title,
	)
	return election, nil
}

func (uc ElectionUseCase) AddPosition(ctx context.Context, cmd AddPositionCommand) (entities.Position, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	title := strings.TrimSpace(cmd.Title)
	if electionID == "" || title == "" {
		return entities.Position{}, domainerrors.ErrInvalidElectionInput
	}

	minSelections := cmd.MinSelections
	maxSelections := cmd.MaxSelections
	if minSelections == 0 && maxSelections == 0 {
		minSelections, maxSelections = 1, 1
	}
	if minSelections < 0 || maxSelections < 1 || maxSelections < minSelections {
		return entities.Position{}, domainerrors.ErrInvalidElectionInput
	}

	if _, err := uc.Elections.GetElection(ctx, electionID); err != nil {
		return entities.Position{}, err
	}

	positionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	position := entities.Position{
		PositionID:    positionID,
		ElectionID:    electionID,
		Title:         title,
		Description:   strings.TrimSpace(cmd.Description),
		MinSelections: minSelections,
		MaxSelections: maxSelections,
	}
	if err := uc.Elections.CreatePosition(ctx, position); err != nil {
		return entities.Position{}, err
	}

	logger.Info("election position added",
		"event", "election_position_added",
		"module", "election-core/election-service",
		"layer", "application",
		"election_id", electionID,
		"position_id", position.PositionID,
	)
	return position, nil
}

func (uc ElectionUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	positionID := strings.TrimSpace(cmd.PositionID)
	name := strings.TrimSpace(cmd.Name)
	if positionID == "" || name == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidElectionInput
	}

	if _, err := uc.Elections.GetPosition(ctx, positionID); err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		PositionID:  positionID,
		Name:        name,
		Party:       strings.TrimSpace(cmd.Party),
		Bio:         strings.TrimSpace(cmd.Bio),
	}
	if err := uc.Elections.CreateCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("election candidate added",
		"event", "election_candidate_added",
		"module", "election-core/election-service",
		"layer", "application",
		"position_id", positionID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}

// TransitionStatus moves an election forward through its lifecycle. Backward
// moves and skips are rejected so ballots cast under an active election can
// never be reopened.
func (uc ElectionUseCase) TransitionStatus(ctx context.Context, cmd TransitionStatusCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	status := strings.ToLower(strings.TrimSpace(cmd.Status))
	if electionID == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	if !entities.ValidStatus(status) {
		return entities.Election{}, domainerrors.ErrInvalidStatus
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if !entities.ValidTransition(election.Status, status) {
		logger.Warn("election status transition rejected",
			"event", "election_transition_rejected",
			"module", "election-core/election-service",
			"layer", "application",
			"election_id", electionID,
			"from", election.Status,
			"to", status,
		)
		return entities.Election{}, domainerrors.ErrInvalidTransition
	}

	if err := uc.Elections.UpdateElectionStatus(ctx, electionID, status); err != nil {
		return entities.Election{}, err
	}
	election.Status = status

	logger.Info("election status changed",
		"event", "election_status_changed",
		"module", "election-core/election-service",
		"layer", "application",
		"election_id", electionID,
		"status", status,
	)
	return election, nil
}

func (uc ElectionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
