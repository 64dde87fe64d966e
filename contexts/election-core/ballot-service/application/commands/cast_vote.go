package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "securevote/contexts/election-core/ballot-service/application"
	"securevote/contexts/election-core/ballot-service/domain/entities"
	domainerrors "securevote/contexts/election-core/ballot-service/domain/errors"
	"securevote/contexts/election-core/ballot-service/ports"
)

// CastVoteCommand is the write-model input for one voting session: every
// selection a voter makes for one election, submitted together.
type CastVoteCommand struct {
	VoterID    string
	ElectionID string
	Selections []entities.Selection
}

type CastVoteResult struct {
	SessionID   string
	BallotCount int
	CastAt      time.Time
}

// BallotUseCase orchestrates vote casting: identity gate, eligibility and
// selection validation, then one atomic write. No mutation happens until every
// precondition has passed; the repository guarantees all-or-nothing after
// that.
type BallotUseCase struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionReader
	Voters    ports.VoterReader
	Verifier  ports.IdentityVerifier
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc BallotUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	logger.Info("ballot cast processing started",
		"event", "ballot_cast_started",
		"module", "election-core/ballot-service",
		"layer", "application",
		"voter_id", voterID,
		"election_id", electionID,
		"selection_count", len(cmd.Selections),
	)

	if voterID == "" || electionID == "" || len(cmd.Selections) == 0 {
		logger.Warn("ballot cast validation failed",
			"event", "ballot_cast_validation_failed",
			"module", "election-core/ballot-service",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidBallotInput
	}

	if uc.Verifier != nil {
		verified, err := uc.Verifier.Verify(ctx, voterID)
		if err != nil {
			return CastVoteResult{}, err
		}
		if !verified {
			logger.Warn("ballot cast identity check rejected",
				"event", "ballot_cast_verification_rejected",
				"module", "election-core/ballot-service",
				"layer", "application",
				"voter_id", voterID,
			)
			return CastVoteResult{}, domainerrors.ErrVerificationFailed
		}
	}

	if _, err := uc.Voters.GetVoter(ctx, voterID); err != nil {
		return CastVoteResult{}, err
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(election.Status), "active") {
		logger.Warn("ballot cast rejected for inactive election",
			"event", "ballot_cast_election_inactive",
			"module", "election-core/ballot-service",
			"layer", "application",
			"election_id", electionID,
			"status", election.Status,
		)
		return CastVoteResult{}, domainerrors.ErrElectionNotActive
	}

	// Advisory pre-check. The authoritative guard is the session unique key
	// inside RecordSession, which holds under concurrent submissions.
	if voted, err := uc.Ballots.HasVoted(ctx, voterID, electionID); err != nil {
		return CastVoteResult{}, err
	} else if voted {
		logger.Warn("ballot cast rejected as duplicate",
			"event", "ballot_cast_already_voted",
			"module", "election-core/ballot-service",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
		)
		return CastVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	if err := uc.validateSelections(ctx, electionID, cmd.Selections); err != nil {
		logger.Warn("ballot cast selection validation failed",
			"event", "ballot_cast_selection_invalid",
			"module", "election-core/ballot-service",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	now := uc.now()
	sessionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	session := entities.BallotSession{
		SessionID:  sessionID,
		VoterID:    voterID,
		ElectionID: electionID,
		CastAt:     now,
	}

	ballots := make([]entities.Ballot, 0, len(cmd.Selections))
	for _, selection := range cmd.Selections {
		ballotID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CastVoteResult{}, err
		}
		ballots = append(ballots, entities.Ballot{
			BallotID:    ballotID,
			SessionID:   sessionID,
			VoterID:     voterID,
			ElectionID:  electionID,
			PositionID:  strings.TrimSpace(selection.PositionID),
			CandidateID: strings.TrimSpace(selection.CandidateID),
			CastAt:      now,
		})
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	envelope, err := newBallotEnvelope(eventID, "ballot.recorded", session, map[string]any{
		"session_id":   session.SessionID,
		"voter_id":     voterID,
		"election_id":  electionID,
		"ballot_count": len(ballots),
		"cast_at":      session.CastAt.Format(time.RFC3339),
	})
	if err != nil {
		return CastVoteResult{}, err
	}

	// The repository persists the session, the ballots, and the outbox event
	// in one transaction, so a failure here leaves no trace of the attempt.
	if err := uc.Ballots.RecordSession(ctx, session, ballots, envelope); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("ballot session recorded",
		"event", "ballot_cast_recorded",
		"module", "election-core/ballot-service",
		"layer", "application",
		"session_id", sessionID,
		"voter_id", voterID,
		"election_id", electionID,
		"ballot_count", len(ballots),
	)
	return CastVoteResult{
		SessionID:   sessionID,
		BallotCount: len(ballots),
		CastAt:      now,
	}, nil
}

// validateSelections checks every selection against the election's positions
// and candidate slates before any write: unknown references fail as
// InvalidReference, per-position counts outside [min, max] fail as
// IncompleteSelection.
func (uc BallotUseCase) validateSelections(
	ctx context.Context,
	electionID string,
	selections []entities.Selection,
) error {
	positions, err := uc.Elections.ListPositions(ctx, electionID)
	if err != nil {
		return err
	}
	candidates, err := uc.Elections.ListCandidates(ctx, electionID)
	if err != nil {
		return err
	}

	positionsByID := make(map[string]ports.PositionProjection, len(positions))
	for _, position := range positions {
		positionsByID[position.PositionID] = position
	}
	candidatesByID := make(map[string]ports.CandidateProjection, len(candidates))
	for _, candidate := range candidates {
		candidatesByID[candidate.CandidateID] = candidate
	}

	counts := make(map[string]int, len(positions))
	seen := make(map[entities.Selection]bool, len(selections))
	for _, raw := range selections {
		selection := entities.Selection{
			PositionID:  strings.TrimSpace(raw.PositionID),
			CandidateID: strings.TrimSpace(raw.CandidateID),
		}
		if selection.PositionID == "" || selection.CandidateID == "" {
			return domainerrors.ErrInvalidReference
		}
		if _, ok := positionsByID[selection.PositionID]; !ok {
			return domainerrors.ErrInvalidReference
		}
		candidate, ok := candidatesByID[selection.CandidateID]
		if !ok || candidate.PositionID != selection.PositionID {
			return domainerrors.ErrInvalidReference
		}
		if seen[selection] {
			return domainerrors.ErrInvalidReference
		}
		seen[selection] = true
		counts[selection.PositionID]++
	}

	for _, position := range positions {
		count := counts[position.PositionID]
		if count < position.MinSelections || count > position.MaxSelections {
			return domainerrors.ErrIncompleteSelection
		}
	}
	return nil
}

func (uc BallotUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
