package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"securevote/contexts/election-core/ballot-service/application/commands"
	"securevote/contexts/election-core/ballot-service/application/queries"
	"securevote/contexts/election-core/ballot-service/domain/entities"
	httptransport "securevote/contexts/election-core/ballot-service/transport/http"
)

type Handler struct {
	Ballots commands.BallotUseCase
	Results queries.ResultsUseCase
	Logger  *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	selections := make([]entities.Selection, 0, len(req.Votes))
	for _, vote := range req.Votes {
		selections = append(selections, entities.Selection{
			PositionID:  vote.PositionID,
			CandidateID: vote.CandidateID,
		})
	}
	result, err := h.Ballots.CastVote(ctx, commands.CastVoteCommand{
		VoterID:    req.UserID,
		ElectionID: req.ElectionID,
		Selections: selections,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Success:     true,
		Message:     "vote recorded successfully",
		SessionID:   result.SessionID,
		ElectionID:  req.ElectionID,
		BallotCount: result.BallotCount,
		CastAt:      result.CastAt.UTC().Format(time.RFC3339),
	}, nil
}

// ElectionResultsHandler flattens the per-position tallies into the row shape
// the results page renders directly.
func (h Handler) ElectionResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	results, err := h.Results.ComputeResults(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	rows := make([]httptransport.ResultRow, 0)
	for _, position := range results.Positions {
		for _, candidate := range position.Candidates {
			rows = append(rows, httptransport.ResultRow{
				Position:       position.Title,
				CandidateName:  candidate.Name,
				CandidateParty: candidate.Party,
				VoteCount:      candidate.Votes,
				Percentage:     candidate.Percentage,
			})
		}
	}
	return httptransport.ResultsResponse{
		Success:           true,
		ElectionID:        results.ElectionID,
		VotesCast:         results.VotesCast,
		TotalVoters:       results.TotalVoters,
		ParticipationRate: results.ParticipationRate,
		ComputedAt:        results.ComputedAt.UTC().Format(time.RFC3339),
		Results:           rows,
	}, nil
}

func (h Handler) VoteStatusHandler(ctx context.Context, voterID string, electionID string) (httptransport.VoteStatusResponse, error) {
	voted, err := h.Results.HasVoted(ctx, voterID, electionID)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	return httptransport.VoteStatusResponse{
		ElectionID: electionID,
		UserID:     voterID,
		HasVoted:   voted,
	}, nil
}
