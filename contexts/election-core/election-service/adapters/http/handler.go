package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"securevote/contexts/election-core/election-service/application/commands"
	"securevote/contexts/election-core/election-service/application/queries"
	"securevote/contexts/election-core/election-service/domain/entities"
	domainerrors "securevote/contexts/election-core/election-service/domain/errors"
	httptransport "securevote/contexts/election-core/election-service/transport/http"
)

type Handler struct {
	Elections commands.ElectionUseCase
	Catalog   queries.CatalogUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return httptransport.ElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return httptransport.ElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalVoters: req.TotalVoters,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, 0, 0), nil
}

func (h Handler) AddPositionHandler(
	ctx context.Context,
	electionID string,
	req httptransport.AddPositionRequest,
) (httptransport.PositionResponse, error) {
	position, err := h.Elections.AddPosition(ctx, commands.AddPositionCommand{
		ElectionID:    electionID,
		Title:         req.Title,
		Description:   req.Description,
		MinSelections: req.MinSelections,
		MaxSelections: req.MaxSelections,
	})
	if err != nil {
		return httptransport.PositionResponse{}, err
	}
	return positionResponse(position, nil), nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	positionID string,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Elections.AddCandidate(ctx, commands.AddCandidateCommand{
		PositionID: positionID,
		Name:       req.Name,
		Party:      req.Party,
		Bio:        req.Bio,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) TransitionStatusHandler(
	ctx context.Context,
	electionID string,
	req httptransport.TransitionStatusRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.TransitionStatus(ctx, commands.TransitionStatusCommand{
		ElectionID: electionID,
		Status:     req.Status,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, 0, 0), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	summaries, err := h.Catalog.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, electionResponse(summary.Election, summary.VotesCast, summary.ParticipationRate))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionDetailResponse, error) {
	detail, err := h.Catalog.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionDetailResponse{}, err
	}
	positions := make([]httptransport.PositionResponse, 0, len(detail.Positions))
	for _, position := range detail.Positions {
		positions = append(positions, positionResponse(position.Position, position.Candidates))
	}
	return httptransport.ElectionDetailResponse{
		ElectionResponse: electionResponse(detail.Election, detail.VotesCast, detail.ParticipationRate),
		Positions:        positions,
	}, nil
}

func electionResponse(election entities.Election, votesCast int, participation float64) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:        election.ElectionID,
		Title:             election.Title,
		Description:       election.Description,
		Status:            election.Status,
		StartDate:         formatDate(election.StartDate),
		EndDate:           formatDate(election.EndDate),
		TotalVoters:       election.TotalVoters,
		VotesCast:         votesCast,
		ParticipationRate: participation,
		CreatedAt:         formatDate(election.CreatedAt),
	}
}

func positionResponse(position entities.Position, candidates []entities.Candidate) httptransport.PositionResponse {
	resp := httptransport.PositionResponse{
		PositionID:    position.PositionID,
		ElectionID:    position.ElectionID,
		Title:         position.Title,
		Description:   position.Description,
		MinSelections: position.MinSelections,
		MaxSelections: position.MaxSelections,
	}
	for _, candidate := range candidates {
		resp.Candidates = append(resp.Candidates, candidateResponse(candidate))
	}
	return resp
}

func candidateResponse(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		PositionID:  candidate.PositionID,
		Name:        candidate.Name,
		Party:       candidate.Party,
		Bio:         candidate.Bio,
	}
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
