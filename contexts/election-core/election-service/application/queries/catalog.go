package queries

import (
	"context"
	"math"
	"sort"
	"strings"

	"securevote/contexts/election-core/election-service/domain/entities"
	"securevote/contexts/election-core/election-service/ports"
)

type ElectionSummary struct {
	Election          entities.Election
	VotesCast         int
	ParticipationRate float64
}

type PositionDetail struct {
	Position   entities.Position
	Candidates []entities.Candidate
}

type ElectionDetail struct {
	Election          entities.Election
	VotesCast         int
	ParticipationRate float64
	Positions         []PositionDetail
}

// CatalogUseCase serves the public election read model. Votes-cast and
// participation numbers are derived from ballot sessions on every read.
type CatalogUseCase struct {
	Elections ports.ElectionRepository
	Sessions  ports.SessionCounter
}

func (uc CatalogUseCase) ListElections(ctx context.Context) ([]ElectionSummary, error) {
	elections, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(elections, func(i, j int) bool {
		if elections[i].CreatedAt.Equal(elections[j].CreatedAt) {
			return elections[i].ElectionID < elections[j].ElectionID
		}
		return elections[i].CreatedAt.After(elections[j].CreatedAt)
	})

	summaries := make([]ElectionSummary, 0, len(elections))
	for _, election := range elections {
		votesCast, err := uc.Sessions.CountSessionsByElection(ctx, election.ElectionID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ElectionSummary{
			Election:          election,
			VotesCast:         votesCast,
			ParticipationRate: percentage(votesCast, election.TotalVoters),
		})
	}
	return summaries, nil
}

func (uc CatalogUseCase) GetElection(ctx context.Context, electionID string) (ElectionDetail, error) {
	electionID = strings.TrimSpace(electionID)
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, err
	}
	positions, err := uc.Elections.ListPositionsByElection(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, err
	}
	candidates, err := uc.Elections.ListCandidatesByElection(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, err
	}
	votesCast, err := uc.Sessions.CountSessionsByElection(ctx, electionID)
	if err != nil {
		return ElectionDetail{}, err
	}

	candidatesByPosition := make(map[string][]entities.Candidate, len(positions))
	for _, candidate := range candidates {
		candidatesByPosition[candidate.PositionID] = append(candidatesByPosition[candidate.PositionID], candidate)
	}

	detail := ElectionDetail{
		Election:          election,
		VotesCast:         votesCast,
		ParticipationRate: percentage(votesCast, election.TotalVoters),
		Positions:         make([]PositionDetail, 0, len(positions)),
	}
	for _, position := range positions {
		slate := candidatesByPosition[position.PositionID]
		sort.Slice(slate, func(i, j int) bool {
			return slate[i].Name < slate[j].Name
		})
		detail.Positions = append(detail.Positions, PositionDetail{
			Position:   position,
			Candidates: slate,
		})
	}
	return detail, nil
}

func percentage(part int, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
