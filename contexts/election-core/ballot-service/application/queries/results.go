package queries

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"securevote/contexts/election-core/ballot-service/domain/entities"
	"securevote/contexts/election-core/ballot-service/ports"
)

// ResultsUseCase computes live tallies from the ballot store. Counts are
// always derived from ballot and session rows; there are no stored counters
// that could drift.
type ResultsUseCase struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionReader
	Clock     ports.Clock
}

func (uc ResultsUseCase) ComputeResults(ctx context.Context, electionID string) (entities.ElectionResults, error) {
	electionID = strings.TrimSpace(electionID)
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	positions, err := uc.Elections.ListPositions(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	candidates, err := uc.Elections.ListCandidates(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	ballots, err := uc.Ballots.ListBallotsByElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	sessions, err := uc.Ballots.CountSessionsByElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}

	tally := make(map[string]int, len(candidates))
	for _, ballot := range ballots {
		tally[ballot.CandidateID]++
	}

	candidatesByPosition := make(map[string][]ports.CandidateProjection, len(positions))
	for _, candidate := range candidates {
		candidatesByPosition[candidate.PositionID] = append(candidatesByPosition[candidate.PositionID], candidate)
	}

	results := entities.ElectionResults{
		ElectionID:        electionID,
		VotesCast:         sessions,
		TotalVoters:       election.TotalVoters,
		ParticipationRate: percentage(sessions, election.TotalVoters),
		Positions:         make([]entities.PositionResult, 0, len(positions)),
		ComputedAt:        uc.now(),
	}

	for _, position := range positions {
		slate := candidatesByPosition[position.PositionID]
		total := 0
		for _, candidate := range slate {
			total += tally[candidate.CandidateID]
		}

		row := entities.PositionResult{
			PositionID: position.PositionID,
			Title:      position.Title,
			TotalVotes: total,
			Candidates: make([]entities.CandidateResult, 0, len(slate)),
		}
		for _, candidate := range slate {
			votes := tally[candidate.CandidateID]
			row.Candidates = append(row.Candidates, entities.CandidateResult{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				Party:       candidate.Party,
				Votes:       votes,
				Percentage:  percentage(votes, total),
			})
		}
		sort.Slice(row.Candidates, func(i, j int) bool {
			if row.Candidates[i].Votes == row.Candidates[j].Votes {
				return row.Candidates[i].Name < row.Candidates[j].Name
			}
			return row.Candidates[i].Votes > row.Candidates[j].Votes
		})
		results.Positions = append(results.Positions, row)
	}
	return results, nil
}

// HasVoted derives the voter's per-election status from session existence.
// There is no stored has_voted flag to fall out of sync.
func (uc ResultsUseCase) HasVoted(ctx context.Context, voterID string, electionID string) (bool, error) {
	return uc.Ballots.HasVoted(ctx, strings.TrimSpace(voterID), strings.TrimSpace(electionID))
}

func (uc ResultsUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// percentage is part/total as a percentage rounded to one decimal place,
// and 0 when total is 0 so empty positions never report NaN.
func percentage(part int, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
