package queries

import (
	"context"
	"sort"
	"strings"

	"securevote/contexts/identity-access/voter-service/domain/entities"
	"securevote/contexts/identity-access/voter-service/ports"
)

type DashboardStats struct {
	TotalVoters     int
	TotalElections  int
	ActiveElections int
	VotesCast       int
}

type VoterOverview struct {
	Voter          entities.Voter
	ElectionsVoted int
}

// StatsUseCase serves the admin dashboard. All counts are derived from the
// owning tables at read time.
type StatsUseCase struct {
	Voters ports.VoterRepository
	Stats  ports.ElectionStatsReader
}

func (uc StatsUseCase) Dashboard(ctx context.Context) (DashboardStats, error) {
	totalVoters, err := uc.Voters.CountVoters(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	totalElections, err := uc.Stats.CountElections(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	activeElections, err := uc.Stats.CountActiveElections(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	votesCast, err := uc.Stats.CountSessions(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		TotalVoters:     totalVoters,
		TotalElections:  totalElections,
		ActiveElections: activeElections,
		VotesCast:       votesCast,
	}, nil
}

func (uc StatsUseCase) ListVoters(ctx context.Context) ([]VoterOverview, error) {
	voters, err := uc.Voters.ListVoters(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(voters, func(i, j int) bool {
		return strings.ToLower(voters[i].Name) < strings.ToLower(voters[j].Name)
	})

	items := make([]VoterOverview, 0, len(voters))
	for _, voter := range voters {
		voted, err := uc.Stats.CountSessionsByVoter(ctx, voter.VoterID)
		if err != nil {
			return nil, err
		}
		items = append(items, VoterOverview{
			Voter:          voter,
			ElectionsVoted: voted,
		})
	}
	return items, nil
}
