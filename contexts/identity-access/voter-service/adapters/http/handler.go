package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"securevote/contexts/identity-access/voter-service/application/commands"
	"securevote/contexts/identity-access/voter-service/application/queries"
	"securevote/contexts/identity-access/voter-service/domain/entities"
	"securevote/contexts/identity-access/voter-service/ports"
	httptransport "securevote/contexts/identity-access/voter-service/transport/http"
)

type Handler struct {
	Accounts commands.AccountUseCase
	Stats    queries.StatsUseCase
	Tokens   ports.TokenManager
	Logger   *slog.Logger
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Accounts.RegisterVoter(ctx, commands.RegisterVoterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) LoginVoterHandler(
	ctx context.Context,
	req httptransport.LoginVoterRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Accounts.LoginVoter(ctx, commands.LoginVoterCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) RegisterAdminHandler(
	ctx context.Context,
	req httptransport.RegisterAdminRequest,
) (httptransport.AdminResponse, error) {
	admin, err := h.Accounts.RegisterAdmin(ctx, commands.RegisterAdminCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return httptransport.AdminResponse{}, err
	}
	return adminResponse(admin), nil
}

func (h Handler) LoginAdminHandler(
	ctx context.Context,
	req httptransport.LoginAdminRequest,
) (httptransport.AdminSessionResponse, error) {
	session, err := h.Accounts.LoginAdmin(ctx, commands.LoginAdminCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.AdminSessionResponse{}, err
	}
	return httptransport.AdminSessionResponse{
		Token: session.Token,
		Admin: adminResponse(session.Admin),
	}, nil
}

// VerifyAdminToken backs the admin route guard in the HTTP server.
func (h Handler) VerifyAdminToken(token string) (entities.AdminClaims, error) {
	return h.Tokens.Parse(token)
}

func (h Handler) DashboardStatsHandler(ctx context.Context) (httptransport.DashboardStatsResponse, error) {
	stats, err := h.Stats.Dashboard(ctx)
	if err != nil {
		return httptransport.DashboardStatsResponse{}, err
	}
	return httptransport.DashboardStatsResponse{
		TotalVoters:     stats.TotalVoters,
		TotalElections:  stats.TotalElections,
		ActiveElections: stats.ActiveElections,
		VotesCast:       stats.VotesCast,
	}, nil
}

func (h Handler) ListVotersHandler(ctx context.Context) (httptransport.VoterListResponse, error) {
	overviews, err := h.Stats.ListVoters(ctx)
	if err != nil {
		return httptransport.VoterListResponse{}, err
	}
	items := make([]httptransport.VoterOverviewItem, 0, len(overviews))
	for _, overview := range overviews {
		items = append(items, httptransport.VoterOverviewItem{
			VoterID:        overview.Voter.VoterID,
			Name:           overview.Voter.Name,
			Email:          overview.Voter.Email,
			ElectionsVoted: overview.ElectionsVoted,
			CreatedAt:      overview.Voter.CreatedAt.UTC().Format(time.RFC3339),
			LastLoginAt:    formatOptionalTime(overview.Voter.LastLoginAt),
		})
	}
	return httptransport.VoterListResponse{Items: items}, nil
}

func voterResponse(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		VoterID:     voter.VoterID,
		Name:        voter.Name,
		Email:       voter.Email,
		CreatedAt:   voter.CreatedAt.UTC().Format(time.RFC3339),
		LastLoginAt: formatOptionalTime(voter.LastLoginAt),
	}
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func adminResponse(admin entities.Admin) httptransport.AdminResponse {
	return httptransport.AdminResponse{
		AdminID:  admin.AdminID,
		Username: admin.Username,
		Email:    admin.Email,
		Role:     admin.Role,
	}
}
