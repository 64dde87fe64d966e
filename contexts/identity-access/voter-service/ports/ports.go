package ports

import (
	"context"
	"time"

	"securevote/contexts/identity-access/voter-service/domain/entities"
)

type VoterRepository interface {
	CreateVoter(ctx context.Context, voter entities.Voter) error
	GetVoter(ctx context.Context, voterID string) (entities.Voter, error)
	GetVoterByEmail(ctx context.Context, email string) (entities.Voter, error)
	ListVoters(ctx context.Context) ([]entities.Voter, error)
	CountVoters(ctx context.Context) (int, error)
	RecordVoterLogin(ctx context.Context, voterID string, at time.Time) error
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin entities.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (entities.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	RecordAdminLogin(ctx context.Context, adminID string, at time.Time) error
}

// PasswordHasher isolates the credential hashing scheme from the use cases.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenManager issues and verifies admin session tokens.
type TokenManager interface {
	Issue(admin entities.Admin) (string, error)
	Parse(token string) (entities.AdminClaims, error)
}

// ElectionStatsReader reads election-core counts for the admin dashboard.
// The identity context never writes these tables.
type ElectionStatsReader interface {
	CountElections(ctx context.Context) (int, error)
	CountActiveElections(ctx context.Context) (int, error)
	CountSessions(ctx context.Context) (int, error)
	CountSessionsByVoter(ctx context.Context, voterID string) (int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
