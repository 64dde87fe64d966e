package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "securevote/contexts/identity-access/voter-service/application"
	"securevote/contexts/identity-access/voter-service/domain/entities"
	domainerrors "securevote/contexts/identity-access/voter-service/domain/errors"
	"securevote/contexts/identity-access/voter-service/ports"
)

const minPasswordLength = 6

type RegisterVoterCommand struct {
	Name     string
	Email    string
	Password string
}

type LoginVoterCommand struct {
	Email    string
	Password string
}

type RegisterAdminCommand struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginAdminCommand struct {
	Username string
	Password string
}

type AdminSession struct {
	Admin entities.Admin
	Token string
}

// AccountUseCase owns voter and admin account lifecycle. Login failures on
// unknown accounts and wrong passwords both surface InvalidCredentials so
// responses never reveal which part was wrong.
type AccountUseCase struct {
	Voters ports.VoterRepository
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenManager
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc AccountUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	email := normalizeEmail(cmd.Email)
	if name == "" || !validEmail(email) || len(cmd.Password) < minPasswordLength {
		return entities.Voter{}, domainerrors.ErrInvalidAccountInput
	}

	if _, err := uc.Voters.GetVoterByEmail(ctx, email); err == nil {
		return entities.Voter{}, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		return entities.Voter{}, err
	}

	hash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.Voter{}, err
	}
	voterID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	voter := entities.Voter{
		VoterID:      voterID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.now(),
	}
	if err := uc.Voters.CreateVoter(ctx, voter); err != nil {
		return entities.Voter{}, err
	}

	logger.Info("voter registered",
		"event", "voter_registered",
		"module", "identity-access/voter-service",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return voter, nil
}

func (uc AccountUseCase) LoginVoter(ctx context.Context, cmd LoginVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	email := normalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		return entities.Voter{}, domainerrors.ErrInvalidCredentials
	}

	voter, err := uc.Voters.GetVoterByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrVoterNotFound) {
			return entities.Voter{}, domainerrors.ErrInvalidCredentials
		}
		return entities.Voter{}, err
	}
	if err := uc.Hasher.Compare(voter.PasswordHash, cmd.Password); err != nil {
		logger.Warn("voter login rejected",
			"event", "voter_login_rejected",
			"module", "identity-access/voter-service",
			"layer", "application",
			"voter_id", voter.VoterID,
		)
		return entities.Voter{}, domainerrors.ErrInvalidCredentials
	}

	// Stamping is advisory; a failed stamp must not fail the login.
	at := uc.now()
	if err := uc.Voters.RecordVoterLogin(ctx, voter.VoterID, at); err != nil {
		logger.Warn("voter login stamp failed",
			"event", "voter_login_stamp_failed",
			"module", "identity-access/voter-service",
			"layer", "application",
			"voter_id", voter.VoterID,
			"error", err.Error(),
		)
	} else {
		voter.LastLoginAt = at
	}

	logger.Info("voter logged in",
		"event", "voter_logged_in",
		"module", "identity-access/voter-service",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return voter, nil
}

func (uc AccountUseCase) RegisterAdmin(ctx context.Context, cmd RegisterAdminCommand) (entities.Admin, error) {
	logger := application.ResolveLogger(uc.Logger)
	username := strings.TrimSpace(cmd.Username)
	email := normalizeEmail(cmd.Email)
	role := strings.TrimSpace(cmd.Role)
	if role == "" {
		role = entities.RoleAdmin
	}
	if username == "" || !validEmail(email) || len(cmd.Password) < minPasswordLength || !entities.ValidRole(role) {
		return entities.Admin{}, domainerrors.ErrInvalidAccountInput
	}

	if _, err := uc.Admins.GetAdminByUsername(ctx, username); err == nil {
		return entities.Admin{}, domainerrors.ErrUsernameTaken
	} else if !errors.Is(err, domainerrors.ErrAdminNotFound) {
		return entities.Admin{}, err
	}

	hash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.Admin{}, err
	}
	adminID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Admin{}, err
	}
	admin := entities.Admin{
		AdminID:      adminID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    uc.now(),
	}
	if err := uc.Admins.CreateAdmin(ctx, admin); err != nil {
		return entities.Admin{}, err
	}

	logger.Info("admin registered",
		"event", "admin_registered",
		"module", "identity-access/voter-service",
		"layer", "application",
		"admin_id", admin.AdminID,
		"role", admin.Role,
	)
	return admin, nil
}

func (uc AccountUseCase) LoginAdmin(ctx context.Context, cmd LoginAdminCommand) (AdminSession, error) {
	logger := application.ResolveLogger(uc.Logger)
	username := strings.TrimSpace(cmd.Username)
	if username == "" || cmd.Password == "" {
		return AdminSession{}, domainerrors.ErrInvalidCredentials
	}

	admin, err := uc.Admins.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAdminNotFound) {
			return AdminSession{}, domainerrors.ErrInvalidCredentials
		}
		return AdminSession{}, err
	}
	if err := uc.Hasher.Compare(admin.PasswordHash, cmd.Password); err != nil {
		logger.Warn("admin login rejected",
			"event", "admin_login_rejected",
			"module", "identity-access/voter-service",
			"layer", "application",
			"admin_id", admin.AdminID,
		)
		return AdminSession{}, domainerrors.ErrInvalidCredentials
	}

	token, err := uc.Tokens.Issue(admin)
	if err != nil {
		return AdminSession{}, err
	}

	at := uc.now()
	if err := uc.Admins.RecordAdminLogin(ctx, admin.AdminID, at); err != nil {
		logger.Warn("admin login stamp failed",
			"event", "admin_login_stamp_failed",
			"module", "identity-access/voter-service",
			"layer", "application",
			"admin_id", admin.AdminID,
			"error", err.Error(),
		)
	} else {
		admin.LastLoginAt = at
	}

	logger.Info("admin logged in",
		"event", "admin_logged_in",
		"module", "identity-access/voter-service",
		"layer", "application",
		"admin_id", admin.AdminID,
	)
	return AdminSession{Admin: admin, Token: token}, nil
}

func (uc AccountUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
