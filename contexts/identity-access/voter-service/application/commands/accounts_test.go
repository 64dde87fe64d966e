package commands

import (
	"context"
	"errors"
	"testing"

	"securevote/contexts/identity-access/voter-service/adapters/memory"
	"securevote/contexts/identity-access/voter-service/adapters/security"
	"securevote/contexts/identity-access/voter-service/domain/entities"
	domainerrors "securevote/contexts/identity-access/voter-service/domain/errors"
)

func newAccountUseCase() (AccountUseCase, *memory.Store) {
	store := memory.NewStore()
	return AccountUseCase{
		Voters: store,
		Admins: store,
		Hasher: security.BcryptHasher{},
		Tokens: security.NewJWTManager("test-secret"),
		Clock:  store,
		IDGen:  store,
	}, store
}

func TestRegisterAndLoginVoter(t *testing.T) {
	uc, _ := newAccountUseCase()

	voter, err := uc.RegisterVoter(context.Background(), RegisterVoterCommand{
		Name:     "Ada Nwosu",
		Email:    "Ada@Example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if voter.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", voter.Email)
	}
	if voter.PasswordHash == "password1" || voter.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	logged, err := uc.LoginVoter(context.Background(), LoginVoterCommand{
		Email:    "ada@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.VoterID != voter.VoterID {
		t.Fatalf("expected same voter id")
	}
	if logged.LastLoginAt.IsZero() {
		t.Fatalf("expected login to stamp last login time")
	}
}

func TestLoginVoterRejectsBadCredentials(t *testing.T) {
	uc, _ := newAccountUseCase()
	if _, err := uc.RegisterVoter(context.Background(), RegisterVoterCommand{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := uc.LoginVoter(context.Background(), LoginVoterCommand{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Unknown account fails the same way.
	_, err = uc.LoginVoter(context.Background(), LoginVoterCommand{
		Email:    "ghost@example.com",
		Password: "password1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterVoterRejectsDuplicateEmail(t *testing.T) {
	uc, _ := newAccountUseCase()
	if _, err := uc.RegisterVoter(context.Background(), RegisterVoterCommand{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := uc.RegisterVoter(context.Background(), RegisterVoterCommand{
		Name:     "Other Ada",
		Email:    "ADA@example.com",
		Password: "password2",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterVoterValidatesInput(t *testing.T) {
	uc, _ := newAccountUseCase()
	cases := []RegisterVoterCommand{
		{Name: "", Email: "a@b.io", Password: "password1"},
		{Name: "Ada", Email: "not-an-email", Password: "password1"},
		{Name: "Ada", Email: "a@b.io", Password: "tiny"},
	}
	for _, cmd := range cases {
		if _, err := uc.RegisterVoter(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidAccountInput) {
			t.Fatalf("expected ErrInvalidAccountInput for %+v, got %v", cmd, err)
		}
	}
}

func TestAdminLoginIssuesToken(t *testing.T) {
	uc, _ := newAccountUseCase()
	admin, err := uc.RegisterAdmin(context.Background(), RegisterAdminCommand{
		Username: "superadmin",
		Email:    "root@securevote.local",
		Password: "superadmin123",
		Role:     entities.RoleSuperAdmin,
	})
	if err != nil {
		t.Fatalf("register admin failed: %v", err)
	}

	session, err := uc.LoginAdmin(context.Background(), LoginAdminCommand{
		Username: "superadmin",
		Password: "superadmin123",
	})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token")
	}

	claims, err := uc.Tokens.Parse(session.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.AdminID || claims.Role != entities.RoleSuperAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := uc.Tokens.Parse("not-a-token"); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRegisterAdminDefaultsRoleAndRejectsDuplicates(t *testing.T) {
	uc, _ := newAccountUseCase()
	admin, err := uc.RegisterAdmin(context.Background(), RegisterAdminCommand{
		Username: "ops",
		Email:    "ops@securevote.local",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("register admin failed: %v", err)
	}
	if admin.Role != entities.RoleAdmin {
		t.Fatalf("expected default admin role, got %s", admin.Role)
	}

	_, err = uc.RegisterAdmin(context.Background(), RegisterAdminCommand{
		Username: "OPS",
		Email:    "ops2@securevote.local",
		Password: "password1",
	})
	if !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}
