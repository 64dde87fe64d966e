package voterservice

import (
	"log/slog"

	httpadapter "securevote/contexts/identity-access/voter-service/adapters/http"
	"securevote/contexts/identity-access/voter-service/adapters/memory"
	"securevote/contexts/identity-access/voter-service/adapters/security"
	"securevote/contexts/identity-access/voter-service/application/commands"
	"securevote/contexts/identity-access/voter-service/application/queries"
	"securevote/contexts/identity-access/voter-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Voters ports.VoterRepository
	Admins ports.AdminRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenManager
	Stats  ports.ElectionStatsReader
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	accountUseCase := commands.AccountUseCase{
		Voters: deps.Voters,
		Admins: deps.Admins,
		Hasher: deps.Hasher,
		Tokens: deps.Tokens,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	statsUseCase := queries.StatsUseCase{
		Voters: deps.Voters,
		Stats:  deps.Stats,
	}
	return Module{
		Handler: httpadapter.Handler{
			Accounts: accountUseCase,
			Stats:    statsUseCase,
			Tokens:   deps.Tokens,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(jwtSecret string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Voters: store,
		Admins: store,
		Hasher: security.BcryptHasher{},
		Tokens: security.NewJWTManager(jwtSecret),
		Stats:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
