package electionservice

import (
	"log/slog"

	httpadapter "securevote/contexts/election-core/election-service/adapters/http"
	"securevote/contexts/election-core/election-service/adapters/memory"
	"securevote/contexts/election-core/election-service/application/commands"
	"securevote/contexts/election-core/election-service/application/queries"
	"securevote/contexts/election-core/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Sessions  ports.SessionCounter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		Elections: deps.Elections,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	catalogUseCase := queries.CatalogUseCase{
		Elections: deps.Elections,
		Sessions:  deps.Sessions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Catalog:   catalogUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections: store,
		Sessions:  store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
