package ballotservice

import (
	"log/slog"

	httpadapter "securevote/contexts/election-core/ballot-service/adapters/http"
	"securevote/contexts/election-core/ballot-service/adapters/memory"
	"securevote/contexts/election-core/ballot-service/application/commands"
	"securevote/contexts/election-core/ballot-service/application/queries"
	"securevote/contexts/election-core/ballot-service/application/workers"
	"securevote/contexts/election-core/ballot-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Ballots   ports.BallotRepository
	Elections ports.ElectionReader
	Voters    ports.VoterReader
	Verifier  ports.IdentityVerifier
	OutboxLog ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ballotUseCase := commands.BallotUseCase{
		Ballots:   deps.Ballots,
		Elections: deps.Elections,
		Voters:    deps.Voters,
		Verifier:  deps.Verifier,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Ballots:   deps.Ballots,
		Elections: deps.Elections,
		Clock:     deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ballots: ballotUseCase,
			Results: resultsUseCase,
			Logger:  deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxLog,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Ballots:   store,
		Elections: store,
		Voters:    store,
		OutboxLog: store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
