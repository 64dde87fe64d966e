package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ballotservice "securevote/contexts/election-core/ballot-service"
	ballotpostgres "securevote/contexts/election-core/ballot-service/adapters/postgres"
	"securevote/contexts/election-core/ballot-service/adapters/verifier"
	ballotworkers "securevote/contexts/election-core/ballot-service/application/workers"
	electionservice "securevote/contexts/election-core/election-service"
	electionpostgres "securevote/contexts/election-core/election-service/adapters/postgres"
	electioncommands "securevote/contexts/election-core/election-service/application/commands"
	voterservice "securevote/contexts/identity-access/voter-service"
	voterpostgres "securevote/contexts/identity-access/voter-service/adapters/postgres"
	"securevote/contexts/identity-access/voter-service/adapters/security"
	votercommands "securevote/contexts/identity-access/voter-service/application/commands"
	votererrors "securevote/contexts/identity-access/voter-service/domain/errors"
	"securevote/internal/platform/config"
	"securevote/internal/platform/db"
	"securevote/internal/platform/httpserver"
	"securevote/internal/platform/messaging"
	"securevote/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	store  *db.Postgres
	logger *slog.Logger
}

type WorkerApp struct {
	store        *db.Postgres
	outboxRelay  ballotworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	store, err := db.Connect(cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	ballotRepo := ballotpostgres.NewRepository(store.DB, logger)
	electionRepo := electionpostgres.NewRepository(store.DB, logger)
	voterRepo := voterpostgres.NewRepository(store.DB, logger)

	if err := electionRepo.AutoMigrate(); err != nil {
		return nil, err
	}
	if err := voterRepo.AutoMigrate(); err != nil {
		return nil, err
	}
	if err := ballotRepo.AutoMigrate(); err != nil {
		return nil, err
	}

	tokens := security.NewJWTManager(cfg.JWTSecret)

	ballotModule := ballotservice.NewModule(ballotservice.Dependencies{
		Ballots:   ballotRepo,
		Elections: ballotRepo,
		Voters:    ballotRepo,
		Verifier:  verifier.NewStatic(),
		OutboxLog: ballotRepo,
		Clock:     ballotpostgres.SystemClock{},
		IDGen:     ballotpostgres.UUIDGenerator{},
		Logger:    logger,
	})
	electionModule := electionservice.NewModule(electionservice.Dependencies{
		Elections: electionRepo,
		Sessions:  electionRepo,
		Clock:     electionpostgres.SystemClock{},
		IDGen:     electionpostgres.UUIDGenerator{},
		Logger:    logger,
	})
	voterModule := voterservice.NewModule(voterservice.Dependencies{
		Voters: voterRepo,
		Admins: voterRepo,
		Hasher: security.BcryptHasher{},
		Tokens: tokens,
		Stats:  voterRepo,
		Clock:  voterpostgres.SystemClock{},
		IDGen:  voterpostgres.UUIDGenerator{},
		Logger: logger,
	})

	if cfg.SeedSampleData {
		if err := seedSampleData(context.Background(), electionRepo, voterRepo, logger); err != nil {
			return nil, err
		}
	}

	server := httpserver.New(ballotModule, electionModule, voterModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		store:  store,
		logger: logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	store, err := db.Connect(cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := ballotpostgres.NewRepository(store.DB, logger)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}

	pollInterval := time.Duration(cfg.OutboxRelayIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &WorkerApp{
		store: store,
		outboxRelay: ballotworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     ballotpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: pollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		published, err := w.outboxRelay.RunOnce(ctx)
		if err != nil {
			return err
		}
		metrics.OutboxPublished.Add(float64(published))
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.store != nil {
		return w.store.Close()
	}
	return nil
}

// seedSampleData provisions the bootstrap superadmin and a demo election so a
// fresh install is immediately usable. It is a no-op once any admin exists.
func seedSampleData(
	ctx context.Context,
	electionRepo *electionpostgres.Repository,
	voterRepo *voterpostgres.Repository,
	logger *slog.Logger,
) error {
	existing, err := voterRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	accounts := votercommands.AccountUseCase{
		Voters: voterRepo,
		Admins: voterRepo,
		Hasher: security.BcryptHasher{},
		Clock:  voterpostgres.SystemClock{},
		IDGen:  voterpostgres.UUIDGenerator{},
		Logger: logger,
	}
	elections := electioncommands.ElectionUseCase{
		Elections: electionRepo,
		Clock:     electionpostgres.SystemClock{},
		IDGen:     electionpostgres.UUIDGenerator{},
		Logger:    logger,
	}

	if _, err := accounts.RegisterAdmin(ctx, votercommands.RegisterAdminCommand{
		Username: "superadmin",
		Email:    "superadmin@securevote.local",
		Password: "superadmin123",
		Role:     "super_admin",
	}); err != nil && !errors.Is(err, votererrors.ErrUsernameTaken) {
		return err
	}

	for _, sample := range []votercommands.RegisterVoterCommand{
		{Name: "Ada Nwosu", Email: "ada@example.com", Password: "password1"},
		{Name: "Ben Okafor", Email: "ben@example.com", Password: "password1"},
		{Name: "Chi Eze", Email: "chi@example.com", Password: "password1"},
	} {
		if _, err := accounts.RegisterVoter(ctx, sample); err != nil &&
			!errors.Is(err, votererrors.ErrEmailTaken) {
			return err
		}
	}

	now := time.Now().UTC()
	election, err := elections.CreateElection(ctx, electioncommands.CreateElectionCommand{
		Title:       "Student Union Election",
		Description: "Annual student union leadership election.",
		StartDate:   now,
		EndDate:     now.Add(7 * 24 * time.Hour),
		TotalVoters: 3,
	})
	if err != nil {
		return err
	}

	president, err := elections.AddPosition(ctx, electioncommands.AddPositionCommand{
		ElectionID: election.ElectionID,
		Title:      "President",
	})
	if err != nil {
		return err
	}
	secretary, err := elections.AddPosition(ctx, electioncommands.AddPositionCommand{
		ElectionID: election.ElectionID,
		Title:      "Secretary",
	})
	if err != nil {
		return err
	}

	for _, candidate := range []electioncommands.AddCandidateCommand{
		{PositionID: president.PositionID, Name: "Dana Abel", Party: "Unity"},
		{PositionID: president.PositionID, Name: "Efe Ojo", Party: "Progress"},
		{PositionID: secretary.PositionID, Name: "Femi Ade", Party: "Unity"},
		{PositionID: secretary.PositionID, Name: "Gozie Obi", Party: "Progress"},
	} {
		if _, err := elections.AddCandidate(ctx, candidate); err != nil {
			return err
		}
	}

	if _, err := elections.TransitionStatus(ctx, electioncommands.TransitionStatusCommand{
		ElectionID: election.ElectionID,
		Status:     "active",
	}); err != nil {
		return err
	}

	logger.Info("sample data seeded",
		"event", "bootstrap_sample_data_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"election_id", election.ElectionID,
	)
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
