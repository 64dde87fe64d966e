package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"securevote/contexts/election-core/ballot-service/domain/entities"
	domainerrors "securevote/contexts/election-core/ballot-service/domain/errors"
	"securevote/contexts/election-core/ballot-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the ballot tables. The session unique key on
// (voter_id, election_id) is the double-vote guard; the ballot unique key is a
// backstop against duplicate selections slipping past validation.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&ballotSessionModel{},
		&ballotModel{},
		&outboxModel{},
	)
}

// RecordSession commits the session row, every ballot row, and the outbox
// event in one transaction. A unique violation on the session key means a
// concurrent or earlier session won; any failure, the outbox insert included,
// rolls the whole transaction back so the caller never sees a counted vote
// alongside an error.
func (r *Repository) RecordSession(
	ctx context.Context,
	session entities.BallotSession,
	ballots []entities.Ballot,
	event ports.EventEnvelope,
) error {
	sessionRow := sessionModelFromEntity(session)
	ballotRows := make([]ballotModel, 0, len(ballots))
	for _, ballot := range ballots {
		ballotRows = append(ballotRows, ballotModelFromEntity(ballot))
	}
	outboxRow, err := outboxRowFromEnvelope(event)
	if err != nil {
		return r.logError("ballot_repo_record_session_marshal_failed", err,
			"session_id", strings.TrimSpace(session.SessionID),
			"event_type", strings.TrimSpace(event.EventType),
		)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sessionRow).Error; err != nil {
			return err
		}
		if len(ballotRows) > 0 {
			if err := tx.Create(&ballotRows).Error; err != nil {
				return err
			}
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("ballot_repo_record_session_failed", err,
			"session_id", strings.TrimSpace(session.SessionID),
			"voter_id", strings.TrimSpace(session.VoterID),
			"election_id", strings.TrimSpace(session.ElectionID),
		)
	}
	return nil
}

func (r *Repository) HasVoted(ctx context.Context, voterID string, electionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ballotSessionModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("ballot_repo_has_voted_failed", err,
			"voter_id", strings.TrimSpace(voterID),
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListBallotsByElection(ctx context.Context, electionID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("cast_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_by_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return toBallotEntities(rows), nil
}

func (r *Repository) ListBallotsByCandidate(ctx context.Context, candidateID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("candidate_id = ?", strings.TrimSpace(candidateID)).
		Order("cast_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_by_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return toBallotEntities(rows), nil
}

func (r *Repository) CountSessionsByElection(ctx context.Context, electionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ballotSessionModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("ballot_repo_count_sessions_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(count), nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (ports.ElectionProjection, error) {
	var row electionProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ElectionProjection{}, domainerrors.ErrElectionNotFound
		}
		return ports.ElectionProjection{}, r.logError("ballot_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return ports.ElectionProjection{
		ElectionID:  row.ID,
		Title:       row.Title,
		Status:      row.Status,
		TotalVoters: row.TotalVoters,
	}, nil
}

func (r *Repository) ListPositions(ctx context.Context, electionID string) ([]ports.PositionProjection, error) {
	var rows []positionProjectionModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_positions_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]ports.PositionProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.PositionProjection{
			PositionID:    row.ID,
			ElectionID:    row.ElectionID,
			Title:         row.Title,
			MinSelections: row.MinSelections,
			MaxSelections: row.MaxSelections,
		})
	}
	return items, nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID string) ([]ports.CandidateProjection, error) {
	var rows []candidateProjectionModel
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.*").
		Joins("JOIN positions AS p ON p.id = c.position_id").
		Where("p.election_id = ?", strings.TrimSpace(electionID)).
		Order("c.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]ports.CandidateProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CandidateProjection{
			CandidateID: row.ID,
			PositionID:  row.PositionID,
			Name:        row.Name,
			Party:       row.Party,
		})
	}
	return items, nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (ports.VoterProjection, error) {
	var row voterProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VoterProjection{}, domainerrors.ErrVoterNotFound
		}
		return ports.VoterProjection{}, r.logError("ballot_repo_get_voter_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return ports.VoterProjection{
		VoterID: row.ID,
		Name:    row.Name,
	}, nil
}

func outboxRowFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("ballot_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStoreFailure
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-core/ballot-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ballot repository operation failed", fields...)
	return err
}

type ballotSessionModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	VoterID    string    `gorm:"column:voter_id;uniqueIndex:uq_voting_session"`
	ElectionID string    `gorm:"column:election_id;uniqueIndex:uq_voting_session"`
	CastAt     time.Time `gorm:"column:cast_at"`
}

func (ballotSessionModel) TableName() string {
	return "voting_sessions"
}

func sessionModelFromEntity(session entities.BallotSession) ballotSessionModel {
	row := ballotSessionModel{
		ID:         strings.TrimSpace(session.SessionID),
		VoterID:    strings.TrimSpace(session.VoterID),
		ElectionID: strings.TrimSpace(session.ElectionID),
		CastAt:     session.CastAt.UTC(),
	}
	if row.CastAt.IsZero() {
		row.CastAt = time.Now().UTC()
	}
	return row
}

type ballotModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	SessionID   string    `gorm:"column:session_id;index"`
	VoterID     string    `gorm:"column:voter_id;uniqueIndex:uq_ballot_selection"`
	ElectionID  string    `gorm:"column:election_id;uniqueIndex:uq_ballot_selection"`
	PositionID  string    `gorm:"column:position_id;uniqueIndex:uq_ballot_selection"`
	CandidateID string    `gorm:"column:candidate_id;uniqueIndex:uq_ballot_selection"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	row := ballotModel{
		ID:          strings.TrimSpace(ballot.BallotID),
		SessionID:   strings.TrimSpace(ballot.SessionID),
		VoterID:     strings.TrimSpace(ballot.VoterID),
		ElectionID:  strings.TrimSpace(ballot.ElectionID),
		PositionID:  strings.TrimSpace(ballot.PositionID),
		CandidateID: strings.TrimSpace(ballot.CandidateID),
		CastAt:      ballot.CastAt.UTC(),
	}
	if row.CastAt.IsZero() {
		row.CastAt = time.Now().UTC()
	}
	return row
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:    m.ID,
		SessionID:   m.SessionID,
		VoterID:     m.VoterID,
		ElectionID:  m.ElectionID,
		PositionID:  m.PositionID,
		CandidateID: m.CandidateID,
		CastAt:      m.CastAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "ballot_outbox"
}

type electionProjectionModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	Title       string `gorm:"column:title"`
	Status      string `gorm:"column:status"`
	TotalVoters int    `gorm:"column:total_voters"`
}

func (electionProjectionModel) TableName() string {
	return "elections"
}

type positionProjectionModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	ElectionID    string `gorm:"column:election_id"`
	Title         string `gorm:"column:title"`
	MinSelections int    `gorm:"column:min_selections"`
	MaxSelections int    `gorm:"column:max_selections"`
}

func (positionProjectionModel) TableName() string {
	return "positions"
}

type candidateProjectionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	PositionID string `gorm:"column:position_id"`
	Name       string `gorm:"column:name"`
	Party      string `gorm:"column:party"`
}

func (candidateProjectionModel) TableName() string {
	return "candidates"
}

type voterProjectionModel struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (voterProjectionModel) TableName() string {
	return "voters"
}

func toBallotEntities(rows []ballotModel) []entities.Ballot {
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

// isUniqueViolation covers both backends: pgconn surfaces SQLSTATE 23505, and
// the sqlite fallback relies on gorm's error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.ElectionReader = (*Repository)(nil)
var _ ports.VoterReader = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
