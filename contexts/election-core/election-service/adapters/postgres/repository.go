package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"securevote/contexts/election-core/election-service/domain/entities"
	domainerrors "securevote/contexts/election-core/election-service/domain/errors"
	"securevote/contexts/election-core/election-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

// AutoMigrate creates the catalog tables. The ballot side reads the same
// tables as projections; this repository is their single writer.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&electionModel{},
		&positionModel{},
		&candidateModel{},
	)
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateElection
		}
		return r.logError("election_repo_create_failed", err, "election_id", row.ID)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateElectionStatus(ctx context.Context, electionID string, status string) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Update("status", strings.TrimSpace(status))
	if result.Error != nil {
		return r.logError("election_repo_update_status_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) CreatePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("election_repo_create_position_failed", err,
			"position_id", row.ID,
			"election_id", row.ElectionID,
		)
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, r.logError("election_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPositionsByElection(ctx context.Context, electionID string) ([]entities.Position, error) {
	var rows []positionModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_positions_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Position, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("election_repo_create_candidate_failed", err,
			"candidate_id", row.ID,
			"position_id", row.PositionID,
		)
	}
	return nil
}

func (r *Repository) ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.*").
		Joins("JOIN positions AS p ON p.id = c.position_id").
		Where("p.election_id = ?", strings.TrimSpace(electionID)).
		Order("c.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CountSessionsByElection reads the ballot side's session table directly.
// Both catalogs share one database, so the count is exact at read time.
func (r *Repository) CountSessionsByElection(ctx context.Context, electionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("voting_sessions").
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("election_repo_count_sessions_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-core/election-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

type electionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status;index"`
	StartDate   time.Time `gorm:"column:start_date"`
	EndDate     time.Time `gorm:"column:end_date"`
	TotalVoters int       `gorm:"column:total_voters"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	return electionModel{
		ID:          strings.TrimSpace(election.ElectionID),
		Title:       strings.TrimSpace(election.Title),
		Description: election.Description,
		Status:      strings.TrimSpace(election.Status),
		StartDate:   election.StartDate.UTC(),
		EndDate:     election.EndDate.UTC(),
		TotalVoters: election.TotalVoters,
		CreatedAt:   election.CreatedAt.UTC(),
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:  m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		StartDate:   m.StartDate.UTC(),
		EndDate:     m.EndDate.UTC(),
		TotalVoters: m.TotalVoters,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type positionModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	ElectionID    string `gorm:"column:election_id;index"`
	Title         string `gorm:"column:title"`
	Description   string `gorm:"column:description"`
	MinSelections int    `gorm:"column:min_selections"`
	MaxSelections int    `gorm:"column:max_selections"`
}

func (positionModel) TableName() string {
	return "positions"
}

func positionModelFromEntity(position entities.Position) positionModel {
	return positionModel{
		ID:            strings.TrimSpace(position.PositionID),
		ElectionID:    strings.TrimSpace(position.ElectionID),
		Title:         strings.TrimSpace(position.Title),
		Description:   position.Description,
		MinSelections: position.MinSelections,
		MaxSelections: position.MaxSelections,
	}
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:    m.ID,
		ElectionID:    m.ElectionID,
		Title:         m.Title,
		Description:   m.Description,
		MinSelections: m.MinSelections,
		MaxSelections: m.MaxSelections,
	}
}

type candidateModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	PositionID string `gorm:"column:position_id;index"`
	Name       string `gorm:"column:name"`
	Party      string `gorm:"column:party"`
	Bio        string `gorm:"column:bio"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		ID:         strings.TrimSpace(candidate.CandidateID),
		PositionID: strings.TrimSpace(candidate.PositionID),
		Name:       strings.TrimSpace(candidate.Name),
		Party:      candidate.Party,
		Bio:        candidate.Bio,
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		PositionID:  m.PositionID,
		Name:        m.Name,
		Party:       m.Party,
		Bio:         m.Bio,
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.SessionCounter = (*Repository)(nil)
