package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"securevote/contexts/identity-access/voter-service/domain/entities"
	domainerrors "securevote/contexts/identity-access/voter-service/domain/errors"
	"securevote/contexts/identity-access/voter-service/ports"

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

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&voterModel{},
		&adminModel{},
	)
}

func (r *Repository) CreateVoter(ctx context.Context, voter entities.Voter) error {
	row := voterModelFromEntity(voter)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return r.logError("voter_repo_create_failed", err, "voter_id", row.ID)
	}
	return nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, r.logError("voter_repo_get_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoterByEmail(ctx context.Context, email string) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, r.logError("voter_repo_get_by_email_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListVoters(ctx context.Context) ([]entities.Voter, error) {
	var rows []voterModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voter_repo_list_failed", err)
	}
	items := make([]entities.Voter, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountVoters(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Count(&count).Error; err != nil {
		return 0, r.logError("voter_repo_count_failed", err)
	}
	return int(count), nil
}

func (r *Repository) RecordVoterLogin(ctx context.Context, voterID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Where("id = ?", strings.TrimSpace(voterID)).
		Update("last_login_at", at.UTC())
	if result.Error != nil {
		return r.logError("voter_repo_login_stamp_failed", result.Error, "voter_id", voterID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoterNotFound
	}
	return nil
}

func (r *Repository) CreateAdmin(ctx context.Context, admin entities.Admin) error {
	row := adminModelFromEntity(admin)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrUsernameTaken
		}
		return r.logError("admin_repo_create_failed", err, "admin_id", row.ID)
	}
	return nil
}

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (entities.Admin, error) {
	var row adminModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Admin{}, domainerrors.ErrAdminNotFound
		}
		return entities.Admin{}, r.logError("admin_repo_get_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) RecordAdminLogin(ctx context.Context, adminID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&adminModel{}).
		Where("id = ?", strings.TrimSpace(adminID)).
		Update("last_login_at", at.UTC())
	if result.Error != nil {
		return r.logError("admin_repo_login_stamp_failed", result.Error, "admin_id", adminID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAdminNotFound
	}
	return nil
}

func (r *Repository) CountAdmins(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&adminModel{}).
		Count(&count).Error; err != nil {
		return 0, r.logError("admin_repo_count_failed", err)
	}
	return int(count), nil
}

func (r *Repository) CountElections(ctx context.Context) (int, error) {
	return r.countTable(ctx, "elections", nil)
}

func (r *Repository) CountActiveElections(ctx context.Context) (int, error) {
	return r.countTable(ctx, "elections", map[string]any{"status": "active"})
}

func (r *Repository) CountSessions(ctx context.Context) (int, error) {
	return r.countTable(ctx, "voting_sessions", nil)
}

func (r *Repository) CountSessionsByVoter(ctx context.Context, voterID string) (int, error) {
	return r.countTable(ctx, "voting_sessions", map[string]any{
		"voter_id": strings.TrimSpace(voterID),
	})
}

func (r *Repository) countTable(ctx context.Context, table string, where map[string]any) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Table(table)
	if len(where) > 0 {
		query = query.Where(where)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, r.logError("voter_repo_count_table_failed", err, "table", table)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/voter-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("account repository operation failed", fields...)
	return err
}

type voterModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	Name         string     `gorm:"column:name"`
	Email        string     `gorm:"column:email;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (voterModel) TableName() string {
	return "voters"
}

func voterModelFromEntity(voter entities.Voter) voterModel {
	return voterModel{
		ID:           strings.TrimSpace(voter.VoterID),
		Name:         strings.TrimSpace(voter.Name),
		Email:        strings.ToLower(strings.TrimSpace(voter.Email)),
		PasswordHash: voter.PasswordHash,
		CreatedAt:    voter.CreatedAt.UTC(),
	}
}

func (m voterModel) toEntity() entities.Voter {
	voter := entities.Voter{
		VoterID:      m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
	}
	if m.LastLoginAt != nil {
		voter.LastLoginAt = m.LastLoginAt.UTC()
	}
	return voter
}

type adminModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (adminModel) TableName() string {
	return "admins"
}

func adminModelFromEntity(admin entities.Admin) adminModel {
	return adminModel{
		ID:           strings.TrimSpace(admin.AdminID),
		Username:     strings.TrimSpace(admin.Username),
		Email:        strings.ToLower(strings.TrimSpace(admin.Email)),
		PasswordHash: admin.PasswordHash,
		Role:         admin.Role,
		CreatedAt:    admin.CreatedAt.UTC(),
	}
}

func (m adminModel) toEntity() entities.Admin {
	admin := entities.Admin{
		AdminID:      m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt.UTC(),
	}
	if m.LastLoginAt != nil {
		admin.LastLoginAt = m.LastLoginAt.UTC()
	}
	return admin
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoterRepository = (*Repository)(nil)
var _ ports.AdminRepository = (*Repository)(nil)
var _ ports.ElectionStatsReader = (*Repository)(nil)
