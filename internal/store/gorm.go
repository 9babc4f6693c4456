package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// responseRow and profileRow mirror the relational layout shared with the
// SQLite backend; JSON columns become JSONB on Postgres.
type responseRow struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	SessionID     string          `gorm:"index:idx_responses_session,priority:1;not null"`
	QuestionIndex int             `gorm:"index:idx_responses_session,priority:2;not null"`
	ResponseText  string          `gorm:"type:text;not null"`
	EmotionData   *datatypes.JSON // nil for SQL NULL
	CreatedAt     string          `gorm:"type:text;not null"`
}

func (responseRow) TableName() string { return "responses" }

type profileRow struct {
	ID                  int64          `gorm:"primaryKey;autoIncrement"`
	SessionID           string         `gorm:"uniqueIndex;not null"`
	EntityName          string         `gorm:"type:text;not null"`
	Strengths           datatypes.JSON `gorm:"not null"`
	UnrealizedPotential string         `gorm:"type:text;not null"`
	PoeticSummary       string         `gorm:"type:text;not null"`
	ShadowEcho          string         `gorm:"type:text;not null"`
	CreatedAt           string         `gorm:"type:text;not null"`
}

func (profileRow) TableName() string { return "profiles" }

// GormStore is the relational backend used for Postgres deployments.
type GormStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string, level logger.LogLevel) (*GormStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	return NewGormStore(postgres.Open(dsn), level)
}

// NewGormStore opens any GORM dialector and runs migrations.
func NewGormStore(dialector gorm.Dialector, level logger.LogLevel) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if err := runMigrations(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) SaveResponse(ctx context.Context, resp *Response) (*Response, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}
	row := responseRow{
		SessionID:     resp.SessionID,
		QuestionIndex: resp.QuestionIndex,
		ResponseText:  resp.ResponseText,
		CreatedAt:     resp.CreatedAt,
	}
	if emotionDataOrNull(resp.EmotionData) != nil {
		data := datatypes.JSON(cloneRaw(resp.EmotionData))
		row.EmotionData = &data
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert response: %w", err)
	}
	out := row.toResponse()
	return &out, nil
}

func (s *GormStore) GetResponsesBySessionID(ctx context.Context, sessionID string) ([]Response, error) {
	var rows []responseRow
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_index ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	out := make([]Response, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toResponse())
	}
	return out, nil
}

// SaveProfile relies on the unique index on session_id: the insert turns into
// an update of every content column when a row for the session already exists.
func (s *GormStore) SaveProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	strengths, err := json.Marshal(cloneStrengths(profile.Strengths))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strengths: %w", err)
	}
	row := profileRow{
		SessionID:           profile.SessionID,
		EntityName:          profile.EntityName,
		Strengths:           datatypes.JSON(strengths),
		UnrealizedPotential: profile.UnrealizedPotential,
		PoeticSummary:       profile.PoeticSummary,
		ShadowEcho:          profile.ShadowEcho,
		CreatedAt:           profile.CreatedAt,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"entity_name", "strengths", "unrealized_potential", "poetic_summary", "shadow_echo", "created_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	saved, err := s.GetProfileBySessionID(ctx, profile.SessionID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("profile for session %s missing after upsert", profile.SessionID)
	}
	return saved, nil
}

func (s *GormStore) GetProfileBySessionID(ctx context.Context, sessionID string) (*Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if row.ID == 0 {
		return nil, nil
	}
	out := row.toProfile()
	return &out, nil
}

func (r responseRow) toResponse() Response {
	out := Response{
		ID:            r.ID,
		SessionID:     r.SessionID,
		QuestionIndex: r.QuestionIndex,
		ResponseText:  r.ResponseText,
		CreatedAt:     r.CreatedAt,
	}
	if r.EmotionData != nil && len(*r.EmotionData) > 0 {
		out.EmotionData = cloneRaw(json.RawMessage(*r.EmotionData))
	}
	return out
}

func (r profileRow) toProfile() Profile {
	out := Profile{
		ID:                  r.ID,
		SessionID:           r.SessionID,
		EntityName:          r.EntityName,
		UnrealizedPotential: r.UnrealizedPotential,
		PoeticSummary:       r.PoeticSummary,
		ShadowEcho:          r.ShadowEcho,
		CreatedAt:           r.CreatedAt,
		Strengths:           []Strength{},
	}
	out.Strengths = decodeStrengths(r.SessionID, r.Strengths)
	return out
}
