package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	if dataSourceName == "" {
		return nil, fmt.Errorf("sqlite data source is empty")
	}
	db, err := sql.Open("sqlite3", withSQLitePragmas(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// withSQLitePragmas sets WAL and a busy timeout on every pooled connection
// unless the caller already supplied DSN options.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "?") || dsn == ":memory:" {
		return dsn
	}
	return dsn + "?_journal_mode=WAL&_busy_timeout=5000"
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS responses (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        question_index INTEGER NOT NULL,
        response_text TEXT NOT NULL,
        emotion_data TEXT, -- JSON, nullable
        created_at TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_responses_session ON responses (session_id, question_index);

    CREATE TABLE IF NOT EXISTS profiles (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL UNIQUE,
        entity_name TEXT NOT NULL,
        strengths TEXT NOT NULL, -- JSON array of {title, description}
        unrealized_potential TEXT NOT NULL,
        poetic_summary TEXT NOT NULL,
        shadow_echo TEXT NOT NULL,
        created_at TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Response methods
func (s *SQLiteStore) SaveResponse(ctx context.Context, resp *Response) (*Response, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO responses (session_id, question_index, response_text, emotion_data, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare response insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, resp.SessionID, resp.QuestionIndex, resp.ResponseText, emotionDataOrNull(resp.EmotionData), resp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute response insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read response id: %w", err)
	}

	saved := *resp
	saved.ID = id
	saved.EmotionData = cloneRaw(resp.EmotionData)
	return &saved, nil
}

func (s *SQLiteStore) GetResponsesBySessionID(ctx context.Context, sessionID string) ([]Response, error) {
	query := "SELECT id, session_id, question_index, response_text, emotion_data, created_at FROM responses WHERE session_id = ? ORDER BY question_index ASC, id ASC"
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := []Response{}
	for rows.Next() {
		var r Response
		var emotionData sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.QuestionIndex, &r.ResponseText, &emotionData, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		if emotionData.Valid {
			r.EmotionData = json.RawMessage(emotionData.String)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate response rows: %w", err)
	}
	return responses, nil
}

// Profile methods

// SaveProfile upserts on the UNIQUE session_id column, so two concurrent first
// saves for one session converge on a single row.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	strengths, err := json.Marshal(cloneStrengths(profile.Strengths))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strengths: %w", err)
	}

	const upsert = `
        INSERT INTO profiles (session_id, entity_name, strengths, unrealized_potential, poetic_summary, shadow_echo, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            entity_name = excluded.entity_name,
            strengths = excluded.strengths,
            unrealized_potential = excluded.unrealized_potential,
            poetic_summary = excluded.poetic_summary,
            shadow_echo = excluded.shadow_echo,
            created_at = excluded.created_at
    `
	_, err = s.db.ExecContext(ctx, upsert,
		profile.SessionID, profile.EntityName, string(strengths),
		profile.UnrealizedPotential, profile.PoeticSummary, profile.ShadowEcho, profile.CreatedAt,
	)
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

func (s *SQLiteStore) GetProfileBySessionID(ctx context.Context, sessionID string) (*Profile, error) {
	var p Profile
	var strengths string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, session_id, entity_name, strengths, unrealized_potential, poetic_summary, shadow_echo, created_at FROM profiles WHERE session_id = ?",
		sessionID,
	).Scan(&p.ID, &p.SessionID, &p.EntityName, &strengths, &p.UnrealizedPotential, &p.PoeticSummary, &p.ShadowEcho, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Strengths = decodeStrengths(sessionID, []byte(strengths))
	return &p, nil
}
