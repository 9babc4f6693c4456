package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

// Store is the persistence contract shared by every backend.
//
// GetProfileBySessionID returns (nil, nil) when the session has no profile.
// SaveProfile is an upsert keyed by SessionID: the uniqueness of a profile per
// session is enforced by the backend itself, not by a read-then-write in callers.
type Store interface {
	SaveResponse(ctx context.Context, resp *Response) (*Response, error)
	GetResponsesBySessionID(ctx context.Context, sessionID string) ([]Response, error)
	SaveProfile(ctx context.Context, profile *Profile) (*Profile, error)
	GetProfileBySessionID(ctx context.Context, sessionID string) (*Profile, error)
	Close() error
}

var ErrMissingSessionID = errors.New("session id is required")

type Options struct {
	Backend     string // "sqlite", "postgres" or "memory"
	DatabaseURL string
	Debug       bool
}

// Open builds the configured backend. When a durable backend cannot be reached
// it logs the failure and returns an in-memory store so the service still runs.
func Open(opts Options) Store {
	backend := strings.ToLower(opts.Backend)
	var (
		s   Store
		err error
	)
	switch backend {
	case "memory":
		log.Info().Msg("Using in-memory storage")
		return NewMemoryStore()
	case "postgres":
		level := logger.Silent
		if opts.Debug {
			level = logger.Info
		}
		s, err = NewPostgresStore(opts.DatabaseURL, level)
	default:
		backend = "sqlite"
		s, err = NewSQLiteStore(opts.DatabaseURL)
	}
	if err != nil {
		log.Warn().Err(err).Str("backend", backend).Msg("Durable storage unavailable, falling back to in-memory storage")
		return NewMemoryStore()
	}
	log.Info().Str("backend", backend).Msg("Storage initialized")
	return s
}

func validateResponse(resp *Response) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if resp.SessionID == "" {
		return ErrMissingSessionID
	}
	return nil
}

func validateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("profile is nil")
	}
	if profile.SessionID == "" {
		return ErrMissingSessionID
	}
	return nil
}
