package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mirrorworld/mirror-api/internal/store"
)

// MinProfileResponses is how many non-blank answers a profile needs.
const MinProfileResponses = 3

var ErrNotEnoughResponses = errors.New("at least 3 non-empty responses are required to generate a profile")

// MirrorService sequences analysis and persistence for one session at a time.
type MirrorService struct {
	dbStore  store.Store
	analysis *AnalysisService
	now      func() time.Time
}

func NewMirrorService(db store.Store, analysis *AnalysisService) *MirrorService {
	return &MirrorService{
		dbStore:  db,
		analysis: analysis,
		now:      time.Now,
	}
}

func (s *MirrorService) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func (s *MirrorService) GenerateQuestions(ctx context.Context, count int) []string {
	return s.analysis.GenerateQuestions(ctx, count)
}

// AnalyzeResponse scores text and, when questionIndex is set, records the
// answer with its scores. The record is best effort: a failed save is logged
// and the analysis is still returned.
func (s *MirrorService) AnalyzeResponse(ctx context.Context, sessionID, text string, questionIndex *int) ResponseAnalysis {
	analysis := s.analysis.AnalyzeResponse(ctx, text)
	if questionIndex == nil {
		return analysis
	}

	emotionData, err := json.Marshal(analysis.Emotions)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to encode emotion data")
		return analysis
	}
	_, err = s.dbStore.SaveResponse(context.WithoutCancel(ctx), &store.Response{
		SessionID:     sessionID,
		QuestionIndex: *questionIndex,
		ResponseText:  text,
		EmotionData:   emotionData,
		CreatedAt:     s.timestamp(),
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Int("question_index", *questionIndex).
			Msg("Failed to store analyzed response")
	}
	return analysis
}

func (s *MirrorService) SaveResponse(ctx context.Context, sessionID string, questionIndex int, text string, emotionData json.RawMessage) (*store.Response, error) {
	saved, err := s.dbStore.SaveResponse(context.WithoutCancel(ctx), &store.Response{
		SessionID:     sessionID,
		QuestionIndex: questionIndex,
		ResponseText:  text,
		EmotionData:   emotionData,
		CreatedAt:     s.timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}
	return saved, nil
}

// GenerateProfile needs MinProfileResponses non-blank answers before it calls
// the model. The generated profile replaces any earlier one for the session;
// that write is best effort.
func (s *MirrorService) GenerateProfile(ctx context.Context, sessionID string, responses []string) (MirrorProfile, error) {
	if len(nonBlank(responses)) < MinProfileResponses {
		return MirrorProfile{}, ErrNotEnoughResponses
	}

	profile := s.analysis.GenerateProfile(ctx, responses)

	_, err := s.dbStore.SaveProfile(context.WithoutCancel(ctx), &store.Profile{
		SessionID:           sessionID,
		EntityName:          profile.EntityName,
		Strengths:           profile.Strengths,
		UnrealizedPotential: profile.UnrealizedPotential,
		PoeticSummary:       profile.PoeticSummary,
		ShadowEcho:          profile.ShadowEcho,
		CreatedAt:           s.timestamp(),
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to store generated profile")
	}
	return profile, nil
}

func (s *MirrorService) GetResponses(ctx context.Context, sessionID string) ([]store.Response, error) {
	responses, err := s.dbStore.GetResponsesBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	return responses, nil
}

// GetProfile returns (nil, nil) when the session has no profile yet.
func (s *MirrorService) GetProfile(ctx context.Context, sessionID string) (*store.Profile, error) {
	profile, err := s.dbStore.GetProfileBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
