package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mirrorworld/mirror-api/internal/store"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 20

	defaultLLMTimeout = 30 * time.Second
)

type Emotion struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type Sentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

type ResponseAnalysis struct {
	Sentiment Sentiment `json:"sentiment"`
	Emotions  []Emotion `json:"emotions"`
}

// MirrorProfile is the generated report, without storage columns.
type MirrorProfile struct {
	EntityName          string           `json:"entityName"`
	Strengths           []store.Strength `json:"strengths"`
	UnrealizedPotential string           `json:"unrealizedPotential"`
	PoeticSummary       string           `json:"poeticSummary"`
	ShadowEcho          string           `json:"shadowEcho"`
}

// AnalysisService turns model output into questions, scores and profiles.
// None of its methods fail: provider errors, timeouts and unusable output
// are replaced with canned content.
type AnalysisService struct {
	generator Generator
	timeout   time.Duration
}

func NewAnalysisService(generator Generator, timeout time.Duration) *AnalysisService {
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &AnalysisService{generator: generator, timeout: timeout}
}

func (s *AnalysisService) call(ctx context.Context, req JSONRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.generator.GenerateJSON(ctx, req)
}

// upstreamEvent logs a missing credential at debug and every other upstream
// problem at warn.
func upstreamEvent(err error) *zerolog.Event {
	if errors.Is(err, ErrNoCredential) {
		return log.Debug().Err(err)
	}
	return log.Warn().Err(err)
}

// GenerateQuestions asks for count questions (1..20, otherwise 10). The
// result is truncated to count but never padded.
func (s *AnalysisService) GenerateQuestions(ctx context.Context, count int) []string {
	if count < 1 || count > MaxQuestionCount {
		count = DefaultQuestionCount
	}

	out, err := s.call(ctx, JSONRequest{
		Name:   "InterviewQuestions",
		System: questionsSystemInstruction,
		User:   questionsUserPrompt(count),
		Schema: questionsSchema,
	})
	if err != nil {
		upstreamEvent(err).Int("count", count).Msg("Question generation failed, using fallback questions")
		return fallbackQuestions(count)
	}

	questions, err := normalizeQuestions(out, count)
	if err != nil {
		log.Warn().Err(err).Msg("Unusable question output, using fallback questions")
		return fallbackQuestions(count)
	}
	return questions
}

// AnalyzeResponse scores one answer. Blank answers are never sent upstream.
func (s *AnalysisService) AnalyzeResponse(ctx context.Context, text string) ResponseAnalysis {
	if strings.TrimSpace(text) == "" {
		return ResponseAnalysis{Sentiment: blankSentiment(), Emotions: defaultEmotions()}
	}

	out, err := s.call(ctx, JSONRequest{
		Name:   "ResponseAnalysis",
		System: analysisSystemInstruction,
		User:   text,
	})
	if err != nil {
		upstreamEvent(err).Msg("Response analysis failed, using default analysis")
		return fallbackAnalysis()
	}
	return normalizeAnalysis(out)
}

// GenerateProfile builds a profile from the non-blank responses.
func (s *AnalysisService) GenerateProfile(ctx context.Context, responses []string) MirrorProfile {
	valid := nonBlank(responses)

	out, err := s.call(ctx, JSONRequest{
		Name:   "MirrorProfile",
		System: profileSystemInstruction,
		User:   profileUserPrompt(strings.Join(valid, "\n\n")),
		Schema: profileSchema,
	})
	if err != nil {
		upstreamEvent(err).Int("responses", len(valid)).Msg("Profile generation failed, using fallback profile")
		return fallbackProfile()
	}

	profile, err := normalizeProfile(out)
	if err != nil {
		log.Warn().Err(err).Msg("Profile output is not a JSON object, using fallback profile")
		return fallbackProfile()
	}
	return profile
}

func nonBlank(responses []string) []string {
	out := make([]string, 0, len(responses))
	for _, r := range responses {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}
