package store

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Response is one stored interview answer. Rows are append-only; nothing
// dedupes on (SessionID, QuestionIndex).
type Response struct {
	ID            int64           `json:"id"`
	SessionID     string          `json:"sessionId"`
	QuestionIndex int             `json:"questionIndex"`
	ResponseText  string          `json:"responseText"`
	EmotionData   json.RawMessage `json:"emotionData"` // Nullable; arbitrary JSON from the client or the analyzer
	CreatedAt     string          `json:"createdAt"`   // ISO-8601
}

type Strength struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Profile is the single mirror profile kept per session.
type Profile struct {
	ID                  int64      `json:"id"`
	SessionID           string     `json:"sessionId"`
	EntityName          string     `json:"entityName"`
	Strengths           []Strength `json:"strengths"`
	UnrealizedPotential string     `json:"unrealizedPotential"`
	PoeticSummary       string     `json:"poeticSummary"`
	ShadowEcho          string     `json:"shadowEcho"`
	CreatedAt           string     `json:"createdAt"`
}

// emotionDataOrNull keeps SQL NULL distinct from an empty JSON document.
func emotionDataOrNull(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func cloneStrengths(in []Strength) []Strength {
	if in == nil {
		return []Strength{}
	}
	out := make([]Strength, len(in))
	copy(out, in)
	return out
}

// decodeStrengths reads the stored strengths column. Every backend treats a
// corrupt value the same way: it is logged and read back as no strengths.
func decodeStrengths(sessionID string, raw []byte) []Strength {
	if len(raw) == 0 {
		return []Strength{}
	}
	var out []Strength
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Stored strengths are not valid JSON, returning none")
		return []Strength{}
	}
	if out == nil {
		return []Strength{}
	}
	return out
}
