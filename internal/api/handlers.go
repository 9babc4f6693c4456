package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mirrorworld/mirror-api/internal/core"
	"github.com/mirrorworld/mirror-api/internal/store"
)

type APIHandler struct {
	mirrorService *core.MirrorService
}

func NewAPIHandler(ms *core.MirrorService) *APIHandler {
	return &APIHandler{mirrorService: ms}
}

type ErrorResponse struct {
	Message string           `json:"message"`
	Errors  *FlattenedErrors `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}

func respondInvalid(w http.ResponseWriter, r *http.Request, errs *FlattenedErrors) {
	log.Debug().Str("path", r.URL.Path).Interface("errors", errs).Msg("Rejected invalid request")
	respondJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request", Errors: errs})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type GenerateQuestionsRequest struct {
	Count     *int   `json:"count" validate:"omitempty,min=1,max=20"`
	SessionID string `json:"sessionId"`
}

type GenerateQuestionsResponse struct {
	Questions []string `json:"questions"`
	SessionID string   `json:"sessionId"`
}

func (h *APIHandler) GenerateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if errs := decodeAndValidate(w, r, &req); errs != nil {
		respondInvalid(w, r, errs)
		return
	}
	count := core.DefaultQuestionCount
	if req.Count != nil {
		count = *req.Count
	}

	sessionID := resolveSessionID(w, r, req.SessionID)
	questions := h.mirrorService.GenerateQuestions(r.Context(), count)
	respondJSON(w, http.StatusOK, GenerateQuestionsResponse{Questions: questions, SessionID: sessionID})
}

type AnalyzeRequest struct {
	Response      string `json:"response" validate:"required"`
	SessionID     string `json:"sessionId"`
	QuestionIndex *int   `json:"questionIndex" validate:"omitempty,min=0"`
}

type AnalyzeResponse struct {
	Analysis core.ResponseAnalysis `json:"analysis"`
}

func (h *APIHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if errs := decodeAndValidate(w, r, &req); errs != nil {
		respondInvalid(w, r, errs)
		return
	}

	sessionID := resolveSessionID(w, r, req.SessionID)
	analysis := h.mirrorService.AnalyzeResponse(r.Context(), sessionID, req.Response, req.QuestionIndex)
	respondJSON(w, http.StatusOK, AnalyzeResponse{Analysis: analysis})
}

type SaveResponseRequest struct {
	SessionID     string          `json:"sessionId" validate:"required"`
	QuestionIndex *int            `json:"questionIndex" validate:"required,min=0"`
	ResponseText  *string         `json:"responseText" validate:"required"`
	EmotionData   json.RawMessage `json:"emotionData"`
}

type SaveResponseResponse struct {
	Success  bool            `json:"success"`
	Response *store.Response `json:"response"`
}

func (h *APIHandler) SaveResponseHandler(w http.ResponseWriter, r *http.Request) {
	var req SaveResponseRequest
	if errs := decodeAndValidate(w, r, &req); errs != nil {
		respondInvalid(w, r, errs)
		return
	}

	sessionID := resolveSessionID(w, r, req.SessionID)
	saved, err := h.mirrorService.SaveResponse(r.Context(), sessionID, *req.QuestionIndex, *req.ResponseText, req.EmotionData)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Error saving response")
		respondError(w, http.StatusInternalServerError, "Failed to save response")
		return
	}
	respondJSON(w, http.StatusOK, SaveResponseResponse{Success: true, Response: saved})
}

type GenerateProfileRequest struct {
	Responses []string `json:"responses" validate:"required"`
	SessionID string   `json:"sessionId"`
}

type GenerateProfileResponse struct {
	MirrorProfile core.MirrorProfile `json:"mirrorProfile"`
}

func (h *APIHandler) GenerateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateProfileRequest
	if errs := decodeAndValidate(w, r, &req); errs != nil {
		respondInvalid(w, r, errs)
		return
	}

	sessionID := resolveSessionID(w, r, req.SessionID)
	profile, err := h.mirrorService.GenerateProfile(r.Context(), sessionID, req.Responses)
	if err != nil {
		if errors.Is(err, core.ErrNotEnoughResponses) {
			respondError(w, http.StatusBadRequest, "Not enough valid responses to generate a profile")
			return
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("Error generating profile")
		respondError(w, http.StatusInternalServerError, "Failed to generate profile")
		return
	}
	respondJSON(w, http.StatusOK, GenerateProfileResponse{MirrorProfile: profile})
}

type InterviewQuestionsResponse struct {
	Questions []core.InterviewQuestion `json:"questions"`
}

func (h *APIHandler) InterviewQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, InterviewQuestionsResponse{Questions: core.InterviewQuestions()})
}

type SessionResponsesResponse struct {
	Responses []store.Response `json:"responses"`
}

func (h *APIHandler) SessionResponsesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	responses, err := h.mirrorService.GetResponses(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Error listing responses")
		respondError(w, http.StatusInternalServerError, "Failed to get responses")
		return
	}
	if responses == nil {
		responses = []store.Response{}
	}
	respondJSON(w, http.StatusOK, SessionResponsesResponse{Responses: responses})
}

type SessionProfileResponse struct {
	Profile *store.Profile `json:"profile"`
}

func (h *APIHandler) SessionProfileHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	profile, err := h.mirrorService.GetProfile(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Error getting profile")
		respondError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}
	respondJSON(w, http.StatusOK, SessionProfileResponse{Profile: profile})
}
