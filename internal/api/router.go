package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler)

		// Interview flow
		r.Get("/interview/questions", apiHandler.InterviewQuestionsHandler)
		r.Post("/questions", apiHandler.GenerateQuestionsHandler)
		r.Post("/analyze", apiHandler.AnalyzeHandler)
		r.Post("/responses", apiHandler.SaveResponseHandler)
		r.Post("/profile", apiHandler.GenerateProfileHandler)

		// Read-backs
		r.Get("/sessions/{sessionID}/responses", apiHandler.SessionResponsesHandler)
		r.Get("/sessions/{sessionID}/profile", apiHandler.SessionProfileHandler)
	})

	return r
}
