package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apiMiddleware "github.com/edupilot/edupilot-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", app.authHandler.Register)
		r.Post("/auth/login", app.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			// AI generation endpoints
			r.Post("/generate/chat", app.generateHandler.Chat)
			r.Post("/generate/quiz", app.generateHandler.Quiz)
			r.Post("/generate/note", app.generateHandler.Note)

			// Chat session endpoints
			r.Get("/chats", app.chatHandler.List)
			r.Get("/chats/{id}", app.chatHandler.Get)
			r.Put("/chats/{id}", app.chatHandler.Put)
			r.Delete("/chats/{id}", app.chatHandler.Delete)

			// Note endpoints
			r.Get("/notes", app.noteHandler.List)
			r.Get("/notes/{id}", app.noteHandler.Get)
			r.Put("/notes/{id}", app.noteHandler.Put)
			r.Delete("/notes/{id}", app.noteHandler.Delete)

			// Quiz attempt endpoints
			r.Get("/quizzes", app.quizHandler.ListResults)
			r.Post("/quizzes", app.quizHandler.Complete)
			r.Post("/quizzes/{id}/answer", app.quizHandler.Answer)
			r.Post("/quizzes/{id}/advance", app.quizHandler.Advance)
			r.Post("/quizzes/{id}/previous", app.quizHandler.Previous)

			// Profile endpoints
			r.Get("/profile", app.profileHandler.Get)
			r.Put("/profile", app.profileHandler.Put)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
