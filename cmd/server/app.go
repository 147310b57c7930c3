package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edupilot/edupilot-api/internal/api"
	apiMiddleware "github.com/edupilot/edupilot-api/internal/api/middleware"
	"github.com/edupilot/edupilot-api/internal/config"
	"github.com/edupilot/edupilot-api/internal/platform/badgerstore"
	"github.com/edupilot/edupilot-api/internal/platform/gemini"
	"github.com/edupilot/edupilot-api/internal/service"
	"github.com/edupilot/edupilot-api/internal/service/auth"
)

// application holds the wired-up dependencies of the running server.
// Everything is constructed once in newApplication and torn down in cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *badgerstore.DB

	chatService    *service.ChatService
	noteService    *service.NoteService
	quizService    *service.QuizService
	profileService *service.ProfileService
	userService    service.UserService

	authMiddleware *apiMiddleware.AuthMiddleware

	authHandler     *api.AuthHandler
	generateHandler *api.GenerateHandler
	chatHandler     *api.ChatHandler
	noteHandler     *api.NoteHandler
	quizHandler     *api.QuizHandler
	profileHandler  *api.ProfileHandler
}

// newApplication builds the full dependency graph: store, LLM client,
// services, and HTTP handlers. The returned application owns the Badger
// database handle and must be closed via cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := badgerstore.Open(cfg.Store.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}

	chatStore := badgerstore.NewChatSessionStore(db)
	noteStore := badgerstore.NewNoteStore(db)
	quizResultStore := badgerstore.NewQuizResultStore(db)
	profileStore := badgerstore.NewProfileStore(db)
	userStore := badgerstore.NewUserStore(db)

	generator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userService := service.NewUserService(userStore, profileStore, auth.NewBcryptHasher(), logger)
	chatService := service.NewChatService(chatStore, generator, logger)
	noteService := service.NewNoteService(noteStore, profileStore, generator, logger)
	quizService := service.NewQuizService(generator, quizResultStore, profileStore, logger)
	profileService := service.NewProfileService(profileStore, logger)

	app := &application{
		config: cfg,
		logger: logger,

		db: db,

		chatService:    chatService,
		noteService:    noteService,
		quizService:    quizService,
		profileService: profileService,
		userService:    userService,

		authMiddleware: apiMiddleware.NewAuthMiddleware(jwtService),

		authHandler:     api.NewAuthHandler(userService, jwtService),
		generateHandler: api.NewGenerateHandler(chatService, noteService, quizService),
		chatHandler:     api.NewChatHandler(chatService),
		noteHandler:     api.NewNoteHandler(noteService),
		quizHandler:     api.NewQuizHandler(quizService),
		profileHandler:  api.NewProfileHandler(profileService),
	}
	return app, nil
}

// cleanup flushes pending debounced chat writes and closes the database.
// Called after the HTTP server has stopped accepting requests.
func (app *application) cleanup() {
	app.chatService.Flush(context.Background())

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close data store", "error", err)
	}
}
