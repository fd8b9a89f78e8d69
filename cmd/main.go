package main

import (
	"fmt"
	"os"

	"github.com/flowlog/flowlog-backend/internal/app"
	"github.com/flowlog/flowlog-backend/internal/db"
	"github.com/flowlog/flowlog-backend/internal/handlers"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/server"
	"github.com/flowlog/flowlog-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg := app.LoadConfig(log)

	// Postgres
	postgresService, err := db.NewPostgresService(cfg, log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	projectRepo := repos.NewProjectRepo(thePG, log)
	journalRepo := repos.NewJournalRepo(thePG, log)
	noteRepo := repos.NewNoteRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	aiJobRepo := repos.NewAIJobRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	projectService := services.NewProjectService(thePG, log, projectRepo, journalRepo, noteRepo, aiJobRepo)
	journalService := services.NewJournalService(thePG, log, journalRepo, projectRepo, noteRepo, aiJobRepo)
	noteService := services.NewNoteService(thePG, log, noteRepo, journalRepo, tagRepo)
	tagService := services.NewTagService(thePG, log, tagRepo)
	aiJobService := services.NewAIJobService(thePG, log, aiJobRepo, journalRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	systemHandler := handlers.NewSystemHandler(&cfg)
	projectHandler := handlers.NewProjectHandler(log, projectService)
	journalHandler := handlers.NewJournalHandler(log, journalService)
	noteHandler := handlers.NewNoteHandler(log, noteService)
	tagHandler := handlers.NewTagHandler(log, tagService)
	aiJobHandler := handlers.NewAIJobHandler(log, aiJobService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		SystemHandler:    systemHandler,
		ProjectHandler:   projectHandler,
		JournalHandler:   journalHandler,
		NoteHandler:      noteHandler,
		TagHandler:       tagHandler,
		AIJobHandler:     aiJobHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
