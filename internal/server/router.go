package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/flowlog/flowlog-backend/internal/handlers"
	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/middleware"
)

type RouterConfig struct {
	Log              *logger.Logger
	CORSAllowOrigins []string

	SystemHandler  *handlers.SystemHandler
	ProjectHandler *handlers.ProjectHandler
	JournalHandler *handlers.JournalHandler
	NoteHandler    *handlers.NoteHandler
	TagHandler     *handlers.TagHandler
	AIJobHandler   *handlers.AIJobHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(gin.Recovery())

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/health", cfg.SystemHandler.Health)
	router.GET("/", cfg.SystemHandler.Root)

	api := router.Group("/api/v1")

	projects := api.Group("/projects")
	{
		projects.GET("", cfg.ProjectHandler.List)
		projects.POST("", cfg.ProjectHandler.Create)
		projects.GET("/:id", cfg.ProjectHandler.Get)
		projects.PUT("/:id", cfg.ProjectHandler.Update)
		projects.DELETE("/:id", cfg.ProjectHandler.Delete)
		projects.GET("/:id/journals", cfg.ProjectHandler.Journals)
	}

	journals := api.Group("/journals")
	{
		journals.GET("", cfg.JournalHandler.List)
		journals.POST("", cfg.JournalHandler.Create)
		journals.GET("/:id", cfg.JournalHandler.Get)
		journals.PUT("/:id", cfg.JournalHandler.Update)
		journals.DELETE("/:id", cfg.JournalHandler.Delete)
		journals.GET("/:id/notes", cfg.JournalHandler.Notes)
		journals.GET("/:id/ai-jobs", cfg.JournalHandler.AIJobs)
	}

	notes := api.Group("/notes")
	{
		notes.GET("", cfg.NoteHandler.List)
		notes.POST("", cfg.NoteHandler.Create)
		notes.GET("/:id", cfg.NoteHandler.Get)
		notes.PUT("/:id", cfg.NoteHandler.Update)
		notes.DELETE("/:id", cfg.NoteHandler.Delete)
		notes.GET("/:id/tags", cfg.NoteHandler.Tags)
		notes.POST("/:id/tags/:tag_id", cfg.NoteHandler.AttachTag)
		notes.DELETE("/:id/tags/:tag_id", cfg.NoteHandler.DetachTag)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", cfg.TagHandler.List)
		tags.POST("", cfg.TagHandler.Create)
		tags.GET("/:id", cfg.TagHandler.Get)
		tags.PUT("/:id", cfg.TagHandler.Update)
		tags.DELETE("/:id", cfg.TagHandler.Delete)
		tags.GET("/:id/notes", cfg.TagHandler.Notes)
	}

	aiJobs := api.Group("/ai-jobs")
	{
		aiJobs.GET("", cfg.AIJobHandler.List)
		aiJobs.POST("", cfg.AIJobHandler.Create)
		aiJobs.GET("/:id", cfg.AIJobHandler.Get)
		aiJobs.PUT("/:id", cfg.AIJobHandler.Update)
		aiJobs.DELETE("/:id", cfg.AIJobHandler.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Error:      "Not Found",
			Message:    "The requested resource was not found",
			StatusCode: http.StatusNotFound,
			Path:       c.Request.URL.Path,
			RequestID:  c.GetString(middleware.RequestIDKey),
		})
	})

	return router
}
