package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowlog/flowlog-backend/internal/app"
)

type SystemHandler struct {
	cfg *app.Config
}

func NewSystemHandler(cfg *app.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		App:         h.cfg.AppName,
		Version:     h.cfg.Version,
		Environment: h.cfg.Environment,
	})
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message: fmt.Sprintf("Welcome to %s API", h.cfg.AppName),
		Version: h.cfg.Version,
		Docs:    "/docs",
		Redoc:   "/redoc",
		Health:  "/health",
	})
}
