package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/pagination"
	"github.com/flowlog/flowlog-backend/internal/services"
)

type ProjectCreateRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

type ProjectUpdateRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

type ProjectHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
}

func NewProjectHandler(log *logger.Logger, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:            log.With("handler", "ProjectHandler"),
		projectService: projectService,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	page, perPage, err := pageQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	skip, limit := pagination.SkipLimit(page, perPage)
	projects, total, err := h.projectService.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondPaginated(c, "Projects retrieved successfully", projects, pagination.NewMeta(page, perPage, total))
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectCreateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Project created successfully", project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Project retrieved successfully", project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req ProjectUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Project updated successfully", project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.projectService.Delete(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}

func (h *ProjectHandler) Journals(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	journals, err := h.projectService.Journals(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, listMessage("journal(s)", len(journals), "project", id.String()), journals)
}
