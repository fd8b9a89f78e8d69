package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/pagination"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/services"
	"github.com/flowlog/flowlog-backend/internal/types"
)

type AIJobCreateRequest struct {
	JournalID    uuid.UUID `json:"journal_id" binding:"required"`
	ModelName    string    `json:"model_name" binding:"required"`
	ModelVersion *string   `json:"model_version"`
	Prompt       string    `json:"prompt" binding:"required"`
}

// AIJobUpdateRequest is a partial update; only fields present in the body are
// applied.
type AIJobUpdateRequest struct {
	Status       *types.JobStatus `json:"status" binding:"omitempty,oneof=queued processing success error"`
	Response     datatypes.JSON   `json:"response"`
	ErrorMessage *string          `json:"error_message"`
	Meta         datatypes.JSON   `json:"meta"`
}

type AIJobHandler struct {
	log          *logger.Logger
	aiJobService services.AIJobService
}

func NewAIJobHandler(log *logger.Logger, aiJobService services.AIJobService) *AIJobHandler {
	return &AIJobHandler{
		log:          log.With("handler", "AIJobHandler"),
		aiJobService: aiJobService,
	}
}

func (h *AIJobHandler) List(c *gin.Context) {
	page, perPage, err := pageQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	status, err := statusQuery(c, "status")
	if err != nil {
		RespondError(c, err)
		return
	}
	journalID, err := uuidQuery(c, "journal_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	filter := repos.AIJobFilter{Status: status, JournalID: journalID}
	skip, limit := pagination.SkipLimit(page, perPage)
	jobs, total, err := h.aiJobService.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, err)
		return
	}

	var filters []string
	if status != nil {
		filters = append(filters, fmt.Sprintf("status=%s", *status))
	}
	if journalID != nil {
		filters = append(filters, fmt.Sprintf("journal_id=%s", journalID))
	}
	message := "AI jobs retrieved successfully" + filterSuffix(filters)
	RespondPaginated(c, message, jobs, pagination.NewMeta(page, perPage, total))
}

func (h *AIJobHandler) Create(c *gin.Context) {
	var req AIJobCreateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	job, err := h.aiJobService.Create(c.Request.Context(), req.JournalID, req.ModelName, req.ModelVersion, req.Prompt)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "AI job created successfully", job)
}

func (h *AIJobHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	job, err := h.aiJobService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "AI job retrieved successfully", job)
}

func (h *AIJobHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req AIJobUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	job, err := h.aiJobService.Update(c.Request.Context(), id, services.AIJobUpdateInput{
		Status:       req.Status,
		Response:     req.Response,
		ErrorMessage: req.ErrorMessage,
		Meta:         req.Meta,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "AI job updated successfully", job)
}

func (h *AIJobHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.aiJobService.Delete(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}
