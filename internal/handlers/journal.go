package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/pagination"
	"github.com/flowlog/flowlog-backend/internal/repos"
	"github.com/flowlog/flowlog-backend/internal/services"
)

type JournalCreateRequest struct {
	Date      strfmt.Date `json:"date" binding:"required"`
	ProjectID *uuid.UUID  `json:"project_id"`
}

// JournalUpdateRequest is a full replacement; omitted optional fields clear
// the stored values.
type JournalUpdateRequest struct {
	Date              strfmt.Date    `json:"date" binding:"required"`
	ProcessedMarkdown *string        `json:"processed_markdown"`
	NotesSnapshot     datatypes.JSON `json:"notes_snapshot"`
	ProjectID         *uuid.UUID     `json:"project_id"`
}

type JournalHandler struct {
	log            *logger.Logger
	journalService services.JournalService
}

func NewJournalHandler(log *logger.Logger, journalService services.JournalService) *JournalHandler {
	return &JournalHandler{
		log:            log.With("handler", "JournalHandler"),
		journalService: journalService,
	}
}

func (h *JournalHandler) List(c *gin.Context) {
	page, perPage, err := pageQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		RespondError(c, err)
		return
	}
	projectID, err := uuidQuery(c, "project_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	filter := repos.JournalFilter{Date: date, ProjectID: projectID}
	skip, limit := pagination.SkipLimit(page, perPage)
	journals, total, err := h.journalService.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, err)
		return
	}

	var filters []string
	if date != nil {
		filters = append(filters, fmt.Sprintf("date=%s", date))
	}
	if projectID != nil {
		filters = append(filters, fmt.Sprintf("project_id=%s", projectID))
	}
	message := "Journals retrieved successfully" + filterSuffix(filters)
	RespondPaginated(c, message, journals, pagination.NewMeta(page, perPage, total))
}

func (h *JournalHandler) Create(c *gin.Context) {
	var req JournalCreateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	journal, err := h.journalService.Create(c.Request.Context(), req.Date, req.ProjectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Journal created successfully", journal)
}

func (h *JournalHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	journal, err := h.journalService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Journal retrieved successfully", journal)
}

func (h *JournalHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req JournalUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	journal, err := h.journalService.Update(c.Request.Context(), id, services.JournalUpdateInput{
		Date:              req.Date,
		ProcessedMarkdown: req.ProcessedMarkdown,
		NotesSnapshot:     req.NotesSnapshot,
		ProjectID:         req.ProjectID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Journal updated successfully", journal)
}

func (h *JournalHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.journalService.Delete(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}

func (h *JournalHandler) Notes(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	notes, err := h.journalService.Notes(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, listMessage("note(s)", len(notes), "journal", id.String()), notes)
}

func (h *JournalHandler) AIJobs(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	jobs, err := h.journalService.AIJobs(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, listMessage("AI job(s)", len(jobs), "journal", id.String()), jobs)
}
