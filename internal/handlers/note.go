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
)

type NoteCreateRequest struct {
	Text      string         `json:"text" binding:"required"`
	Meta      datatypes.JSON `json:"meta"`
	JournalID *uuid.UUID     `json:"journal_id"`
}

type NoteUpdateRequest struct {
	Text      string         `json:"text" binding:"required"`
	Meta      datatypes.JSON `json:"meta"`
	JournalID *uuid.UUID     `json:"journal_id"`
}

type NoteHandler struct {
	log         *logger.Logger
	noteService services.NoteService
}

func NewNoteHandler(log *logger.Logger, noteService services.NoteService) *NoteHandler {
	return &NoteHandler{
		log:         log.With("handler", "NoteHandler"),
		noteService: noteService,
	}
}

func (h *NoteHandler) List(c *gin.Context) {
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
	journalID, err := uuidQuery(c, "journal_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	filter := repos.NoteFilter{CreatedDate: date, JournalID: journalID}
	skip, limit := pagination.SkipLimit(page, perPage)
	notes, total, err := h.noteService.List(c.Request.Context(), filter, skip, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, err)
		return
	}

	var filters []string
	if date != nil {
		filters = append(filters, fmt.Sprintf("date=%s", date))
	}
	if journalID != nil {
		filters = append(filters, fmt.Sprintf("journal_id=%s", journalID))
	}
	message := "Notes retrieved successfully" + filterSuffix(filters)
	RespondPaginated(c, message, notes, pagination.NewMeta(page, perPage, total))
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req NoteCreateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), req.Text, req.Meta, req.JournalID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Note created successfully", note)
}

func (h *NoteHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	note, err := h.noteService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Note retrieved successfully", note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req NoteUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), id, services.NoteUpdateInput{
		Text:      req.Text,
		Meta:      req.Meta,
		JournalID: req.JournalID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Note updated successfully", note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.noteService.Delete(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}

func (h *NoteHandler) Tags(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	tags, err := h.noteService.Tags(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, listMessage("tag(s)", len(tags), "note", id.String()), tags)
}

func (h *NoteHandler) AttachTag(c *gin.Context) {
	noteID, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	tagID, err := uuidParam(c, "tag_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.noteService.AttachTag(c.Request.Context(), noteID, tagID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}

func (h *NoteHandler) DetachTag(c *gin.Context) {
	noteID, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	tagID, err := uuidParam(c, "tag_id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.noteService.DetachTag(c.Request.Context(), noteID, tagID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}
