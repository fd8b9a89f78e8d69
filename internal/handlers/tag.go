package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowlog/flowlog-backend/internal/logger"
	"github.com/flowlog/flowlog-backend/internal/pagination"
	"github.com/flowlog/flowlog-backend/internal/services"
)

type TagCreateRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type TagUpdateRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type TagHandler struct {
	log        *logger.Logger
	tagService services.TagService
}

func NewTagHandler(log *logger.Logger, tagService services.TagService) *TagHandler {
	return &TagHandler{
		log:        log.With("handler", "TagHandler"),
		tagService: tagService,
	}
}

func (h *TagHandler) List(c *gin.Context) {
	page, perPage, err := pageQuery(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	skip, limit := pagination.SkipLimit(page, perPage)
	tags, total, err := h.tagService.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondPaginated(c, "Tags retrieved successfully", tags, pagination.NewMeta(page, perPage, total))
}

func (h *TagHandler) Create(c *gin.Context) {
	var req TagCreateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, "Tag created successfully", tag)
}

func (h *TagHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Tag retrieved successfully", tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req TagUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	tag, err := h.tagService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Tag updated successfully", tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	message, err := h.tagService.Delete(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, message)
}

func (h *TagHandler) Notes(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	notes, err := h.tagService.Notes(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, listMessage("note(s)", len(notes), "tag", "'"+tag.Name+"'"), notes)
}
