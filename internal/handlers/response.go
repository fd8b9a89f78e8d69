package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/middleware"
	"github.com/flowlog/flowlog-backend/internal/pagination"
)

// DataResponse wraps a single entity.
type DataResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListResponse wraps an unpaginated related set, e.g. a journal's notes.
type ListResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []T    `json:"data"`
	Count   int    `json:"count"`
}

// PaginatedResponse wraps one page of a collection.
type PaginatedResponse[T any] struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       []T             `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// MessageResponse is returned by mutations that yield no entity.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Path       string `json:"path,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Details    any    `json:"details,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	App         string `json:"app"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Redoc   string `json:"redoc"`
	Health  string `json:"health"`
}

func RespondData[T any](c *gin.Context, status int, message string, data T) {
	c.JSON(status, DataResponse[T]{Success: true, Message: message, Data: data})
}

func RespondList[T any](c *gin.Context, message string, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Success: true, Message: message, Data: data, Count: len(data)})
}

func RespondPaginated[T any](c *gin.Context, message string, data []T, meta pagination.Meta) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PaginatedResponse[T]{Success: true, Message: message, Data: data, Pagination: meta})
}

func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: message})
}

// RespondError translates an error into the structured error envelope.
// Anything that is not an *apierr.Error is surfaced as a generic 500 without
// leaking internals.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	name := "Internal Server Error"
	message := "An unexpected error occurred"
	var details any

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		name = errorName(apiErr.Code)
		message = apiErr.Error()
		details = apiErr.Details
	}

	c.JSON(status, ErrorResponse{
		Error:      name,
		Message:    message,
		StatusCode: status,
		Path:       c.Request.URL.Path,
		RequestID:  c.GetString(middleware.RequestIDKey),
		Details:    details,
	})
}

func errorName(code string) string {
	switch code {
	case apierr.CodeNotFound:
		return "Not Found"
	case apierr.CodeConflict:
		return "Conflict"
	case apierr.CodeValidation:
		return "ValidationError"
	default:
		return "Internal Server Error"
	}
}
