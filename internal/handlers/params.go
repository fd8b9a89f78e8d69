package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flowlog/flowlog-backend/internal/apierr"
	"github.com/flowlog/flowlog-backend/internal/types"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

func listMessage(noun string, count int, anchorType, anchor string) string {
	return fmt.Sprintf("Retrieved %d %s for %s %s", count, noun, anchorType, anchor)
}

// filterSuffix echoes applied filters in the list message, e.g.
// " with filters: date=2024-01-01, journal_id=...".
func filterSuffix(pairs []string) string {
	if len(pairs) == 0 {
		return ""
	}
	return " with filters: " + strings.Join(pairs, ", ")
}

// bindJSON deserializes the request body and converts binding failures into
// a ValidationError with per-field details.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]map[string]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
					"param": fe.Param(),
				})
			}
			return apierr.Validation(errors.New("Request validation failed"), details)
		}
		return apierr.Validation(fmt.Errorf("Invalid request body: %v", err), nil)
	}
	return nil
}

func pageQuery(c *gin.Context) (page, perPage int, err error) {
	page, err = intQuery(c, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	perPage, err = intQuery(c, "per_page", defaultPerPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, apierr.Validation(errors.New("page must be greater than or equal to 1"), nil)
	}
	if perPage < 1 || perPage > maxPerPage {
		return 0, 0, apierr.Validation(fmt.Errorf("per_page must be between 1 and %d", maxPerPage), nil)
	}
	return page, perPage, nil
}

func intQuery(c *gin.Context, name string, defaultVal int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.Validation(fmt.Errorf("%s must be an integer", name), nil)
	}
	return val, nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Validation(fmt.Errorf("%s must be a valid UUID", name), nil)
	}
	return id, nil
}

func uuidQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("%s must be a valid UUID", name), nil)
	}
	return &id, nil
}

func statusQuery(c *gin.Context, name string) (*types.JobStatus, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	status := types.JobStatus(raw)
	if !status.Valid() {
		return nil, apierr.Validation(fmt.Errorf("%s must be one of: queued, processing, success, error", name), nil)
	}
	return &status, nil
}

func dateQuery(c *gin.Context, name string) (*strfmt.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("%s must be a date in YYYY-MM-DD format", name), nil)
	}
	date := strfmt.Date(parsed)
	return &date, nil
}
