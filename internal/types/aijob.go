package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobStatus is the lifecycle state of an AI job. Transitions are not
// constrained; any status may follow any other via update.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusSuccess    JobStatus = "success"
	JobStatusError      JobStatus = "error"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusSuccess, JobStatusError:
		return true
	}
	return false
}

// AIJob records a unit of external AI work against a journal. This system
// tracks status and results only; it never executes the job itself.
type AIJob struct {
	Base
	JournalID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"journal_id"`
	ModelName    string         `gorm:"not null" json:"model_name"`
	ModelVersion *string        `json:"model_version"`
	Prompt       string         `gorm:"type:text;not null" json:"prompt"`
	Status       JobStatus      `gorm:"size:20;not null;default:queued" json:"status"`
	Response     datatypes.JSON `gorm:"type:jsonb" json:"response"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message"`
	Meta         datatypes.JSON `gorm:"type:jsonb" json:"meta"`

	Journal *Journal `gorm:"foreignKey:JournalID;references:ID" json:"journal,omitempty"`
}

func (AIJob) TableName() string { return "ai_jobs" }
