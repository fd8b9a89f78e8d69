package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Journal struct {
	Base
	Date              strfmt.Date    `gorm:"type:date;not null;uniqueIndex:uq_journal_date" json:"date"`
	ProcessedMarkdown *string        `gorm:"type:text" json:"processed_markdown"`
	NotesSnapshot     datatypes.JSON `gorm:"type:jsonb" json:"notes_snapshot"`
	ProjectID         *uuid.UUID     `gorm:"type:uuid;index" json:"project_id"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Notes   []*Note  `gorm:"foreignKey:JournalID;references:ID" json:"notes,omitempty"`
	AIJobs  []*AIJob `gorm:"foreignKey:JournalID;references:ID" json:"ai_jobs,omitempty"`
}

func (Journal) TableName() string { return "journals" }
