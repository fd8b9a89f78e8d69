package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Note struct {
	Base
	Text      string         `gorm:"type:text;not null" json:"text"`
	Meta      datatypes.JSON `gorm:"type:jsonb" json:"meta"`
	JournalID *uuid.UUID     `gorm:"type:uuid;index" json:"journal_id"`

	Journal *Journal `gorm:"foreignKey:JournalID;references:ID" json:"journal,omitempty"`
	Tags    []*Tag   `gorm:"many2many:note_tags" json:"tags,omitempty"`
}

func (Note) TableName() string { return "notes" }
