package types

type Tag struct {
	Base
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`

	Notes []*Note `gorm:"many2many:note_tags" json:"notes,omitempty"`
}

func (Tag) TableName() string { return "tags" }
