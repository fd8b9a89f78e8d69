package types

type Project struct {
	Base
	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text" json:"description"`

	Journals []*Journal `gorm:"foreignKey:ProjectID;references:ID" json:"journals,omitempty"`
}

func (Project) TableName() string { return "projects" }
