package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model Article
type Article struct {
	BaseModel
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Slug        string                      `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Summary     string                      `gorm:"size:512" json:"summary"`
	Content     string                      `gorm:"type:text" json:"content"`
	AuthorID    uint                        `gorm:"index;not null" json:"authorId"`
	Author      *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Published   bool                        `gorm:"default:false" json:"published"`
	PublishedAt *time.Time                  `json:"publishedAt,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}
