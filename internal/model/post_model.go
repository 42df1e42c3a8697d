package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileModel struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	FileName string `json:"fileName"`
}

type CommentModel struct {
	ID     string    `json:"id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type PostModel struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"type:varchar(255)" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Files       []FileModel    `gorm:"type:text;serializer:json" json:"files"`
	IsPaid      bool           `gorm:"default:false" json:"is_paid"`
	Price       float64        `gorm:"default:0" json:"price"`
	Likes       []string       `gorm:"type:text;serializer:json" json:"likes"`
	Comments    []CommentModel `gorm:"type:text;serializer:json" json:"comments"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Files == nil {
		p.Files = []FileModel{}
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []CommentModel{}
	}
	return nil
}
