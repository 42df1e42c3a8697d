package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Posts        []string  `gorm:"type:text;serializer:json" json:"posts"`
	PaidForPosts []string  `gorm:"type:text;serializer:json" json:"paid_for_posts"`
	Avatar       string    `gorm:"type:varchar(500);default:''" json:"avatar"`
	Role         string    `gorm:"type:varchar(20);default:'user'" json:"role"`
	OTP          string    `gorm:"type:varchar(20);default:''" json:"-"`
	IsOnboarded  bool      `gorm:"default:false" json:"is_onboarded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Posts == nil {
		u.Posts = []string{}
	}
	if u.PaidForPosts == nil {
		u.PaidForPosts = []string{}
	}
	return nil
}
