package models

import (
	"time"

	"gorm.io/gorm"
)

type UserAccount struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | USER | CONSULTANT
	Disabled     bool           `gorm:"default:false" json:"disabled"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}
