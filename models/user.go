package models

import (
	"time"
)

// User model
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username       string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FullName       string    `gorm:"size:255" json:"full_name,omitempty"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	// IsActive gates login; deactivated accounts keep their data but cannot
	// authenticate. Defaults to true.
	IsActive      bool           `gorm:"default:true;not null" json:"is_active"`
	Tasks         []Task         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	RefreshTokens []RefreshToken `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
