package models

import "time"

// Staff is a dashboard account.
type Staff struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// RevokedToken records a signed-out session token until it would have expired.
type RevokedToken struct {
	TokenID   string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
