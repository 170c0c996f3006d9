package models

import (
	"time"
)

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            *string    `json:"-"` // nil for Google-only accounts
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	IsGoogleLogin       bool       `gorm:"default:false" json:"is_google_login"`
	VerificationToken   *string    `gorm:"index" json:"-"`
	TokenExpiry         *time.Time `json:"-"`
	ResetPasswordToken  *string    `gorm:"index" json:"-"`
	ResetPasswordExpiry *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
