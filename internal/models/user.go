package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Name              string          `gorm:"type:varchar(100);not null"`
	Email             string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash      string          `gorm:"not null"`
	Organization      string          `gorm:"type:varchar(200)"`
	JobTitle          string          `gorm:"type:varchar(100)"`
	Phone             string          `gorm:"type:varchar(30)"`
	Birthday          *datatypes.Date `gorm:"type:date"`
	Gender            *Gender         `gorm:"type:varchar(10)"`
	Role              UserRole        `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified        bool            `gorm:"default:false"`
	VerificationToken string          `gorm:"type:varchar(64);index"`
	ResetToken        string          `gorm:"type:varchar(64);index"`
	ResetTokenExp     *time.Time

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
