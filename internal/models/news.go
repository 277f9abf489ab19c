package models

import "time"

type NewsPost struct {
	BaseModel
	Slug        string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Category    string    `gorm:"type:varchar(50)"`
	Content     string    `gorm:"type:text"`
	MeetingLink string    `gorm:"type:varchar(500)"`
	LinkText    string    `gorm:"type:varchar(100)"`
	PublishedAt time.Time `gorm:"index"`
}
