package dto

import (
	"time"

	"sg44_backend/internal/models"
)

type NewsRequest struct {
	Slug        string     `json:"slug" validate:"required,max=120,slug"`
	Title       string     `json:"title" validate:"required,max=200"`
	Category    string     `json:"category" validate:"max=50"`
	Content     string     `json:"content"`
	MeetingLink string     `json:"meeting_link" validate:"omitempty,url,max=500"`
	LinkText    string     `json:"link_text" validate:"max=100"`
	PublishedAt *time.Time `json:"published_at"`
}

type NewsResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Content     string    `json:"content"`
	MeetingLink string    `json:"meeting_link,omitempty"`
	LinkText    string    `json:"link_text,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func NewNewsResponse(p *models.NewsPost) NewsResponse {
	return NewsResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Category:    p.Category,
		Content:     p.Content,
		MeetingLink: p.MeetingLink,
		LinkText:    p.LinkText,
		PublishedAt: p.PublishedAt,
	}
}
