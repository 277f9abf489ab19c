package dto

import (
	"time"

	"sg44_backend/internal/models"
)

type CreateSubmissionRequest struct {
	Title    string `json:"title" validate:"required,max=300"`
	Abstract string `json:"abstract" validate:"required,max=10000"`
	Topic    string `json:"topic" validate:"max=100"`
}

type SubmissionPatch struct {
	Title              *string `json:"title" validate:"omitempty,min=1,max=300"`
	Abstract           *string `json:"abstract" validate:"omitempty,min=1,max=10000"`
	Topic              *string `json:"topic" validate:"omitempty,max=100"`
	Status             *string `json:"status" validate:"omitempty,submission-status"`
	ReviewComments     *string `json:"review_comments" validate:"omitempty,max=10000"`
	AssignedReviewerID *string `json:"assigned_reviewer_id" validate:"omitempty,max=36"`

	Present FieldSet `json:"-"`
}

type SubmissionListQuery struct {
	Status       string `form:"status" json:"status" validate:"omitempty,submission-status"`
	AssignedToMe bool   `form:"assigned_to_me" json:"assigned_to_me"`
	Page         int    `form:"page" json:"page" validate:"min=0"`
	PageSize     int    `form:"page_size" json:"page_size" validate:"min=0,max=100"`
}

type SubmissionResponse struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	OwnerName          string     `json:"owner_name,omitempty"`
	Title              string     `json:"title"`
	Abstract           string     `json:"abstract"`
	Topic              string     `json:"topic"`
	Status             string     `json:"status"`
	AssignedReviewerID *string    `json:"assigned_reviewer_id"`
	ReviewComments     string     `json:"review_comments"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

func NewSubmissionResponse(s *models.Submission) SubmissionResponse {
	updated := s.UpdatedAt
	out := SubmissionResponse{
		ID:                 s.ID,
		OwnerID:            s.OwnerID,
		Title:              s.Title,
		Abstract:           s.Abstract,
		Topic:              s.Topic,
		Status:             string(s.Status),
		AssignedReviewerID: s.AssignedReviewerID,
		ReviewComments:     s.ReviewComments,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          &updated,
	}
	if s.Owner != nil {
		out.OwnerName = s.Owner.Name
	}
	return out
}
