package dto

import (
	"time"

	"sg44_backend/internal/models"
)

type UserDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Organization string          `json:"organization"`
	JobTitle     string          `json:"job_title"`
	Phone        string          `json:"phone"`
	Birthday     *string         `json:"birthday"`
	Gender       *models.Gender  `json:"gender"`
	Role         models.UserRole `json:"role"`
	IsVerified   bool            `json:"is_verified"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	out := UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Organization: u.Organization,
		JobTitle:     u.JobTitle,
		Phone:        u.Phone,
		Gender:       u.Gender,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
	if u.Birthday != nil {
		s := time.Time(*u.Birthday).Format(time.DateOnly)
		out.Birthday = &s
	}
	return out
}

// UpdateProfileRequest is a partial update of the caller's own profile.
type UpdateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Organization *string `json:"organization" validate:"omitempty,max=200"`
	JobTitle     *string `json:"job_title" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Birthday     *string `json:"birthday" validate:"omitempty,date-only"`
	Gender       *string `json:"gender" validate:"omitempty,gender"`
	Role         *string `json:"role" validate:"omitempty,user-role"`

	Present FieldSet `json:"-"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,user-role"`
}

type UserListQuery struct {
	Role     string `form:"role" json:"role" validate:"omitempty,user-role"`
	Search   string `form:"search" json:"search" validate:"max=100"`
	Page     int    `form:"page" json:"page" validate:"min=0"`
	PageSize int    `form:"page_size" json:"page_size" validate:"min=0,max=100"`
}
