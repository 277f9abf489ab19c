package dto

// RegisterRequest is the self sign-up form. Any role sent by the client is
// not part of the struct and is dropped.
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Organization string  `json:"organization" validate:"max=200"`
	JobTitle     string  `json:"job_title" validate:"max=100"`
	Phone        string  `json:"phone" validate:"max=30"`
	Birthday     *string `json:"birthday" validate:"omitempty,date-only"`
	Gender       *string `json:"gender" validate:"omitempty,gender"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int     `json:"expires_in"`
	User         UserDTO `json:"user"`
}
