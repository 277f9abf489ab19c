package dto

import (
	"time"

	"sg44_backend/internal/models"
)

// RegistrationRequest is the full registration form used by create and by
// the explicit edit (upsert) route. Amount is accepted for compatibility with
// older clients and always discarded.
type RegistrationRequest struct {
	TicketType           string  `json:"ticket_type" validate:"required,ticket-type"`
	Amount               *int    `json:"amount"`
	ContactAddress       string  `json:"contact_address" validate:"required,max=500"`
	ParticipantRole      string  `json:"participant_role" validate:"required,participant-role"`
	ParticipantRoleOther *string `json:"participant_role_other" validate:"omitempty,max=200"`
	PresentationType     string  `json:"presentation_type" validate:"omitempty,presentation-type"`
	PaymentAccountLast5  string  `json:"payment_account_last5" validate:"required,last5-digits"`
	PaymentDate          string  `json:"payment_date" validate:"required,date-only"`
	PaymentTime          *string `json:"payment_time" validate:"omitempty,hhmm"`
	MealDay1             string  `json:"meal_day1" validate:"required,yes-no"`
	MealDay2             string  `json:"meal_day2" validate:"required,yes-no"`
	Banquet              string  `json:"banquet" validate:"required,yes-no"`
	DietaryPreference    *string `json:"dietary_preference" validate:"omitempty,dietary-preference"`
	DietaryOther         *string `json:"dietary_other" validate:"omitempty,max=200"`
	Remarks              string  `json:"remarks" validate:"max=2000"`
	PaymentStatus        *string `json:"payment_status" validate:"omitempty,payment-status"`

	Present FieldSet `json:"-"`
}

// RegistrationPatch carries only the fields the client sent.
type RegistrationPatch struct {
	TicketType           *string `json:"ticket_type" validate:"omitempty,ticket-type"`
	Amount               *int    `json:"amount"`
	ContactAddress       *string `json:"contact_address" validate:"omitempty,max=500"`
	ParticipantRole      *string `json:"participant_role" validate:"omitempty,participant-role"`
	ParticipantRoleOther *string `json:"participant_role_other" validate:"omitempty,max=200"`
	PresentationType     *string `json:"presentation_type" validate:"omitempty,presentation-type"`
	PaymentAccountLast5  *string `json:"payment_account_last5" validate:"omitempty,last5-digits"`
	PaymentDate          *string `json:"payment_date" validate:"omitempty,date-only"`
	PaymentTime          *string `json:"payment_time" validate:"omitempty,hhmm"`
	MealDay1             *string `json:"meal_day1" validate:"omitempty,yes-no"`
	MealDay2             *string `json:"meal_day2" validate:"omitempty,yes-no"`
	Banquet              *string `json:"banquet" validate:"omitempty,yes-no"`
	DietaryPreference    *string `json:"dietary_preference" validate:"omitempty,dietary-preference"`
	DietaryOther         *string `json:"dietary_other" validate:"omitempty,max=200"`
	Remarks              *string `json:"remarks" validate:"omitempty,max=2000"`
	PaymentStatus        *string `json:"payment_status" validate:"omitempty,payment-status"`

	Present FieldSet `json:"-"`
}

type PaymentStatusUpdate struct {
	PaymentStatus string `json:"payment_status" validate:"required,payment-status"`
}

type RegistrationOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegistrationResponse struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	User                 *RegistrationOwner `json:"user,omitempty"`
	TicketType           string             `json:"ticket_type"`
	TicketTitle          string             `json:"ticket_title"`
	Amount               int                `json:"amount"`
	ContactAddress       string             `json:"contact_address"`
	ParticipantRole      string             `json:"participant_role"`
	ParticipantRoleOther *string            `json:"participant_role_other"`
	PresentationType     string             `json:"presentation_type"`
	PaymentAccountLast5  string             `json:"payment_account_last5"`
	PaymentDate          string             `json:"payment_date"`
	PaymentTime          *string            `json:"payment_time"`
	MealDay1             string             `json:"meal_day1"`
	MealDay2             string             `json:"meal_day2"`
	Banquet              string             `json:"banquet"`
	DietaryPreference    *string            `json:"dietary_preference"`
	DietaryOther         *string            `json:"dietary_other"`
	Remarks              string             `json:"remarks"`
	PaymentStatus        string             `json:"payment_status"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// RegistrationResult wraps a written record with whether it was newly created.
type RegistrationResult struct {
	Registration RegistrationResponse `json:"registration"`
	Created      bool                 `json:"created"`
}

type RegistrationListQuery struct {
	Status   string `form:"status" json:"status" validate:"omitempty,payment-status"`
	Page     int    `form:"page" json:"page" validate:"min=0"`
	PageSize int    `form:"page_size" json:"page_size" validate:"min=0,max=100"`
}

// RegistrationStats are the reconciliation dashboard counters.
type RegistrationStats struct {
	Total             int `json:"total"`
	TotalPaid         int `json:"total_paid"`
	Pending           int `json:"pending"`
	Failed            int `json:"failed"`
	Day1Meals         int `json:"day1_meals"`
	Day2Meals         int `json:"day2_meals"`
	BanquetAttendance int `json:"banquet_attendance"`
	PaidAmount        int `json:"paid_amount"`
}

// PrefillResponse is the profile data used to prefill the form.
type PrefillResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	JobTitle     string `json:"job_title"`
	Phone        string `json:"phone"`
}

func NewRegistrationResponse(r *models.Registration, ticketTitle string) RegistrationResponse {
	out := RegistrationResponse{
		ID:                   r.ID,
		UserID:               r.UserID,
		TicketType:           string(r.TicketType),
		TicketTitle:          ticketTitle,
		Amount:               r.Amount,
		ContactAddress:       r.ContactAddress,
		ParticipantRole:      string(r.ParticipantRole),
		ParticipantRoleOther: r.ParticipantRoleOther,
		PresentationType:     string(r.PresentationType),
		PaymentAccountLast5:  r.PaymentAccountLast5,
		PaymentDate:          r.PaymentDateString(),
		PaymentTime:          r.PaymentTime,
		MealDay1:             string(r.MealDay1),
		MealDay2:             string(r.MealDay2),
		Banquet:              string(r.Banquet),
		DietaryOther:         r.DietaryOther,
		Remarks:              r.Remarks,
		PaymentStatus:        string(r.PaymentStatus),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.DietaryPreference != nil {
		s := string(*r.DietaryPreference)
		out.DietaryPreference = &s
	}
	if r.User != nil {
		out.User = &RegistrationOwner{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
	}
	return out
}
