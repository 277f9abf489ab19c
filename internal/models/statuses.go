package models

type UserRole string
type Gender string
type PaymentStatus string
type SubmissionStatus string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleUser     UserRole = "user"
	UserRoleReviewer UserRole = "reviewer"

	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	SubmissionStatusProcessing SubmissionStatus = "processing"
	SubmissionStatusReviewing  SubmissionStatus = "reviewing"
	SubmissionStatusAccepted   SubmissionStatus = "accepted"
	SubmissionStatusRejected   SubmissionStatus = "rejected"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleUser, UserRoleReviewer:
		return true
	}
	return false
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusProcessing, SubmissionStatusReviewing, SubmissionStatusAccepted, SubmissionStatusRejected:
		return true
	}
	return false
}
