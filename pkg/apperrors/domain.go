package apperrors

import (
	"net/http"
)

// ErrNotFound wraps a repository "not found" error.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists wraps a repository uniqueness error.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrFieldNotWritable reports the fields the caller may not write.
func ErrFieldNotWritable(fields []string) *AppError {
	return New(CodeFieldNotWritable, "auth", "You are not allowed to modify these fields", http.StatusForbidden).
		WithDetails(map[string]interface{}{"fields": fields})
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserNotVerified = New(
	CodeUserNotVerified,
	"auth",
	"Please verify your email address",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"user",
	"Invalid user role",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"user",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Registrations ---

// ErrRegistrationExists is returned when the caller already has a
// registration and did not ask for edit mode. Details carry the existing id.
var ErrRegistrationExists = New(
	CodeRegistrationExists,
	"registration",
	"You have already registered; edit your existing registration instead",
	http.StatusConflict,
)

var ErrRegistrationNotFound = New(
	CodeRegistrationNotFound,
	"registration",
	"Registration not found",
	http.StatusNotFound,
)

var ErrUnknownTicketType = New(
	CodeUnknownTicketType,
	"registration",
	"Unknown ticket type",
	http.StatusBadRequest,
)

var ErrInvalidPaymentStatus = New(
	CodeInvalidStatus,
	"registration",
	"Payment status must be one of: pending, paid, failed",
	http.StatusBadRequest,
)

// --- Content ---

var ErrNewsNotFound = New(
	CodeNotFound,
	"news",
	"News post not found",
	http.StatusNotFound,
)

var ErrNewsSlugTaken = New(
	CodeAlreadyExists,
	"news",
	"A news post with this slug already exists",
	http.StatusConflict,
)

var ErrSubmissionNotFound = New(
	CodeNotFound,
	"submission",
	"Submission not found",
	http.StatusNotFound,
)

var ErrReviewerRequired = New(
	CodeInvalidOperation,
	"submission",
	"Assigned user must hold the reviewer role",
	http.StatusBadRequest,
)
