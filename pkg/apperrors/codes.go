package apperrors

// ErrorCode is the machine-readable error code returned to clients.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business errors (used by the factories)
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Authentication and authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeUserNotVerified    ErrorCode = "USER_NOT_VERIFIED"
	CodeFieldNotWritable   ErrorCode = "FIELD_NOT_WRITABLE"

	// Registration
	CodeRegistrationExists   ErrorCode = "REGISTRATION_EXISTS"
	CodeRegistrationNotFound ErrorCode = "REGISTRATION_NOT_FOUND"
	CodeUnknownTicketType    ErrorCode = "UNKNOWN_TICKET_TYPE"
)
