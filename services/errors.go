package services

import "net/http"

// Machine-readable error codes returned alongside HTTP statuses.
const (
	CodeMissingUserID    = "MISSING_USER_ID"
	CodeMissingAmount    = "MISSING_AMOUNT"
	CodeFreeBooking      = "FREE_BOOKING"
	CodeInvalidAmount    = "INVALID_AMOUNT"
	CodeMissingRecipient = "MISSING_RECIPIENT_ID"
	CodeMissingSessionID = "MISSING_SESSION_ID"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSignatureInvalid = "SIGNATURE_INVALID"
	CodeUpstream         = "UPSTREAM_UNAVAILABLE"
)

// ServiceError represents a typed error with an HTTP status code and a
// machine-readable code clients can branch on.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func badRequest(code, message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

func upstreamError(message string, err error) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Code: CodeUpstream, Message: message, Err: err}
}
