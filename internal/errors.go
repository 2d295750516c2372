package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeCSRF         ErrorType = "CSRF_ERROR"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodePasswordMismatch ErrorCode = "PASSWORD_MISMATCH"

	ErrCodeSalleNotFound       ErrorCode = "SALLE_NOT_FOUND"
	ErrCodeSalleUnavailable    ErrorCode = "SALLE_UNAVAILABLE"
	ErrCodeSalleHasReservation ErrorCode = "SALLE_HAS_RESERVATIONS"
	ErrCodeSalleImageNotFound  ErrorCode = "SALLE_IMAGE_NOT_FOUND"
	ErrCodeTooManyImages       ErrorCode = "TOO_MANY_IMAGES"

	ErrCodeReservationNotFound ErrorCode = "RESERVATION_NOT_FOUND"
	ErrCodeReservationConflict ErrorCode = "RESERVATION_CONFLICT"
	ErrCodeInvalidStatut       ErrorCode = "INVALID_STATUT"
	ErrCodeStatutTransition    ErrorCode = "INVALID_STATUT_TRANSITION"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeSelfDelete         ErrorCode = "CANNOT_DELETE_SELF"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeCSRFMismatch       ErrorCode = "CSRF_TOKEN_MISMATCH"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeChannelForbidden   ErrorCode = "CHANNEL_FORBIDDEN"

	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeAttachmentTooLarge   ErrorCode = "ATTACHMENT_TOO_LARGE"
)

// 419 is what the original stack answers to a bad or missing anti-forgery
// token; kept so clients can tell a stale handshake apart from a dead session.
const StatusCSRFTokenMismatch = 419

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// ValidationError carries the originating field so clients can map the
// message back onto the input that produced it.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewValidationFieldErrors bundles several field failures into one response
// so a form can light up every offending input at once.
func NewValidationFieldErrors(errs []ValidationError) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    ValidationErrors{Errors: errs},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewCSRFError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeCSRF,
		Code:       ErrCodeCSRFMismatch,
		Message:    message,
		StatusCode: StatusCSRFTokenMismatch,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrSalleNotFound       = NewNotFoundError("Salle not found", ErrCodeSalleNotFound)
	ErrSalleUnavailable    = NewConflictError("Salle is not available for reservation", ErrCodeSalleUnavailable)
	ErrSalleHasReservation = NewConflictError("Salle still has active reservations", ErrCodeSalleHasReservation)
	ErrTooManyImages       = NewValidationError("A salle can carry at most 5 images", ErrCodeTooManyImages)
	ErrSalleImageNotFound  = NewNotFoundError("Salle image not found", ErrCodeSalleImageNotFound)

	ErrReservationNotFound = NewNotFoundError("Reservation not found", ErrCodeReservationNotFound)
	ErrReservationConflict = NewConflictError("The salle is already reserved on this time range", ErrCodeReservationConflict)
	ErrStatutTransition    = NewValidationError("Reservation statut does not allow this operation", ErrCodeStatutTransition)

	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmailTaken         = NewConflictError("Email address is already registered", ErrCodeEmailTaken)
	ErrUnauthorizedAccess = NewForbiddenError("Access to this resource is not allowed", ErrCodeUnauthorizedAccess)
	ErrSelfDelete         = NewConflictError("Cannot delete the currently authenticated account", ErrCodeSelfDelete)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrSessionExpired     = NewUnauthorizedError("Session is missing or expired", ErrCodeSessionExpired)
	ErrCSRFMismatch       = NewCSRFError("CSRF token missing or mismatched")
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrChannelForbidden   = NewForbiddenError("Not allowed to subscribe to this channel", ErrCodeChannelForbidden)

	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
