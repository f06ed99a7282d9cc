// Package errors provides application-level error types and utilities.
// Besides the generic validation, not found and conflict kinds it carries the
// payment gateway taxonomy: misconfiguration, provider authentication,
// partner lookup and charge failures.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation_error"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeInternal       ErrorType = "internal_error"
	ErrorTypeBadRequest     ErrorType = "bad_request"
	ErrorTypeUnavailable    ErrorType = "unavailable"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeConfiguration  ErrorType = "configuration_error"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypePartnerFetch   ErrorType = "partner_fetch_error"
	ErrorTypeCharge         ErrorType = "charge_error"
	ErrorTypeWebhook        ErrorType = "webhook_validation_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
}

// NewUnavailableError reports a transient condition the caller may retry.
func NewUnavailableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnavailable, http.StatusServiceUnavailable, message, details)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewConfigurationError reports a disabled or incompletely configured gateway.
func NewConfigurationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConfiguration, http.StatusServiceUnavailable, message, details)
}

// NewAuthenticationError reports that the provider refused to issue a token.
func NewAuthenticationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAuthentication, http.StatusBadGateway, message, details)
}

// NewPartnerFetchError reports that the partner directory could not be read.
func NewPartnerFetchError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePartnerFetch, http.StatusBadGateway, message, details)
}

// NewChargeError reports that the provider did not accept a charge request.
func NewChargeError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCharge, http.StatusPaymentRequired, message, details)
}

// NewWebhookValidationError reports a malformed provider callback.
func NewWebhookValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeWebhook, http.StatusBadRequest, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}
