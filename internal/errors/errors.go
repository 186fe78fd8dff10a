// Package errors provides custom error types for the Spendly API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized         = &AppError{Code: "AUTHENTICATION_FAILED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials   = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden            = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked        = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrInvalidResetCode     = &AppError{Code: "INVALID_RESET_CODE", Message: "Invalid or expired reset code", StatusCode: http.StatusBadRequest}
	ErrInvalidRefreshToken  = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrDefaultCategory   = &AppError{Code: "DEFAULT_CATEGORY", Message: "Default categories cannot be deleted", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Capture errors.
var (
	ErrPremiumRequired = &AppError{Code: "PREMIUM_REQUIRED", Message: "This capture method requires an active premium subscription", StatusCode: http.StatusPaymentRequired}
	ErrCaptureFailed   = &AppError{Code: "CAPTURE_FAILED", Message: "The capture provider could not process this file", StatusCode: http.StatusBadGateway}
	ErrFileTooLarge    = &AppError{Code: "FILE_TOO_LARGE", Message: "Uploaded file exceeds the maximum allowed size", StatusCode: http.StatusRequestEntityTooLarge}
	ErrUnsupportedFile = &AppError{Code: "UNSUPPORTED_FILE", Message: "Unsupported file type", StatusCode: http.StatusBadRequest}
)

// Notification errors.
var (
	ErrNoPushToken = &AppError{Code: "NO_PUSH_TOKEN", Message: "No push token registered for this user", StatusCode: http.StatusBadRequest}
	ErrPushFailed  = &AppError{Code: "PUSH_FAILED", Message: "Push provider rejected the notification", StatusCode: http.StatusBadGateway}
)

// Webhook errors.
var (
	ErrInvalidWebhook = &AppError{Code: "INVALID_WEBHOOK", Message: "Webhook payload could not be processed", StatusCode: http.StatusBadRequest}
)
