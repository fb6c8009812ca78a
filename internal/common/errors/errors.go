// Package errors defines business error codes and their HTTP mapping.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is an error carrying a business code and a client-safe message.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	status  int
}

// Error implements error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on the business code so copies made by WithMessage/WithError still
// compare equal to the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus returns the response status for the error.
func (e *AppError) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	return http.StatusInternalServerError
}

// New creates an AppError answered with 500.
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewWithStatus creates an AppError answered with the given HTTP status.
func NewWithStatus(code, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, status: status}
}

// Wrap creates an AppError around a cause.
func Wrap(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithMessage copies the error with a different message.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Err: e.Err, status: e.status}
}

// WithError copies the error with a cause attached.
func (e *AppError) WithError(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err, status: e.status}
}

// General (1000-1999)
var (
	ErrUnknown         = New(1000, "Internal server error")
	ErrInvalidParams   = NewWithStatus(1001, http.StatusBadRequest, "Invalid request parameters")
	ErrNotFound        = NewWithStatus(1002, http.StatusNotFound, "Resource not found")
	ErrAlreadyExists   = NewWithStatus(1003, http.StatusConflict, "Resource already exists")
	ErrDatabaseError   = New(1004, "Internal server error")
	ErrCacheError      = New(1005, "Internal server error")
	ErrInternalError   = New(1006, "Internal server error")
	ErrRateLimitExceed = NewWithStatus(1008, http.StatusTooManyRequests, "Too many requests, please try again later")
	ErrInvalidStatus   = NewWithStatus(1011, http.StatusBadRequest, "Invalid status value")
)

// Authentication and authorization (2000-2999)
var (
	ErrTokenMissing       = NewWithStatus(2000, http.StatusUnauthorized, "Authentication token is missing or malformed.")
	ErrTokenInvalid       = NewWithStatus(2002, http.StatusUnauthorized, "Invalid or expired token.")
	ErrPermissionDenied   = NewWithStatus(2004, http.StatusForbidden, "You do not have permission to perform this action.")
	ErrAccountInactive    = NewWithStatus(2005, http.StatusForbidden, "User account is not active.")
	ErrAccountPending     = NewWithStatus(2006, http.StatusForbidden, "Account pending approval")
	ErrInvalidCredentials = NewWithStatus(2007, http.StatusUnauthorized, "Invalid credentials")
)

// Users and profiles (3000-3999)
var (
	ErrUserNotFound          = NewWithStatus(3000, http.StatusNotFound, "User not found")
	ErrUserExists            = NewWithStatus(3001, http.StatusBadRequest, "User already exists")
	ErrClientProfileNotFound = NewWithStatus(3002, http.StatusBadRequest, "Client profile not found")
	ErrAgentNotFound         = NewWithStatus(3003, http.StatusNotFound, "Agent profile not found.")
	ErrAgentNotPending       = NewWithStatus(3004, http.StatusBadRequest, "Agent is not awaiting approval")
	ErrInvalidRole           = NewWithStatus(3005, http.StatusBadRequest, "Invalid role")
	ErrProfileNotAllowed     = NewWithStatus(3006, http.StatusBadRequest, "Profile updates not allowed for this role")
	ErrInvalidReferralCode   = NewWithStatus(3007, http.StatusBadRequest, "Invalid referral code")
	ErrAgentNotApproved      = NewWithStatus(3008, http.StatusBadRequest, "Agent is not approved")
)

// Listings (4000-4999)
var (
	ErrAccommodationNotFound = NewWithStatus(4000, http.StatusNotFound, "Accommodation not found")
	ErrVehicleNotFound       = NewWithStatus(4001, http.StatusNotFound, "Vehicle not found")
)

// Uploads (5000-5999)
var (
	ErrInvalidFileType = NewWithStatus(5000, http.StatusBadRequest, "Invalid file type. Only JPG, PNG, WEBP are allowed.")
	ErrFileTooLarge    = NewWithStatus(5001, http.StatusBadRequest, "File too large")
	ErrTooManyFiles    = NewWithStatus(5002, http.StatusBadRequest, "Too many files")
	ErrUploadFailed    = New(5003, "Upload failed")
)

// Bookings (8000-8499)
var (
	ErrBookingNotFound           = NewWithStatus(8000, http.StatusNotFound, "Booking not found")
	ErrBookingTransition         = NewWithStatus(8001, http.StatusBadRequest, "Invalid booking status transition")
	ErrBookingTargetMismatch     = NewWithStatus(8002, http.StatusBadRequest, "Booking target does not match booking type")
	ErrBookingReferenceExhausted = New(8003, "Could not allocate a booking reference")
	ErrBookingNotOwned           = NewWithStatus(8004, http.StatusForbidden, "You can only manage your own bookings")
)

// Commissions (8500-8699)
var (
	ErrCommissionNotFound   = NewWithStatus(8500, http.StatusNotFound, "Commission not found")
	ErrCommissionTransition = NewWithStatus(8501, http.StatusBadRequest, "Invalid commission status transition")
)

// Payments (8700-8999)
var (
	ErrPaymentNotFound   = NewWithStatus(8700, http.StatusNotFound, "Payment not found")
	ErrPaymentTransition = NewWithStatus(8701, http.StatusBadRequest, "Invalid payment status transition")
)

// Reviews and contact (9000-9999)
var (
	ErrReviewNotFound    = NewWithStatus(9000, http.StatusNotFound, "Review not found")
	ErrInvalidTargetType = NewWithStatus(9001, http.StatusBadRequest, "Invalid target type")
	ErrReviewTarget      = NewWithStatus(9002, http.StatusBadRequest, "A review must reference exactly one accommodation or vehicle")
	ErrInquiryNotFound   = NewWithStatus(9003, http.StatusNotFound, "Inquiry not found")
)

// IsAppError reports whether err is, or wraps, an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts the AppError from err, wrapping unknown errors.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
