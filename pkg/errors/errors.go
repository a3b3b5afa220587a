package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Generic codes shared by every service.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInvalidInput = "INVALID_INPUT"
)

// Booking domain codes. Every caller of the admission pipeline has to
// handle these explicitly; they are never collapsed into a generic 500.
const (
	CodeInvalidRange         = "INVALID_RANGE"
	CodePastDate             = "PAST_DATE"
	CodeMinStayViolation     = "MIN_STAY_VIOLATION"
	CodeMaxStayExceeded      = "MAX_STAY_EXCEEDED"
	CodeCapacityExceeded     = "CAPACITY_EXCEEDED"
	CodeAvailabilityConflict = "AVAILABILITY_CONFLICT"
	CodeSeasonalRateOverlap  = "SEASONAL_RATE_OVERLAP"
	CodeRetryExhausted       = "TRANSACTION_RETRY_EXHAUSTED"
	CodeInvalidTransition    = "INVALID_STATUS_TRANSITION"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// InvalidRange reports check_out <= check_in or an unparseable range.
func InvalidRange(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidRange,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func PastDate(message string) *AppError {
	return &AppError{
		Code:       CodePastDate,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func MinStayViolation(required, requested int) *AppError {
	return &AppError{
		Code:       CodeMinStayViolation,
		Message:    fmt.Sprintf("stay of %d night(s) is below the minimum of %d for the selected dates", requested, required),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"required_nights":  required,
			"requested_nights": requested,
		},
	}
}

func MaxStayExceeded(limit, requested int) *AppError {
	return &AppError{
		Code:       CodeMaxStayExceeded,
		Message:    fmt.Sprintf("stay of %d night(s) exceeds the maximum of %d", requested, limit),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"max_nights":       limit,
			"requested_nights": requested,
		},
	}
}

func CapacityExceeded(capacityMax, guests int) *AppError {
	return &AppError{
		Code:       CodeCapacityExceeded,
		Message:    fmt.Sprintf("%d guest(s) exceed the property maximum of %d", guests, capacityMax),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"capacity_max": capacityMax,
			"guest_count":  guests,
		},
	}
}

// AvailabilityConflict carries the current booked dates and periods so
// the caller can redraw its calendar without a second round trip.
func AvailabilityConflict(bookedDates []string, bookedPeriods [][2]string) *AppError {
	return &AppError{
		Code:       CodeAvailabilityConflict,
		Message:    "the requested dates overlap an existing reservation",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"booked_dates":   bookedDates,
			"booked_periods": bookedPeriods,
		},
	}
}

func SeasonalRateOverlap(message string) *AppError {
	return &AppError{
		Code:       CodeSeasonalRateOverlap,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("reservation cannot move from %s to %s", from, to),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"from_status": from,
			"to_status":   to,
		},
	}
}

func RetryExhausted(attempts int, err error) *AppError {
	return &AppError{
		Code:       CodeRetryExhausted,
		Message:    fmt.Sprintf("booking could not be admitted after %d attempt(s)", attempts),
		HTTPStatus: http.StatusConflict,
		Err:        err,
		Details: map[string]any{
			"attempts": attempts,
		},
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
