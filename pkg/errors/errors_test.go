package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := Internal("Failed to create booking", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", appErr.StatusCode())
	}
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"invalid range", InvalidRange("check_out must be after check_in"), CodeInvalidRange, http.StatusBadRequest},
		{"past date", PastDate("check_in must not be in the past"), CodePastDate, http.StatusBadRequest},
		{"min stay", MinStayViolation(3, 2), CodeMinStayViolation, http.StatusUnprocessableEntity},
		{"max stay", MaxStayExceeded(365, 400), CodeMaxStayExceeded, http.StatusUnprocessableEntity},
		{"capacity", CapacityExceeded(8, 9), CodeCapacityExceeded, http.StatusUnprocessableEntity},
		{"availability conflict", AvailabilityConflict(nil, nil), CodeAvailabilityConflict, http.StatusConflict},
		{"seasonal overlap", SeasonalRateOverlap("ranges intersect"), CodeSeasonalRateOverlap, http.StatusConflict},
		{"retry exhausted", RetryExhausted(5, errors.New("write conflict")), CodeRetryExhausted, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.httpStatus {
				t.Errorf("expected status %d, got %d", tt.httpStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestMinStayViolation_CarriesDetails(t *testing.T) {
	appErr := MinStayViolation(3, 2)
	if appErr.Details["required_nights"] != 3 || appErr.Details["requested_nights"] != 2 {
		t.Errorf("expected nights in details, got %+v", appErr.Details)
	}
}

func TestAvailabilityConflict_CarriesCalendarDetails(t *testing.T) {
	dates := []string{"2026-01-10", "2026-01-11"}
	periods := [][2]string{{"2026-01-10", "2026-01-12"}}

	appErr := AvailabilityConflict(dates, periods)
	if appErr.Details["booked_dates"] == nil || appErr.Details["booked_periods"] == nil {
		t.Errorf("expected calendar details, got %+v", appErr.Details)
	}
}

func TestHasCode(t *testing.T) {
	appErr := InvalidRange("bad range")

	if !HasCode(appErr, CodeInvalidRange) {
		t.Error("expected HasCode to match the direct error")
	}
	wrapped := fmt.Errorf("handling request: %w", appErr)
	if !HasCode(wrapped, CodeInvalidRange) {
		t.Error("expected HasCode to match through wrapping")
	}
	if HasCode(wrapped, CodePastDate) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(errors.New("plain"), CodeInvalidRange) {
		t.Error("expected HasCode to reject non-app errors")
	}
}

func TestIsAndAsAppError(t *testing.T) {
	appErr := Conflict("duplicate")
	wrapped := fmt.Errorf("outer: %w", appErr)

	if !IsAppError(wrapped) {
		t.Error("expected IsAppError through wrapping")
	}
	if got := AsAppError(wrapped); got == nil || got.Code != CodeConflict {
		t.Errorf("expected AsAppError to return the conflict, got %+v", got)
	}
	if AsAppError(errors.New("plain")) != nil {
		t.Error("expected nil for non-app errors")
	}
}
