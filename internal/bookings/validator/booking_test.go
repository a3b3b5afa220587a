package validator

import (
	"strings"
	"testing"

	"innstay/pkg/logger"
	"innstay/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		PropertyID: "prop-1",
		CheckIn:    "2026-10-10",
		CheckOut:   "2026-10-12",
		GuestCount: 2,
		Guests: []model.BookingGuestInput{
			{Name: "Alice Tan", Email: "alice@example.com"},
			{Name: "Bob Lim"},
		},
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	v := NewBookingValidator(testLogger())
	if err := v.Validate(validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name     string
		mutate   func(req *model.BookingRequest)
		wantPart string
	}{
		{
			name:     "missing property id",
			mutate:   func(req *model.BookingRequest) { req.PropertyID = "" },
			wantPart: "PropertyID",
		},
		{
			name:     "missing check_in",
			mutate:   func(req *model.BookingRequest) { req.CheckIn = "" },
			wantPart: "CheckIn",
		},
		{
			name:     "zero guest count",
			mutate:   func(req *model.BookingRequest) { req.GuestCount = 0 },
			wantPart: "GuestCount",
		},
		{
			name:     "no guest details",
			mutate:   func(req *model.BookingRequest) { req.Guests = nil },
			wantPart: "Guests",
		},
		{
			name: "guest name too short",
			mutate: func(req *model.BookingRequest) {
				req.Guests[0].Name = "A"
			},
			wantPart: "Name",
		},
		{
			name: "invalid guest email",
			mutate: func(req *model.BookingRequest) {
				req.Guests[0].Email = "not-an-email"
			},
			wantPart: "Email",
		},
		{
			name: "more guest details than guest count",
			mutate: func(req *model.BookingRequest) {
				req.GuestCount = 1
			},
			wantPart: "Guests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantPart, err)
			}
		})
	}
}
