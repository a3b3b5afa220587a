package service

import (
	"context"
	"testing"

	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
)

func reservationBetween(t *testing.T, propertyID, checkIn, checkOut string, status model.ReservationStatus) *model.Reservation {
	t.Helper()
	in, err := model.ParseDate(checkIn)
	if err != nil {
		t.Fatalf("bad check_in %q: %v", checkIn, err)
	}
	out, err := model.ParseDate(checkOut)
	if err != nil {
		t.Fatalf("bad check_out %q: %v", checkOut, err)
	}
	return &model.Reservation{
		PropertyID: propertyID,
		CheckIn:    in,
		CheckOut:   out,
		Status:     status,
	}
}

func TestFindConflicts_CancelledNeverBlocks(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{}
	repo.reservations = []*model.Reservation{
		reservationBetween(t, "prop-1", "2026-10-10", "2026-10-12", model.StatusCancelled),
		reservationBetween(t, "prop-1", "2026-10-11", "2026-10-13", model.StatusPaid),
	}

	svc := NewAvailabilityService(repo, cfg)

	start, _ := model.ParseDate("2026-10-10")
	end, _ := model.ParseDate("2026-10-14")
	conflicts, err := svc.FindConflicts(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conflicts) != 1 || conflicts[0].Status != model.StatusPaid {
		t.Errorf("expected only the paid reservation to block, got %+v", conflicts)
	}
}

func TestFindConflicts_InvalidRange(t *testing.T) {
	svc := NewAvailabilityService(&mockReservationRepository{}, testConfig())

	d, _ := model.ParseDate("2026-10-10")
	_, err := svc.FindConflicts(context.Background(), "prop-1", d, d)
	if !apperrors.HasCode(err, apperrors.CodeInvalidRange) {
		t.Fatalf("expected INVALID_RANGE, got %v", err)
	}
}

func TestBookedDates_ClippedAndDeduplicated(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{}
	repo.reservations = []*model.Reservation{
		// Extends past both ends of the queried range.
		reservationBetween(t, "prop-1", "2026-10-08", "2026-10-16", model.StatusVerified),
	}

	svc := NewAvailabilityService(repo, cfg)

	start, _ := model.ParseDate("2026-10-10")
	end, _ := model.ParseDate("2026-10-13")
	dates, err := svc.BookedDates(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"2026-10-10", "2026-10-11", "2026-10-12"}
	if len(dates) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, dates)
	}
	for i := range expected {
		if dates[i] != expected[i] {
			t.Errorf("date %d: expected %s, got %s", i, expected[i], dates[i])
		}
	}
}

func TestCheckAvailability(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{}
	repo.reservations = []*model.Reservation{
		reservationBetween(t, "prop-1", "2026-10-10", "2026-10-12", model.StatusPaid),
	}

	svc := NewAvailabilityService(repo, cfg)

	start, _ := model.ParseDate("2026-10-11")
	end, _ := model.ParseDate("2026-10-13")
	result, err := svc.CheckAvailability(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Error("expected unavailable")
	}
	if len(result.BookedPeriods) != 1 || result.BookedPeriods[0] != [2]string{"2026-10-10", "2026-10-12"} {
		t.Errorf("unexpected booked periods: %v", result.BookedPeriods)
	}

	// Adjacent range is free.
	start, _ = model.ParseDate("2026-10-12")
	end, _ = model.ParseDate("2026-10-14")
	result, err = svc.CheckAvailability(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Errorf("expected adjacent range available, got %+v", result)
	}
}

func TestNextAvailableWindow(t *testing.T) {
	cfg := testConfig()
	repo := &mockReservationRepository{}

	today := model.Today()
	// Everything from today through day 9 is occupied.
	repo.reservations = []*model.Reservation{
		{
			PropertyID: "prop-1",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 10),
			Status:     model.StatusPaid,
		},
	}

	svc := NewAvailabilityService(repo, cfg)

	window, err := svc.NextAvailableWindow(context.Background(), "prop-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("expected a window within the horizon")
	}
	if !window.CheckIn.Equal(today.AddDate(0, 0, 10)) {
		t.Errorf("expected window starting day 10, got %s", model.FormatDate(window.CheckIn))
	}
	if !window.CheckOut.Equal(window.CheckIn.AddDate(0, 0, 3)) {
		t.Errorf("expected a 3-night window, got %s", model.FormatDate(window.CheckOut))
	}
}

func TestNextAvailableWindow_HorizonExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.AvailabilityHorizonDays = 5
	repo := &mockReservationRepository{}

	today := model.Today()
	repo.reservations = []*model.Reservation{
		{
			PropertyID: "prop-1",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 30),
			Status:     model.StatusPaid,
		},
	}

	svc := NewAvailabilityService(repo, cfg)

	window, err := svc.NextAvailableWindow(context.Background(), "prop-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("expected no window within the horizon, got %+v", window)
	}
}
