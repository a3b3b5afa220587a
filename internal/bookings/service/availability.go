package service

import (
	"context"
	"sort"
	"time"

	"innstay/internal/bookings/repository"
	"innstay/pkg/config"
	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
)

// AvailabilityResult is the advisory view handed to calendar clients.
// It is computed lock-free and may be slightly stale; the admission
// path never trusts it and re-checks conflicts inside the lock.
type AvailabilityResult struct {
	Available     bool        `json:"available"`
	BookedDates   []string    `json:"booked_dates"`
	BookedPeriods [][2]string `json:"booked_periods"`
}

// Window is a candidate stay interval.
type Window struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type AvailabilityService interface {
	FindConflicts(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*model.Reservation, error)
	BookedDates(ctx context.Context, propertyID string, rangeStart, rangeEnd time.Time) ([]string, error)
	BookedPeriods(ctx context.Context, propertyID string, rangeStart, rangeEnd time.Time) ([][2]string, error)
	CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (*AvailabilityResult, error)
	NextAvailableWindow(ctx context.Context, propertyID string, nights int) (*Window, error)
}

type availabilityService struct {
	repo repository.ReservationRepository
	cfg  *config.Config
}

func NewAvailabilityService(repo repository.ReservationRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo: repo,
		cfg:  cfg,
	}
}

// FindConflicts returns reservations in a blocking status overlapping
// the half-open [checkIn, checkOut). The repository applies the
// interval inequality; we validate the range here so advisory callers
// get the same error shape as admission.
func (s *availabilityService) FindConflicts(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*model.Reservation, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID is required")
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidRange("check_out must be after check_in")
	}

	return s.repo.FindBlockingInRange(ctx, propertyID, checkIn, checkOut)
}

// BookedDates expands every conflicting interval, clipped to the
// queried range, into de-duplicated calendar dates. Display only.
func (s *availabilityService) BookedDates(ctx context.Context, propertyID string, rangeStart, rangeEnd time.Time) ([]string, error) {
	conflicts, err := s.FindConflicts(ctx, propertyID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	return expandBookedDates(conflicts, rangeStart, rangeEnd), nil
}

func (s *availabilityService) BookedPeriods(ctx context.Context, propertyID string, rangeStart, rangeEnd time.Time) ([][2]string, error) {
	conflicts, err := s.FindConflicts(ctx, propertyID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	return formatBookedPeriods(conflicts), nil
}

func (s *availabilityService) CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (*AvailabilityResult, error) {
	conflicts, err := s.FindConflicts(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		Available:     len(conflicts) == 0,
		BookedDates:   expandBookedDates(conflicts, checkIn, checkOut),
		BookedPeriods: formatBookedPeriods(conflicts),
	}, nil
}

// NextAvailableWindow scans day by day from today across the
// configured horizon for the first nights-long window free of
// conflicts. Linear on purpose: the horizon is at most a few months,
// so a sweep-line structure is not worth the complexity.
func (s *availabilityService) NextAvailableWindow(ctx context.Context, propertyID string, nights int) (*Window, error) {
	if nights <= 0 {
		return nil, apperrors.InvalidInput("nights must be positive")
	}

	horizon := s.cfg.AvailabilityHorizonDays
	today := model.Today()

	// One query covers the whole scan range.
	scanEnd := today.AddDate(0, 0, horizon+nights)
	conflicts, err := s.FindConflicts(ctx, propertyID, today, scanEnd)
	if err != nil {
		return nil, err
	}

	for dayOffset := 0; dayOffset < horizon; dayOffset++ {
		start := today.AddDate(0, 0, dayOffset)
		end := start.AddDate(0, 0, nights)

		free := true
		for _, conflict := range conflicts {
			if model.Overlaps(start, end, conflict.CheckIn, conflict.CheckOut) {
				free = false
				break
			}
		}
		if free {
			return &Window{CheckIn: start, CheckOut: end}, nil
		}
	}

	return nil, nil
}

func expandBookedDates(conflicts []*model.Reservation, rangeStart, rangeEnd time.Time) []string {
	seen := make(map[string]struct{})
	for _, reservation := range conflicts {
		start := reservation.CheckIn
		if start.Before(rangeStart) {
			start = rangeStart
		}
		end := reservation.CheckOut
		if end.After(rangeEnd) {
			end = rangeEnd
		}
		model.EachNight(start, end, func(d time.Time) {
			seen[model.FormatDate(d)] = struct{}{}
		})
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func formatBookedPeriods(conflicts []*model.Reservation) [][2]string {
	periods := make([][2]string, 0, len(conflicts))
	for _, reservation := range conflicts {
		periods = append(periods, [2]string{
			model.FormatDate(reservation.CheckIn),
			model.FormatDate(reservation.CheckOut),
		})
	}
	return periods
}
