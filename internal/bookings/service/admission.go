package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innstay/internal/bookings/errors"
	"innstay/internal/bookings/events"
	"innstay/internal/bookings/repository"
	"innstay/internal/bookings/validator"
	ratesservice "innstay/internal/seasonalrates/service"
	"innstay/pkg/config"
	mongotx "innstay/pkg/db/mongo"
	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
	"innstay/pkg/pricing"
	"innstay/pkg/sanitizer"
)

// BookingService is the admission orchestrator plus the advisory
// read paths around it. CreateBooking is the only write entry point
// and the only place overlap correctness is enforced.
type BookingService interface {
	CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error)
	CalculateRate(ctx context.Context, propertyID string, checkIn, checkOut time.Time, guestCount int) (*model.RateCalculation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByReference(ctx context.Context, reference string) (*model.Reservation, error)
	ListByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	Guests(ctx context.Context, reservationID string) ([]*model.ReservationGuest, error)
	TransitionStatus(ctx context.Context, id string, to model.ReservationStatus, actor, note string) (*model.Reservation, error)
}

type bookingService struct {
	reservations repository.ReservationRepository
	properties   repository.PropertyRepository
	locks        repository.PropertyLockRepository
	rates        ratesservice.SeasonalRateService
	calculator   *pricing.Calculator
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	reservations repository.ReservationRepository,
	properties repository.PropertyRepository,
	locks repository.PropertyLockRepository,
	rates ratesservice.SeasonalRateService,
	calculator *pricing.Calculator,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		reservations: reservations,
		properties:   properties,
		locks:        locks,
		rates:        rates,
		calculator:   calculator,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// CreateBooking runs the admission protocol: validate before touching
// storage, then under the property lock re-check conflicts, price, and
// persist the reservation with its guest and audit rows in one
// transaction. Contention and transient transaction errors retry the
// whole protocol from the lock onward; business rejections never
// retry.
func (s *bookingService) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.Reservation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{"error": err.Error()})
	}

	checkIn, err := model.ParseDate(req.CheckIn)
	if err != nil {
		return nil, apperrors.InvalidRange("invalid check_in, must be YYYY-MM-DD")
	}
	checkOut, err := model.ParseDate(req.CheckOut)
	if err != nil {
		return nil, apperrors.InvalidRange("invalid check_out, must be YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidRange("check_out must be after check_in")
	}
	if checkIn.Before(model.Today()) {
		return nil, apperrors.PastDate("check_in must not be in the past")
	}

	nights := model.Nights(checkIn, checkOut)
	if nights > s.cfg.MaxStayNights {
		return nil, apperrors.MaxStayExceeded(s.cfg.MaxStayNights, nights)
	}

	property, err := s.loadProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if req.GuestCount > property.CapacityMax {
		return nil, apperrors.CapacityExceeded(property.CapacityMax, req.GuestCount)
	}

	// Advisory seasonal view for the minimum-stay check. Seasonal
	// rows change rarely and pricing is re-run under the lock anyway.
	seasonal, err := s.rates.EffectiveRates(ctx, req.PropertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if required := pricing.RequiredMinStay(property, seasonal, checkIn, checkOut); nights < required {
		return nil, apperrors.MinStayViolation(required, nights)
	}

	var reservation *model.Reservation
	var lastErr error

	for attempt := 1; attempt <= s.cfg.AdmissionMaxAttempts; attempt++ {
		reservation, lastErr = s.admitOnce(ctx, property, req, checkIn, checkOut, nights)
		if lastErr == nil {
			break
		}

		if apperrors.IsAppError(lastErr) {
			// Business rejection. Ground truth will not change by
			// retrying immediately.
			return nil, lastErr
		}
		if !errors.Is(lastErr, bookingserrors.ErrLockContended) && !mongotx.IsTransient(lastErr) {
			s.cfg.Log.Error("Admission failed with non-retryable error",
				"property_id", req.PropertyID, "attempt", attempt, "error", lastErr)
			return nil, apperrors.Internal("Failed to create booking", lastErr)
		}

		s.cfg.Log.Warn("Admission attempt contended, retrying",
			"property_id", req.PropertyID, "attempt", attempt, "error", lastErr)

		select {
		case <-ctx.Done():
			return nil, apperrors.Timeout("booking admission cancelled")
		case <-time.After(s.cfg.AdmissionRetryBackoff * time.Duration(attempt)):
		}
	}

	if lastErr != nil {
		return nil, apperrors.RetryExhausted(s.cfg.AdmissionMaxAttempts, lastErr)
	}

	s.cfg.Log.Info("Booking admitted",
		"reservation_id", reservation.ID,
		"reference", reservation.Reference,
		"property_id", reservation.PropertyID,
		"check_in", model.FormatDate(reservation.CheckIn),
		"check_out", model.FormatDate(reservation.CheckOut),
		"status", reservation.Status,
		"total_amount", reservation.TotalAmount,
	)

	s.emitBookingCreated(reservation, actorFor(req))

	return reservation, nil
}

// admitOnce performs one full protocol attempt: lock, transactional
// re-check, price, persist. Returns ErrLockContended or a transient
// transaction error when the caller should retry.
func (s *bookingService) admitOnce(
	ctx context.Context,
	property *model.Property,
	req *model.BookingRequest,
	checkIn, checkOut time.Time,
	nights int,
) (*model.Reservation, error) {
	if _, err := s.locks.Acquire(ctx, property.ID); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.locks.Release(ctx, property.ID); err != nil {
			s.cfg.Log.Error("Failed to release property lock", "property_id", property.ID, "error", err)
		}
	}()

	var reservation *model.Reservation

	err := s.reservations.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Authoritative conflict check. Any advisory result the
		// client saw before submitting is a UX hint only.
		conflicts, err := s.reservations.FindBlockingInRange(sessCtx, property.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.AvailabilityConflict(
				expandBookedDates(conflicts, checkIn, checkOut),
				formatBookedPeriods(conflicts),
			)
		}

		seasonal, err := s.rates.EffectiveRates(sessCtx, property.ID, checkIn, checkOut)
		if err != nil {
			return err
		}

		rate, err := s.calculator.Calculate(property, seasonal, checkIn, checkOut, req.GuestCount)
		if err != nil {
			return err
		}

		status := model.StatusPendingVerification
		if req.Staff {
			status = model.StatusVerified
		}

		reservation = &model.Reservation{
			Reference:      generateReference(checkIn),
			PropertyID:     property.ID,
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			Nights:         nights,
			GuestCount:     req.GuestCount,
			Status:         status,
			Rate:           rate,
			TotalAmount:    rate.TotalAmount,
			CreatedByStaff: req.Staff,
			CreatedBy:      req.CreatedBy,
		}
		if err := s.reservations.Create(sessCtx, reservation); err != nil {
			return err
		}

		guests := buildGuests(reservation.ID, req.Guests)
		if err := s.reservations.CreateGuests(sessCtx, guests); err != nil {
			return err
		}

		actor := actorFor(req)
		if err := s.reservations.CreateAudit(sessCtx, &model.ReservationAudit{
			ReservationID: reservation.ID,
			Action:        model.AuditActionCreated,
			ToStatus:      model.StatusPendingVerification,
			Actor:         actor,
			Note:          req.Note,
		}); err != nil {
			return err
		}
		if req.Staff {
			if err := s.reservations.CreateAudit(sessCtx, &model.ReservationAudit{
				ReservationID: reservation.ID,
				Action:        model.AuditActionVerified,
				FromStatus:    model.StatusPendingVerification,
				ToStatus:      model.StatusVerified,
				Actor:         actor,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// CalculateRate is the advisory pricing path. It is lock-free and
// side-effect free; the authoritative price is recomputed inside the
// admission transaction.
func (s *bookingService) CalculateRate(ctx context.Context, propertyID string, checkIn, checkOut time.Time, guestCount int) (*model.RateCalculation, error) {
	property, err := s.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	seasonal, err := s.rates.EffectiveRates(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return s.calculator.Calculate(property, seasonal, checkIn, checkOut, guestCount)
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err, id)
	}
	return reservation, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.Reservation, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("Reservation reference cannot be empty")
	}

	reservation, err := s.reservations.FindByReference(ctx, reference)
	if err != nil {
		return nil, translateLookupError(err, reference)
	}
	return reservation, nil
}

func (s *bookingService) Guests(ctx context.Context, reservationID string) ([]*model.ReservationGuest, error) {
	if _, err := s.GetByID(ctx, reservationID); err != nil {
		return nil, err
	}

	guests, err := s.reservations.GuestsByReservation(ctx, reservationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load reservation guests", err)
	}
	return guests, nil
}

// TransitionStatus is the only write path for reservation status after
// admission. Every move is checked against the transition table and
// recorded in the audit trail within one transaction.
func (s *bookingService) TransitionStatus(ctx context.Context, id string, to model.ReservationStatus, actor, note string) (*model.Reservation, error) {
	if !to.Valid() {
		return nil, apperrors.InvalidInput("Unknown reservation status: " + string(to))
	}

	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !reservation.Status.CanTransitionTo(to) {
		return nil, apperrors.InvalidTransition(string(reservation.Status), string(to))
	}

	if actor == "" {
		actor = "staff"
	}
	from := reservation.Status

	err = s.reservations.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.reservations.UpdateStatus(sessCtx, reservation.ID, to); err != nil {
			return err
		}
		return s.reservations.CreateAudit(sessCtx, &model.ReservationAudit{
			ReservationID: reservation.ID,
			Action:        model.AuditActionStatusChanged,
			FromStatus:    from,
			ToStatus:      to,
			Actor:         actor,
			Note:          note,
			CreatedAt:     time.Now().UTC(),
		})
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to update reservation status", err)
	}

	s.cfg.Log.Info("Reservation status updated",
		"reservation_id", reservation.ID,
		"from", from,
		"to", to,
		"actor", actor,
	)

	reservation.Status = to
	return reservation, nil
}

func (s *bookingService) ListByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID is required")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.reservations.CountByProperty(ctx, propertyID)
		if errCount != nil {
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.reservations.FindByProperty(ctx, propertyID, limit, offset)
		if errFind != nil {
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

// translateLookupError maps repository lookup failures onto the API
// error vocabulary.
func translateLookupError(err error, identifier string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", identifier)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID: " + identifier)
	default:
		return apperrors.Internal("Failed to load reservation", err)
	}
}

func (s *bookingService) loadProperty(ctx context.Context, propertyID string) (*model.Property, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPropertyNotFound) {
			return nil, apperrors.NotFoundWithID("Property", propertyID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to load property", err)
	}
	return property, nil
}

// emitBookingCreated fires the domain event after the transaction is
// durable. Publish failures are logged, never propagated: the booking
// exists regardless, and retrying here could double-send.
func (s *bookingService) emitBookingCreated(reservation *model.Reservation, actor string) {
	res := *reservation
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		if err := s.publisher.BookingCreated(ctx, &res, actor); err != nil {
			s.cfg.Log.Error("Failed to publish booking created event",
				"reservation_id", res.ID, "error", err)
		}
	}()
}

func buildGuests(reservationID string, inputs []model.BookingGuestInput) []*model.ReservationGuest {
	guests := make([]*model.ReservationGuest, 0, len(inputs))
	for _, input := range inputs {
		guests = append(guests, &model.ReservationGuest{
			ReservationID: reservationID,
			Name:          sanitizer.NormalizeGuestName(input.Name),
			Phone:         sanitizer.NormalizePhone(input.Phone),
			Email:         sanitizer.NormalizeEmail(input.Email),
			ExtraBed:      input.ExtraBed,
		})
	}
	return guests
}

func actorFor(req *model.BookingRequest) string {
	if req.CreatedBy != "" {
		return req.CreatedBy
	}
	if req.Staff {
		return "staff"
	}
	return "guest"
}

// generateReference builds a collision-resistant booking reference.
// The random suffix replaces any shared-counter scheme, which would
// race outside the property lock.
func generateReference(checkIn time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "BK-" + checkIn.Format("20060102") + "-" + suffix
}
