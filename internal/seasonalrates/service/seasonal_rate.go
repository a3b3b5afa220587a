package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	ratesarrors "innstay/internal/seasonalrates/errors"
	"innstay/internal/seasonalrates/repository"
	"innstay/internal/seasonalrates/validator"
	"innstay/pkg/config"
	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
	"innstay/pkg/sanitizer"
)

// SeasonalRateService owns seasonal-rate rows and the write-time
// non-overlap invariant: no two active rates for one property may have
// intersecting inclusive date ranges.
type SeasonalRateService interface {
	Create(ctx context.Context, rate *model.SeasonalRate) error
	GetByID(ctx context.Context, id string) (*model.SeasonalRate, error)
	ListByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.SeasonalRate, int64, error)
	Update(ctx context.Context, id string, updates *model.SeasonalRateUpdate) (*model.SeasonalRate, error)
	Deactivate(ctx context.Context, id string) error
	EffectiveRates(ctx context.Context, propertyID string, start, end time.Time) (map[string]*model.SeasonalRate, error)
	ValidateNoOverlap(ctx context.Context, propertyID string, start, end time.Time, excludeID string) error
}

type seasonalRateService struct {
	repo      repository.SeasonalRateRepository
	validator *validator.SeasonalRateValidator
	cfg       *config.Config
}

func NewSeasonalRateService(
	repo repository.SeasonalRateRepository,
	validator *validator.SeasonalRateValidator,
	cfg *config.Config,
) SeasonalRateService {
	return &seasonalRateService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *seasonalRateService) Create(ctx context.Context, rate *model.SeasonalRate) error {
	rate.Name = sanitizer.TrimAndNormalize(rate.Name)
	if err := s.validate(rate); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.ValidateNoOverlap(sessCtx, rate.PropertyID, rate.StartDate, rate.EndDate, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, rate); err != nil {
			return apperrors.Internal("Failed to create seasonal rate", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create seasonal rate", "property_id", rate.PropertyID, "error", err)
		return err
	}

	s.cfg.Log.Info("Seasonal rate created",
		"id", rate.ID,
		"property_id", rate.PropertyID,
		"start_date", model.FormatDate(rate.StartDate),
		"end_date", model.FormatDate(rate.EndDate),
	)
	return nil
}

func (s *seasonalRateService) GetByID(ctx context.Context, id string) (*model.SeasonalRate, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seasonal rate ID cannot be empty")
	}

	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ratesarrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Seasonal rate", id)
		}
		if errors.Is(err, ratesarrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid seasonal rate ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve seasonal rate", err)
	}

	return rate, nil
}

func (s *seasonalRateService) ListByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.SeasonalRate, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID is required")
	}

	var count int64
	var rates []*model.SeasonalRate
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProperty(ctx, propertyID, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count seasonal rates", "property_id", propertyID, "error", errCount)
			errCount = apperrors.Internal("Failed to count seasonal rates", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rates, errFind = s.repo.FindByProperty(ctx, propertyID, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list seasonal rates", "property_id", propertyID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve seasonal rates", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rates, count, nil
}

func (s *seasonalRateService) Update(ctx context.Context, id string, updates *model.SeasonalRateUpdate) (*model.SeasonalRate, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, err := s.mergeUpdates(existing, updates)
	if err != nil {
		return nil, err
	}
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// A deactivated rate cannot overlap anything.
		if merged.Active {
			if err := s.ValidateNoOverlap(sessCtx, merged.PropertyID, merged.StartDate, merged.EndDate, id); err != nil {
				return err
			}
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update seasonal rate", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update seasonal rate", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Seasonal rate updated", "id", id)
	return merged, nil
}

func (s *seasonalRateService) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := s.Update(ctx, id, &model.SeasonalRateUpdate{Active: &inactive})
	return err
}

// EffectiveRates maps every date in the half-open range [start, end)
// to the single active rate covering it. Rates are stored
// non-overlapping, so at most one candidate should exist; if integrity
// was ever violated the repository's priority-then-start ordering
// makes the pick deterministic.
func (s *seasonalRateService) EffectiveRates(ctx context.Context, propertyID string, start, end time.Time) (map[string]*model.SeasonalRate, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("Property ID is required")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidRange("end must be after start")
	}

	// The pricing range is half-open; the last priced night is end-1.
	lastNight := end.AddDate(0, 0, -1)

	candidates, err := s.repo.FindActiveIntersecting(ctx, propertyID, start, lastNight, "")
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve seasonal rates", err)
	}

	effective := make(map[string]*model.SeasonalRate)
	model.EachNight(start, end, func(d time.Time) {
		key := model.FormatDate(d)
		for _, rate := range candidates {
			if rate.Contains(d) {
				// Candidates arrive ordered by priority desc then
				// start_date asc; first containing rate wins.
				effective[key] = rate
				break
			}
		}
	})

	return effective, nil
}

func (s *seasonalRateService) ValidateNoOverlap(ctx context.Context, propertyID string, start, end time.Time, excludeID string) error {
	conflicting, err := s.repo.FindActiveIntersecting(ctx, propertyID, start, end, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check seasonal rate overlap", err)
	}

	if len(conflicting) > 0 {
		first := conflicting[0]
		return apperrors.SeasonalRateOverlap(fmt.Sprintf(
			"range intersects active seasonal rate %q (%s to %s)",
			first.Name,
			model.FormatDate(first.StartDate),
			model.FormatDate(first.EndDate),
		))
	}
	return nil
}

func (s *seasonalRateService) mergeUpdates(existing *model.SeasonalRate, updates *model.SeasonalRateUpdate) (*model.SeasonalRate, error) {
	merged := *existing

	if updates.Name != nil {
		merged.Name = sanitizer.TrimAndNormalize(*updates.Name)
	}
	if updates.StartDate != nil {
		d, err := model.ParseDate(*updates.StartDate)
		if err != nil {
			return nil, apperrors.InvalidRange(err.Error())
		}
		merged.StartDate = d
	}
	if updates.EndDate != nil {
		d, err := model.ParseDate(*updates.EndDate)
		if err != nil {
			return nil, apperrors.InvalidRange(err.Error())
		}
		merged.EndDate = d
	}
	if updates.RateType != nil {
		merged.RateType = *updates.RateType
	}
	if updates.RateValue != nil {
		merged.RateValue = *updates.RateValue
	}
	if updates.Priority != nil {
		merged.Priority = *updates.Priority
	}
	if updates.MinStayNights != nil {
		merged.MinStayNights = *updates.MinStayNights
	}
	if updates.WeekendsOnly != nil {
		merged.WeekendsOnly = *updates.WeekendsOnly
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged, nil
}

func (s *seasonalRateService) validate(rate *model.SeasonalRate) error {
	if err := s.validator.Validate(rate); err != nil {
		s.cfg.Log.Warn("Seasonal rate validation failed", "error", err)
		return apperrors.Validation("Seasonal rate validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
