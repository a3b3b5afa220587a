package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	ratesarrors "innstay/internal/seasonalrates/errors"
	"innstay/internal/seasonalrates/validator"
	"innstay/pkg/config"
	mongotx "innstay/pkg/db/mongo"
	apperrors "innstay/pkg/errors"
	"innstay/pkg/logger"
	"innstay/pkg/model"
)


// Repository IDs are ObjectID hex strings; the model validates them.
const (
	rateID1     = "64a0b1c2d3e4f5a6b7c8d901"
	rateID2     = "64a0b1c2d3e4f5a6b7c8d902"
	rateIDLow   = "64a0b1c2d3e4f5a6b7c8d903"
	rateIDHigh  = "64a0b1c2d3e4f5a6b7c8d904"
	rateIDEarly = "64a0b1c2d3e4f5a6b7c8d905"
)

type mockSeasonalRateRepository struct {
	rates []*model.SeasonalRate

	createFunc func(ctx context.Context, rate *model.SeasonalRate) error
	updateFunc func(ctx context.Context, id string, rate *model.SeasonalRate) error
}

func (m *mockSeasonalRateRepository) Create(ctx context.Context, rate *model.SeasonalRate) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rate)
	}
	m.rates = append(m.rates, rate)
	return nil
}

func (m *mockSeasonalRateRepository) FindByID(ctx context.Context, id string) (*model.SeasonalRate, error) {
	for _, rate := range m.rates {
		if rate.ID == id {
			return rate, nil
		}
	}
	return nil, ratesarrors.ErrNotFound
}

func (m *mockSeasonalRateRepository) FindByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.SeasonalRate, error) {
	return m.rates, nil
}

func (m *mockSeasonalRateRepository) CountByProperty(ctx context.Context, propertyID string, activeOnly bool) (int64, error) {
	return int64(len(m.rates)), nil
}

func (m *mockSeasonalRateRepository) FindActiveIntersecting(ctx context.Context, propertyID string, start, end time.Time, excludeID string) ([]*model.SeasonalRate, error) {
	var matched []*model.SeasonalRate
	for _, rate := range m.rates {
		if rate.PropertyID != propertyID || !rate.Active || rate.ID == excludeID {
			continue
		}
		if rate.IntersectsInclusive(start, end) {
			matched = append(matched, rate)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].StartDate.Before(matched[j].StartDate)
	})
	return matched, nil
}

func (m *mockSeasonalRateRepository) Update(ctx context.Context, id string, rate *model.SeasonalRate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, rate)
	}
	for i, existing := range m.rates {
		if existing.ID == id {
			updated := *rate
			updated.ID = id
			m.rates[i] = &updated
			return nil
		}
	}
	return ratesarrors.ErrNotFound
}

func (m *mockSeasonalRateRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockSeasonalRateRepository) SeasonalRateService {
	cfg := testConfig()
	return NewSeasonalRateService(repo, validator.NewSeasonalRateValidator(cfg.Log), cfg)
}

func seasonalRate(id, propertyID, start, end string, priority int) *model.SeasonalRate {
	s, err := model.ParseDate(start)
	if err != nil {
		panic(err)
	}
	e, err := model.ParseDate(end)
	if err != nil {
		panic(err)
	}
	return &model.SeasonalRate{
		ID:         id,
		PropertyID: propertyID,
		Name:       "High Season",
		StartDate:  s,
		EndDate:    e,
		RateType:   model.RateTypeFixed,
		RateValue:  800000,
		Priority:   priority,
		Active:     true,
	}
}

func TestCreate_RejectsOverlappingRange(t *testing.T) {
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateID1, "prop-1", "2026-12-20", "2027-01-05", 0),
		},
	}
	svc := newTestService(repo)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"contained", "2026-12-24", "2026-12-26"},
		{"overlapping tail", "2027-01-01", "2027-01-10"},
		{"touching end date", "2027-01-05", "2027-01-12"}, // inclusive ranges share a day
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), seasonalRate("", "prop-1", tt.start, tt.end, 0))
			if !apperrors.HasCode(err, apperrors.CodeSeasonalRateOverlap) {
				t.Fatalf("expected SEASONAL_RATE_OVERLAP, got %v", err)
			}
		})
	}

	if len(repo.rates) != 1 {
		t.Errorf("rejected rates must not persist, got %d", len(repo.rates))
	}
}

func TestCreate_AllowsDisjointAndOtherProperty(t *testing.T) {
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateID1, "prop-1", "2026-12-20", "2027-01-05", 0),
		},
	}
	svc := newTestService(repo)

	if err := svc.Create(context.Background(), seasonalRate("", "prop-1", "2027-01-06", "2027-01-10", 0)); err != nil {
		t.Fatalf("disjoint range rejected: %v", err)
	}
	if err := svc.Create(context.Background(), seasonalRate("", "prop-2", "2026-12-24", "2026-12-26", 0)); err != nil {
		t.Fatalf("other property rejected: %v", err)
	}
}

func TestCreate_SingleDayRangeAllowed(t *testing.T) {
	repo := &mockSeasonalRateRepository{}
	svc := newTestService(repo)

	if err := svc.Create(context.Background(), seasonalRate("", "prop-1", "2026-12-25", "2026-12-25", 0)); err != nil {
		t.Fatalf("single-day rate rejected: %v", err)
	}
}

func TestUpdate_ExcludesSelfFromOverlapCheck(t *testing.T) {
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateID1, "prop-1", "2026-12-20", "2027-01-05", 0),
		},
	}
	svc := newTestService(repo)

	// Shrinking a rate inside its own range must not conflict with
	// itself.
	newEnd := "2026-12-30"
	updated, err := svc.Update(context.Background(), rateID1, &model.SeasonalRateUpdate{EndDate: &newEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.FormatDate(updated.EndDate) != newEnd {
		t.Errorf("expected end date %s, got %s", newEnd, model.FormatDate(updated.EndDate))
	}
}

func TestDeactivate_SkipsOverlapCheck(t *testing.T) {
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateID1, "prop-1", "2026-12-20", "2027-01-05", 0),
			seasonalRate(rateID2, "prop-1", "2027-02-01", "2027-02-10", 0),
		},
	}
	svc := newTestService(repo)

	if err := svc.Deactivate(context.Background(), rateID1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.rates[0].Active {
		t.Error("expected rate deactivated")
	}
}

func TestEffectiveRates(t *testing.T) {
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateID1, "prop-1", "2026-12-20", "2026-12-27", 0),
		},
	}
	svc := newTestService(repo)

	start, _ := model.ParseDate("2026-12-26")
	end, _ := model.ParseDate("2026-12-30")
	effective, err := svc.EffectiveRates(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nights 26-29: only 26 and 27 are covered.
	if len(effective) != 2 {
		t.Fatalf("expected 2 covered dates, got %v", effective)
	}
	for _, date := range []string{"2026-12-26", "2026-12-27"} {
		if effective[date] == nil || effective[date].ID != rateID1 {
			t.Errorf("expected rate-1 to cover %s, got %+v", date, effective[date])
		}
	}
	if effective["2026-12-28"] != nil {
		t.Error("expected no rate past the end date")
	}
}

func TestEffectiveRates_TieBreakByPriorityThenStart(t *testing.T) {
	// Overlapping actives violate the write-time invariant; resolution
	// must still be deterministic.
	repo := &mockSeasonalRateRepository{
		rates: []*model.SeasonalRate{
			seasonalRate(rateIDLow, "prop-1", "2026-12-20", "2026-12-31", 1),
			seasonalRate(rateIDHigh, "prop-1", "2026-12-22", "2026-12-28", 5),
			seasonalRate(rateIDEarly, "prop-1", "2026-12-18", "2026-12-31", 1),
		},
	}
	svc := newTestService(repo)

	start, _ := model.ParseDate("2026-12-22")
	end, _ := model.ParseDate("2026-12-23")
	effective, err := svc.EffectiveRates(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if effective["2026-12-22"] == nil || effective["2026-12-22"].ID != rateIDHigh {
		t.Errorf("expected highest priority to win, got %+v", effective["2026-12-22"])
	}

	// Without the high-priority rate the earliest start wins.
	repo.rates = repo.rates[:1]
	repo.rates = append(repo.rates, seasonalRate(rateIDEarly, "prop-1", "2026-12-18", "2026-12-31", 1))

	effective, err = svc.EffectiveRates(context.Background(), "prop-1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effective["2026-12-22"] == nil || effective["2026-12-22"].ID != rateIDEarly {
		t.Errorf("expected earliest start to win, got %+v", effective["2026-12-22"])
	}
}

func TestEffectiveRates_InvalidRange(t *testing.T) {
	svc := newTestService(&mockSeasonalRateRepository{})

	d, _ := model.ParseDate("2026-12-22")
	_, err := svc.EffectiveRates(context.Background(), "prop-1", d, d)
	if !apperrors.HasCode(err, apperrors.CodeInvalidRange) {
		t.Fatalf("expected INVALID_RANGE, got %v", err)
	}
}
