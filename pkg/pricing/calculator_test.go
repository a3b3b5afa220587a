package pricing

import (
	"reflect"
	"testing"
	"time"

	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
)

// 2026-01-09 is a Friday; 2026-01-12 is a Monday; 2026-08-17 is a
// Monday and a fixed holiday.

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testProperty() *model.Property {
	return &model.Property{
		ID:                    "prop-1",
		Name:                  "Villa Cempaka",
		BaseRate:              500000,
		WeekendPremiumPercent: 20,
		CleaningFee:           0,
		ExtraBedRate:          100000,
		Capacity:              4,
		CapacityMax:           8,
		MinStayWeekday:        1,
		MinStayWeekend:        2,
		MinStayPeak:           3,
	}
}

func TestCalculate_InvalidRange(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"equal dates", "2026-01-12", "2026-01-12"},
		{"reversed dates", "2026-01-13", "2026-01-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(property, nil, date(tt.checkIn), date(tt.checkOut), 2)
			if !apperrors.HasCode(err, apperrors.CodeInvalidRange) {
				t.Fatalf("expected INVALID_RANGE, got %v", err)
			}
		})
	}
}

func TestCalculate_WeekendPremium(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	// Friday + Saturday nights.
	result, err := calc.Calculate(property, nil, date("2026-01-09"), date("2026-01-11"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WeekendPremium != 200000 {
		t.Errorf("expected weekend premium 200000, got %d", result.WeekendPremium)
	}
	if result.BaseAmount != 1000000 {
		t.Errorf("expected base amount 1000000, got %d", result.BaseAmount)
	}
	if !result.Days[0].Weekend || !result.Days[1].Weekend {
		t.Errorf("expected both nights flagged weekend: %+v", result.Days)
	}
}

func TestCalculate_NoWeekendPremiumOnWeekdays(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	// Monday + Tuesday nights.
	result, err := calc.Calculate(property, nil, date("2026-01-12"), date("2026-01-14"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WeekendPremium != 0 {
		t.Errorf("expected no weekend premium, got %d", result.WeekendPremium)
	}
}

func TestCalculate_MinimumStayDiscountTiers(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	tests := []struct {
		name     string
		nights   int
		expected int64 // share of base amount
	}{
		{"short stay no discount", 2, 0},
		{"mid stay 5 percent", 3, 500000 * 3 * 5 / 100},
		{"six nights still 5 percent", 6, 500000 * 6 * 5 / 100},
		{"long stay 10 percent", 7, 500000 * 7 * 10 / 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkIn := date("2026-01-12")
			checkOut := checkIn.AddDate(0, 0, tt.nights)

			result, err := calc.Calculate(property, nil, checkIn, checkOut, 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.MinimumStayDiscount != tt.expected {
				t.Errorf("expected discount %d, got %d", tt.expected, result.MinimumStayDiscount)
			}
		})
	}
}

func TestCalculate_DiscountNeverAppliesToPremiums(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()
	property.CleaningFee = 150000

	// Seven nights starting Friday: two weekend nights included.
	result, err := calc.Calculate(property, nil, date("2026-01-09"), date("2026-01-16"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := int64(500000 * 7)
	discount := base * 10 / 100
	subtotal := base + 200000 + 150000 - discount

	if result.MinimumStayDiscount != discount {
		t.Errorf("expected discount %d, got %d", discount, result.MinimumStayDiscount)
	}
	if result.Subtotal != subtotal {
		t.Errorf("expected subtotal %d, got %d", subtotal, result.Subtotal)
	}
}

func TestCalculate_ExtraBeds(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	result, err := calc.Calculate(property, nil, date("2026-01-12"), date("2026-01-14"), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ExtraBeds != 2 {
		t.Errorf("expected 2 extra beds, got %d", result.ExtraBeds)
	}
	if result.ExtraBedAmount != 400000 {
		t.Errorf("expected extra bed amount 400000, got %d", result.ExtraBedAmount)
	}
}

func TestCalculate_NoExtraBedsWithinCapacity(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	result, err := calc.Calculate(property, nil, date("2026-01-12"), date("2026-01-14"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ExtraBeds != 0 || result.ExtraBedAmount != 0 {
		t.Errorf("expected no extra beds, got %d beds / %d", result.ExtraBeds, result.ExtraBedAmount)
	}
}

func TestCalculate_HolidayPremiumStacks(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	// Aug 17 2026 is a Monday, so the premium is purely the holiday's.
	result, err := calc.Calculate(property, nil, date("2026-08-17"), date("2026-08-18"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.HolidayPremium != 75000 {
		t.Errorf("expected holiday premium 75000, got %d", result.HolidayPremium)
	}
	if !result.Days[0].Holiday {
		t.Errorf("expected night flagged holiday: %+v", result.Days[0])
	}

	// Even under a general seasonal override the holiday premium
	// survives, unlike the weekend premium.
	seasonal := map[string]*model.SeasonalRate{
		"2026-08-17": {
			ID:        "rate-1",
			RateType:  model.RateTypeFixed,
			RateValue: 900000,
			Active:    true,
		},
	}
	overridden, err := calc.Calculate(property, seasonal, date("2026-08-17"), date("2026-08-18"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overridden.HolidayPremium != 75000 {
		t.Errorf("expected holiday premium preserved under seasonal override, got %d", overridden.HolidayPremium)
	}
}

func TestCalculate_SeasonalFixedOverride(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	seasonal := map[string]*model.SeasonalRate{
		"2026-01-12": {ID: "rate-1", RateType: model.RateTypeFixed, RateValue: 800000},
	}

	result, err := calc.Calculate(property, seasonal, date("2026-01-12"), date("2026-01-13"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BaseAmount != 800000 {
		t.Errorf("expected base amount 800000, got %d", result.BaseAmount)
	}
	if result.SeasonalPremium != 300000 {
		t.Errorf("expected seasonal premium 300000, got %d", result.SeasonalPremium)
	}
	if result.Days[0].SeasonalRateID != "rate-1" {
		t.Errorf("expected day tagged with seasonal rate: %+v", result.Days[0])
	}
}

func TestCalculate_SeasonalPercentageAddsOnTop(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	seasonal := map[string]*model.SeasonalRate{
		"2026-01-12": {ID: "rate-1", RateType: model.RateTypePercentage, RateValue: 30},
	}

	result, err := calc.Calculate(property, seasonal, date("2026-01-12"), date("2026-01-13"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BaseAmount != 650000 {
		t.Errorf("expected base amount 650000, got %d", result.BaseAmount)
	}
	if result.SeasonalPremium != 150000 {
		t.Errorf("expected seasonal premium 150000, got %d", result.SeasonalPremium)
	}
}

func TestCalculate_GeneralSeasonalSuppressesWeekendPremium(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	// Friday night under a general (non-weekends-only) override.
	seasonal := map[string]*model.SeasonalRate{
		"2026-01-09": {ID: "rate-1", RateType: model.RateTypeFixed, RateValue: 800000},
	}

	result, err := calc.Calculate(property, seasonal, date("2026-01-09"), date("2026-01-10"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WeekendPremium != 0 {
		t.Errorf("expected weekend premium suppressed, got %d", result.WeekendPremium)
	}
}

func TestCalculate_WeekendsOnlySeasonalStacksOnWeekendPremium(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()

	seasonal := map[string]*model.SeasonalRate{
		"2026-01-09": {ID: "rate-1", RateType: model.RateTypePercentage, RateValue: 10, WeekendsOnly: true},
	}

	result, err := calc.Calculate(property, seasonal, date("2026-01-09"), date("2026-01-10"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WeekendPremium != 100000 {
		t.Errorf("expected weekend premium 100000, got %d", result.WeekendPremium)
	}
	if result.SeasonalPremium != 50000 {
		t.Errorf("expected seasonal premium 50000, got %d", result.SeasonalPremium)
	}
}

func TestCalculate_TaxAndTotal(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()
	property.CleaningFee = 200000

	result, err := calc.Calculate(property, nil, date("2026-01-12"), date("2026-01-14"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	subtotal := int64(500000*2 + 200000)
	tax := subtotal * 11 / 100

	if result.Subtotal != subtotal {
		t.Errorf("expected subtotal %d, got %d", subtotal, result.Subtotal)
	}
	if result.TaxAmount != tax {
		t.Errorf("expected tax %d, got %d", tax, result.TaxAmount)
	}
	if result.TotalAmount != subtotal+tax {
		t.Errorf("expected total %d, got %d", subtotal+tax, result.TotalAmount)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	calc := NewCalculator(nil)
	property := testProperty()
	property.CleaningFee = 150000

	seasonal := map[string]*model.SeasonalRate{
		"2026-01-09": {ID: "rate-1", RateType: model.RateTypePercentage, RateValue: 25},
	}

	first, err := calc.Calculate(property, seasonal, date("2026-01-08"), date("2026-01-15"), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := calc.Calculate(property, seasonal, date("2026-01-08"), date("2026-01-15"), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRequiredMinStay(t *testing.T) {
	property := testProperty()

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		seasonal map[string]*model.SeasonalRate
		expected int
	}{
		{
			name:     "weekday only",
			checkIn:  "2026-01-12",
			checkOut: "2026-01-14",
			expected: 1,
		},
		{
			name:     "touches weekend",
			checkIn:  "2026-01-08",
			checkOut: "2026-01-10",
			expected: 2,
		},
		{
			name:     "seasonal date counts as peak",
			checkIn:  "2026-01-12",
			checkOut: "2026-01-14",
			seasonal: map[string]*model.SeasonalRate{
				"2026-01-12": {ID: "rate-1", RateType: model.RateTypeFixed, RateValue: 800000},
			},
			expected: 3,
		},
		{
			name:     "seasonal min stay overrides peak",
			checkIn:  "2026-01-12",
			checkOut: "2026-01-14",
			seasonal: map[string]*model.SeasonalRate{
				"2026-01-12": {ID: "rate-1", RateType: model.RateTypeFixed, RateValue: 800000, MinStayNights: 5},
			},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredMinStay(property, tt.seasonal, date(tt.checkIn), date(tt.checkOut))
			if got != tt.expected {
				t.Errorf("expected min stay %d, got %d", tt.expected, got)
			}
		})
	}
}
