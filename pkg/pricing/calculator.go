// Package pricing computes the itemized nightly price for a candidate
// stay. Calculate is pure and deterministic: the admission pipeline
// calls it twice (advisory preview, then authoritative inside the
// property lock) and both calls must agree bit for bit.
package pricing

import (
	"fmt"
	"time"

	"innstay/pkg/calendar"
	apperrors "innstay/pkg/errors"
	"innstay/pkg/model"
)

const (
	// Flat VAT applied to the subtotal.
	taxPercent = 11

	// Flat share of the base rate added on fixed holidays. Always
	// stacks; never suppressed by seasonal rates.
	holidayPremiumPercent = 15

	// Long-stay discount tiers, applied to the nightly base total only.
	longStayNights          = 7
	longStayDiscountPercent = 10
	midStayNights           = 3
	midStayDiscountPercent  = 5
)

// Calculator stacks the pricing rules in a fixed order. It holds no
// mutable state; a single instance is shared by all requests.
type Calculator struct {
	holidays calendar.HolidayCalendar
}

func NewCalculator(holidays calendar.HolidayCalendar) *Calculator {
	if holidays == nil {
		holidays = calendar.DefaultHolidays()
	}
	return &Calculator{holidays: holidays}
}

// Calculate prices the half-open interval [checkIn, checkOut) for
// guestCount guests. seasonal maps each date (keyed by YYYY-MM-DD) to
// the single active seasonal rate covering it, or is absent.
//
// Per-night order: base rate, seasonal override, weekend premium,
// holiday premium. A general seasonal rate suppresses the weekend
// premium; a weekends-only one stacks on top of it. The long-stay
// discount applies to the accumulated base amount only, never to
// premiums or fees.
func (c *Calculator) Calculate(
	property *model.Property,
	seasonal map[string]*model.SeasonalRate,
	checkIn, checkOut time.Time,
	guestCount int,
) (*model.RateCalculation, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidRange("check_out must be after check_in")
	}

	nights := model.Nights(checkIn, checkOut)

	calc := &model.RateCalculation{
		Nights:      nights,
		CleaningFee: property.CleaningFee,
		Days:        make([]model.DayRate, 0, nights),
	}

	model.EachNight(checkIn, checkOut, func(d time.Time) {
		day := model.DayRate{
			Date:     model.FormatDate(d),
			Weekend:  model.IsWeekendNight(d),
			Holiday:  c.holidays.IsHoliday(d),
			BaseRate: property.BaseRate,
		}

		dayRate := property.BaseRate

		rate := seasonal[day.Date]
		if rate != nil {
			day.SeasonalRateID = rate.ID
			switch rate.RateType {
			case model.RateTypeFixed:
				day.SeasonalPremium = rate.RateValue - property.BaseRate
				dayRate = rate.RateValue
			case model.RateTypePercentage:
				day.SeasonalPremium = property.BaseRate * rate.RateValue / 100
				dayRate += day.SeasonalPremium
			}
		}

		// A general seasonal override replaces weekend pricing; a
		// weekends-only rate is itself a weekend premium, so the base
		// weekend premium still applies underneath it.
		if day.Weekend && (rate == nil || rate.WeekendsOnly) {
			day.WeekendPremium = property.BaseRate * property.WeekendPremiumPercent / 100
		}

		if day.Holiday {
			day.HolidayPremium = property.BaseRate * holidayPremiumPercent / 100
		}

		day.Amount = dayRate + day.WeekendPremium + day.HolidayPremium

		calc.BaseAmount += dayRate
		calc.SeasonalPremium += day.SeasonalPremium
		calc.WeekendPremium += day.WeekendPremium
		calc.HolidayPremium += day.HolidayPremium
		calc.Days = append(calc.Days, day)
	})

	calc.ExtraBeds = max(0, guestCount-property.Capacity)
	calc.ExtraBedAmount = int64(calc.ExtraBeds) * property.ExtraBedRate * int64(nights)

	switch {
	case nights >= longStayNights:
		calc.MinimumStayDiscount = calc.BaseAmount * longStayDiscountPercent / 100
	case nights >= midStayNights:
		calc.MinimumStayDiscount = calc.BaseAmount * midStayDiscountPercent / 100
	}

	calc.Subtotal = calc.BaseAmount + calc.WeekendPremium + calc.HolidayPremium +
		calc.ExtraBedAmount + calc.CleaningFee - calc.MinimumStayDiscount
	calc.TaxAmount = calc.Subtotal * taxPercent / 100
	calc.TotalAmount = calc.Subtotal + calc.TaxAmount

	calc.Summary = fmt.Sprintf("%d night(s) %s to %s, %d guest(s), total %d",
		nights, model.FormatDate(checkIn), model.FormatDate(checkOut), guestCount, calc.TotalAmount)

	return calc, nil
}

// RequiredMinStay derives the strictest minimum-stay class touched by
// [checkIn, checkOut). Dates under a seasonal rate count as peak; the
// rate's own MinStayNights, when set, overrides the property's peak
// minimum for those dates.
func RequiredMinStay(
	property *model.Property,
	seasonal map[string]*model.SeasonalRate,
	checkIn, checkOut time.Time,
) int {
	required := 0
	model.EachNight(checkIn, checkOut, func(d time.Time) {
		minStay := property.MinStayWeekday
		if model.IsWeekendNight(d) {
			minStay = property.MinStayWeekend
		}
		if rate := seasonal[model.FormatDate(d)]; rate != nil {
			minStay = property.MinStayPeak
			if rate.MinStayNights > 0 {
				minStay = rate.MinStayNights
			}
		}
		if minStay > required {
			required = minStay
		}
	})
	return required
}
