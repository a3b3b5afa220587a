package model

import "time"

type SeasonalRateType string

const (
	RateTypeFixed      SeasonalRateType = "fixed"
	RateTypePercentage SeasonalRateType = "percentage"
)

// SeasonalRate is a time-bounded override of the nightly price for one
// property. StartDate and EndDate are both inclusive, unlike
// reservation intervals. Active rates for one property must not
// overlap; the rates service enforces that at write time.
type SeasonalRate struct {
	ID           string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID   string           `json:"property_id" bson:"property_id" validate:"required"`
	Name         string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartDate    time.Time        `json:"start_date" bson:"start_date" validate:"required"`
	EndDate      time.Time        `json:"end_date" bson:"end_date" validate:"required"`
	RateType     SeasonalRateType `json:"rate_type" bson:"rate_type" validate:"required,oneof=fixed percentage"`
	RateValue    int64            `json:"rate_value" bson:"rate_value" validate:"required,min=0"`
	Priority     int              `json:"priority" bson:"priority"`
	MinStayNights int             `json:"min_stay_nights,omitempty" bson:"min_stay_nights,omitempty" validate:"omitempty,min=1"`
	WeekendsOnly bool             `json:"weekends_only" bson:"weekends_only"`
	Active       bool             `json:"active" bson:"active"`
	CreatedAt    time.Time        `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Contains reports whether d falls inside the inclusive date range.
func (r *SeasonalRate) Contains(d time.Time) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// IntersectsInclusive tests two inclusive date ranges for overlap.
// This is the seasonal-rate rule, distinct from reservation overlap.
func (r *SeasonalRate) IntersectsInclusive(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}

// SeasonalRateUpdate carries the mutable fields of a rate row.
type SeasonalRateUpdate struct {
	Name          *string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	StartDate     *string           `json:"start_date,omitempty"`
	EndDate       *string           `json:"end_date,omitempty"`
	RateType      *SeasonalRateType `json:"rate_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	RateValue     *int64            `json:"rate_value,omitempty" validate:"omitempty,min=0"`
	Priority      *int              `json:"priority,omitempty"`
	MinStayNights *int              `json:"min_stay_nights,omitempty" validate:"omitempty,min=1"`
	WeekendsOnly  *bool             `json:"weekends_only,omitempty"`
	Active        *bool             `json:"active,omitempty"`
}
