package model

import "time"

// Property is owned by the property-management service; the booking
// core only reads it. All money amounts are int64 minor units.
type Property struct {
	ID                    string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name                  string    `json:"name" bson:"name"`
	BaseRate              int64     `json:"base_rate" bson:"base_rate"`
	WeekendPremiumPercent int64     `json:"weekend_premium_percent" bson:"weekend_premium_percent"`
	CleaningFee           int64     `json:"cleaning_fee" bson:"cleaning_fee"`
	ExtraBedRate          int64     `json:"extra_bed_rate" bson:"extra_bed_rate"`
	Capacity              int       `json:"capacity" bson:"capacity"`
	CapacityMax           int       `json:"capacity_max" bson:"capacity_max"`
	MinStayWeekday        int       `json:"min_stay_weekday" bson:"min_stay_weekday"`
	MinStayWeekend        int       `json:"min_stay_weekend" bson:"min_stay_weekend"`
	MinStayPeak           int       `json:"min_stay_peak" bson:"min_stay_peak"`
	CreatedAt             time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}
