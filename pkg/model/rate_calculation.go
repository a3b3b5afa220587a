package model

// RateCalculation is the itemized price for one candidate interval.
// It is a value object: immutable once computed and re-derivable at
// any time from property + seasonal-rate state for the same interval.
type RateCalculation struct {
	Nights              int       `json:"nights" bson:"nights"`
	BaseAmount          int64     `json:"base_amount" bson:"base_amount"`
	SeasonalPremium     int64     `json:"seasonal_premium" bson:"seasonal_premium"`
	WeekendPremium      int64     `json:"weekend_premium" bson:"weekend_premium"`
	HolidayPremium      int64     `json:"holiday_premium" bson:"holiday_premium"`
	ExtraBeds           int       `json:"extra_beds" bson:"extra_beds"`
	ExtraBedAmount      int64     `json:"extra_bed_amount" bson:"extra_bed_amount"`
	CleaningFee         int64     `json:"cleaning_fee" bson:"cleaning_fee"`
	MinimumStayDiscount int64     `json:"minimum_stay_discount" bson:"minimum_stay_discount"`
	Subtotal            int64     `json:"subtotal" bson:"subtotal"`
	TaxAmount           int64     `json:"tax_amount" bson:"tax_amount"`
	TotalAmount         int64     `json:"total_amount" bson:"total_amount"`
	Days                []DayRate `json:"days" bson:"days"`
	Summary             string    `json:"summary" bson:"summary"`
}

// DayRate is the per-night breakdown entry.
type DayRate struct {
	Date            string `json:"date" bson:"date"`
	Weekend         bool   `json:"weekend" bson:"weekend"`
	Holiday         bool   `json:"holiday" bson:"holiday"`
	SeasonalRateID  string `json:"seasonal_rate_id,omitempty" bson:"seasonal_rate_id,omitempty"`
	BaseRate        int64  `json:"base_rate" bson:"base_rate"`
	SeasonalPremium int64  `json:"seasonal_premium" bson:"seasonal_premium"`
	WeekendPremium  int64  `json:"weekend_premium" bson:"weekend_premium"`
	HolidayPremium  int64  `json:"holiday_premium" bson:"holiday_premium"`
	Amount          int64  `json:"amount" bson:"amount"`
}
