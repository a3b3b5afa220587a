package model

// BookingRequest is the admission input. Dates arrive as YYYY-MM-DD
// strings and are parsed before any validation that touches storage.
type BookingRequest struct {
	PropertyID string              `json:"property_id" validate:"required"`
	CheckIn    string              `json:"check_in" validate:"required"`
	CheckOut   string              `json:"check_out" validate:"required"`
	GuestCount int                 `json:"guest_count" validate:"required,min=1"`
	Guests     []BookingGuestInput `json:"guests" validate:"required,min=1,dive"`
	Staff      bool                `json:"staff"`
	CreatedBy  string              `json:"created_by,omitempty"`
	Note       string              `json:"note,omitempty" validate:"omitempty,max=500"`
}

type BookingGuestInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	ExtraBed bool   `json:"extra_bed"`
}
