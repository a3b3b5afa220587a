package model

import "time"

// ReservationStatus is the single canonical status set. Every overlap
// check, calendar view and workflow write goes through this type.
type ReservationStatus string

const (
	StatusPendingVerification ReservationStatus = "pending_verification"
	StatusVerified            ReservationStatus = "verified"
	StatusPendingPayment      ReservationStatus = "pending_payment"
	StatusPaid                ReservationStatus = "paid"
	StatusCancelled           ReservationStatus = "cancelled"
	StatusCheckedIn           ReservationStatus = "checked_in"
	StatusCheckedOut          ReservationStatus = "checked_out"
)

// ValidStatuses lists every status the workflow recognizes.
var ValidStatuses = []ReservationStatus{
	StatusPendingVerification,
	StatusVerified,
	StatusPendingPayment,
	StatusPaid,
	StatusCancelled,
	StatusCheckedIn,
	StatusCheckedOut,
}

// BlockingStatuses is the canonical set of statuses that count toward
// overlap detection. Every status except cancelled blocks: a submitted
// reservation holds its dates while verification and payment are in
// flight, and past stays keep their history occupied.
var BlockingStatuses = []ReservationStatus{
	StatusPendingVerification,
	StatusVerified,
	StatusPendingPayment,
	StatusPaid,
	StatusCheckedIn,
	StatusCheckedOut,
}

// transitions is the authoritative state machine. cancelled is
// reachable from any non-terminal state; checked_in requires paid.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPendingVerification: {StatusVerified, StatusCancelled},
	StatusVerified:            {StatusPendingPayment, StatusCancelled},
	StatusPendingPayment:      {StatusPaid, StatusCancelled},
	StatusPaid:                {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:           {StatusCheckedOut, StatusCancelled},
	StatusCancelled:           nil,
	StatusCheckedOut:          nil,
}

func (s ReservationStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCheckedOut
}

// CanTransitionTo consults the transition table.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Blocking reports whether this status occupies its date range.
func (s ReservationStatus) Blocking() bool {
	return s != StatusCancelled && s.Valid()
}

// Reservation is a durable, conflict-free hold on [CheckIn, CheckOut)
// for one property. CheckOut is exclusive of occupancy.
type Reservation struct {
	ID             string            `json:"id,omitempty" bson:"_id,omitempty"`
	Reference      string            `json:"reference" bson:"reference"`
	PropertyID     string            `json:"property_id" bson:"property_id"`
	CheckIn        time.Time         `json:"check_in" bson:"check_in"`
	CheckOut       time.Time         `json:"check_out" bson:"check_out"`
	Nights         int               `json:"nights" bson:"nights"`
	GuestCount     int               `json:"guest_count" bson:"guest_count"`
	Status         ReservationStatus `json:"status" bson:"status"`
	Rate           *RateCalculation  `json:"rate,omitempty" bson:"rate,omitempty"`
	TotalAmount    int64             `json:"total_amount" bson:"total_amount"`
	CreatedByStaff bool              `json:"created_by_staff" bson:"created_by_staff"`
	CreatedBy      string            `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
}

// ReservationGuest rows are written in the same transaction as the
// reservation and are exclusively owned by it afterwards.
type ReservationGuest struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationID string    `json:"reservation_id" bson:"reservation_id"`
	Name          string    `json:"name" bson:"name"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	ExtraBed      bool      `json:"extra_bed" bson:"extra_bed"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// ReservationAudit records one workflow step. The admission pipeline
// writes the initial entries; later staff transitions append to the
// same collection.
type ReservationAudit struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty"`
	ReservationID string            `json:"reservation_id" bson:"reservation_id"`
	Action        string            `json:"action" bson:"action"`
	FromStatus    ReservationStatus `json:"from_status,omitempty" bson:"from_status,omitempty"`
	ToStatus      ReservationStatus `json:"to_status" bson:"to_status"`
	Actor         string            `json:"actor" bson:"actor"`
	Note          string            `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
}

const (
	AuditActionCreated       = "created"
	AuditActionVerified      = "verified"
	AuditActionStatusChanged = "status_changed"
)
