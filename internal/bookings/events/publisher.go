package events

import (
	"context"

	"innstay/pkg/config"
	"innstay/pkg/kafka"
	kafkaconfig "innstay/pkg/kafka/config"
	"innstay/pkg/model"
)

const (
	EventTypeBookingCreated = "booking.created"

	schemaVersion = "1"
	sourceService = "bookings"
)

// BookingCreatedEvent is published after the admission transaction
// commits. A failed admission never produces one.
type BookingCreatedEvent struct {
	ReservationID string `json:"reservation_id"`
	Reference     string `json:"reference"`
	PropertyID    string `json:"property_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Nights        int    `json:"nights"`
	GuestCount    int    `json:"guest_count"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"total_amount"`
	Actor         string `json:"actor,omitempty"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, reservation *model.Reservation, actor string) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	cfg      *config.Config
}

// NewPublisher builds the Kafka-backed publisher, or the no-op one
// when booking events are disabled.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if !cfg.BookingEventsEnabled {
		return &noopPublisher{}, nil
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		return nil, err
	}

	return &kafkaPublisher{producer: producer, cfg: cfg}, nil
}

// BookingCreated keys the message by property id so consumers see all
// events for one property in order.
func (p *kafkaPublisher) BookingCreated(ctx context.Context, reservation *model.Reservation, actor string) error {
	event := BookingCreatedEvent{
		ReservationID: reservation.ID,
		Reference:     reservation.Reference,
		PropertyID:    reservation.PropertyID,
		CheckIn:       model.FormatDate(reservation.CheckIn),
		CheckOut:      model.FormatDate(reservation.CheckOut),
		Nights:        reservation.Nights,
		GuestCount:    reservation.GuestCount,
		Status:        string(reservation.Status),
		TotalAmount:   reservation.TotalAmount,
		Actor:         actor,
	}

	msg := kafka.NewMessage().
		WithKey(reservation.PropertyID).
		WithValue(event).
		WithEventType(EventTypeBookingCreated).
		WithSchemaVersion(schemaVersion).
		WithSource(sourceService).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func (*noopPublisher) BookingCreated(context.Context, *model.Reservation, string) error { return nil }
func (*noopPublisher) Close() error                                                     { return nil }
