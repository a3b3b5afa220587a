package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "innstay"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Admission protocol knobs.
	DefaultMaxStayNights           = 365
	DefaultAdmissionMaxAttempts    = 5
	DefaultAdmissionRetryBackoff   = 50 * time.Millisecond
	DefaultPropertyLockTTL         = 10 * time.Second
	DefaultAvailabilityHorizonDays = 90

	DefaultBookingEventsEnabled = false
	DefaultBookingEventsTopic   = "innstay.bookings.created"
	DefaultBookingEventsDLQ     = "innstay.bookings.created.dlq"

	DefaultPaginationLimit = 100
)
