package model

import "time"

// PropertyLock serializes admission attempts for one property. The
// document _id is derived from the property id, so a duplicate-key
// error on insert means another admission holds the lock. ExpiresAt
// backs a TTL index that reclaims locks from crashed holders.
type PropertyLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
