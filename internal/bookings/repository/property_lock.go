package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innstay/internal/bookings/errors"
	"innstay/pkg/config"
	"innstay/pkg/model"
)

const LockCollectionName = "PropertyLocks"

// PropertyLockRepository provides the advisory lock that serializes
// admission attempts per property.
type PropertyLockRepository interface {
	Acquire(ctx context.Context, propertyID string) (*model.PropertyLock, error)
	Release(ctx context.Context, propertyID string) error
}

type mongoPropertyLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPropertyLockRepository(cfg *config.Config) PropertyLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(propertyID string) string {
	return "property:" + propertyID
}

// Acquire inserts the lock document. A duplicate-key error means
// another admission holds the lock; callers treat ErrLockContended as
// a retryable condition. ExpiresAt backs a TTL index so crashed
// holders cannot wedge a property forever.
func (r *mongoPropertyLockRepository) Acquire(ctx context.Context, propertyID string) (*model.PropertyLock, error) {
	now := time.Now().UTC()
	lock := &model.PropertyLock{
		ID:        lockID(propertyID),
		ExpiresAt: now.Add(r.cfg.PropertyLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockContended
		}
		return nil, fmt.Errorf("failed to acquire property lock: %w", err)
	}

	return lock, nil
}

func (r *mongoPropertyLockRepository) Release(ctx context.Context, propertyID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(propertyID)})
	if err != nil {
		return fmt.Errorf("failed to release property lock: %w", err)
	}
	return nil
}
