package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	ratesarrors "innstay/internal/seasonalrates/errors"
	"innstay/pkg/config"
	mongotx "innstay/pkg/db/mongo"
	"innstay/pkg/model"
)

const (
	CollectionName = "SeasonalRates"
)

type mongoSeasonalRateRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type SeasonalRateRepository interface {
	Create(ctx context.Context, rate *model.SeasonalRate) error
	FindByID(ctx context.Context, id string) (*model.SeasonalRate, error)
	FindByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.SeasonalRate, error)
	CountByProperty(ctx context.Context, propertyID string, activeOnly bool) (int64, error)
	FindActiveIntersecting(ctx context.Context, propertyID string, start, end time.Time, excludeID string) ([]*model.SeasonalRate, error)
	Update(ctx context.Context, id string, rate *model.SeasonalRate) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoSeasonalRateRepository(cfg *config.Config) SeasonalRateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeasonalRateRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are already
// inside a transaction, where wrapping the SessionContext would break
// transaction semantics.
func (r *mongoSeasonalRateRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSeasonalRateRepository) Create(ctx context.Context, rate *model.SeasonalRate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rate.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	rate.UpdatedAt = rate.CreatedAt

	result, err := r.collection.InsertOne(ctx, rate)
	if err != nil {
		return fmt.Errorf("failed to create seasonal rate: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rate.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSeasonalRateRepository) FindByID(ctx context.Context, id string) (*model.SeasonalRate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ratesarrors.ErrInvalidID, id)
	}

	var rate model.SeasonalRate
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratesarrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seasonal rate: %w", err)
	}

	return &rate, nil
}

func (r *mongoSeasonalRateRepository) FindByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.SeasonalRate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"property_id": propertyID}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find seasonal rates: %w", err)
	}
	defer cursor.Close(ctx)

	var rates []*model.SeasonalRate
	if err = cursor.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode seasonal rates: %w", err)
	}

	return rates, nil
}

func (r *mongoSeasonalRateRepository) CountByProperty(ctx context.Context, propertyID string, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"property_id": propertyID}
	if activeOnly {
		filter["active"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count seasonal rates: %w", err)
	}
	return count, nil
}

// FindActiveIntersecting returns active rates whose inclusive
// [start_date, end_date] range intersects [start, end]. Used both for
// write-time overlap enforcement and for effective-rate resolution.
func (r *mongoSeasonalRateRepository) FindActiveIntersecting(ctx context.Context, propertyID string, start, end time.Time, excludeID string) ([]*model.SeasonalRate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"active":      true,
		"start_date":  bson.M{"$lte": end},
		"end_date":    bson.M{"$gte": start},
	}

	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ratesarrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "start_date", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find intersecting seasonal rates: %w", err)
	}
	defer cursor.Close(ctx)

	var rates []*model.SeasonalRate
	if err = cursor.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode seasonal rates: %w", err)
	}

	return rates, nil
}

func (r *mongoSeasonalRateRepository) Update(ctx context.Context, id string, rate *model.SeasonalRate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ratesarrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":            rate.Name,
			"start_date":      rate.StartDate,
			"end_date":        rate.EndDate,
			"rate_type":       rate.RateType,
			"rate_value":      rate.RateValue,
			"priority":        rate.Priority,
			"min_stay_nights": rate.MinStayNights,
			"weekends_only":   rate.WeekendsOnly,
			"active":          rate.Active,
			"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update seasonal rate: %w", err)
	}

	if result.MatchedCount == 0 {
		return ratesarrors.ErrNotFound
	}

	return nil
}

func (r *mongoSeasonalRateRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
