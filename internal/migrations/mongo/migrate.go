package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "innstay/internal/bookings/repository"
	"innstay/internal/migrations/mongo/validators"
	ratesrepo "innstay/internal/seasonalrates/repository"
)

var (
	// ReservationIndexes back the overlap filter
	// (property_id + status + check_in/check_out inequality) and the
	// public lookup by reference.
	ReservationIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "check_in", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "check_out", Value: 1},
		}},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	GuestIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "reservation_id", Value: 1}}},
	}

	AuditIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "reservation_id", Value: 1},
			{Key: "created_at", Value: 1},
		}},
	}

	SeasonalRateIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "active", Value: 1},
			{Key: "start_date", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "priority", Value: -1},
		}},
	}

	// PropertyLockIndexes carry the TTL that reclaims advisory locks
	// abandoned by crashed holders. ExpireAfterSeconds is zero so Mongo
	// removes each document at its own expires_at.
	PropertyLockIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

// CollectionDefinition pairs a collection's indexes with its optional
// schema validator.
type CollectionDefinition struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections is the full migration set, keyed by collection name.
func Collections() map[string]CollectionDefinition {
	return map[string]CollectionDefinition{
		bookingsrepo.ReservationCollectionName: {
			Indexes:   ReservationIndexes,
			Validator: validators.ReservationValidator,
		},
		bookingsrepo.GuestCollectionName: {
			Indexes: GuestIndexes,
		},
		bookingsrepo.AuditCollectionName: {
			Indexes: AuditIndexes,
		},
		ratesrepo.CollectionName: {
			Indexes:   SeasonalRateIndexes,
			Validator: validators.SeasonalRateValidator,
		},
		bookingsrepo.LockCollectionName: {
			Indexes:   PropertyLockIndexes,
			Validator: validators.PropertyLockValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Mongo migrations on database: %s\n", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
