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

	bookingserrors "innstay/internal/bookings/errors"
	"innstay/pkg/config"
	mongotx "innstay/pkg/db/mongo"
	"innstay/pkg/model"
)

const (
	ReservationCollectionName = "Reservations"
	GuestCollectionName       = "ReservationGuests"
	AuditCollectionName       = "ReservationAudit"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	CreateGuests(ctx context.Context, guests []*model.ReservationGuest) error
	CreateAudit(ctx context.Context, entry *model.ReservationAudit) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByReference(ctx context.Context, reference string) (*model.Reservation, error)
	FindBlockingInRange(ctx context.Context, propertyID string, start, end time.Time) ([]*model.Reservation, error)
	FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Reservation, error)
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
	GuestsByReservation(ctx context.Context, reservationID string) ([]*model.ReservationGuest, error)
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg          *config.Config
	db           *mongo.Database
	reservations *mongo.Collection
	guests       *mongo.Collection
	audit        *mongo.Collection
	txManager    mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:          cfg,
		db:           db,
		reservations: db.Collection(ReservationCollectionName),
		guests:       db.Collection(GuestCollectionName),
		audit:        db.Collection(AuditCollectionName),
		txManager:    mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.reservations.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) CreateGuests(ctx context.Context, guests []*model.ReservationGuest) error {
	if len(guests) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(guests))
	for _, guest := range guests {
		guest.CreatedAt = now
		docs = append(docs, guest)
	}

	if _, err := r.guests.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create reservation guests: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) CreateAudit(ctx context.Context, entry *model.ReservationAudit) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.audit.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.reservations.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindByReference(ctx context.Context, reference string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.reservations.FindOne(ctx, bson.M{"reference": reference}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation by reference: %w", err)
	}

	return &reservation, nil
}

// FindBlockingInRange returns reservations in a blocking status whose
// half-open [check_in, check_out) interval overlaps [start, end).
// Back-to-back stays where one check_out equals the next check_in do
// not overlap.
func (r *mongoReservationRepository) FindBlockingInRange(ctx context.Context, propertyID string, start, end time.Time) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": model.BlockingStatuses},
		"check_in":    bson.M{"$lt": end},
		"check_out":   bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})

	cursor, err := r.reservations.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocking reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.reservations.Find(ctx, bson.M{"property_id": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.reservations.CountDocuments(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) GuestsByReservation(ctx context.Context, reservationID string) ([]*model.ReservationGuest, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.guests.Find(ctx, bson.M{"reservation_id": reservationID})
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation guests: %w", err)
	}
	defer cursor.Close(ctx)

	var guests []*model.ReservationGuest
	if err = cursor.All(ctx, &guests); err != nil {
		return nil, fmt.Errorf("failed to decode reservation guests: %w", err)
	}

	return guests, nil
}

func (r *mongoReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.reservations.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
