package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/db"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/utils"
)

// IAvailabilityService is the per-cottage, per-date reservation ledger.
type IAvailabilityService interface {
	IsRangeAvailable(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time) (bool, error)
	ReserveRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error
	ReleaseRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error
	ReleaseBooking(ctx context.Context, bookingID primitive.ObjectID) error
	RecordsForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.AvailabilityRecord, error)
}

// availabilityService implements IAvailabilityService.
type availabilityService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(db *mongo.Database, cfg *config.Config) IAvailabilityService {
	return &availabilityService{db: db, cfg: cfg}
}

// opCtx derives a per-call timeout so a slow store round trip fails fast
// instead of hanging the request.
func (s *availabilityService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// IsRangeAvailable reports whether no day in [checkIn, checkOut) is booked
// for the cottage. Dates are compared at day granularity.
func (s *availabilityService) IsRangeAvailable(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time) (bool, error) {
	r := utils.NewDateRange(checkIn, checkOut)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"cottage_id":   cottageID,
		"is_available": false,
		"date":         bson.M{"$gte": r.Start, "$lt": r.End},
	}
	count, err := s.db.Collection(db.AvailabilityCollection).CountDocuments(opCtx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to query availability for cottage %s: %w", cottageID.Hex(), err)
	}
	return count == 0, nil
}

// ReserveRange writes one record per calendar day in [checkIn, checkOut),
// each insert conditional on the day being free. The unique (cottage_id,
// date) index arbitrates races: if any day is already held, the duplicate key
// error rolls back every day reserved so far for this booking and the whole
// range fails with ErrDatesUnavailable. Transient store failures are retried
// per day; anything else also triggers the rollback.
func (s *availabilityService) ReserveRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error {
	r := utils.NewDateRange(checkIn, checkOut)
	if r.Nights() <= 0 {
		return NewValidationError("checkOutDate", "must be after checkInDate")
	}

	collection := s.db.Collection(db.AvailabilityCollection)
	now := time.Now().UTC()

	err := r.Each(func(day time.Time) error {
		return db.TryTransient(func() error {
			opCtx, cancel := s.opCtx(ctx)
			defer cancel()
			_, insertErr := collection.InsertOne(opCtx, &models.AvailabilityRecord{
				ID:          primitive.NewObjectID(),
				CottageID:   cottageID,
				Date:        day,
				IsAvailable: false,
				BookingID:   bookingID,
				CreatedAt:   now,
			})
			return insertErr
		})
	})
	if err == nil {
		return nil
	}

	// Partial reservation: undo whatever this booking managed to claim
	// before reporting the failure.
	if releaseErr := s.ReleaseRange(ctx, cottageID, checkIn, checkOut, bookingID); releaseErr != nil {
		return fmt.Errorf("failed to roll back partial reservation for booking %s: %v (original: %w)",
			bookingID.Hex(), releaseErr, err)
	}
	if db.IsMongoDuplicateKeyError(err) {
		return ErrDatesUnavailable
	}
	return fmt.Errorf("failed to reserve dates for booking %s: %w", bookingID.Hex(), err)
}

// ReleaseRange deletes this booking's records in [checkIn, checkOut). Days
// held by other bookings are untouched.
func (s *availabilityService) ReleaseRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error {
	r := utils.NewDateRange(checkIn, checkOut)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"cottage_id": cottageID,
		"booking_id": bookingID,
		"date":       bson.M{"$gte": r.Start, "$lt": r.End},
	}
	_, err := s.db.Collection(db.AvailabilityCollection).DeleteMany(opCtx, filter)
	if err != nil {
		return fmt.Errorf("failed to release dates for booking %s: %w", bookingID.Hex(), err)
	}
	return nil
}

// ReleaseBooking drops every availability record a booking holds, regardless
// of cottage or range. Used when cancelling.
func (s *availabilityService) ReleaseBooking(ctx context.Context, bookingID primitive.ObjectID) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.db.Collection(db.AvailabilityCollection).DeleteMany(opCtx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("failed to release booking %s: %w", bookingID.Hex(), err)
	}
	return nil
}

// RecordsForBooking returns the availability records held by a booking,
// oldest date first.
func (s *availabilityService) RecordsForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.AvailabilityRecord, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.db.Collection(db.AvailabilityCollection).Find(opCtx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability records for booking %s: %w", bookingID.Hex(), err)
	}
	defer cursor.Close(opCtx)

	var records []models.AvailabilityRecord
	if err = cursor.All(opCtx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode availability records for booking %s: %w", bookingID.Hex(), err)
	}
	return records, nil
}
