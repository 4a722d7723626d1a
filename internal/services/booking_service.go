package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/db"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/utils"
)

// CreateBookingInput is the validated-at-the-boundary payload for a new
// reservation.
type CreateBookingInput struct {
	CottageID       primitive.ObjectID
	PackageID       primitive.ObjectID
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	Customer        models.CustomerInfo
	SpecialRequests string
}

// BookingDetails is a booking joined with its cottage, package and safari
// bookings. Joined entities that have since disappeared surface as nil.
type BookingDetails struct {
	Booking        *models.Booking        `json:"booking"`
	Cottage        *models.Cottage        `json:"cottage"`
	Package        *models.Package        `json:"package"`
	SafariBookings []models.SafariBooking `json:"safariBookings"`
}

// IBookingService orchestrates reservation creation and lifecycle.
type IBookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetBookingDetails(ctx context.Context, id primitive.ObjectID) (*BookingDetails, error)
	UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) (*models.Booking, error)
	ExpireStalePending(ctx context.Context, olderThan time.Time) (int, error)
}

// bookingService implements IBookingService.
type bookingService struct {
	db           *mongo.Database
	cfg          *config.Config
	catalog      ICatalogService
	availability IAvailabilityService
}

// NewBookingService creates a new BookingService.
func NewBookingService(db *mongo.Database, cfg *config.Config, catalog ICatalogService, availability IAvailabilityService) IBookingService {
	return &bookingService{db: db, cfg: cfg, catalog: catalog, availability: availability}
}

func (s *bookingService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

var bookingEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// newBookingReference generates a short, human-quotable reference.
func newBookingReference() string {
	return "VM-" + strings.ToUpper(uuid.NewString()[:8])
}

// validate checks input bounds against the cottage record.
func (s *bookingService) validate(input CreateBookingInput, cottage *models.Cottage) error {
	nights := Nights(input.CheckIn, input.CheckOut)
	if nights < 1 {
		return NewValidationError("checkOutDate", "must be at least one night after checkInDate")
	}
	if s.cfg.MaxStayNights > 0 && nights > s.cfg.MaxStayNights {
		return NewValidationError("checkOutDate", fmt.Sprintf("stay cannot exceed %d nights", s.cfg.MaxStayNights))
	}
	if input.Adults < 1 {
		return NewValidationError("adults", "at least one adult is required")
	}
	if input.Adults > cottage.MaxAdults {
		return NewValidationError("adults", fmt.Sprintf("cottage %s sleeps at most %d adults", cottage.Name, cottage.MaxAdults))
	}
	if input.Children < 0 {
		return NewValidationError("children", "cannot be negative")
	}
	if input.Children > cottage.MaxChildren {
		return NewValidationError("children", fmt.Sprintf("cottage %s allows at most %d children", cottage.Name, cottage.MaxChildren))
	}
	if input.Customer.Name == "" {
		return NewValidationError("customerInfo.name", "is required")
	}
	if !bookingEmailRegex.MatchString(input.Customer.Email) {
		return NewValidationError("customerInfo.email", "is not a valid email address")
	}
	return nil
}

// CreateBooking validates the request, prices the stay, reserves the date
// range and persists the booking. The reservation itself is arbitrated by
// per-date conditional inserts; the pre-check only exists to fail cheap. If
// reserving fails after the booking document is written, the booking is
// compensated away so no booking ever exists without its dates.
func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	cottage, err := s.catalog.GetCottage(ctx, input.CottageID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(input, cottage); err != nil {
		return nil, err
	}
	pkg, err := s.catalog.GetPackage(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}

	quote := PriceStay(cottage, pkg, input.CheckIn, input.CheckOut)

	available, err := s.availability.IsRangeAvailable(ctx, input.CottageID, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrDatesUnavailable
	}

	now := time.Now().UTC()
	stay := utils.NewDateRange(input.CheckIn, input.CheckOut)
	booking := &models.Booking{
		ID:              primitive.NewObjectID(),
		Reference:       newBookingReference(),
		CottageID:       input.CottageID,
		PackageID:       input.PackageID,
		CheckIn:         stay.Start,
		CheckOut:        stay.End,
		Adults:          input.Adults,
		Children:        input.Children,
		TotalCost:       quote.TotalCost,
		Status:          models.BookingPending,
		Customer:        input.Customer,
		PaymentStatus:   models.PaymentPending,
		SpecialRequests: input.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	collection := s.db.Collection(db.BookingsCollection)
	err = db.TryTransient(func() error {
		opCtx, cancel := s.opCtx(ctx)
		defer cancel()
		_, insertErr := collection.InsertOne(opCtx, booking)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking %s: %w", booking.Reference, err)
	}

	if err := s.availability.ReserveRange(ctx, input.CottageID, stay.Start, stay.End, booking.ID); err != nil {
		// The booking must not outlive its failed reservation.
		opCtx, cancel := s.opCtx(ctx)
		defer cancel()
		if _, delErr := collection.DeleteOne(opCtx, bson.M{"_id": booking.ID}); delErr != nil {
			log.Printf("CRITICAL: booking %s persisted without reserved dates and could not be removed: %v",
				booking.ID.Hex(), delErr)
		}
		return nil, err
	}

	return booking, nil
}

// GetBooking fetches a booking by id.
func (s *bookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var booking models.Booking
	err := s.db.Collection(db.BookingsCollection).FindOne(opCtx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding booking %s: %w", id.Hex(), err)
	}
	return &booking, nil
}

// GetBookingDetails joins a booking with its cottage, package and safari
// bookings. Only the booking itself is required to exist.
func (s *bookingService) GetBookingDetails(ctx context.Context, id primitive.ObjectID) (*BookingDetails, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &BookingDetails{Booking: booking, SafariBookings: []models.SafariBooking{}}

	if cottage, err := s.catalog.GetCottage(ctx, booking.CottageID); err == nil {
		details.Cottage = cottage
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if pkg, err := s.catalog.GetPackage(ctx, booking.PackageID); err == nil {
		details.Package = pkg
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "safari_date", Value: 1}})
	cursor, err := s.db.Collection(db.SafariBookingsCollection).Find(opCtx, bson.M{"booking_id": id}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch safari bookings for %s: %w", id.Hex(), err)
	}
	defer cursor.Close(opCtx)
	if err = cursor.All(opCtx, &details.SafariBookings); err != nil {
		return nil, fmt.Errorf("failed to decode safari bookings for %s: %w", id.Hex(), err)
	}

	return details, nil
}

// UpdateBookingStatus moves a booking along the allowed transition table.
// Setting the current status again is an idempotent no-op. Cancelling
// releases the reserved date range.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == status {
		return booking, nil
	}
	if !booking.Status.CanTransition(status) {
		return nil, NewValidationError("status",
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, status))
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	// Filter on the observed status so two concurrent updates cannot both
	// apply conflicting transitions.
	filter := bson.M{"_id": id, "status": booking.Status}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err = s.db.Collection(db.BookingsCollection).FindOneAndUpdate(opCtx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race with another status update; report against the
			// fresh state.
			current, refetchErr := s.GetBooking(ctx, id)
			if refetchErr != nil {
				return nil, refetchErr
			}
			if current.Status == status {
				return current, nil
			}
			return nil, NewValidationError("status",
				fmt.Sprintf("cannot move booking from %s to %s", current.Status, status))
		}
		return nil, fmt.Errorf("failed to update booking %s status: %w", id.Hex(), err)
	}

	if status == models.BookingCancelled {
		if err := s.availability.ReleaseBooking(ctx, id); err != nil {
			log.Printf("WARN: booking %s cancelled but dates not released: %v", id.Hex(), err)
		}
	}

	return &updated, nil
}

// ExpireStalePending cancels Pending bookings created before the cutoff and
// releases their dates. Returns how many bookings were expired.
func (s *bookingService) ExpireStalePending(ctx context.Context, olderThan time.Time) (int, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	filter := bson.M{"status": models.BookingPending, "created_at": bson.M{"$lt": olderThan.UTC()}}
	cursor, err := s.db.Collection(db.BookingsCollection).Find(opCtx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale pending bookings: %w", err)
	}
	var stale []models.Booking
	if err = cursor.All(opCtx, &stale); err != nil {
		return 0, fmt.Errorf("failed to decode stale pending bookings: %w", err)
	}

	expired := 0
	for _, b := range stale {
		if _, err := s.UpdateBookingStatus(ctx, b.ID, models.BookingCancelled); err != nil {
			log.Printf("WARN: failed to expire pending booking %s: %v", b.ID.Hex(), err)
			continue
		}
		expired++
	}
	return expired, nil
}
