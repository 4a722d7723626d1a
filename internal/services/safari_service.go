package services

import (
	"context"
	"errors"
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

// SafariEntry is one requested excursion slot.
type SafariEntry struct {
	Date time.Time
	Time string // slot label, e.g. "Morning"
	Type string // optional, defaults to models.DefaultSafariType
}

// SafariInquiryInput is the lead-capture payload.
type SafariInquiryInput struct {
	Name          string
	Email         string
	Phone         string
	PreferredDate time.Time
	PreferredTime string
	Notes         string
	Source        string
}

// ISafariService manages safari sub-bookings and standalone inquiries.
type ISafariService interface {
	CreateSafariBookings(ctx context.Context, bookingID primitive.ObjectID, entries []SafariEntry) ([]models.SafariBooking, error)
	UpdateSafariStatus(ctx context.Context, safariID primitive.ObjectID, status models.SafariStatus) (*models.SafariBooking, error)
	ListForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.SafariBooking, error)
	CreateInquiry(ctx context.Context, input SafariInquiryInput) (*models.SafariInquiry, error)
}

// safariService implements ISafariService.
type safariService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewSafariService creates a new SafariService.
func NewSafariService(db *mongo.Database, cfg *config.Config) ISafariService {
	return &safariService{db: db, cfg: cfg}
}

func (s *safariService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// CreateSafariBookings inserts one Pending safari booking per entry, all
// referencing the parent booking. The parent must exist; safari bookings
// never touch cottage availability.
func (s *safariService) CreateSafariBookings(ctx context.Context, bookingID primitive.ObjectID, entries []SafariEntry) ([]models.SafariBooking, error) {
	if len(entries) == 0 {
		return nil, NewValidationError("safariData", "at least one safari entry is required")
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	count, err := s.db.Collection(db.BookingsCollection).CountDocuments(opCtx, bson.M{"_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking %s: %w", bookingID.Hex(), err)
	}
	if count == 0 {
		return nil, fmt.Errorf("booking %s: %w", bookingID.Hex(), ErrNotFound)
	}

	now := time.Now().UTC()
	safaris := make([]models.SafariBooking, 0, len(entries))
	docs := make([]interface{}, 0, len(entries))
	for i, entry := range entries {
		if entry.Time == "" {
			return nil, NewValidationError(fmt.Sprintf("safariData[%d].time", i), "is required")
		}
		safariType := entry.Type
		if safariType == "" {
			safariType = models.DefaultSafariType
		}
		safari := models.SafariBooking{
			ID:         primitive.NewObjectID(),
			BookingID:  bookingID,
			SafariDate: utils.NormalizeDate(entry.Date),
			SafariTime: entry.Time,
			SafariType: safariType,
			Status:     models.SafariPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		safaris = append(safaris, safari)
		docs = append(docs, safari)
	}

	err = db.TryTransient(func() error {
		insCtx, insCancel := s.opCtx(ctx)
		defer insCancel()
		_, insertErr := s.db.Collection(db.SafariBookingsCollection).InsertMany(insCtx, docs)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert safari bookings for %s: %w", bookingID.Hex(), err)
	}
	return safaris, nil
}

// UpdateSafariStatus overwrites a safari booking's status. Unlike booking
// status there is no transition table; the enum is still closed at the
// boundary.
func (s *safariService) UpdateSafariStatus(ctx context.Context, safariID primitive.ObjectID, status models.SafariStatus) (*models.SafariBooking, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.SafariBooking
	err := s.db.Collection(db.SafariBookingsCollection).
		FindOneAndUpdate(opCtx, bson.M{"_id": safariID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("safari booking %s: %w", safariID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update safari booking %s: %w", safariID.Hex(), err)
	}
	return &updated, nil
}

// ListForBooking returns all safari bookings for a parent booking, earliest
// date first.
func (s *safariService) ListForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.SafariBooking, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "safari_date", Value: 1}})
	cursor, err := s.db.Collection(db.SafariBookingsCollection).Find(opCtx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list safari bookings for %s: %w", bookingID.Hex(), err)
	}
	defer cursor.Close(opCtx)
	var safaris []models.SafariBooking
	if err = cursor.All(opCtx, &safaris); err != nil {
		return nil, fmt.Errorf("failed to decode safari bookings for %s: %w", bookingID.Hex(), err)
	}
	return safaris, nil
}

// CreateInquiry stores a standalone safari lead with status New.
func (s *safariService) CreateInquiry(ctx context.Context, input SafariInquiryInput) (*models.SafariInquiry, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if input.Email == "" && input.Phone == "" {
		return nil, NewValidationError("email", "either email or phone is required")
	}

	inquiry := &models.SafariInquiry{
		ID:            primitive.NewObjectID(),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		PreferredDate: utils.NormalizeDate(input.PreferredDate),
		PreferredTime: input.PreferredTime,
		Notes:         input.Notes,
		Status:        models.InquiryNew,
		Source:        input.Source,
		CreatedAt:     time.Now().UTC(),
	}

	err := db.TryTransient(func() error {
		opCtx, cancel := s.opCtx(ctx)
		defer cancel()
		_, insertErr := s.db.Collection(db.SafariInquiriesCollection).InsertOne(opCtx, inquiry)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert safari inquiry: %w", err)
	}
	return inquiry, nil
}
