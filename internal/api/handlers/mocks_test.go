package handlers_test

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
)

// --- Mocks ---

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetCottage(ctx context.Context, id primitive.ObjectID) (*models.Cottage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cottage), args.Error(1)
}

func (m *MockCatalogService) GetPackage(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockCatalogService) ListActiveCottages(ctx context.Context) ([]models.Cottage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Cottage), args.Error(1)
}

func (m *MockCatalogService) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Package), args.Error(1)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsRangeAvailable(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, cottageID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityService) ReserveRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error {
	args := m.Called(ctx, cottageID, checkIn, checkOut, bookingID)
	return args.Error(0)
}

func (m *MockAvailabilityService) ReleaseRange(ctx context.Context, cottageID primitive.ObjectID, checkIn, checkOut time.Time, bookingID primitive.ObjectID) error {
	args := m.Called(ctx, cottageID, checkIn, checkOut, bookingID)
	return args.Error(0)
}

func (m *MockAvailabilityService) ReleaseBooking(ctx context.Context, bookingID primitive.ObjectID) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockAvailabilityService) RecordsForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.AvailabilityRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityRecord), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, input services.CreateBookingInput) (*models.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetBookingDetails(ctx context.Context, id primitive.ObjectID) (*services.BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BookingDetails), args.Error(1)
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) ExpireStalePending(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

// MockSafariService
type MockSafariService struct {
	mock.Mock
}

func (m *MockSafariService) CreateSafariBookings(ctx context.Context, bookingID primitive.ObjectID, entries []services.SafariEntry) ([]models.SafariBooking, error) {
	args := m.Called(ctx, bookingID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SafariBooking), args.Error(1)
}

func (m *MockSafariService) UpdateSafariStatus(ctx context.Context, safariID primitive.ObjectID, status models.SafariStatus) (*models.SafariBooking, error) {
	args := m.Called(ctx, safariID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SafariBooking), args.Error(1)
}

func (m *MockSafariService) ListForBooking(ctx context.Context, bookingID primitive.ObjectID) ([]models.SafariBooking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SafariBooking), args.Error(1)
}

func (m *MockSafariService) CreateInquiry(ctx context.Context, input services.SafariInquiryInput) (*models.SafariInquiry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SafariInquiry), args.Error(1)
}

// MockAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}
