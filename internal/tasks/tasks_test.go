package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/tasks"
)

// --- Mocks ---

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
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

// --- Tests ---

func TestHandleBookingNotifyTask_Confirmed(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	cfg := &config.Config{AppName: "Village Machaan", SmtpFromAddress: "bookings@example.com"}
	p := tasks.NewTaskProcessor(cfg, mockEmailSender, nil)

	payloadBytes, _ := json.Marshal(tasks.BookingNotifyPayload{
		BookingID: primitive.NewObjectID().Hex(),
		Reference: "VM-AB12CD34",
		To:        "asha@example.com",
		Name:      "Asha Rao",
		Event:     "confirmed",
	})
	task := asynq.NewTask(tasks.TypeBookingNotify, payloadBytes)

	mockEmailSender.On("Send",
		mock.Anything,
		[]string{"asha@example.com"},
		"Village Machaan booking VM-AB12CD34 confirmed",
		mock.MatchedBy(func(rawMsg []byte) bool {
			msgStr := string(rawMsg)
			assert.Contains(t, msgStr, "To: asha@example.com")
			assert.Contains(t, msgStr, "From: bookings@example.com")
			assert.Contains(t, msgStr, "Dear Asha Rao")
			return true
		}),
	).Return(nil)

	err := p.HandleBookingNotifyTask(context.Background(), task)
	assert.NoError(t, err)
	mockEmailSender.AssertExpectations(t)
}

func TestHandleBookingNotifyTask_NoRecipient(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{}, mockEmailSender, nil)

	payloadBytes, _ := json.Marshal(tasks.BookingNotifyPayload{
		BookingID: primitive.NewObjectID().Hex(),
		Reference: "VM-AB12CD34",
		Event:     "received",
	})
	task := asynq.NewTask(tasks.TypeBookingNotify, payloadBytes)

	err := p.HandleBookingNotifyTask(context.Background(), task)
	assert.NoError(t, err)
	mockEmailSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleBookingNotifyTask_BadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(&config.Config{}, new(MockEmailSender), nil)

	task := asynq.NewTask(tasks.TypeBookingNotify, []byte("{not json"))
	err := p.HandleBookingNotifyTask(context.Background(), task)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "malformed payloads must not be retried")
}

func TestHandleBookingNotifyTask_SendFailureReturnsError(t *testing.T) {
	mockEmailSender := new(MockEmailSender)
	p := tasks.NewTaskProcessor(&config.Config{AppName: "Village Machaan"}, mockEmailSender, nil)

	payloadBytes, _ := json.Marshal(tasks.BookingNotifyPayload{
		BookingID: primitive.NewObjectID().Hex(),
		Reference: "VM-AB12CD34",
		To:        "asha@example.com",
		Name:      "Asha Rao",
		Event:     "received",
	})
	task := asynq.NewTask(tasks.TypeBookingNotify, payloadBytes)

	mockEmailSender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("smtp unreachable"))

	err := p.HandleBookingNotifyTask(context.Background(), task)
	assert.Error(t, err)
	mockEmailSender.AssertExpectations(t)
}

func TestHandleBookingExpireTask(t *testing.T) {
	mockBookingSvc := new(MockBookingService)
	cfg := &config.Config{PendingBookingTTL: time.Hour}
	p := tasks.NewTaskProcessor(cfg, new(MockEmailSender), mockBookingSvc)

	mockBookingSvc.On("ExpireStalePending", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		// Cutoff should sit roughly one TTL in the past
		expected := time.Now().UTC().Add(-cfg.PendingBookingTTL)
		diff := cutoff.Sub(expected)
		return diff > -time.Minute && diff < time.Minute
	})).Return(3, nil)

	task := asynq.NewTask(tasks.TypeBookingExpire, nil)
	err := p.HandleBookingExpireTask(context.Background(), task)
	assert.NoError(t, err)
	mockBookingSvc.AssertExpectations(t)
}
