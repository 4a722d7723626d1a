package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/config"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/email"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
)

// Task types handled by the background worker.
const (
	TypeBookingNotify = "booking:notify"
	TypeBookingExpire = "booking:expire"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// BookingNotifyPayload carries what the notification email needs.
type BookingNotifyPayload struct {
	BookingID string `json:"booking_id"`
	Reference string `json:"reference"`
	To        string `json:"to"`
	Name      string `json:"name"`
	Event     string `json:"event"` // "received", "confirmed", "cancelled"
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies task handlers need.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	bookingService services.IBookingService
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, bookingService services.IBookingService) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		bookingService: bookingService,
	}
}

// SetupServer builds the asynq server with the booking task handlers
// registered. Returns nil when no worker should run in this mode.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isBgWorker bool) *asynq.Server {
	if !isBgWorker {
		fmt.Println("Running in API mode, no task server started.")
		return nil
	}

	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)
	return srv
}

// Mux returns the handler mux for the background worker.
func (p *TaskProcessor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingNotify, p.HandleBookingNotifyTask)
	mux.HandleFunc(TypeBookingExpire, p.HandleBookingExpireTask)
	return mux
}

// HandleBookingNotifyTask sends the guest-facing email for a booking event.
func (p *TaskProcessor) HandleBookingNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload BookingNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal booking notify payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		log.Printf("WARN: booking %s has no customer email, skipping notification", payload.BookingID)
		return nil
	}

	var subject, body string
	switch payload.Event {
	case "confirmed":
		subject = fmt.Sprintf("%s booking %s confirmed", p.cfg.AppName, payload.Reference)
		body = fmt.Sprintf("Dear %s,\r\n\r\nYour booking %s is confirmed. We look forward to hosting you.\r\n", payload.Name, payload.Reference)
	case "cancelled":
		subject = fmt.Sprintf("%s booking %s cancelled", p.cfg.AppName, payload.Reference)
		body = fmt.Sprintf("Dear %s,\r\n\r\nYour booking %s has been cancelled.\r\n", payload.Name, payload.Reference)
	default:
		subject = fmt.Sprintf("%s booking request %s received", p.cfg.AppName, payload.Reference)
		body = fmt.Sprintf("Dear %s,\r\n\r\nWe received your booking request %s and will confirm it shortly.\r\n", payload.Name, payload.Reference)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		p.cfg.SmtpFromAddress, payload.To, subject, body))

	if err := p.emailSender.Send(ctx, []string{payload.To}, subject, msg); err != nil {
		return fmt.Errorf("failed to send booking notification for %s: %w", payload.BookingID, err)
	}
	return nil
}

// HandleBookingExpireTask cancels Pending bookings that outlived their hold
// and frees the dates they were sitting on.
func (p *TaskProcessor) HandleBookingExpireTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-p.cfg.PendingBookingTTL)
	expired, err := p.bookingService.ExpireStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("pending booking sweep failed: %w", err)
	}
	if expired > 0 {
		log.Printf("Expired %d stale pending bookings (cutoff %s)", expired, cutoff.Format(time.RFC3339))
	}
	return nil
}

// StartExpiryLoop enqueues a booking:expire task on an interval until the
// context is cancelled. Run alongside the worker process.
func StartExpiryLoop(ctx context.Context, client *asynq.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task := asynq.NewTask(TypeBookingExpire, nil)
			if _, err := client.EnqueueContext(ctx, task); err != nil {
				log.Printf("ERROR enqueuing booking expiry sweep: %v", err)
			}
		}
	}
}
