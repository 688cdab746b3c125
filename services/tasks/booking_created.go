package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbooking/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeBookingCreated = "booking:created"

	// NotificationQueue is the asynq queue booking notifications go through.
	NotificationQueue = "notifications"
)

// BookingCreatedPayload is what the clinic staff notification needs about a new request.
type BookingCreatedPayload struct {
	BookingID string `json:"bookingId"`
	ExpertID  string `json:"expertId"`
	ServiceID string `json:"serviceId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
}

func NewBookingCreatedTask(b *models.Booking) (*asynq.Task, error) {
	payload, err := json.Marshal(BookingCreatedPayload{
		BookingID: b.ID,
		ExpertID:  b.ExpertID,
		ServiceID: b.ServiceID,
		FullName:  b.FirstName + " " + b.LastName,
		Email:     b.Email,
		Phone:     b.Phone,
		Date:      b.Date,
		Time:      b.Time,
		Type:      b.Type,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingCreated, payload), nil
}

// Enqueuer is the part of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands every stored booking to the notification queue.
type QueueNotifier struct {
	Client Enqueuer
}

func (n *QueueNotifier) BookingCreated(ctx context.Context, b *models.Booking) error {
	task, err := NewBookingCreatedTask(b)
	if err != nil {
		return fmt.Errorf("failed to build notification for booking %s: %w", b.ID, err)
	}
	_, err = n.Client.EnqueueContext(ctx, task,
		asynq.Queue(NotificationQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(TypeBookingCreated+":"+b.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification for booking %s: %w", b.ID, err)
	}
	return nil
}

// HandleBookingCreated processes queued booking notifications. Delivery is a
// structured log entry for the clinic's log pipeline.
func HandleBookingCreated(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p BookingCreatedPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("HandleBookingCreated: invalid payload", zap.Error(err))
			return fmt.Errorf("invalid booking notification payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.BookingID == "" {
			return fmt.Errorf("booking notification without booking id: %w", asynq.SkipRetry)
		}

		logger.Info("new booking request",
			zap.String("bookingID", p.BookingID),
			zap.String("expertID", p.ExpertID),
			zap.String("serviceID", p.ServiceID),
			zap.String("client", p.FullName),
			zap.String("email", p.Email),
			zap.String("phone", p.Phone),
			zap.String("date", p.Date),
			zap.String("time", p.Time),
			zap.String("type", p.Type))
		return nil
	}
}
