package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookinglink/core/errors"
	"bookinglink/core/logger"
	"bookinglink/core/worker"
	"bookinglink/modules/notification/entity"
	"bookinglink/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultListLimit = 50

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) Create(ctx context.Context, ownerID uuid.UUID, title, message string) error {
	return s.notificationRepo.Create(ctx, ownerID, title, message)
}

func (s *NotificationService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Notification, *errors.AppError) {
	notifications, err := s.notificationRepo.ListByOwner(ctx, ownerID, defaultListLimit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list notifications", err)
	}
	return notifications, nil
}

// HandleBookingConfirmed is the asynq handler for booking:confirmed tasks.
// It turns the queued payload into a notification row for the owner.
func (s *NotificationService) HandleBookingConfirmed(ctx context.Context, t *asynq.Task) error {
	var p worker.BookingConfirmedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal booking confirmed payload: %w", err)
	}

	start := time.Unix(p.StartTime, 0).UTC()
	title := "New booking confirmed"
	message := fmt.Sprintf("%s (%s) booked %s for %d minutes",
		p.CustomerName, p.CustomerEmail,
		start.Format(time.RFC3339),
		(p.EndTime-p.StartTime)/60)

	if err := s.notificationRepo.Create(ctx, p.OwnerID, title, message); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	logger.Info("NotificationService:HandleBookingConfirmed", "owner_id", p.OwnerID, "event_id", p.EventID)
	return nil
}
