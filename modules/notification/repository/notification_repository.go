package repository

import (
	"context"

	"bookinglink/core/database"
	"bookinglink/core/logger"
	"bookinglink/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, message string) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]entity.Notification, error)
}

type notificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, ownerID uuid.UUID, title, message string) error {
	query := `
		INSERT INTO notifications (owner_id, title, message)
		VALUES ($1, $2, $3)
	`
	if err := r.db.ExecContext(ctx, query, ownerID, title, message); err != nil {
		logger.Error("NotificationRepository:Create:Error", "error", err, "owner_id", ownerID)
		return err
	}
	return nil
}

func (r *notificationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]entity.Notification, error) {
	query := `
		SELECT id, owner_id, title, message, created_at, updated_at
		FROM notifications
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	notifications := []entity.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, ownerID, limit); err != nil {
		logger.Error("NotificationRepository:ListByOwner:Error", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return notifications, nil
}
