package entity

import (
	"bookinglink/core/entity"

	"github.com/google/uuid"
)

// Notification is an owner-facing record written when a booking lands.
type Notification struct {
	entity.BaseEntity
	OwnerID uuid.UUID `db:"owner_id" json:"owner_id"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
}

func (Notification) TableName() string {
	return "notifications"
}
