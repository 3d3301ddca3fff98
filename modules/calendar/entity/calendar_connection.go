package entity

import (
	"time"

	"bookinglink/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection is the one-per-owner record behind a booking page.
// Token columns hold sealed values; they are decrypted only by the token
// manager at the point of use.
type CalendarConnection struct {
	entity.BaseEntity
	OwnerID             uuid.UUID  `db:"owner_id" json:"owner_id"`
	Slug                string     `db:"slug" json:"slug"`
	Provider            string     `db:"provider" json:"provider"` // "google" | "nylas"
	Email               string     `db:"email" json:"email"`
	AccessToken         string     `db:"access_token" json:"-"`
	RefreshToken        string     `db:"refresh_token" json:"-"`
	TokenExpiresAt      *time.Time `db:"token_expires_at" json:"token_expires_at"`
	Timezone            string     `db:"timezone" json:"timezone"`
	BusinessHoursStart  string     `db:"business_hours_start" json:"business_hours_start"`
	BusinessHoursEnd    string     `db:"business_hours_end" json:"business_hours_end"`
	SlotDurationMinutes int        `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	IsValid             bool       `db:"is_valid" json:"is_valid"`
	ConnectedAt         time.Time  `db:"connected_at" json:"connected_at"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
