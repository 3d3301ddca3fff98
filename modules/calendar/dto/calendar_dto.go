package dto

// Provider constants
const (
	ProviderGoogle = "google"
	ProviderNylas  = "nylas"
)

// SlotResponse is one bookable slot, unix seconds.
type SlotResponse struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

// AvailabilityResponse is the payload of GET /api/availability.
type AvailabilityResponse struct {
	Date                string         `json:"date"`
	Timezone            string         `json:"timezone"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	Slots               []SlotResponse `json:"slots"`
	OwnerEmail          string         `json:"owner_email"`
}
