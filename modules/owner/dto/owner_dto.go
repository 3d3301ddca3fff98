package dto

// OwnerResponse is the public view of a booking page, safe to render without
// authentication. No token material, no owner id.
type OwnerResponse struct {
	Slug                string `json:"slug"`
	Email               string `json:"email"`
	Provider            string `json:"provider"`
	Timezone            string `json:"timezone"`
	BusinessHoursStart  string `json:"business_hours_start"`
	BusinessHoursEnd    string `json:"business_hours_end"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	ConnectedAt         int64  `json:"connected_at"`
}

// SettingsRequest is the body of POST /api/owner/:slug/settings. Zero-value
// fields are left unchanged.
type SettingsRequest struct {
	Timezone            string `json:"timezone"`
	BusinessHoursStart  string `json:"business_hours_start"`
	BusinessHoursEnd    string `json:"business_hours_end"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
}

// NotificationResponse is one entry of the owner's notification feed.
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}
