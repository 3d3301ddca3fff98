package dto

// BookingRequest is the body of POST /api/book. Times are unix seconds.
type BookingRequest struct {
	Slug          string `json:"slug"`
	StartTime     int64  `json:"start_time"`
	EndTime       int64  `json:"end_time"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// BookingResponse confirms a created booking.
type BookingResponse struct {
	Status        string `json:"status"`
	EventID       string `json:"event_id"`
	Title         string `json:"title"`
	StartTime     int64  `json:"start_time"`
	EndTime       int64  `json:"end_time"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}
