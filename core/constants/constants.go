package constants

import "time"

// Timeouts
const (
	DefaultTimeout  = 10 * time.Second
	StorageTimeout  = 30 * time.Second
	ProviderTimeout = 30 * time.Second
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Booking defaults
const (
	DefaultBusinessHoursStart  = "09:00"
	DefaultBusinessHoursEnd    = "17:00"
	DefaultSlotDurationMinutes = 30
)

// Rate limiting for the public booking endpoint
const (
	RateLimitWindow   = 60 * time.Second
	RateLimitRequests = 10
)

// OAuth
const (
	OAuthStateTTL  = 10 * time.Minute
	ManageTokenTTL = 24 * time.Hour
)

// Outbound throttle for calendar provider calls
const (
	ProviderRequestsPerSecond = 5.0
	ProviderBurstSize         = 10
)
